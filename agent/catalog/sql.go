package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrationsFS embed.FS

type Config struct {
	Driver      string `envconfig:"DRIVER" split_words:"true" default:"sqlite"`
	DSN         string `envconfig:"DSN" split_words:"true" default:"file:shop.db"`
	Migrate     bool   `envconfig:"MIGRATE" split_words:"true" default:"true"`
	SearchLimit int    `envconfig:"SEARCH_LIMIT" split_words:"true" default:"10"`
}

type productRow struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64           `bun:"id,pk,autoincrement"`
	Title       string          `bun:"title,notnull"`
	Description string          `bun:"description,notnull"`
	Category    string          `bun:"category,notnull"`
	Brand       string          `bun:"brand,notnull"`
	Price       decimal.Decimal `bun:"price,type:decimal(10,2),notnull"`
	Stock       int             `bun:"stock,notnull"`
}

func (r productRow) toProduct() Product {
	return Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Brand:       r.Brand,
		Price:       r.Price,
		Stock:       r.Stock,
	}
}

// SQLReader reads products through bun from sqlite or postgres.
type SQLReader struct {
	db     *bun.DB
	driver string
}

var _ Reader = (*SQLReader)(nil)

func Open(ctx context.Context, cfg Config) (*SQLReader, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("catalog dsn is required")
	}

	var db *bun.DB
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite catalog: %w", err)
		}
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			// every pooled connection would otherwise see its own empty database
			sqldb.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}

	r := &SQLReader{db: db, driver: driver}
	if cfg.Migrate {
		if err := r.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return r, nil
}

// Migrate applies the embedded schema and seed migrations for the reader's dialect.
func (r *SQLReader) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations/"+r.driver)
	if err != nil {
		return fmt.Errorf("could not open migration source: %w", err)
	}

	var dbDriver database.Driver
	switch r.driver {
	case DriverSQLite:
		dbDriver, err = migratesqlite.WithInstance(r.db.DB, &migratesqlite.Config{})
	case DriverPostgres:
		dbDriver, err = migratepg.WithInstance(r.db.DB, &migratepg.Config{})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, r.driver, dbDriver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (r *SQLReader) Search(ctx context.Context, f Filters, limit int) ([]Product, error) {
	n := f.Normalize()
	limit = clampLimit(limit, DefaultSearchLimit)

	var rows []productRow
	q := r.db.NewSelect().Model(&rows).OrderExpr("p.id ASC").Limit(limit)
	if n.Title != "" {
		q = q.Where(`LOWER(p.title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(n.Title))+"%")
	}
	if n.Category != "" {
		q = q.Where("LOWER(p.category) = ?", strings.ToLower(n.Category))
	}
	if n.Brand != "" {
		q = q.Where("LOWER(p.brand) = ?", strings.ToLower(n.Brand))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return toProducts(rows), nil
}

func (r *SQLReader) Get(ctx context.Context, id int64) (Product, error) {
	var row productRow
	err := r.db.NewSelect().Model(&row).Where("p.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}
	if err != nil {
		return Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return row.toProduct(), nil
}

func (r *SQLReader) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.NewSelect().
		Model((*productRow)(nil)).
		ColumnExpr("DISTINCT p.category").
		OrderExpr("p.category ASC").
		Scan(ctx, &categories)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return categories, nil
}

func (r *SQLReader) Recommend(ctx context.Context, id int64, limit int) ([]Product, error) {
	base, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, DefaultRecommendLimit)

	var rows []productRow
	err = r.db.NewSelect().
		Model(&rows).
		Where("(p.category = ? OR p.brand = ?)", base.Category, base.Brand).
		Where("p.id != ?", base.ID).
		OrderExpr("p.id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	return toProducts(rows), nil
}

func (r *SQLReader) Close() error {
	return r.db.Close()
}

func toProducts(rows []productRow) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
