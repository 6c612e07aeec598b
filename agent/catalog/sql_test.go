package catalog

import (
	"context"
	"testing"
)

func openTestSQLReader(t *testing.T) *SQLReader {
	t.Helper()

	r, err := Open(context.Background(), Config{
		Driver:  DriverSQLite,
		DSN:     ":memory:",
		Migrate: true,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLReaderSeededCatalog(t *testing.T) {
	t.Parallel()
	readerContract(t, openTestSQLReader(t))
}

func TestSQLReaderMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	r := openTestSQLReader(t)
	if err := r.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	got, err := r.Search(context.Background(), Filters{Title: "Essence Mascara"}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(Search()) = %d, want 1 after re-migrate", len(got))
	}
}

func TestSQLReaderLikeWildcardsAreLiteral(t *testing.T) {
	t.Parallel()

	r := openTestSQLReader(t)
	got, err := r.Search(context.Background(), Filters{Title: "%"}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Search(%%) = %d products, want 0", len(got))
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
