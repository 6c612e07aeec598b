// Package autoload initialises the global zerolog logger from LOG_* variables
// when imported for side effects.
package autoload

import (
	configx "github.com/tanpawarit/chative-shopping-assistant/pkg/config"
	logx "github.com/tanpawarit/chative-shopping-assistant/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
