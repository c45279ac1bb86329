// Package autoload initializes the global logger from the LOG_* environment
// on import. Import for side effects from main.
package autoload

import (
	configx "github.com/fairmontlabs/advisor-assistant/pkg/config"
	logx "github.com/fairmontlabs/advisor-assistant/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
