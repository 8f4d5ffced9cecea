// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratapulse/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// taskRunner is stopped in Shutdown.
var taskRunner *tasks.Runner

// Startup starts the retention jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	taskRunner = newTaskRunner(appCfg, deps, logger)
	taskRunner.Start()
	return nil
}

func newTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *tasks.Runner {
	r := tasks.New(logger)

	if appCfg.LogRetentionDays > 0 {
		r.Register(tasks.DailyLogRetentionJob(deps.LogWriter, appCfg.LogRetentionDays, logger))
	}
	if deps.Batches != nil && appCfg.LedgerRetention > 0 {
		r.Register(tasks.LedgerRetentionJob(deps.Batches, appCfg.LedgerRetention, logger))
	}
	return r
}
