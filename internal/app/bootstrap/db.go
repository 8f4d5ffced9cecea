// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratapulse/internal/app/store/batches"
	"github.com/dalemusser/stratapulse/internal/app/store/dailylog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB prepares the log directory, starts the daily log writer and,
// when mongo_uri is set, connects the batch ledger.
//
// The log directory is created here once; requests never create it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if err := dailylog.EnsureDir(appCfg.LogDir); err != nil {
		return DBDeps{}, fmt.Errorf("prepare log directory: %w", err)
	}

	writer := dailylog.New(dailylog.Config{
		Dir:       appCfg.LogDir,
		Prefix:    appCfg.LogFilePrefix,
		Ext:       appCfg.LogFileExt,
		QueueSize: appCfg.LogQueueSize,
	}, logger)
	logger.Info("daily log writer started",
		zap.String("dir", appCfg.LogDir),
		zap.Int("queue_size", appCfg.LogQueueSize))

	deps := DBDeps{LogWriter: writer}
	if !appCfg.LedgerEnabled() {
		logger.Info("batch ledger disabled (mongo_uri not set)")
		return deps, nil
	}

	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		writer.Close()
		return DBDeps{}, fmt.Errorf("connect batch ledger: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	deps.MongoClient = client
	deps.MongoDatabase = db
	deps.Batches = batches.New(db)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)
	return deps, nil
}

// EnsureSchema creates the batch ledger indexes. It is a no-op without
// MongoDB.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Batches == nil {
		return nil
	}
	if err := deps.Batches.EnsureIndexes(ctx); err != nil {
		logger.Error("failed to ensure batch ledger indexes", zap.Error(err))
		return err
	}
	logger.Info("batch ledger indexes ensured", zap.String("collection", batches.CollectionName))
	return nil
}
