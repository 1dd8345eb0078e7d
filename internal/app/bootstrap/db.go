// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/indexes"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB and opens the CV storage backend.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	connectTimeout := timeouts.Long()
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize).
		SetServerSelectionTimeout(connectTimeout)

	start := time.Now()
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool", appCfg.MongoMinPoolSize),
		zap.Duration("took", time.Since(start)))

	db := client.Database(appCfg.MongoDatabase)

	store, err := openStorage(ctx, appCfg)
	if err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("storage init failed", zap.String("type", appCfg.StorageType), zap.Error(err))
		return DBDeps{}, fmt.Errorf("storage: %w", err)
	}
	logger.Info("storage ready", zap.String("backend", store.Backend()))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Gateway:       docstore.NewMongo(db),
		Storage:       store,
	}, nil
}

// EnsureSchema applies collection validators and indexes.
//
// Both steps are idempotent and run on every start. With an in-memory
// gateway there is nothing to do.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		logger.Info("no MongoDB database configured; skipping schema setup")
		return nil
	}

	vctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := validators.EnsureAll(vctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}

	ictx, icancel := context.WithTimeout(ctx, timeouts.Long())
	defer icancel()
	if err := indexes.EnsureAll(ictx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}

	logger.Info("schema ready")
	return nil
}
