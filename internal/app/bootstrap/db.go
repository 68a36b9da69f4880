// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	activitystore "github.com/dalemusser/teamnotes/internal/app/store/activities"
	notestore "github.com/dalemusser/teamnotes/internal/app/store/notes"
	userstore "github.com/dalemusser/teamnotes/internal/app/store/users"
	workspacestore "github.com/dalemusser/teamnotes/internal/app/store/workspaces"
	"github.com/dalemusser/teamnotes/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// connectTimeout bounds the initial MongoDB connect and ping.
const connectTimeout = 10 * time.Second

// ConnectDB establishes the MongoDB connection used by every store.
//
// The client is verified with a ping so that a bad URI or unreachable
// server fails startup instead of surfacing on the first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

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
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the collections, JSON-Schema validators, and
// indexes every store depends on.
//
// The unique index on invite tokens and the unique folded email index
// enforce invariants the application counts on, so startup fails if
// they cannot be created.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("schema validator setup failed", zap.Error(err))
		return fmt.Errorf("ensure validators: %w", err)
	}

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("index creation failed", zap.String("collection", "users"), zap.Error(err))
		return fmt.Errorf("ensure users indexes: %w", err)
	}
	if err := workspacestore.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("index creation failed", zap.String("collection", "workspaces"), zap.Error(err))
		return fmt.Errorf("ensure workspaces indexes: %w", err)
	}
	if err := notestore.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("index creation failed", zap.String("collection", "notes"), zap.Error(err))
		return fmt.Errorf("ensure notes indexes: %w", err)
	}
	if err := activitystore.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("index creation failed", zap.String("collection", "activities"), zap.Error(err))
		return fmt.Errorf("ensure activities indexes: %w", err)
	}

	logger.Info("database indexes ensured")
	return nil
}
