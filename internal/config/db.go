package config

import (
	"context"
	"fmt"
	"time"

	"opinai/internal/config/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectPostgres creates the pgx pool. pgxpool connects lazily, so this does not
// fail when the server is down; use WaitForStore to find out.
func ConnectPostgres(ctx context.Context, uri string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres configuration: %w", err)
	}
	return pool, nil
}

// ConnectMongo creates the Mongo client and returns the database named in the URI.
// Like pgxpool, the driver dials in the background.
func ConnectMongo(ctx context.Context, cfg *Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.StoreURI))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid mongo configuration: %w", err)
	}
	return client, client.Database(cfg.MongoDatabase()), nil
}

// WaitForStore pings the store until it answers or the attempts run out
func WaitForStore(ctx context.Context, ping func(context.Context) error, maxRetries int, retryInterval time.Duration) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = ping(pingCtx)
		cancel()
		if err == nil {
			zap.L().Info("store connection established")
			return nil
		}
		zap.L().Warn("store not reachable, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_in", retryInterval),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return fmt.Errorf("unable to reach store after %d attempts: %w", maxRetries, err)
}

// RunMigrations applies the embedded schema through goose
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("unable to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	zap.L().Info("migrations applied successfully")
	return nil
}
