package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okian/mindset-tracker/internal/adapters/repository"
	"github.com/okian/mindset-tracker/internal/config"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// openStore builds the record store selected by cfg.StoreDriver and wraps
// it with latency metrics. The returned close func releases client
// resources and is never nil.
func openStore(ctx context.Context, cfg *config.Config, tables repository.Tables, log logger.Logger) (repository.Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn(ctx, "using in-memory store; data is lost on restart")
		return repository.Instrument(repository.NewMemoryStore()), noop, nil

	case config.StoreDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, noop, fmt.Errorf("load aws config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		log.Info(ctx, "using dynamodb store",
			logger.String("region", cfg.AWSRegion),
			logger.String("endpoint", cfg.DynamoDBEndpoint))
		return repository.Instrument(repository.NewDynamoStore(client)), noop, nil

	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, noop, fmt.Errorf("connect mongo: %w", err)
		}
		store := repository.NewMongoStore(client.Database(cfg.MongoDatabase))
		if err := store.EnsureIndexes(ctx, tables.All()...); err != nil {
			_ = client.Disconnect(ctx)
			return nil, noop, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		log.Info(ctx, "using mongo store", logger.String("database", cfg.MongoDatabase))
		return repository.Instrument(store), client.Disconnect, nil
	}

	return nil, noop, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.StoreDriver)
}

// tablesFrom maps the configured table names onto the store layout.
func tablesFrom(cfg *config.Config) repository.Tables {
	return repository.NewTables(
		cfg.TableParticipants,
		cfg.TableAssessments,
		cfg.TableAuditLog,
		cfg.TableNotes,
		cfg.TableOrgUnits,
	)
}
