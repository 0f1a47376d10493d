package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/config"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client is an explicitly constructed document store connection. Callers own
// its lifecycle: Connect once at startup, Close on shutdown.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger logger.Logger
}

// Connect opens the connection and verifies it with a ping
func Connect(ctx context.Context, cfg config.MongoConfig, logger logger.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	logger.Info("Connected to document store", "database", cfg.Database)

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Collection returns a handle to the named collection
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
