// Package mongodb connects to MongoDB and persists listings.
package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Adapter owns the single MongoDB client shared by every request.
type Adapter struct {
	client   *mongo.Client
	database string
	logger   logger.Logger
	timeout  time.Duration
	mu       sync.RWMutex
	closed   bool
}

// Config configures the MongoDB connection.
type Config struct {
	URL              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("mongodb URL is required")
	}
	if c.Database == "" {
		return fmt.Errorf("mongodb database is required")
	}
	return nil
}

// NewAdapter connects and pings the primary. The client is disconnected again when the ping fails,
// so a returned error leaves nothing open.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("MongoDB connection established", "database", cfg.Database)
	return &Adapter{
		client:   client,
		database: cfg.Database,
		logger:   log,
		timeout:  cfg.OperationTimeout,
	}, nil
}

// Database returns the configured database handle.
func (a *Adapter) Database() *mongo.Database {
	return a.client.Database(a.database)
}

// Collection returns a handle to the named collection of the configured database.
func (a *Adapter) Collection(name string) *mongo.Collection {
	return a.Database().Collection(name)
}

// Listings returns a listing store bound to the named collection.
func (a *Adapter) Listings(collection string) *ListingStore {
	return NewListingStore(a.Collection(collection), a.timeout, a.logger)
}

// Ping checks the primary is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.RLock()
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return fmt.Errorf("mongodb adapter is closed")
	}
	return a.client.Ping(ctx, readpref.Primary())
}

// HealthCheck pings with a 2s bound.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := a.Ping(hcCtx); err != nil {
		a.logger.Error("MongoDB health check failed", "error", err)
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client. Calling it again is a no-op.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	a.logger.Info("MongoDB connection closed")
	return nil
}

// withOperationTimeout bounds ctx by timeout unless the caller already set a deadline.
func withOperationTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

var _ store.Adapter = (*Adapter)(nil)
