package elastic

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/charging-catalog/internal/config"
)

// Client wraps the Elasticsearch client together with the index it
// operates on. PostgreSQL stays the source of truth; the index is a
// derived, search-optimised projection.
type Client struct {
	es     *elasticsearch.Client
	index  string
	logger *zap.Logger
}

func New(cfg *config.ElasticConfig, logger *zap.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	res, err := es.Info(es.Info.WithContext(context.Background()))
	if err != nil {
		return nil, fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}

	logger.Info("Elasticsearch connected",
		zap.Strings("addresses", cfg.Addresses),
		zap.String("index", cfg.LocationIndex),
	)

	return &Client{
		es:     es,
		index:  cfg.LocationIndex,
		logger: logger,
	}, nil
}
