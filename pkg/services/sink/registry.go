package sink

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/services/config"
)

// Sink receives a freshly computed allocation table.
type Sink interface {
	Write(ctx context.Context, rows []domain.OutputRow) error
	Close() error
}

// Factory builds a Sink for one platform from the sink configuration.
type Factory func(ctx context.Context, cfg config.SinkConfig) (Sink, error)

// Registry manages sink factories by platform name.
type Registry interface {
	Register(platform string, factory Factory) error
	Create(ctx context.Context, platform string, cfg config.SinkConfig) (Sink, error)
	ListPlatforms() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry(factories map[string]Factory) (Registry, error) {
	r := &registry{
		factories: make(map[string]Factory),
	}
	for platform, factory := range factories {
		if err := r.Register(platform, factory); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewDefaultRegistry registers every built-in sink.
func NewDefaultRegistry(duckdbOpts DuckDBOptions) Registry {
	r, _ := NewRegistry(map[string]Factory{
		PlatformDuckDB:     NewDuckDBFactory(duckdbOpts),
		PlatformDatabricks: DatabricksFactory,
		PlatformSnowflake:  SnowflakeFactory,
		PlatformS3:         S3Factory,
	})
	return r
}

func (r *registry) Register(platform string, factory Factory) error {
	if platform == "" {
		return fmt.Errorf("platform name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[platform]; exists {
		return fmt.Errorf("platform %q is already registered", platform)
	}

	r.factories[platform] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, platform string, cfg config.SinkConfig) (Sink, error) {
	r.mu.RLock()
	factory, exists := r.factories[platform]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("platform %q is not registered", platform)
	}

	return factory(ctx, cfg)
}

func (r *registry) ListPlatforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.factories))
	for platform := range r.factories {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	return platforms
}
