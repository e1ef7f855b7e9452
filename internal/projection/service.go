package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aevon-lab/stockpulse/internal/cache"
	"github.com/aevon-lab/stockpulse/internal/core/inventory"
	"github.com/aevon-lab/stockpulse/internal/ratelimit"
)

// ErrMissingIdentity is returned when a request reaches the pipeline without
// a client identity.
var ErrMissingIdentity = errors.New("missing client identity")

const outstandingKeyPrefix = "po:"

// Resolver produces stock snapshots from the aggregation source.
type Resolver interface {
	ResolveOne(ctx context.Context, sku string) (inventory.Snapshot, error)
	ResolveAll(ctx context.Context) ([]inventory.Snapshot, error)
	Outstanding(ctx context.Context, sku string) ([]inventory.OutstandingLine, error)
}

// Service is the request pipeline: rate governor, then snapshot cache,
// then the resolver on a miss.
type Service struct {
	resolver Resolver
	cache    *cache.Cache
	governor *ratelimit.Governor
	ttl      time.Duration
}

// NewService creates the pipeline. A non-positive ttl uses cache.DefaultTTL.
func NewService(resolver Resolver, snapshots *cache.Cache, governor *ratelimit.Governor, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		resolver: resolver,
		cache:    snapshots,
		governor: governor,
		ttl:      ttl,
	}
}

// admit runs the governor. A rejected request never reaches the cache.
func (s *Service) admit(clientID string) (ratelimit.Decision, error) {
	if clientID == "" {
		return ratelimit.Decision{}, ErrMissingIdentity
	}
	d := s.governor.Admit(clientID, s.governor.Now())
	return d, d.Err(clientID)
}

// Stock returns the snapshot for one SKU.
func (s *Service) Stock(ctx context.Context, clientID, sku string) (inventory.Snapshot, ratelimit.Decision, error) {
	d, err := s.admit(clientID)
	if err != nil {
		return inventory.Snapshot{}, d, err
	}
	if err := inventory.ValidateSKU(sku); err != nil {
		return inventory.Snapshot{}, d, err
	}

	v, err := s.cache.GetOrCompute(ctx, sku, s.ttl, func(ctx context.Context) (any, error) {
		return s.resolver.ResolveOne(ctx, sku)
	})
	if err != nil {
		return inventory.Snapshot{}, d, unavailableIfDeadline(err)
	}
	return v.(inventory.Snapshot), d, nil
}

// Catalog returns every product's snapshot.
func (s *Service) Catalog(ctx context.Context, clientID string) ([]inventory.Snapshot, ratelimit.Decision, error) {
	d, err := s.admit(clientID)
	if err != nil {
		return nil, d, err
	}

	v, err := s.cache.GetOrCompute(ctx, cache.AllKey, s.ttl, s.computeCatalog)
	if err != nil {
		return nil, d, unavailableIfDeadline(err)
	}
	return v.([]inventory.Snapshot), d, nil
}

// Outstanding returns the qualifying purchase-order lines for one SKU.
func (s *Service) Outstanding(ctx context.Context, clientID, sku string) ([]inventory.OutstandingLine, ratelimit.Decision, error) {
	d, err := s.admit(clientID)
	if err != nil {
		return nil, d, err
	}
	if err := inventory.ValidateSKU(sku); err != nil {
		return nil, d, err
	}

	v, err := s.cache.GetOrCompute(ctx, outstandingKeyPrefix+sku, s.ttl, func(ctx context.Context) (any, error) {
		return s.resolver.Outstanding(ctx, sku)
	})
	if err != nil {
		return nil, d, unavailableIfDeadline(err)
	}
	return v.([]inventory.OutstandingLine), d, nil
}

// RefreshCatalog recomputes the catalog entry regardless of its freshness.
func (s *Service) RefreshCatalog(ctx context.Context) error {
	_, err := s.cache.Refresh(ctx, cache.AllKey, s.ttl, s.computeCatalog)
	return err
}

func (s *Service) computeCatalog(ctx context.Context) (any, error) {
	return s.resolver.ResolveAll(ctx)
}

// Invalidate drops every cached entry that includes sku.
func (s *Service) Invalidate(sku string) error {
	if err := inventory.ValidateSKU(sku); err != nil {
		return err
	}
	s.cache.Invalidate(sku)
	s.cache.Invalidate(outstandingKeyPrefix + sku)
	s.cache.Invalidate(cache.AllKey)
	return nil
}

// InvalidateAll drops every cached entry.
func (s *Service) InvalidateAll() {
	s.cache.InvalidateAll()
}

// unavailableIfDeadline turns a caller-side deadline into a service-level
// failure; everything else is returned as is.
func unavailableIfDeadline(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, inventory.ErrSourceUnavailable) {
		return fmt.Errorf("%w: %w", inventory.ErrSourceUnavailable, err)
	}
	return err
}
