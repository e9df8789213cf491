// Package registry remembers which connected account plays each marketplace
// role in the demo, keyed by role.
package registry

import (
	"context"
	"fmt"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/cache"
)

var _ ports.AccountRegistry = (*CacheRegistry)(nil)

const operation = "accounts"

// CacheRegistry stores role -> account id in a cache. Roles with nothing
// stored resolve to the configured defaults.
type CacheRegistry struct {
	cache    cache.Cache
	defaults entity.DemoAccounts
}

// New returns a registry backed by c.
func New(c cache.Cache, defaults entity.DemoAccounts) *CacheRegistry {
	return &CacheRegistry{cache: c, defaults: defaults}
}

// Get returns the stored accounts, filling gaps from the defaults.
func (r *CacheRegistry) Get(ctx context.Context) (entity.DemoAccounts, error) {
	out := r.defaults

	restaurant, err := r.cache.Get(ctx, r.cache.GenerateKey(operation, string(entity.AccountTypeRestaurant)))
	if err != nil {
		return out, fmt.Errorf("registry: get restaurant account: %w", err)
	}
	courier, err := r.cache.Get(ctx, r.cache.GenerateKey(operation, string(entity.AccountTypeCourier)))
	if err != nil {
		return out, fmt.Errorf("registry: get courier account: %w", err)
	}

	if restaurant != "" {
		out.RestaurantAccountID = restaurant
	}
	if courier != "" {
		out.CourierAccountID = courier
	}
	return out, nil
}

// Put records accountID for role. Entries do not expire.
func (r *CacheRegistry) Put(ctx context.Context, role entity.AccountType, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("%w: empty account id", entity.ErrInvalidRequest)
	}
	if err := r.cache.Set(ctx, r.cache.GenerateKey(operation, string(role)), accountID, 0); err != nil {
		return fmt.Errorf("registry: put %s account: %w", role, err)
	}
	return nil
}
