// Package chain routes transaction lookups to the gateway serving each network.
package chain

import (
	"context"
	"fmt"

	"storefront/internal/entities"
	"storefront/internal/service/verification"
)

type Lookup interface {
	Lookup(ctx context.Context, method entities.PaymentMethod, hash string) (*entities.TransactionFacts, error)
}

type Registry struct {
	lookups map[entities.Network]Lookup
}

func NewRegistry() *Registry {
	return &Registry{lookups: make(map[entities.Network]Lookup)}
}

// Register binds a lookup to networks, replacing earlier bindings.
func (r *Registry) Register(lookup Lookup, networks ...entities.Network) *Registry {
	for _, n := range networks {
		r.lookups[n] = lookup
	}
	return r
}

func (r *Registry) Lookup(ctx context.Context, method entities.PaymentMethod, hash string) (*entities.TransactionFacts, error) {
	lookup, ok := r.lookups[method.Network]
	if !ok {
		return nil, fmt.Errorf("%w: %s", verification.ErrUnsupportedNetwork, method.Network)
	}
	return lookup.Lookup(ctx, method, hash)
}
