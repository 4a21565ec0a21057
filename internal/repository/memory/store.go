// Package memory is the in-process storage backend used for development and tests.
package memory

import (
	"context"
	"sync"
	"time"
)

type claimKey struct {
	network string
	hash    string
}

// Store keeps orders, transaction claims and the catalog behind one mutex.
type Store struct {
	mu sync.RWMutex

	orders      map[string]orderRecord
	licenseKeys map[string]string
	claims      map[claimKey]string
	claimedBy   map[string]claimKey

	products     map[string]productRecord
	productOrder []string
	performance  *performanceRecord

	now func() time.Time
}

func New() *Store {
	return &Store{
		orders:      make(map[string]orderRecord),
		licenseKeys: make(map[string]string),
		claims:      make(map[claimKey]string),
		claimedBy:   make(map[string]claimKey),
		products:    make(map[string]productRecord),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

// TxManager serializes transactional blocks against each other. There is no rollback:
// a block that fails halfway keeps the writes it already made.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}
