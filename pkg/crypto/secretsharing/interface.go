// Package secretsharing provides a unified interface over threshold secret
// sharing schemes so sessions can record exactly which scheme produced a
// result and future schemes can be added without touching the engine.
package secretsharing

import (
	"fmt"
	"math/big"

	"github.com/privamed/smpc/pkg/crypto/shamir"
)

// SchemeType identifies a secret sharing scheme and version. It is
// persisted on every computation result as its security_method tag.
type SchemeType string

const (
	// SchemeShamirThreshold is prime-field Shamir threshold sharing.
	SchemeShamirThreshold SchemeType = "shamir-threshold-v1"
)

// SecretSharer defines the operations the aggregation engine needs from a
// sharing scheme. Shares are field elements, so the scheme must support
// local additive combination of share sets.
type SecretSharer interface {
	// Split splits a field element into parts shares with the given threshold.
	Split(secret *big.Int, parts, threshold int) ([]shamir.Share, error)

	// Combine reconstructs a field element from at least threshold shares.
	Combine(shares []shamir.Share, threshold int) (*big.Int, error)

	// SumShares combines share sets index-wise into a sharing of the sum.
	SumShares(sets ...[]shamir.Share) ([]shamir.Share, error)

	// FieldOrder returns the modulus share values live in.
	FieldOrder() *big.Int

	// Scheme returns the scheme identifier.
	Scheme() SchemeType
}

// Registry manages available secret sharing implementations.
type Registry struct {
	sharers map[SchemeType]SecretSharer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sharers: make(map[SchemeType]SecretSharer)}
}

// Register registers a sharer implementation.
func (r *Registry) Register(sharer SecretSharer) {
	r.sharers[sharer.Scheme()] = sharer
}

// Get retrieves a sharer for the given scheme.
func (r *Registry) Get(scheme SchemeType) (SecretSharer, error) {
	sharer, exists := r.sharers[scheme]
	if !exists {
		return nil, fmt.Errorf("unsupported scheme: %s", scheme)
	}
	return sharer, nil
}

// ListSchemes returns all registered scheme identifiers.
func (r *Registry) ListSchemes() []SchemeType {
	schemes := make([]SchemeType, 0, len(r.sharers))
	for scheme := range r.sharers {
		schemes = append(schemes, scheme)
	}
	return schemes
}

// DefaultRegistry holds the schemes compiled into this binary.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(NewShamirSharer())
}
