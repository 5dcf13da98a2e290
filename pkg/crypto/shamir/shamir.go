// Package shamir implements threshold secret sharing over a prime field.
//
// Secrets are field elements. Splitting samples a random polynomial of
// degree threshold-1 with the secret as constant term and hands each party
// the evaluation at its index; any threshold evaluations recover the secret
// by Lagrange interpolation at x=0, fewer reveal nothing.
//
// Because shares are plain field elements, the scheme is additively
// homomorphic: shares of different secrets at the same index can be summed
// before a single reconstruction, which is what the aggregation layer
// relies on.
package shamir

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
)

var (
	// ErrInsufficientShares is returned when fewer than threshold distinct
	// party indices are available for reconstruction.
	ErrInsufficientShares = errors.New("insufficient shares for reconstruction")
	// ErrDuplicateShare is returned when two shares claim the same party
	// index with different values.
	ErrDuplicateShare = errors.New("conflicting shares at the same party index")
)

// fieldOrder is the Mersenne prime 2^127 - 1. It comfortably holds the
// fixed-point domain plus headroom for sums over many parties.
var fieldOrder, _ = new(big.Int).SetString("170141183460469231731687303715884105727", 10)

// FieldOrder returns the prime modulus shares are computed over.
func FieldOrder() *big.Int {
	return new(big.Int).Set(fieldOrder)
}

// Share is a single polynomial evaluation held by one party.
type Share struct {
	Index int      `json:"index"`
	Value *big.Int `json:"value"`
}

// Config describes how a secret is split.
type Config struct {
	Parts     int
	Threshold int
}

func (c *Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", c.Threshold)
	}
	if c.Parts < 1 {
		return fmt.Errorf("parts must be at least 1, got %d", c.Parts)
	}
	if c.Threshold > c.Parts {
		return fmt.Errorf("threshold (%d) cannot be greater than parts (%d)", c.Threshold, c.Parts)
	}
	return nil
}

// Split produces cfg.Parts shares of secret such that any cfg.Threshold of
// them reconstruct it exactly. The secret must already be reduced into the
// field, i.e. 0 <= secret < FieldOrder().
func Split(secret *big.Int, cfg Config) ([]Share, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret cannot be nil")
	}
	if secret.Sign() < 0 || secret.Cmp(fieldOrder) >= 0 {
		return nil, fmt.Errorf("secret outside field range")
	}

	// Random polynomial with the secret as constant term.
	poly := make([]*big.Int, cfg.Threshold)
	poly[0] = new(big.Int).Set(secret)
	for i := 1; i < cfg.Threshold; i++ {
		coeff, err := rand.Int(rand.Reader, fieldOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to sample coefficient: %w", err)
		}
		poly[i] = coeff
	}

	shares := make([]Share, cfg.Parts)
	for i := 0; i < cfg.Parts; i++ {
		x := big.NewInt(int64(i + 1))
		shares[i] = Share{Index: i + 1, Value: evalPoly(poly, x)}
	}

	return shares, nil
}

func evalPoly(poly []*big.Int, x *big.Int) *big.Int {
	result := big.NewInt(0)
	xPow := big.NewInt(1)
	for _, coeff := range poly {
		term := new(big.Int).Mul(coeff, xPow)
		result.Add(result, term)
		result.Mod(result, fieldOrder)

		xPow.Mul(xPow, x)
		xPow.Mod(xPow, fieldOrder)
	}
	return result
}

// Combine reconstructs the secret from at least threshold shares by
// Lagrange interpolation at x=0. Exact duplicates are collapsed;
// conflicting values at one index fail with ErrDuplicateShare, and fewer
// than threshold distinct indices fail with ErrInsufficientShares rather
// than interpolating a plausible-looking wrong value.
func Combine(shares []Share, threshold int) (*big.Int, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("threshold must be at least 1, got %d", threshold)
	}

	distinct := make(map[int]*big.Int, len(shares))
	for _, s := range shares {
		if s.Index < 1 {
			return nil, fmt.Errorf("share index must be positive, got %d", s.Index)
		}
		if s.Value == nil {
			return nil, fmt.Errorf("share %d has no value", s.Index)
		}
		if existing, ok := distinct[s.Index]; ok {
			if existing.Cmp(s.Value) != 0 {
				return nil, fmt.Errorf("%w: index %d", ErrDuplicateShare, s.Index)
			}
			continue
		}
		distinct[s.Index] = s.Value
	}

	if len(distinct) < threshold {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientShares, threshold, len(distinct))
	}

	indices := make([]int, 0, len(distinct))
	for idx := range distinct {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	indices = indices[:threshold]

	// secret = sum_i y_i * prod_{j != i} x_j / (x_j - x_i)  (mod p)
	secret := big.NewInt(0)
	for _, i := range indices {
		num := big.NewInt(1)
		den := big.NewInt(1)
		xi := big.NewInt(int64(i))
		for _, j := range indices {
			if i == j {
				continue
			}
			xj := big.NewInt(int64(j))
			num.Mul(num, xj)
			num.Mod(num, fieldOrder)

			diff := new(big.Int).Sub(xj, xi)
			diff.Mod(diff, fieldOrder)
			den.Mul(den, diff)
			den.Mod(den, fieldOrder)
		}

		denInv := new(big.Int).ModInverse(den, fieldOrder)
		if denInv == nil {
			return nil, fmt.Errorf("failed to invert interpolation denominator")
		}

		weight := new(big.Int).Mul(num, denInv)
		weight.Mod(weight, fieldOrder)

		term := new(big.Int).Mul(weight, distinct[i])
		secret.Add(secret, term)
		secret.Mod(secret, fieldOrder)
	}

	return secret, nil
}

// SumShares adds share sets index-wise in the field. Given shares of
// secrets s1..sk under the same threshold, the result is a valid sharing
// of s1+...+sk. All sets must cover the same party indices.
func SumShares(sets ...[]Share) ([]Share, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("no share sets provided")
	}

	acc := make(map[int]*big.Int, len(sets[0]))
	for _, s := range sets[0] {
		acc[s.Index] = new(big.Int).Set(s.Value)
	}

	for _, set := range sets[1:] {
		if len(set) != len(acc) {
			return nil, fmt.Errorf("share set size mismatch: %d vs %d", len(set), len(acc))
		}
		for _, s := range set {
			sum, ok := acc[s.Index]
			if !ok {
				return nil, fmt.Errorf("share set index mismatch at index %d", s.Index)
			}
			sum.Add(sum, s.Value)
			sum.Mod(sum, fieldOrder)
		}
	}

	indices := make([]int, 0, len(acc))
	for idx := range acc {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	combined := make([]Share, len(indices))
	for i, idx := range indices {
		combined[i] = Share{Index: idx, Value: acc[idx]}
	}

	return combined, nil
}
