package secretsharing

import (
	"math/big"

	"github.com/privamed/smpc/pkg/crypto/shamir"
)

// ShamirSharer adapts the prime-field shamir package to the SecretSharer
// interface.
type ShamirSharer struct{}

// NewShamirSharer creates a new Shamir threshold sharer.
func NewShamirSharer() *ShamirSharer {
	return &ShamirSharer{}
}

func (s *ShamirSharer) Split(secret *big.Int, parts, threshold int) ([]shamir.Share, error) {
	return shamir.Split(secret, shamir.Config{Parts: parts, Threshold: threshold})
}

func (s *ShamirSharer) Combine(shares []shamir.Share, threshold int) (*big.Int, error) {
	return shamir.Combine(shares, threshold)
}

func (s *ShamirSharer) SumShares(sets ...[]shamir.Share) ([]shamir.Share, error) {
	return shamir.SumShares(sets...)
}

func (s *ShamirSharer) FieldOrder() *big.Int {
	return shamir.FieldOrder()
}

func (s *ShamirSharer) Scheme() SchemeType {
	return SchemeShamirThreshold
}
