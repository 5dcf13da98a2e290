// Package aggregate computes sum, mean, and population variance over
// secret-shared metric values without reconstructing any individual input.
//
// Sum and mean need a single round: shares of different parties' secrets
// are added index-wise and only the combined value is reconstructed.
// Variance needs two rounds because the sharing scheme is additively but
// not multiplicatively homomorphic: round one produces the secure mean,
// round two has each party re-share its squared deviation from that mean
// under a fresh polynomial, and the fresh shares are summed the same way.
package aggregate

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/privamed/smpc/pkg/crypto/fixedpoint"
	"github.com/privamed/smpc/pkg/crypto/secretsharing"
	"github.com/privamed/smpc/pkg/crypto/shamir"
)

// ErrDimensionMismatch is returned when the inputs to an aggregation round
// do not line up: no parties, ragged share vectors, or mismatched indices.
var ErrDimensionMismatch = errors.New("mismatched aggregation dimensions")

// PartyInput is one party's contribution: the encoded value it holds
// locally plus the shares it distributed in round one. The value never
// leaves the party; the aggregator only touches it through the re-sharing
// step of the variance protocol, which in this centrally simulated
// deployment runs in the same process.
type PartyInput struct {
	OrgID  string
	Value  *big.Int
	Shares []shamir.Share
}

// Aggregator combines shares from a fixed roster of parties.
type Aggregator struct {
	sharer    secretsharing.SecretSharer
	codec     *fixedpoint.Codec
	parts     int
	threshold int
}

// New creates an aggregator for the given roster size and threshold.
func New(sharer secretsharing.SecretSharer, parts, threshold int) (*Aggregator, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("threshold must be at least 1, got %d", threshold)
	}
	if threshold > parts {
		return nil, fmt.Errorf("threshold (%d) cannot be greater than parties (%d)", threshold, parts)
	}
	return &Aggregator{
		sharer:    sharer,
		codec:     fixedpoint.NewCodec(sharer.FieldOrder()),
		parts:     parts,
		threshold: threshold,
	}, nil
}

// Codec returns the fixed-point codec matching the aggregator's field.
func (a *Aggregator) Codec() *fixedpoint.Codec {
	return a.codec
}

// SecureSum reconstructs the sum of all parties' secrets from their
// shares. Shares at the same index are combined locally first; no
// individual secret is ever reconstructed.
func (a *Aggregator) SecureSum(sharesByParty map[string][]shamir.Share) (float64, error) {
	sets, err := a.collect(sharesByParty)
	if err != nil {
		return 0, err
	}

	combined, err := a.sharer.SumShares(sets...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
	}

	total, err := a.sharer.Combine(combined, a.threshold)
	if err != nil {
		return 0, fmt.Errorf("reconstructing sum: %w", err)
	}

	return a.codec.Decode(total), nil
}

// SecureMean is SecureSum divided by the number of contributing parties.
func (a *Aggregator) SecureMean(sharesByParty map[string][]shamir.Share) (float64, error) {
	if len(sharesByParty) == 0 {
		return 0, fmt.Errorf("%w: no parties to average over", ErrDimensionMismatch)
	}

	sum, err := a.SecureSum(sharesByParty)
	if err != nil {
		return 0, err
	}

	return sum / float64(len(sharesByParty)), nil
}

// SecureVariance runs the two-round population variance protocol. Any
// round failing reconstruction aborts the whole aggregation; no partial
// statistic is returned.
func (a *Aggregator) SecureVariance(inputs []PartyInput) (float64, error) {
	if len(inputs) == 0 {
		return 0, fmt.Errorf("%w: no parties to aggregate", ErrDimensionMismatch)
	}

	round1 := make(map[string][]shamir.Share, len(inputs))
	for _, in := range inputs {
		if _, ok := round1[in.OrgID]; ok {
			return 0, fmt.Errorf("%w: duplicate party %q", ErrDimensionMismatch, in.OrgID)
		}
		round1[in.OrgID] = in.Shares
	}

	mean, err := a.SecureMean(round1)
	if err != nil {
		return 0, err
	}

	// Round two: each party re-shares its squared deviation under a fresh
	// polynomial. Reusing round-one shares here would leak through share
	// correlation, so the share sets must not overlap.
	round2 := make(map[string][]shamir.Share, len(inputs))
	for _, in := range inputs {
		if in.Value == nil {
			return 0, fmt.Errorf("%w: party %q has no value for re-sharing", ErrDimensionMismatch, in.OrgID)
		}

		dev := a.codec.Decode(in.Value) - mean
		sq, err := a.codec.Encode(dev * dev)
		if err != nil {
			return 0, fmt.Errorf("encoding squared deviation for %q: %w", in.OrgID, err)
		}

		fresh, err := a.sharer.Split(sq, a.parts, a.threshold)
		if err != nil {
			return 0, fmt.Errorf("re-sharing squared deviation for %q: %w", in.OrgID, err)
		}
		round2[in.OrgID] = fresh
	}

	sumSq, err := a.SecureSum(round2)
	if err != nil {
		return 0, err
	}

	return sumSq / float64(len(inputs)), nil
}

func (a *Aggregator) collect(sharesByParty map[string][]shamir.Share) ([][]shamir.Share, error) {
	if len(sharesByParty) == 0 {
		return nil, fmt.Errorf("%w: no parties to aggregate", ErrDimensionMismatch)
	}

	sets := make([][]shamir.Share, 0, len(sharesByParty))
	for orgID, shares := range sharesByParty {
		if len(shares) != a.parts {
			return nil, fmt.Errorf("%w: party %q submitted %d shares, expected %d",
				ErrDimensionMismatch, orgID, len(shares), a.parts)
		}
		sets = append(sets, shares)
	}

	return sets, nil
}
