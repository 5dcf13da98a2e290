package shamir

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndCombine(t *testing.T) {
	tests := []struct {
		name      string
		secret    *big.Int
		parts     int
		threshold int
	}{
		{
			name:      "Small secret 3 of 5",
			secret:    big.NewInt(1234567890),
			parts:     5,
			threshold: 3,
		},
		{
			name:      "Zero secret 2 of 3",
			secret:    big.NewInt(0),
			parts:     3,
			threshold: 2,
		},
		{
			name:      "Large secret 5 of 7",
			secret:    new(big.Int).Sub(FieldOrder(), big.NewInt(1)),
			parts:     7,
			threshold: 5,
		},
		{
			name:      "Threshold equals parts",
			secret:    big.NewInt(42),
			parts:     4,
			threshold: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{
				Parts:     tt.parts,
				Threshold: tt.threshold,
			}

			shares, err := Split(tt.secret, config)
			require.NoError(t, err)
			assert.Len(t, shares, tt.parts)

			for i, share := range shares {
				assert.Equal(t, i+1, share.Index)
				assert.NotNil(t, share.Value)
			}

			reconstructed, err := Combine(shares[:tt.threshold], tt.threshold)
			require.NoError(t, err)
			assert.Zero(t, tt.secret.Cmp(reconstructed))

			reconstructed2, err := Combine(shares[tt.parts-tt.threshold:], tt.threshold)
			require.NoError(t, err)
			assert.Zero(t, tt.secret.Cmp(reconstructed2))
		})
	}
}

func TestAllThresholdSubsets(t *testing.T) {
	secret := big.NewInt(987654321)
	config := Config{Parts: 5, Threshold: 3}

	shares, err := Split(secret, config)
	require.NoError(t, err)

	// Every 3-of-5 subset must reconstruct the secret exactly.
	for i := 0; i < len(shares); i++ {
		for j := i + 1; j < len(shares); j++ {
			for k := j + 1; k < len(shares); k++ {
				subset := []Share{shares[i], shares[j], shares[k]}
				got, err := Combine(subset, config.Threshold)
				require.NoError(t, err)
				assert.Zero(t, secret.Cmp(got), "subset (%d,%d,%d)", i, j, k)
			}
		}
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:      "Valid config",
			config:    Config{Parts: 5, Threshold: 3},
			wantError: false,
		},
		{
			name:      "Single-party degenerate config",
			config:    Config{Parts: 1, Threshold: 1},
			wantError: false,
		},
		{
			name:      "Threshold below one",
			config:    Config{Parts: 5, Threshold: 0},
			wantError: true,
		},
		{
			name:      "Threshold greater than parts",
			config:    Config{Parts: 3, Threshold: 5},
			wantError: true,
		},
		{
			name:      "No parts",
			config:    Config{Parts: 0, Threshold: 0},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCombineBelowThreshold(t *testing.T) {
	shares, err := Split(big.NewInt(5551212), Config{Parts: 5, Threshold: 3})
	require.NoError(t, err)

	_, err = Combine(shares[:2], 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientShares)
}

func TestCombineDuplicateIndex(t *testing.T) {
	shares, err := Split(big.NewInt(777), Config{Parts: 3, Threshold: 2})
	require.NoError(t, err)

	// Identical duplicate collapses and still counts once.
	_, err = Combine([]Share{shares[0], shares[0]}, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	// Conflicting value at the same index is rejected outright.
	conflicting := Share{Index: shares[0].Index, Value: new(big.Int).Add(shares[0].Value, big.NewInt(1))}
	_, err = Combine([]Share{shares[0], conflicting, shares[1]}, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateShare)
}

func TestSplitRejectsOutOfRangeSecret(t *testing.T) {
	cfg := Config{Parts: 3, Threshold: 2}

	_, err := Split(big.NewInt(-1), cfg)
	assert.Error(t, err)

	_, err = Split(FieldOrder(), cfg)
	assert.Error(t, err)

	_, err = Split(nil, cfg)
	assert.Error(t, err)
}

func TestSumSharesHomomorphism(t *testing.T) {
	cfg := Config{Parts: 4, Threshold: 3}

	a := big.NewInt(105000)
	b := big.NewInt(207500)
	c := big.NewInt(302500)

	sharesA, err := Split(a, cfg)
	require.NoError(t, err)
	sharesB, err := Split(b, cfg)
	require.NoError(t, err)
	sharesC, err := Split(c, cfg)
	require.NoError(t, err)

	combined, err := SumShares(sharesA, sharesB, sharesC)
	require.NoError(t, err)
	require.Len(t, combined, cfg.Parts)

	total, err := Combine(combined[:cfg.Threshold], cfg.Threshold)
	require.NoError(t, err)

	want := new(big.Int).Add(a, b)
	want.Add(want, c)
	assert.Zero(t, want.Cmp(total))
}

func TestSumSharesIndexMismatch(t *testing.T) {
	cfg := Config{Parts: 3, Threshold: 2}

	sharesA, err := Split(big.NewInt(1), cfg)
	require.NoError(t, err)
	sharesB, err := Split(big.NewInt(2), cfg)
	require.NoError(t, err)

	_, err = SumShares(sharesA, sharesB[:2])
	assert.Error(t, err)

	sharesB[1].Index = 9
	_, err = SumShares(sharesA, sharesB)
	assert.Error(t, err)
}

func TestSharesDifferAcrossSplits(t *testing.T) {
	secret := big.NewInt(424242)
	cfg := Config{Parts: 3, Threshold: 2}

	first, err := Split(secret, cfg)
	require.NoError(t, err)
	second, err := Split(secret, cfg)
	require.NoError(t, err)

	// Fresh polynomials: re-sharing the same secret must not reuse shares.
	same := true
	for i := range first {
		if first[i].Value.Cmp(second[i].Value) != 0 {
			same = false
			break
		}
	}
	assert.False(t, same, "two splits of the same secret produced identical shares")
}
