// Package fixedpoint maps decimal metric values onto a prime field so they
// can be secret-shared with exact integer arithmetic.
//
// Values are scaled by a fixed power of ten and reduced modulo the field
// order; negative values occupy the upper half of the field, mirroring
// two's complement. Decoding reverses both steps.
package fixedpoint

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrPrecisionLoss is returned when a value cannot be represented in the
// fixed-point domain without losing the declared precision.
var ErrPrecisionLoss = errors.New("value outside representable fixed-point range")

const (
	// Scale gives 8 decimal digits of precision, well past the 4 digits
	// health metrics require.
	Scale = 100_000_000
	// MaxMagnitude bounds the absolute value of encodable inputs. Scaled,
	// this stays far below half the field order even when summed across
	// thousands of parties.
	MaxMagnitude = 1e12
)

// Codec converts between float64 metric values and field elements.
type Codec struct {
	order *big.Int
	half  *big.Int
	scale *big.Int
}

// NewCodec creates a codec for the given field order.
func NewCodec(order *big.Int) *Codec {
	return &Codec{
		order: new(big.Int).Set(order),
		half:  new(big.Int).Rsh(order, 1),
		scale: big.NewInt(Scale),
	}
}

// Encode converts a metric value to a field element.
func (c *Codec) Encode(v float64) (*big.Int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v", ErrPrecisionLoss, v)
	}
	if math.Abs(v) > MaxMagnitude {
		return nil, fmt.Errorf("%w: %v exceeds magnitude limit %v", ErrPrecisionLoss, v, float64(MaxMagnitude))
	}

	// 128-bit mantissa keeps the product exact across the whole supported
	// magnitude range; float64's 53 bits would not.
	scaled := new(big.Float).SetPrec(128).SetFloat64(v)
	scaled.Mul(scaled, new(big.Float).SetPrec(128).SetInt64(Scale))
	elem, _ := scaled.Int(nil)
	elem.Mod(elem, c.order)
	return elem, nil
}

// Decode converts a field element back to a metric value. Elements above
// half the field order decode as negative.
func (c *Codec) Decode(elem *big.Int) float64 {
	signed := new(big.Int).Mod(elem, c.order)
	if signed.Cmp(c.half) > 0 {
		signed.Sub(signed, c.order)
	}

	f := new(big.Float).SetInt(signed)
	f.Quo(f, new(big.Float).SetInt(c.scale))
	out, _ := f.Float64()
	return out
}
