package caller

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrLossyNumeric is returned for numeric arguments that cannot be represented exactly, such as
// floating point values or fractional amounts.
var ErrLossyNumeric = errors.New("numeric argument would lose precision")

// NormalizeArgs checks that no argument is a floating point value and converts plain int values
// into *big.Int, the representation of uint256 and int256 parameters. Explicitly sized integers
// are passed through unchanged. The input slice is not modified.
func NormalizeArgs(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case float32, float64, []float32, []float64, *big.Float:
			return nil, fmt.Errorf("argument %d (%T): %w", i, arg, ErrLossyNumeric)
		case int:
			out[i] = big.NewInt(int64(v))
		case []int:
			ints := make([]*big.Int, len(v))
			for j, n := range v {
				ints[j] = big.NewInt(int64(n))
			}
			out[i] = ints
		default:
			out[i] = arg
		}
	}

	return out, nil
}

// ParseAmount parses a base-unit quantity written as a decimal integer, optionally in scientific
// notation: "100000e18", "1.1e21" or "10000000000000000000000". Values that are not whole numbers
// fail with ErrLossyNumeric.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return nil, errors.New("empty amount")
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q is not a whole number: %w", s, ErrLossyNumeric)
	}

	return new(big.Int).Set(r.Num()), nil
}

// MustParseAmount is like ParseAmount but panics on error. It is meant for constants.
func MustParseAmount(s string) *big.Int {
	v, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}

	return v
}
