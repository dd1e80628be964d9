package evm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrMalformedAddress is returned when a string is not a 40 hex character account identifier.
var ErrMalformedAddress = errors.New("malformed account identifier")

// ParseAddress converts an account identifier into an address. The identifier must be exactly 40
// hex characters of either case, optionally prefixed with 0x. Surrounding whitespace is not
// accepted.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}

	return common.HexToAddress(s), nil
}

// ParseAddresses validates every entry of raw and returns the addresses in the same order. The
// first malformed entry aborts the conversion; its position is reported in the error.
func ParseAddresses(raw []string) ([]common.Address, error) {
	addrs := make([]common.Address, 0, len(raw))
	for i, s := range raw {
		addr, err := ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		addrs = append(addrs, addr)
	}

	return addrs, nil
}

// SplitAddressList splits a delimiter separated list of account identifiers. Commas and newlines
// are both accepted as delimiters and whitespace around each entry is trimmed. Empty entries are
// kept so that they fail validation instead of being dropped.
func SplitAddressList(data string) []string {
	data = strings.TrimSpace(data)
	if data == "" {
		return []string{}
	}

	data = strings.ReplaceAll(data, "\r\n", "\n")
	fields := strings.Split(strings.ReplaceAll(data, "\n", ","), ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	return fields
}
