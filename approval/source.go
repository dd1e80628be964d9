package approval

import (
	"context"
	"fmt"
	"os"

	"github.com/gnosis/dxctl/chain/evm"
)

// AddressSource provides the raw, unvalidated token address entries of a batch.
type AddressSource interface {
	Addresses(ctx context.Context) ([]string, error)
}

// FileSource reads comma or newline delimited addresses from a file.
type FileSource struct {
	Path string
}

var _ AddressSource = FileSource{}

// Addresses implements AddressSource.
func (s FileSource) Addresses(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read token list: %w", err)
	}

	return evm.SplitAddressList(string(data)), nil
}

// StaticSource is a fixed list of entries.
type StaticSource []string

// Addresses implements AddressSource.
func (s StaticSource) Addresses(context.Context) ([]string, error) {
	return append([]string{}, s...), nil
}
