package network

import (
	"fmt"
	"strings"
)

// SubsetKind selects how a SubsetRule picks the batch of addresses to approve.
type SubsetKind string

const (
	// SubsetAll submits every validated address.
	SubsetAll SubsetKind = "all"
	// SubsetRange submits the validated addresses at positions [Start, End).
	SubsetRange SubsetKind = "range"
	// SubsetArtifacts submits the addresses of named registry artifacts instead of the list.
	SubsetArtifacts SubsetKind = "artifacts"
)

// SubsetRule is the address-subset rule of a profile.
type SubsetRule struct {
	Kind      SubsetKind `yaml:"kind"`
	Start     int        `yaml:"start,omitempty"`
	End       int        `yaml:"end,omitempty"`
	Artifacts []string   `yaml:"artifacts,omitempty"`
}

// All returns a rule selecting every address.
func All() SubsetRule { return SubsetRule{Kind: SubsetAll} }

// Range returns a rule selecting the addresses at positions [start, end).
func Range(start, end int) SubsetRule { return SubsetRule{Kind: SubsetRange, Start: start, End: end} }

// Artifacts returns a rule selecting the addresses of the named artifacts, in order.
func Artifacts(names ...string) SubsetRule {
	return SubsetRule{Kind: SubsetArtifacts, Artifacts: names}
}

// Validate checks the rule on its own. Whether a range fits a given list is checked by
// ApplyRange.
func (r SubsetRule) Validate() error {
	switch r.Kind {
	case SubsetAll:
		return nil
	case SubsetRange:
		if r.Start < 0 || r.End <= r.Start {
			return fmt.Errorf("%w: invalid subset range [%d, %d)", ErrNetworkConfiguration, r.Start, r.End)
		}

		return nil
	case SubsetArtifacts:
		if len(r.Artifacts) == 0 {
			return fmt.Errorf("%w: artifact subset names no artifacts", ErrNetworkConfiguration)
		}

		return nil
	default:
		return fmt.Errorf("%w: unknown subset kind %q", ErrNetworkConfiguration, r.Kind)
	}
}

// ApplyRange returns the entries of list selected by an all or range rule. A range reaching past
// the end of list fails with ErrNetworkConfiguration.
func ApplyRange[T any](r SubsetRule, list []T) ([]T, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.Kind {
	case SubsetAll:
		return append([]T{}, list...), nil
	case SubsetRange:
		if r.End > len(list) {
			return nil, fmt.Errorf("%w: subset range [%d, %d) exceeds the %d loaded addresses",
				ErrNetworkConfiguration, r.Start, r.End, len(list))
		}

		return append([]T{}, list[r.Start:r.End]...), nil
	default:
		return nil, fmt.Errorf("%w: %s rule does not select from an address list", ErrNetworkConfiguration, r.Kind)
	}
}

func (r SubsetRule) String() string {
	switch r.Kind {
	case SubsetRange:
		return fmt.Sprintf("range[%d,%d)", r.Start, r.End)
	case SubsetArtifacts:
		return "artifacts[" + strings.Join(r.Artifacts, ",") + "]"
	default:
		return string(r.Kind)
	}
}
