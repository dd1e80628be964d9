package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsetRule_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rule    SubsetRule
		wantErr string
	}{
		{name: "all", rule: All()},
		{name: "range", rule: Range(2, 7)},
		{name: "artifacts", rule: Artifacts("EtherToken")},
		{name: "empty range", rule: Range(3, 3), wantErr: "invalid subset range [3, 3)"},
		{name: "negative start", rule: Range(-1, 2), wantErr: "invalid subset range [-1, 2)"},
		{name: "no artifacts", rule: Artifacts(), wantErr: "names no artifacts"},
		{name: "unknown kind", rule: SubsetRule{Kind: "first"}, wantErr: `unknown subset kind "first"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.rule.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrNetworkConfiguration)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyRange(t *testing.T) {
	t.Parallel()

	list := []string{"a", "b", "c", "d", "e", "f"}

	tests := []struct {
		name    string
		rule    SubsetRule
		want    []string
		wantErr string
	}{
		{name: "all", rule: All(), want: list},
		{name: "range", rule: Range(2, 5), want: []string{"c", "d", "e"}},
		{name: "range to end", rule: Range(0, 6), want: list},
		{name: "range past end", rule: Range(2, 7), wantErr: "exceeds the 6 loaded addresses"},
		{name: "artifacts", rule: Artifacts("TokenOMG"), wantErr: "does not select from an address list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ApplyRange(tt.rule, list)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrNetworkConfiguration)
				assert.ErrorContains(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyRange_Copies(t *testing.T) {
	t.Parallel()

	list := []int{1, 2, 3}
	got, err := ApplyRange(Range(0, 2), list)
	require.NoError(t, err)

	got[0] = 9
	assert.Equal(t, 1, list[0])
}

func TestSubsetRule_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "all", All().String())
	assert.Equal(t, "range[0,5)", Range(0, 5).String())
	assert.Equal(t, "artifacts[TokenRDN,TokenOMG]", Artifacts("TokenRDN", "TokenOMG").String())
}
