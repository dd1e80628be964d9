package evm

import (
	"encoding/json"
	"fmt"

	"github.com/lmittmann/w3"
)

// Func is a contract function identified by its Solidity signature, e.g.
// "updateApprovalOfToken(address[],bool)", and the types it returns, e.g. "bool".
type Func struct {
	signature string
	returns   string
	fn        *w3.Func
}

// NewFunc parses the signature and return types of a contract function.
func NewFunc(signature, returns string) (Func, error) {
	fn, err := w3.NewFunc(signature, returns)
	if err != nil {
		return Func{}, fmt.Errorf("invalid function %q: %w", signature, err)
	}

	return Func{signature: signature, returns: returns, fn: fn}, nil
}

// MustNewFunc is like NewFunc but panics if the signature cannot be parsed. It is meant for
// package level function definitions.
func MustNewFunc(signature, returns string) Func {
	f, err := NewFunc(signature, returns)
	if err != nil {
		panic(err)
	}

	return f
}

// Signature returns the Solidity signature of the function.
func (f Func) Signature() string { return f.signature }

// Returns returns the comma separated return types of the function.
func (f Func) Returns() string { return f.returns }

// String implements fmt.Stringer.
func (f Func) String() string { return f.signature }

// IsZero reports whether f was never initialized.
func (f Func) IsZero() bool { return f.fn == nil }

// EncodeArgs ABI encodes the selector and arguments of a call to the function.
func (f Func) EncodeArgs(args ...any) ([]byte, error) {
	if f.fn == nil {
		return nil, fmt.Errorf("function %q is not initialized", f.signature)
	}

	return f.fn.EncodeArgs(args...)
}

// DecodeReturns ABI decodes the output of a call into the given pointers.
func (f Func) DecodeReturns(output []byte, returns ...any) error {
	if f.fn == nil {
		return fmt.Errorf("function %q is not initialized", f.signature)
	}

	return f.fn.DecodeReturns(output, returns...)
}

type funcJSON struct {
	Signature string `json:"signature"`
	Returns   string `json:"returns,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f Func) MarshalJSON() ([]byte, error) {
	return json.Marshal(funcJSON{Signature: f.signature, Returns: f.returns})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Func) UnmarshalJSON(data []byte) error {
	var raw funcJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := NewFunc(raw.Signature, raw.Returns)
	if err != nil {
		return err
	}
	*f = parsed

	return nil
}
