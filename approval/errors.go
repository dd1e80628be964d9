package approval

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNoTokens is returned when the selected subset is empty.
var ErrNoTokens = errors.New("no token addresses to approve")

// ApprovalCallFailure is returned when the approval call or a verification call fails. Subset holds
// the addresses the failed call was made for.
type ApprovalCallFailure struct { //nolint:revive // the package name is part of the error vocabulary
	Subset []common.Address
	Cause  error
}

func (e *ApprovalCallFailure) Error() string {
	return fmt.Sprintf("approval call for %d token(s) failed: %v", len(e.Subset), e.Cause)
}

func (e *ApprovalCallFailure) Unwrap() error { return e.Cause }
