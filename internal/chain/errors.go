package chain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTroveList = errors.New("sorted trove list is empty")
	ErrTxReverted     = errors.New("transaction reverted")
)

// GatewayError wraps an RPC or network fault. During the resolution loop it
// is converted into a per-market failure; it never crashes a batch.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("gateway %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

// RevertError is a contract revert translated into a user-meaningful
// message.
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string { return e.Reason }
func (e *RevertError) Unwrap() error { return e.Err }

// Known revert-reason fragments mapped to messages shown to users. Matched
// by substring because nodes differ in how they wrap the reason string.
var revertReasons = []struct {
	pattern string
	message string
}{
	{"already resolved", "market is already resolved"},
	{"Market not expired", "market has not expired yet"},
	{"not the resolver", "caller is not the authorized resolver"},
	{"insufficient balance", "insufficient balance"},
	{"transfer amount exceeds", "insufficient balance"},
	{"ICR < MCR", "collateral ratio would fall below the minimum"},
	{"exceeds borrowing", "borrowing limit exceeded"},
	{"Trove does not exist", "trove does not exist or is closed"},
}

// translateRevert converts raw node errors into RevertError when a known
// reason pattern matches; other errors pass through as GatewayError.
func translateRevert(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "execution reverted") || strings.Contains(msg, "revert") {
		for _, r := range revertReasons {
			if strings.Contains(msg, r.pattern) {
				return &RevertError{Reason: r.message, Err: err}
			}
		}
		return &RevertError{Reason: "transaction reverted: " + msg, Err: err}
	}
	return &GatewayError{Op: op, Err: err}
}
