package reconciler

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type FailureKind int

const (
	// FailureUnknownOffer: funds were captured for an offer the catalog no
	// longer knows. Fatal for the purchase, requires manual compensation.
	FailureUnknownOffer FailureKind = iota

	// FailureAccountNotFound: payment succeeded but no account document owns
	// the identity. Urgent, requires manual linking.
	FailureAccountNotFound

	// FailureStoreRead / FailureStoreWrite: the store call failed after
	// bounded retries. Recoverable; the charge claim is released so a
	// redelivered confirmation can retry.
	FailureStoreRead
	FailureStoreWrite
)

func (k FailureKind) String() string {
	switch k {
	case FailureUnknownOffer:
		return "unknown offer"
	case FailureAccountNotFound:
		return "account not found"
	case FailureStoreRead:
		return "store read failure"
	case FailureStoreWrite:
		return "store write failure"
	default:
		return "unclassified failure"
	}
}

// Failure carries everything operators need for manual replay: the identity,
// the offer, the charge reference, and for write failures the value that
// should have landed.
type Failure struct {
	Kind          FailureKind
	Identity      int64
	OfferID       string
	ChargeRef     string
	IntendedPower decimal.Decimal
	Err           error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: identity=%d offer=%s charge=%s", f.Kind, f.Identity, f.OfferID, f.ChargeRef)
	}
	return fmt.Sprintf("%s: identity=%d offer=%s charge=%s: %v", f.Kind, f.Identity, f.OfferID, f.ChargeRef, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Detail is the operator-facing error line. Purchasers never see it.
func (f *Failure) Detail() string {
	detail := f.Kind.String()
	if f.Err != nil {
		detail = fmt.Sprintf("%s (%v)", detail, f.Err)
	}
	if f.Kind == FailureStoreWrite {
		detail = fmt.Sprintf("%s, intended mining_power=%s", detail, f.IntendedPower)
	}
	return detail
}
