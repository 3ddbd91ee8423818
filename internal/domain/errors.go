package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrPrecursorMissing is returned when a step runs before the record it depends on exists
	ErrPrecursorMissing = errors.New("precursor missing")

	// ErrReceiptUnavailable is returned when a submitted transaction never yields a receipt
	ErrReceiptUnavailable = errors.New("receipt unavailable")

	// ErrTransactionReverted is returned when a transaction was included with a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrEventNotFound is returned when a receipt carries no Deployed event from the factory
	ErrEventNotFound = errors.New("deployed event not found")

	// ErrAddressMismatch is returned when the deployed address differs from the prediction
	ErrAddressMismatch = errors.New("address mismatch")

	// ErrOwnershipRefused is returned when the caller doesn't own the proxy being upgraded
	ErrOwnershipRefused = errors.New("ownership refused")

	// ErrLeaseHeld is returned when another run holds the deployment lease
	ErrLeaseHeld = errors.New("lease held")

	// ErrVersionConflict is returned when a record changed since it was read
	ErrVersionConflict = errors.New("version conflict")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnknownNetwork is returned when a network isn't configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrNoSigner is returned when a transaction needs a sender without a configured key
	ErrNoSigner = errors.New("no signer configured")

	// ErrCancelled is returned when the operator declines a confirmation
	ErrCancelled = errors.New("cancelled")
)

// PrecursorMissingError reports which prior record a step needed.
type PrecursorMissingError struct {
	Kind    string
	Network string
	Path    string
}

func (e *PrecursorMissingError) Error() string {
	return fmt.Sprintf("%s record for network %q not found at %s; run the preceding step first", e.Kind, e.Network, e.Path)
}

func (e *PrecursorMissingError) Is(target error) bool {
	return target == ErrPrecursorMissing
}

// ReceiptUnavailableError wraps the cause of a failed receipt wait.
type ReceiptUnavailableError struct {
	TxHash common.Hash
	Err    error
}

func (e *ReceiptUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no receipt for transaction %s", e.TxHash.Hex())
	}
	return fmt.Sprintf("no receipt for transaction %s: %v", e.TxHash.Hex(), e.Err)
}

func (e *ReceiptUnavailableError) Is(target error) bool {
	return target == ErrReceiptUnavailable
}

func (e *ReceiptUnavailableError) Unwrap() error {
	return e.Err
}

// TransactionRevertedError is returned for receipts with status 0.
type TransactionRevertedError struct {
	TxHash common.Hash
}

func (e *TransactionRevertedError) Error() string {
	return fmt.Sprintf("transaction %s reverted", e.TxHash.Hex())
}

func (e *TransactionRevertedError) Is(target error) bool {
	return target == ErrTransactionReverted
}

// AddressMismatchError is only surfaced when strict address matching is on.
type AddressMismatchError struct {
	Predicted common.Address
	Actual    common.Address
}

func (e *AddressMismatchError) Error() string {
	return fmt.Sprintf("deployed address %s does not match predicted %s", e.Actual.Hex(), e.Predicted.Hex())
}

func (e *AddressMismatchError) Is(target error) bool {
	return target == ErrAddressMismatch
}

type OwnershipRefusedError struct {
	Proxy  common.Address
	Owner  common.Address
	Caller common.Address
}

func (e *OwnershipRefusedError) Error() string {
	return fmt.Sprintf("caller %s is not the owner of proxy %s (owner is %s)", e.Caller.Hex(), e.Proxy.Hex(), e.Owner.Hex())
}

func (e *OwnershipRefusedError) Is(target error) bool {
	return target == ErrOwnershipRefused
}

// LeaseHeldError names the holder of a contended lease.
type LeaseHeldError struct {
	Key    string
	Holder string
}

func (e *LeaseHeldError) Error() string {
	if e.Holder == "" {
		return fmt.Sprintf("lease %s is held by another run", e.Key)
	}
	return fmt.Sprintf("lease %s is held by %s", e.Key, e.Holder)
}

func (e *LeaseHeldError) Is(target error) bool {
	return target == ErrLeaseHeld
}

type VersionConflictError struct {
	Path     string
	Expected uint64
	Current  uint64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("record %s changed concurrently (expected version %d, found %d)", e.Path, e.Expected, e.Current)
}

func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

// UnknownNetworkError carries close matches for a misspelled network name.
type UnknownNetworkError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownNetworkError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("network %q is not configured", e.Name)
	}
	return fmt.Sprintf("network %q is not configured (did you mean %q?)", e.Name, e.Suggestions[0])
}

func (e *UnknownNetworkError) Is(target error) bool {
	return target == ErrUnknownNetwork
}
