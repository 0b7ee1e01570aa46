package models

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a class of payment failure. The value is the public error code.
type ErrorKind string

const (
	KindInvalidInput           ErrorKind = "INVALID_INPUT"
	KindInvalidState           ErrorKind = "INVALID_STATE"
	KindPaymentNotFound        ErrorKind = "PAYMENT_NOT_FOUND"
	KindTransactionNotFound    ErrorKind = "TRANSACTION_NOT_FOUND"
	KindTransactionAlreadyUsed ErrorKind = "TRANSACTION_ALREADY_USED"
	KindSenderMismatch         ErrorKind = "SENDER_MISMATCH"
	KindNotYetMined            ErrorKind = "NOT_YET_MINED"
	KindReceiptUnavailable     ErrorKind = "RECEIPT_UNAVAILABLE"
	KindTransactionFailed      ErrorKind = "TRANSACTION_FAILED"
	KindNoTransferEvent        ErrorKind = "NO_TRANSFER_EVENT"
	KindRecipientMismatch      ErrorKind = "RECIPIENT_MISMATCH"
	KindAmountMismatch         ErrorKind = "AMOUNT_MISMATCH"
	KindDecimalsUnavailable    ErrorKind = "DECIMALS_UNAVAILABLE"
	KindNetworkError           ErrorKind = "NETWORK_ERROR"
	KindInternal               ErrorKind = "INTERNAL_ERROR"
)

// PaymentError is the single error type surfaced by verification and state transitions.
// Expected and Actual carry the compared values for mismatches; Status carries the
// observed payment status for InvalidState.
type PaymentError struct {
	Kind     ErrorKind
	Message  string
	Expected string
	Actual   string
	Status   PaymentStatus
	Err      error
}

func (e *PaymentError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Expected != "" || e.Actual != "" {
		msg = fmt.Sprintf("%s (expected %s, got %s)", msg, e.Expected, e.Actual)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// Is matches any *PaymentError of the same kind, so errors.Is(err, ErrAmountMismatch) works
// regardless of the carried context.
func (e *PaymentError) Is(target error) bool {
	t, ok := target.(*PaymentError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidInput           = &PaymentError{Kind: KindInvalidInput}
	ErrInvalidState           = &PaymentError{Kind: KindInvalidState}
	ErrPaymentNotFound        = &PaymentError{Kind: KindPaymentNotFound}
	ErrTransactionNotFound    = &PaymentError{Kind: KindTransactionNotFound}
	ErrTransactionAlreadyUsed = &PaymentError{Kind: KindTransactionAlreadyUsed}
	ErrSenderMismatch         = &PaymentError{Kind: KindSenderMismatch}
	ErrNotYetMined            = &PaymentError{Kind: KindNotYetMined}
	ErrReceiptUnavailable     = &PaymentError{Kind: KindReceiptUnavailable}
	ErrTransactionFailed      = &PaymentError{Kind: KindTransactionFailed}
	ErrNoTransferEvent        = &PaymentError{Kind: KindNoTransferEvent}
	ErrRecipientMismatch      = &PaymentError{Kind: KindRecipientMismatch}
	ErrAmountMismatch         = &PaymentError{Kind: KindAmountMismatch}
	ErrDecimalsUnavailable    = &PaymentError{Kind: KindDecimalsUnavailable}
	ErrNetworkError           = &PaymentError{Kind: KindNetworkError}
	ErrInternal               = &PaymentError{Kind: KindInternal}
)

// Repository level errors. They are translated into PaymentErrors by the callers.
var (
	ErrNotFound        = errors.New("record not found")
	ErrStatusConflict  = errors.New("payment status changed concurrently")
	ErrDuplicateTxHash = errors.New("transaction hash already bound to a payment")
	ErrLockNotAcquired = errors.New("lock is held by another instance")
)

func NewInvalidInput(format string, args ...interface{}) *PaymentError {
	return &PaymentError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidState(status PaymentStatus) *PaymentError {
	return &PaymentError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("payment is %s, expected %s", status, StatusPending),
		Status:  status,
	}
}

func NewPaymentNotFound(id string) *PaymentError {
	return &PaymentError{Kind: KindPaymentNotFound, Message: fmt.Sprintf("payment %s not found", id)}
}

func NewTransactionNotFound(txHash string) *PaymentError {
	return &PaymentError{Kind: KindTransactionNotFound, Message: fmt.Sprintf("transaction %s not found", txHash)}
}

func NewTransactionAlreadyUsed(txHash string) *PaymentError {
	return &PaymentError{Kind: KindTransactionAlreadyUsed, Message: fmt.Sprintf("transaction %s already confirmed another payment", txHash)}
}

func NewSenderMismatch(expected, actual string) *PaymentError {
	return &PaymentError{Kind: KindSenderMismatch, Message: "transaction sender does not match", Expected: expected, Actual: actual}
}

func NewNotYetMined(txHash string) *PaymentError {
	return &PaymentError{Kind: KindNotYetMined, Message: fmt.Sprintf("transaction %s is not mined yet", txHash)}
}

func NewReceiptUnavailable(txHash string) *PaymentError {
	return &PaymentError{Kind: KindReceiptUnavailable, Message: fmt.Sprintf("receipt for transaction %s is unavailable", txHash)}
}

func NewTransactionFailed(txHash string) *PaymentError {
	return &PaymentError{Kind: KindTransactionFailed, Message: fmt.Sprintf("transaction %s reverted", txHash)}
}

func NewNoTransferEvent(txHash string) *PaymentError {
	return &PaymentError{Kind: KindNoTransferEvent, Message: fmt.Sprintf("no matching Transfer event in transaction %s", txHash)}
}

func NewRecipientMismatch(expected, actual string) *PaymentError {
	return &PaymentError{Kind: KindRecipientMismatch, Message: "transfer recipient does not match the payment wallet", Expected: expected, Actual: actual}
}

// NewAmountMismatch takes both amounts in human decimal form.
func NewAmountMismatch(expected, actual string) *PaymentError {
	return &PaymentError{Kind: KindAmountMismatch, Message: "transferred amount does not match", Expected: expected, Actual: actual}
}

func NewDecimalsUnavailable(contract string, err error) *PaymentError {
	return &PaymentError{Kind: KindDecimalsUnavailable, Message: fmt.Sprintf("decimals() unavailable for %s", contract), Err: err}
}

func NewNetworkError(op string, err error) *PaymentError {
	return &PaymentError{Kind: KindNetworkError, Message: fmt.Sprintf("rpc %s failed", op), Err: err}
}

func NewInternal(op string, err error) *PaymentError {
	return &PaymentError{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of the first PaymentError in err's chain, KindInternal otherwise.
func KindOf(err error) ErrorKind {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}
