package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeInvalidPrice         = "INVALID_PRICE"
	ErrCodeInvalidTotal         = "INVALID_TOTAL"
	ErrCodeInvalidDate          = "INVALID_DATE"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeSequenceConflict     = "SEQUENCE_CONFLICT"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidPaymentMethod = NewDomainError(ErrCodeInvalidPaymentMethod, "Payment method must be one of cash, promptpay, card")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPrice         = NewDomainError(ErrCodeInvalidPrice, "Price must not be negative")
	ErrInvalidTotal         = NewDomainError(ErrCodeInvalidTotal, "Total must not be negative")
	ErrPriceScale           = NewDomainError(ErrCodeInvalidPrice, "Price must have at most 2 decimal places and fewer than 11 integer digits")
	ErrTotalScale           = NewDomainError(ErrCodeInvalidTotal, "Total must have at most 2 decimal places and fewer than 11 integer digits")
	ErrInvalidDate          = NewDomainError(ErrCodeInvalidDate, "Date must be formatted as YYYY-MM-DD")
	ErrSequenceConflict     = NewDomainError(ErrCodeSequenceConflict, "Could not allocate an order number, please retry")
)

// IsDomainError reports whether err carries a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// WriteStage names the step of an order write that failed.
type WriteStage string

const (
	StageBegin    WriteStage = "begin"
	StageAllocate WriteStage = "allocate"
	StageHeader   WriteStage = "header"
	StageLines    WriteStage = "lines"
	StageCommit   WriteStage = "commit"
)

var stageMessages = map[WriteStage]string{
	StageBegin:    "failed to start order transaction",
	StageAllocate: "failed to allocate order number",
	StageHeader:   "failed to save order",
	StageLines:    "failed to save order items",
	StageCommit:   "failed to commit order",
}

// WriteError reports a rolled-back order write and the stage that failed.
type WriteError struct {
	Stage WriteStage
	Err   error
}

func (e *WriteError) Error() string {
	msg, ok := stageMessages[e.Stage]
	if !ok {
		msg = "failed to create order"
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError wraps err with the stage it occurred in.
func NewWriteError(stage WriteStage, err error) *WriteError {
	return &WriteError{Stage: stage, Err: err}
}
