package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCallNotFound         = errors.New("CALL_NOT_FOUND")
	ErrCallInvalidState     = errors.New("CALL_INVALID_STATE")
	ErrCallAlreadySettled   = errors.New("CALL_ALREADY_SETTLED")
	ErrNotParticipant       = errors.New("NOT_PARTICIPANT")
	ErrPayoutAlreadySettled = errors.New("PAYOUT_ALREADY_PROCESSED")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// InsufficientFundsError reports how much the operation needed versus what the
// payer actually had, so the client can prompt a top-up.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}
