package paygate

import "errors"

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusNotFound            = 404
	StatusUnprocessableEntity = 422
)

const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodePaymentNotFound  = "PAYMENT_NOT_FOUND"
	ErrCodeUnauthorized     = "GATEWAY_UNAUTHORIZED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeServerError      = "SERVER_ERROR"
)

var (
	ErrValidationFailed = errors.New(ErrCodeValidationFailed)
	ErrPaymentNotFound  = errors.New(ErrCodePaymentNotFound)
	ErrUnauthorized     = errors.New(ErrCodeUnauthorized)
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrServerError      = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	StatusBadRequest:          ErrValidationFailed,
	StatusUnauthorized:        ErrUnauthorized,
	StatusNotFound:            ErrPaymentNotFound,
	StatusUnprocessableEntity: ErrValidationFailed,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
