package constants

const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeStreamerNotFound   = "STREAMER_NOT_FOUND"
	ErrCodeCallNotFound       = "CALL_NOT_FOUND"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	ErrCodeAmountTooSmall     = "AMOUNT_TOO_SMALL"
	ErrCodeExternalService    = "EXTERNAL_SERVICE_FAILURE"
	ErrCodeTransactionMissing = "TRANSACTION_NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
)

const (
	ErrMsgUnauthenticated    = "missing or invalid credential"
	ErrMsgForbidden          = "operation not permitted for this role"
	ErrMsgUserNotFound       = "user not found"
	ErrMsgStreamerNotFound   = "streamer not found"
	ErrMsgCallNotFound       = "call not found"
	ErrMsgInvalidState       = "operation not allowed in current call state"
	ErrMsgInsufficientFunds  = "insufficient balance"
	ErrMsgAmountTooSmall     = "amount below the allowed minimum"
	ErrMsgExternalService    = "external service failure, retry later"
	ErrMsgTransactionMissing = "transaction not found"
	ErrMsgInternalError      = "Internal server error"
	ErrMsgInvalidRequestBody = "failed to parse request body"
	ErrMsgValidationFailed   = "request validation failed"
)

const MessageErrorFormat = "field %s is invalid"

var errorMessages = map[string]string{
	ErrCodeUnauthenticated:    ErrMsgUnauthenticated,
	ErrCodeForbidden:          ErrMsgForbidden,
	ErrCodeUserNotFound:       ErrMsgUserNotFound,
	ErrCodeStreamerNotFound:   ErrMsgStreamerNotFound,
	ErrCodeCallNotFound:       ErrMsgCallNotFound,
	ErrCodeInvalidState:       ErrMsgInvalidState,
	ErrCodeInsufficientFunds:  ErrMsgInsufficientFunds,
	ErrCodeAmountTooSmall:     ErrMsgAmountTooSmall,
	ErrCodeExternalService:    ErrMsgExternalService,
	ErrCodeTransactionMissing: ErrMsgTransactionMissing,
	ErrCodeInternalError:      ErrMsgInternalError,
	ErrCodeInvalidRequestBody: ErrMsgInvalidRequestBody,
	ErrCodeValidationFailed:   ErrMsgValidationFailed,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeAmountTooSmall:
		return 400
	case ErrCodeUnauthenticated:
		return 401
	case ErrCodeInsufficientFunds:
		return 402
	case ErrCodeForbidden:
		return 403
	case ErrCodeUserNotFound, ErrCodeStreamerNotFound, ErrCodeCallNotFound, ErrCodeTransactionMissing:
		return 404
	case ErrCodeInvalidState:
		return 409
	case ErrCodeValidationFailed:
		return 422
	case ErrCodeExternalService:
		return 502
	case ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}
