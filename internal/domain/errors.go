package domain

import (
	"errors"
	"net/http"
)

// Error codes shared across handlers and services. Responses carry them as
// errorCode so clients can branch without parsing messages.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidPNR       = "INVALID_PNR"
	CodeInvalidPhone     = "INVALID_PHONE"
	CodeInvalidAction    = "INVALID_ACTION"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeBuddyNotFound    = "BUDDY_NOT_FOUND"
	CodeOfferNotFound    = "OFFER_NOT_FOUND"
	CodeRequestNotFound  = "REQUEST_NOT_FOUND"
	CodePNRNotVerified   = "PNR_NOT_VERIFIED"
	CodePNRNotConfirmed  = "PNR_NOT_CONFIRMED"
	CodeBuddyNotCNF      = "BUDDY_NOT_CONFIRMED"
	CodeJourneyMissing   = "JOURNEY_MISSING"
	CodeTripMismatch     = "TRIP_MISMATCH"
	CodeOfferNotActive   = "OFFER_NOT_ACTIVE"
	CodeOTPInvalid       = "OTP_INVALID"
	CodeOTPSendFailed    = "OTP_SEND_FAILED"
	CodeDBUnavailable    = "DB_UNAVAILABLE"
	CodeVerificationDown = "VERIFICATION_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// APIError is the (code, message, status) triple every failing operation
// propagates. It never gets swallowed on the way to the handler.
type APIError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e APIError) Unwrap() error { return e.Err }

// NewAPIError builds an APIError; status defaults to 500 when zero.
func NewAPIError(code, message string, status int) APIError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return APIError{Code: code, Message: message, Status: status}
}

// AsAPIError unwraps err into an APIError when possible.
func AsAPIError(err error) (APIError, bool) {
	var target APIError
	ok := errors.As(err, &target)
	return target, ok
}

func IsCode(err error, code string) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Code == code
	}
	return false
}
