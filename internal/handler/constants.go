package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidOwner          = "Invalid owner id"
	ErrMsgInvalidSlot           = "Unknown equipment slot"

	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."
	ErrMsgCharacterNotFound  = "Character not found"
	ErrMsgTimeoutError       = "The request timed out. Please try again."
)

// Success messages for API responses
const (
	MsgDisconnected = "Character disconnected"
	MsgItemsSent    = "Items sent"
)

// URL parameters
const (
	URLParamOwner = "owner"
	URLParamSlot  = "slot"
)

// Health responses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
	HealthMsgStoreFailed    = "character store unreachable"
)

// Log messages
const (
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgRequestDecoded   = "Request decoded"
	LogMsgServiceError     = "Service call failed"
	LogMsgRejected         = "Request rejected"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgPaymentConfirmed = "Payment confirmed"
)
