package api

import "fmt"

// GenericFailure is the last-resort user message.
const GenericFailure = "request failed, please try again later"

// businessMessages maps auth-service business codes to user-facing text.
// Code ranges follow the service convention: the leading three digits are
// the HTTP class, the next two the module, the last three the case.
var businessMessages = map[int]string{
	// 400 - validation
	40001001: "username must not be empty",
	40001002: "password must not be empty",
	40001003: "new password length is out of range",
	40001004: "passwords do not match",
	40001005: "new password must differ from the old one",
	40001006: "username must be 3-20 characters",
	40001007: "invalid status value",

	// 401 - unauthorized
	40101001: "incorrect username or password",
	40101002: "session expired, please sign in again",
	40101003: "invalid session, please sign in again",
	40101004: "old password is incorrect",

	// 403 - forbidden
	40301001: "account is disabled, contact an administrator",
	40301002: "administrator privileges required",

	// 404 - not found
	40401001: "user not found",
	40401002: "role not found",

	// 409 - conflict
	40901001: "name already taken",

	// 429 - rate limit
	42900001: "too many login attempts, try again later",

	// 500 - server
	50000000: "internal server error, try again later",
}

// statusMessages maps bare HTTP statuses to user-facing text.
var statusMessages = map[int]string{
	400: "invalid request parameters",
	401: "unauthorized, please sign in again",
	403: "access denied, insufficient permissions",
	404: "the requested resource does not exist",
	408: "request timed out",
	429: "too many requests, try again later",
	500: "internal server error",
	502: "bad gateway",
	503: "service temporarily unavailable",
	504: "gateway timeout",
}

// MessageForCode returns the mapped text for a business code, or fallback.
func MessageForCode(code int, fallback string) string {
	if msg, ok := businessMessages[code]; ok {
		return msg
	}
	return fallback
}

// MessageForStatus returns the mapped text for an HTTP status, or a generic
// per-status message.
func MessageForStatus(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("request failed (%d)", status)
}

// Resolve picks the user-facing message for a failure. Precedence: mapped
// business code, then the message from the response body, then the HTTP
// status default, then the generic fallback.
func Resolve(code int, bodyMessage string, status int) string {
	if msg, ok := businessMessages[code]; ok {
		return msg
	}
	if bodyMessage != "" {
		return bodyMessage
	}
	if status != 0 {
		return MessageForStatus(status)
	}
	return GenericFailure
}
