package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes assigned while normalizing backend responses.
const (
	ErrorCodeBadRequest   = "bad_request"
	ErrorCodeUnauthorized = "unauthorized"
	ErrorCodeForbidden    = "forbidden"
	ErrorCodeNotFound     = "not_found"
	ErrorCodeThrottled    = "throttled"
	ErrorCodeServerError  = "server_error"
)

// APIError is the single shape every non-2xx backend response is turned into.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Code is derived from the status code, or taken from the payload when
	// the backend sends an explicit "code".
	Code string

	// Message is human readable. Empty when the backend sent nothing usable,
	// in which case Message() substitutes a localized fallback.
	Message string

	// Fields holds serializer errors keyed by field name, first message only.
	Fields map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TwoFactorRequiredError is returned by Login when the account has 2FA
// enabled. The temp token must be presented to VerifyTwoFactor.
type TwoFactorRequiredError struct {
	TempToken string
	Methods   []string
}

// Error implements the error interface.
func (e *TwoFactorRequiredError) Error() string {
	return fmt.Sprintf("two-factor authentication required: methods=%v", e.Methods)
}

// ValidationError reports requests rejected before they left the client.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	keys := sortedKeys(e.Fields)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Retryable reports whether repeating the call might succeed: transport
// failures, 5xx, 408 and 429. Everything else is the caller's fault.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		var valErr *ValidationError
		var tfaErr *TwoFactorRequiredError
		return !errors.As(err, &valErr) && !errors.As(err, &tfaErr)
	}

	switch {
	case apiErr.StatusCode >= 500:
		return true
	case apiErr.StatusCode == http.StatusRequestTimeout, apiErr.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

var fallbackMessages = map[string]struct {
	generic, network, twoFactor string
}{
	"en": {
		generic:   "Something went wrong. Please try again.",
		network:   "Unable to reach the server. Please check your connection.",
		twoFactor: "Enter the verification code to continue.",
	},
	"ar": {
		generic:   "حدث خطأ ما. يرجى المحاولة مرة أخرى.",
		network:   "تعذر الاتصال بالخادم. يرجى التحقق من اتصالك.",
		twoFactor: "أدخل رمز التحقق للمتابعة.",
	},
}

// Message turns any error from this package into the string shown to the
// user. lang selects the fallback language ("ar" or "en", default "en").
func Message(err error, lang string) string {
	fb, ok := fallbackMessages[lang]
	if !ok {
		fb = fallbackMessages["en"]
	}

	var (
		apiErr *APIError
		valErr *ValidationError
		tfaErr *TwoFactorRequiredError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fb.generic
	case errors.As(err, &valErr):
		keys := sortedKeys(valErr.Fields)
		if len(keys) == 0 {
			return fb.generic
		}
		return keys[0] + ": " + valErr.Fields[keys[0]]
	case errors.As(err, &tfaErr):
		return fb.twoFactor
	default:
		return fb.network
	}
}

// parseErrorResponse folds the backend's assorted error payloads into *APIError.
func parseErrorResponse(status int, body []byte) error {
	apiErr := &APIError{
		StatusCode: status,
		Code:       codeForStatus(status),
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	if raw, ok := payload["code"]; ok {
		var code string
		if json.Unmarshal(raw, &code) == nil && code != "" {
			apiErr.Code = code
		}
	}

	// Explicit message keys win, in the order the backend views use them.
	for _, key := range []string{"error", "message", "detail", "non_field_errors"} {
		if msg := firstMessage(payload[key]); msg != "" {
			apiErr.Message = msg
			break
		}
	}

	fields := make(map[string]string)
	for key, raw := range payload {
		switch key {
		case "error", "message", "detail", "non_field_errors", "status":
			continue
		case "code":
			// A string is the error code; a list is a serializer error on
			// an OTP or 2FA "code" field.
			var s string
			if json.Unmarshal(raw, &s) == nil {
				continue
			}
		}
		if msg := firstMessage(raw); msg != "" {
			fields[key] = msg
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
		if apiErr.Message == "" {
			k := sortedKeys(fields)[0]
			apiErr.Message = k + ": " + fields[k]
		}
	}

	return apiErr
}

// firstMessage extracts a string from a JSON value that may be a string, a
// list of strings, or an object with a "message" key.
func firstMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}

	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		for _, item := range list {
			if msg := firstMessage(item); msg != "" {
				return msg
			}
		}
		return ""
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if msg := firstMessage(obj[key]); msg != "" {
				return msg
			}
		}
	}

	return ""
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorCodeUnauthorized
	case status == http.StatusForbidden:
		return ErrorCodeForbidden
	case status == http.StatusNotFound:
		return ErrorCodeNotFound
	case status == http.StatusTooManyRequests:
		return ErrorCodeThrottled
	case status >= 500:
		return ErrorCodeServerError
	default:
		return ErrorCodeBadRequest
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
