package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// ============================================================================
// Identity
// ============================================================================

// ID accepts both numeric and string primary keys; Django hands out
// integers, some views stringify them.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// User is the profile object returned by GET /accounts/profile/ and embedded
// in auth responses. Unknown fields are ignored.
type User struct {
	ID          ID      `json:"id"`
	PhoneNumber string  `json:"phone_number"`
	Email       *string `json:"email,omitempty"`
	FullName    string  `json:"full_name"`
	Avatar      *string `json:"avatar,omitempty"`
	Role        string  `json:"role"`
	Status      string  `json:"status,omitempty"`
	IsVerified  bool    `json:"is_verified"`
}

// ============================================================================
// Tokens
// ============================================================================

// Tokens is the access/refresh pair.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// AuthResponse is returned by login, register, OTP verification and 2FA
// verification. The backend nests tokens under "tokens" but older views put
// access/refresh at the top level; Session() reads either.
type AuthResponse struct {
	User   *User   `json:"user,omitempty"`
	Tokens *Tokens `json:"tokens,omitempty"`

	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`

	Message string `json:"message,omitempty"`

	// Set when the account needs a second factor.
	Requires2FA bool     `json:"requires_2fa,omitempty"`
	TempToken   string   `json:"temp_token,omitempty"`
	Methods     []string `json:"methods,omitempty"`
}

// Session returns the token pair carried by the response, if any.
func (r *AuthResponse) Session() (Tokens, bool) {
	if r.Tokens != nil && r.Tokens.Access != "" {
		return *r.Tokens, true
	}
	if r.Access != "" {
		return Tokens{Access: r.Access, Refresh: r.Refresh}, true
	}
	return Tokens{}, false
}

// ============================================================================
// Requests
// ============================================================================

// LoginRequest carries one identifier (phone or email) and a password.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Email       string `json:"email,omitempty"        validate:"omitempty,email"`
	Password    string `json:"password"               validate:"required"`
}

// NewLoginRequest picks the identifier field from the shape of identifier.
func NewLoginRequest(identifier, password string) LoginRequest {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return LoginRequest{Email: identifier, Password: password}
	}
	return LoginRequest{PhoneNumber: identifier, Password: password}
}

// Document is a file attached to a registration (e.g. a provider's
// commercial register). Its presence switches the request to multipart.
type Document struct {
	Field    string
	Filename string
	Content  io.Reader
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	FullName        string `json:"full_name"        validate:"required,max=150"`
	PhoneNumber     string `json:"phone_number"     validate:"required,e164"`
	Email           string `json:"email,omitempty"  validate:"omitempty,email"`
	Password        string `json:"password"         validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role,omitempty"   validate:"omitempty,oneof=user provider"`

	Documents []Document `json:"-"`
}

// OTPSendRequest asks the backend to deliver a one-time code.
type OTPSendRequest struct {
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Email       string `json:"email,omitempty"        validate:"omitempty,email"`
	Purpose     string `json:"purpose,omitempty"      validate:"omitempty,oneof=registration login password_reset email_verification"`
}

// OTPVerifyRequest submits a one-time code.
type OTPVerifyRequest struct {
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Email       string `json:"email,omitempty"        validate:"omitempty,email"`
	Code        string `json:"code"                   validate:"required,numeric,min=4,max=8"`
	Purpose     string `json:"purpose,omitempty"      validate:"omitempty,oneof=registration login password_reset email_verification"`
}

// TwoFactorVerifyRequest completes a login that answered requires_2fa.
//
// Code is either a 6 digit TOTP code or one of the account's backup codes,
// so only its length is checked here.
type TwoFactorVerifyRequest struct {
	TempToken string `json:"temp_token" validate:"required"`
	Code      string `json:"code"       validate:"required,min=6,max=32"`
}

// PasswordResetRequest starts a reset for a phone or email.
type PasswordResetRequest struct {
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Email       string `json:"email,omitempty"        validate:"omitempty,email"`
}

// PasswordResetConfirmRequest sets a new password using the delivered code.
type PasswordResetConfirmRequest struct {
	PhoneNumber     string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Email           string `json:"email,omitempty"        validate:"omitempty,email"`
	Code            string `json:"code"                   validate:"required,numeric,min=4,max=8"`
	NewPassword     string `json:"new_password"           validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password"       validate:"required,eqfield=NewPassword"`
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// TwoFactorSetup is returned when enrolling an authenticator app.
type TwoFactorSetup struct {
	OTPAuthURL  string   `json:"otpauth_url"`
	Secret      string   `json:"secret,omitempty"`
	BackupCodes []string `json:"backup_codes,omitempty"`
}
