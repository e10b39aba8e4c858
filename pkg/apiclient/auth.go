package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Login exchanges credentials for a session. If the account has two-factor
// enabled the returned error is a *TwoFactorRequiredError.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.postJSON(ctx, "/accounts/auth/login/", req, "")
	if err != nil {
		return nil, err
	}

	return decodeAuthResponse(resp)
}

// Register creates an account. The request is sent as multipart/form-data
// when documents are attached, JSON otherwise.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if len(req.Documents) == 0 {
		resp, err := c.postJSON(ctx, "/accounts/auth/register/", req, "")
		if err != nil {
			return nil, err
		}
		return decodeAuthResponse(resp)
	}

	body, contentType, err := encodeMultipartRegister(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/accounts/auth/register/", body, contentType, "")
	if err != nil {
		return nil, err
	}
	return decodeAuthResponse(resp)
}

// Logout invalidates the refresh token server side. Callers treat failures
// as advisory; local sign-out never depends on this call.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	resp, err := c.postJSON(ctx, "/accounts/auth/logout/", map[string]string{"refresh": refreshToken}, accessToken)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

// SendOTP asks the backend to deliver a code by SMS or email.
func (c *Client) SendOTP(ctx context.Context, req OTPSendRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.postJSON(ctx, "/accounts/auth/otp/send/", req, "")
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP submits a code. For registration and login purposes the backend
// answers with a session; otherwise Session() on the response reports false.
func (c *Client) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.postJSON(ctx, "/accounts/auth/otp/verify/", req, "")
	if err != nil {
		return nil, err
	}
	return decodeAuthResponse(resp)
}

// VerifyTwoFactor completes a login that returned *TwoFactorRequiredError.
func (c *Client) VerifyTwoFactor(ctx context.Context, req TwoFactorVerifyRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.postJSON(ctx, "/accounts/auth/2fa/verify/", req, "")
	if err != nil {
		return nil, err
	}
	return decodeAuthResponse(resp)
}

// RequestPasswordReset sends a reset code to the phone or email.
func (c *Client) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.postJSON(ctx, "/accounts/auth/password-reset/", req, "")
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmPasswordReset sets the new password.
func (c *Client) ConfirmPasswordReset(ctx context.Context, req PasswordResetConfirmRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.postJSON(ctx, "/accounts/auth/password-reset/confirm/", req, "")
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decodeAuthResponse(resp *http.Response) (*AuthResponse, error) {
	var out AuthResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}

	if out.Requires2FA {
		return nil, &TwoFactorRequiredError{TempToken: out.TempToken, Methods: out.Methods}
	}

	return &out, nil
}

func encodeMultipartRegister(req RegisterRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	// Reuse the JSON field names so both encodings agree.
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	for _, doc := range req.Documents {
		part, err := mw.CreateFormFile(doc.Field, doc.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to attach %s: %w", doc.Filename, err)
		}
		if _, err := io.Copy(part, doc.Content); err != nil {
			return nil, "", fmt.Errorf("failed to attach %s: %w", doc.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}
