package apiclient

import (
	"fmt"

	"github.com/pquerna/otp"
)

// Key parses the otpauth URL so the security settings page can show the
// issuer, the account and the secret for manual entry.
func (s *TwoFactorSetup) Key() (*otp.Key, error) {
	key, err := otp.NewKeyFromURL(s.OTPAuthURL)
	if err != nil {
		return nil, fmt.Errorf("invalid otpauth url: %w", err)
	}
	if key.Type() != "totp" {
		return nil, fmt.Errorf("unsupported otp type %q", key.Type())
	}
	return key, nil
}
