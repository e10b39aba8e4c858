package apiclient

import (
	"context"
	"net/http"
)

// GetProfile fetches the signed-in user's profile.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/accounts/profile/", nil, "", accessToken)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// SetupTwoFactor starts authenticator-app enrolment for the signed-in user.
func (c *Client) SetupTwoFactor(ctx context.Context, accessToken string) (*TwoFactorSetup, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/accounts/security/2fa/setup/", nil, "", accessToken)
	if err != nil {
		return nil, err
	}

	var setup TwoFactorSetup
	if err := decodeJSON(resp, &setup); err != nil {
		return nil, err
	}

	return &setup, nil
}
