// Package tokeninfo reads claims out of the backend's access tokens without
// verifying them. The gateway never trusts these values for authorization;
// they only feed status output and log lines (subject, expiry).
package tokeninfo

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaque is returned when the token is not a parseable JWT. The backend
// is free to issue opaque tokens, so callers treat this as "no info".
var ErrOpaque = errors.New("tokeninfo: token is not a jwt")

// Claims is the subset of the access token the gateway cares about.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is what djangorestframework-simplejwt puts in "user_id".
	UserID any `json:"user_id,omitempty"`

	TokenType string `json:"token_type,omitempty"`
}

// Info summarises a token for display.
type Info struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp
}

// Inspect parses token without checking its signature.
func Inspect(token string) (Info, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Info{}, ErrOpaque
	}

	info := Info{Subject: claims.Subject}
	if info.Subject == "" && claims.UserID != nil {
		info.Subject = stringify(claims.UserID)
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Expired reports whether the token's exp is in the past relative to now.
// Tokens without exp never expire from the client's point of view.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
