package apiclient_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/souq/pkg/apiclient"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		return nil
	}
	var valErr *apiclient.ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields
}

func TestLoginRequestValidation(t *testing.T) {
	t.Parallel()

	require.Nil(t, fieldsOf(t, apiclient.NewLoginRequest("+201012345678", "secret1").Validate()))
	require.Nil(t, fieldsOf(t, apiclient.NewLoginRequest("mona@example.com", "secret1").Validate()))

	fields := fieldsOf(t, apiclient.NewLoginRequest("01012345678", "").Validate())
	require.Contains(t, fields["phone_number"], "international")
	require.Equal(t, "required", fields["password"])

	fields = fieldsOf(t, apiclient.NewLoginRequest("mona@", "secret1").Validate())
	require.Equal(t, "must be a valid email address", fields["email"])
}

func TestRegisterRequestValidation(t *testing.T) {
	t.Parallel()

	valid := apiclient.RegisterRequest{
		FullName:        "Mona Hassan",
		PhoneNumber:     "+201012345678",
		Password:        "longenough",
		PasswordConfirm: "longenough",
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.PasswordConfirm = "different"
	bad.Password = "short"
	bad.Role = "admin"
	bad.Documents = []apiclient.Document{{Field: "id_card"}}

	fields := fieldsOf(t, bad.Validate())
	require.Equal(t, "does not match", fields["password_confirm"])
	require.Equal(t, "too short (min 8)", fields["password"])
	require.Equal(t, "must be one of: user provider", fields["role"])
	require.Contains(t, fields, "documents")

	ok := valid
	ok.Documents = []apiclient.Document{{Field: "id_card", Filename: "id.png", Content: strings.NewReader("png")}}
	require.NoError(t, ok.Validate())
}

func TestOTPAndTwoFactorValidation(t *testing.T) {
	t.Parallel()

	fields := fieldsOf(t, apiclient.OTPVerifyRequest{Code: "12ab"}.Validate())
	require.Equal(t, "phone number or email is required", fields["phone_number"])
	require.Equal(t, "must contain digits only", fields["code"])

	fields = fieldsOf(t, apiclient.TwoFactorVerifyRequest{Code: "12345"}.Validate())
	require.Equal(t, "required", fields["temp_token"])
	require.Equal(t, "too short (min 6)", fields["code"])

	// TOTP and backup codes both pass.
	require.NoError(t, apiclient.TwoFactorVerifyRequest{TempToken: "tmp", Code: "123456"}.Validate())
	require.NoError(t, apiclient.TwoFactorVerifyRequest{TempToken: "tmp", Code: "K7QX-29MD"}.Validate())

	require.NoError(t, apiclient.OTPSendRequest{Email: "mona@example.com", Purpose: "email_verification"}.Validate())
}
