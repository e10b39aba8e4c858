package apiclient_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/souq/pkg/apiclient"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestTwoFactorSetupKey(t *testing.T) {
	t.Parallel()

	generated, err := totp.Generate(totp.GenerateOpts{Issuer: "Souq", AccountName: "+201012345678"})
	require.NoError(t, err)

	setup := apiclient.TwoFactorSetup{OTPAuthURL: generated.URL()}
	key, err := setup.Key()
	require.NoError(t, err)
	require.Equal(t, "Souq", key.Issuer())
	require.Equal(t, "+201012345678", key.AccountName())
	require.Equal(t, generated.Secret(), key.Secret())

	// The parsed secret drives the same codes the authenticator app shows.
	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)
	require.True(t, totp.Validate(code, generated.Secret()))
}

func TestTwoFactorSetupRejectsHOTP(t *testing.T) {
	t.Parallel()

	setup := apiclient.TwoFactorSetup{OTPAuthURL: "otpauth://hotp/Souq:mona?secret=JBSWY3DPEHPK3PXP&counter=0"}
	_, err := setup.Key()
	require.Error(t, err)

	setup = apiclient.TwoFactorSetup{OTPAuthURL: "::not a url"}
	_, err = setup.Key()
	require.Error(t, err)
}
