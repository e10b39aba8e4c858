/*
Package apiclient is the HTTP client for the marketplace REST API (the
Django backend behind the souq front-end).

The client is stateless with respect to credentials: every authenticated
call takes the bearer access token explicitly. Token ownership lives in the
session controller, which is the only writer of the durable token store.

# Endpoints

	POST /accounts/auth/login/                   Login
	POST /accounts/auth/register/                Register (JSON, or multipart with documents)
	POST /accounts/auth/logout/                  Logout (best effort)
	POST /accounts/auth/otp/send/                SendOTP
	POST /accounts/auth/otp/verify/              VerifyOTP
	POST /accounts/auth/2fa/verify/              VerifyTwoFactor
	POST /accounts/auth/password-reset/          RequestPasswordReset
	POST /accounts/auth/password-reset/confirm/  ConfirmPasswordReset
	GET  /accounts/profile/                      GetProfile
	POST /accounts/security/2fa/setup/           SetupTwoFactor

# Error Handling

The backend is not consistent about its error payloads: some views answer
{"error": "..."}, others {"message": "..."}, DRF defaults to {"detail": "..."}
and serializer failures come back as field lists. All of them are folded
into *APIError at the boundary so nothing above this package branches on
payload shape:

	resp, err := client.Login(ctx, req)
	if err != nil {
		var tfa *apiclient.TwoFactorRequiredError
		if errors.As(err, &tfa) {
			// ask for the code, then VerifyTwoFactor
		}
		msg := apiclient.Message(err, "ar") // always a displayable string
	}

Requests are validated client-side before being sent; failures are
returned as *ValidationError with a field -> message map.
*/
package apiclient
