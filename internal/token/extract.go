package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// ExtractEmail pulls the email claim out of a token without verifying its
// signature. Identity-provider tokens arrive signed with a key we do not
// hold, so the claim is untrusted hearsay; it is only ever used to ask the
// allowlist whether the account should be admitted, never to grant access
// by itself.
func ExtractEmail(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", false
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", false
	}

	return email, true
}
