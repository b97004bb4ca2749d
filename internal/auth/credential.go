// Package auth holds the provider-facing pieces of sign-in: decoding the
// Google credential, generating and checking the OAuth state token, building
// the LinkedIn authorization URL, and the identity-client port the Google
// token flow runs through.
//
// Nothing here talks to the backend; the service package orchestrates that.
package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/career-compass/internal/apperror"
)

// GoogleIdentity is the profile embedded in a Google ID token's claims.
type GoogleIdentity struct {
	Email   string
	Name    string
	Picture string
	Subject string // Google's stable user ID ("sub")
}

// googleClaims is the JWT payload of a Google credential. Only the fields
// the sign-in exchange forwards are decoded.
type googleClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// DecodeCredential reads the claims segment of a Google credential.
//
// The signature is NOT verified. The raw credential is forwarded to the
// backend, which checks signature, issuer and audience before it trusts any
// claim; the decoded fields are only used to pre-fill the exchange request.
//
// Any malformed input yields an apperror.ErrValidation error, never a panic.
func DecodeCredential(raw string) (*GoogleIdentity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperror.ValidationFailed("credential", "auth: credential is empty")
	}

	var c googleClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &c); err != nil {
		return nil, apperror.ValidationFailed("credential", fmt.Sprintf("auth: decoding credential: %v", err))
	}

	return &GoogleIdentity{
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
		Subject: c.Subject,
	}, nil
}
