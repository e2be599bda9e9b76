// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// Package auth verifies the single admin credential: a bcrypt-checked
// password plus, when a TOTP secret is configured, a six-digit code.
package auth

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Issuer is shown by authenticator apps next to the account name.
	Issuer = "LancasterHub"

	// Account is the authenticator app label for the admin credential.
	Account = "admin"
)

var (
	// ErrInvalidCredentials covers both a wrong password and a wrong code.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCodeRequired is returned when the password is right but TOTP is
	// enabled and no code was supplied.
	ErrCodeRequired = errors.New("two-factor code required")

	// ErrTOTPDisabled is returned by ProvisioningQR when no secret is set.
	ErrTOTPDisabled = errors.New("two-factor authentication is not configured")
)

// Authenticator checks admin logins.
type Authenticator struct {
	hash       []byte
	totpSecret string
}

// New creates an Authenticator. passwordHash, when set, must be a bcrypt
// hash and takes precedence over the plain password, which is hashed once
// here so the plaintext is not kept around.
func New(password, passwordHash, totpSecret string) (*Authenticator, error) {
	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("admin password is not configured")
	}
	return &Authenticator{hash: hash, totpSecret: totpSecret}, nil
}

// TOTPEnabled reports whether logins need a second factor.
func (a *Authenticator) TOTPEnabled() bool {
	return a.totpSecret != ""
}

// Verify checks a login attempt. code is ignored when TOTP is disabled.
func (a *Authenticator) Verify(password, code string) error {
	if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	if !a.TOTPEnabled() {
		return nil
	}
	if code == "" {
		return ErrCodeRequired
	}
	if !totp.Validate(code, a.totpSecret) {
		return ErrInvalidCredentials
	}
	return nil
}

// ProvisioningURL returns the otpauth:// URL for the configured secret.
func (a *Authenticator) ProvisioningURL() (string, error) {
	if !a.TOTPEnabled() {
		return "", ErrTOTPDisabled
	}
	return provisioningURL(a.totpSecret), nil
}

// ProvisioningQR renders the provisioning URL as a 256px PNG QR code.
func (a *Authenticator) ProvisioningQR() ([]byte, error) {
	u, err := a.ProvisioningURL()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(u, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func provisioningURL(secret string) string {
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("issuer", Issuer)
	return fmt.Sprintf("otpauth://totp/%s:%s?%s", url.PathEscape(Issuer), url.PathEscape(Account), q.Encode())
}

// GenerateSecret creates a new base32 TOTP secret for ADMIN_TOTP_SECRET.
func GenerateSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: Account,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}
	return key.Secret(), nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
