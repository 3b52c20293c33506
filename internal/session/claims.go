// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload embedded inside the upstream access token.
//
// # Why unverified parsing?
//
// The gateway never validates the token signature: it does not hold the
// upstream signing key, and the claims are used only to pick which shell to
// render. The upstream API verifies the same token cryptographically on every
// proxied request, so the claims here are advisory, never a security boundary.
type Claims struct {
	jwt.RegisteredClaims

	Role     string `json:"role"`
	Username string `json:"username"`
}

// ErrMalformedToken is returned when the access token cannot be decoded or is
// missing a required claim. Any malformed token is fatal to the session.
var ErrMalformedToken = errors.New("session: malformed access token")

// claimsParser skips signature validation. See [Claims].
var claimsParser = jwt.NewParser()

// DecodeClaims extracts the routing claims from a raw access token string.
//
// # Contract
//
// The token's payload segment must decode as JSON carrying at least `role`,
// `username`, and `exp`. A token missing any of them is treated exactly like
// an unparsable one — there is no partial-trust state.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := claimsParser.ParseUnverified(token, claims); err != nil {
		return nil, ErrMalformedToken
	}

	if claims.Role == "" || claims.Username == "" || claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

// Expired reports whether the token's exp claim is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt.Time)
}
