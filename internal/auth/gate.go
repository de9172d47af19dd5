// Package auth guards the administrative endpoints with a single shared PIN.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/nettorechner/nettorechner/pkg/constants"
)

var (
	// ErrNotConfigured is returned when no PIN has been set.
	ErrNotConfigured = errors.New("admin access is not configured")
	// ErrInvalidPIN is returned for a wrong or empty PIN.
	ErrInvalidPIN = errors.New("invalid PIN")
)

// Gate checks PINs and session cookies. The session token is derived from
// the PIN, so every session is invalidated when the PIN changes.
type Gate struct {
	pin   string
	token string
}

// NewGate returns a gate for pin. An empty pin leaves the gate closed.
func NewGate(pin string) *Gate {
	pin = strings.TrimSpace(pin)
	g := &Gate{pin: pin}
	if pin != "" {
		g.token = SessionToken(pin)
	}
	return g
}

// SessionToken derives the cookie value for pin: the hex sha256 digest.
func SessionToken(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// Configured reports whether a PIN is set.
func (g *Gate) Configured() bool {
	return g.pin != ""
}

// CheckPIN validates a submitted PIN.
func (g *Gate) CheckPIN(pin string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}
	pin = strings.TrimSpace(pin)
	if pin == "" || subtle.ConstantTimeCompare([]byte(pin), []byte(g.pin)) != 1 {
		return ErrInvalidPIN
	}
	return nil
}

// Authorized reports whether r carries a valid session cookie.
func (g *Gate) Authorized(r *http.Request) bool {
	if !g.Configured() {
		return false
	}
	c, err := r.Cookie(constants.AdminSessionCookie)
	if err != nil || c.Value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(g.token)) == 1
}

// SetSession writes the session cookie.
func (g *Gate) SetSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AdminSessionCookie,
		Value:    g.token,
		Path:     "/",
		MaxAge:   constants.AdminSessionMaxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func (g *Gate) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AdminSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
