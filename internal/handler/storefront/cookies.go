package storefront

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookieName identifies the shopper's cart session.
const SessionCookieName = "seoultee_cart"

// sessionMaxAge keeps an anonymous cart around for 30 days.
const sessionMaxAge = 30 * 24 * 60 * 60

// GetSessionIDFromCookie retrieves the session ID from the cart cookie.
// Returns empty string if the cookie is not present.
func GetSessionIDFromCookie(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// EnsureSession returns the shopper's session ID, minting and setting a
// new one when the request carries none.
func EnsureSession(w http.ResponseWriter, r *http.Request, secure bool) string {
	if sessionID := GetSessionIDFromCookie(r); sessionID != "" {
		return sessionID
	}
	sessionID := uuid.New().String()
	SetSessionCookie(w, sessionID, secure)
	return sessionID
}

// SetSessionCookie sets the cart session cookie with appropriate security
// settings.
func SetSessionCookie(w http.ResponseWriter, sessionID string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
