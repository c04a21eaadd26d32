package utils

import (
	"net/http"
	"time"
)

// SessionCookie describes how the session token is stored on the client.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Read returns the raw token, or "" when the cookie is absent.
func (c SessionCookie) Read(r *http.Request) string {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (c SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL / time.Second),
		Expires:  time.Now().Add(c.TTL),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires the cookie on the client.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
