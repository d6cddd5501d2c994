package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

var ErrNoCredentials = errors.New("no credentials")

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookies() (*Cookies, error) {
	domain, ok := os.LookupEnv("COOKIES_DOMAIN")
	if !ok {
		return nil, fmt.Errorf("COOKIES_DOMAIN env variable is not set")
	}

	cookies := &Cookies{
		Domain:   domain,
		Secure:   os.Getenv("COOKIES_SECURE") != "0",
		SameSite: parseSameSite(os.Getenv("COOKIES_SAMESITE")),
	}

	return cookies, nil
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

func (c *Cookies) set(w http.ResponseWriter, name, value string, expires time.Time, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	c.set(w, "auth", "delete", time.Time{}, -1, false)
	c.set(w, "sign", "delete", time.Time{}, -1, true)
}

// Refresh splits token into a script-readable "auth" cookie holding the
// header and payload and an HttpOnly "sign" cookie holding the signature.
func (c *Cookies) Refresh(w http.ResponseWriter, token string, expires time.Time) error {
	header, rest, ok := strings.Cut(token, ".")
	if !ok {
		return fmt.Errorf("malformed JWT token generated")
	}
	payload, signature, ok := strings.Cut(rest, ".")
	if !ok || strings.Contains(signature, ".") {
		return fmt.Errorf("malformed JWT token generated")
	}
	c.set(w, "auth", header+"."+payload, expires, 0, false)
	c.set(w, "sign", signature, expires, 0, true)
	return nil
}

// Token reassembles the JWT from an Authorization bearer header or, failing
// that, from the auth/sign cookie pair.
func (c *Cookies) Token(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", fmt.Errorf("malformed authorization header")
		}
		return strings.TrimSpace(token), nil
	}

	authCookie, err := r.Cookie("auth")
	if err != nil {
		return "", ErrNoCredentials
	}
	signCookie, err := r.Cookie("sign")
	if err != nil {
		return "", ErrNoCredentials
	}
	return authCookie.Value + "." + signCookie.Value, nil
}
