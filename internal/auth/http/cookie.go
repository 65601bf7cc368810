package http

import (
	"net/http"
	"strings"
)

// authCookieName is the cookie mirroring the access token for browser
// clients that cannot attach an Authorization header.
const authCookieName = "auth_token"

// authCookieMaxAge matches the access token lifetime in seconds.
const authCookieMaxAge = 3600

func setAuthCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// extractAccessToken pulls the access token from the Authorization header
// (preferred) or falls back to the auth cookie. A non-Bearer Authorization
// header is ignored rather than blocking the cookie path.
func extractAccessToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if c, err := r.Cookie(authCookieName); err == nil {
		return c.Value
	}

	return ""
}
