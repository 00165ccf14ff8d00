package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	redirectURL    string
	cookieDomain   string
	cookieSameSite http.SameSite
	cookieMaxAge   time.Duration
}

func NewAuthHandler(authService ports.AuthService, redirectURL string, cookieDomain string, cookieSameSite http.SameSite, cookieMaxAge time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		redirectURL:    redirectURL,
		cookieDomain:   cookieDomain,
		cookieSameSite: cookieSameSite,
		cookieMaxAge:   cookieMaxAge,
	}
}

// GoogleCallback receives the Google Identity Services form post, exchanges
// the credential for an access token and stores it in a cookie.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	credential := r.FormValue("credential")
	if credential == "" {
		ErrorResponse(w, http.StatusBadRequest, "missing credential")
		return
	}

	accessToken, err := h.authService.LoginWithGoogle(r.Context(), credential)
	if err != nil {
		slog.Warn("google login failed", "error", err)
		ErrorResponse(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	h.setAccessTokenCookie(w, accessToken)

	if h.redirectURL == "" {
		JSONResponse(w, http.StatusOK, map[string]string{"access_token": accessToken})
		return
	}
	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookieDomain})
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   int(h.cookieMaxAge.Seconds()),
	})
}
