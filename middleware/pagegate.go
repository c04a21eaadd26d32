package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go-storefront/models"
	"go-storefront/utils"
)

// PathClass is the access rule a page path falls under.
type PathClass int

const (
	PathOpen PathClass = iota
	PathPublicOnly
	PathUserProtected
	PathAdminProtected
)

func (c PathClass) String() string {
	switch c {
	case PathPublicOnly:
		return "public-only"
	case PathUserProtected:
		return "user-protected"
	case PathAdminProtected:
		return "admin-protected"
	default:
		return "open"
	}
}

var (
	publicOnlyPaths = []string{"/login", "/register"}
	userPaths       = []string{"/orders", "/checkout", "/cart/checkout", "/profile"}
	adminPaths      = []string{"/admin"}
)

// ClassifyPath maps a page path to its access class. Public-only paths match
// exactly; protected areas match the path and everything beneath it.
func ClassifyPath(path string) PathClass {
	for _, p := range publicOnlyPaths {
		if path == p {
			return PathPublicOnly
		}
	}
	for _, p := range adminPaths {
		if underPath(path, p) {
			return PathAdminProtected
		}
	}
	for _, p := range userPaths {
		if underPath(path, p) {
			return PathUserProtected
		}
	}
	return PathOpen
}

func underPath(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// PageGate guards page navigation: anonymous visitors are sent to the login
// page from protected areas, signed-in visitors are sent home from the login
// and register pages, and non-admins are sent home from the admin area.
func PageGate(tokens TokenVerifier, cookie utils.SessionCookie, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := ClassifyPath(r.URL.Path)

			var identity *utils.Identity
			if raw := cookie.Read(r); raw != "" {
				id, err := tokens.Verify(raw)
				switch {
				case errors.Is(err, utils.ErrMissingSecret):
					log.Error("session secret not configured")
					http.Error(w, "Internal Server Error: authentication configuration issue", http.StatusInternalServerError)
					return
				case err != nil:
					if class != PathPublicOnly {
						cookie.Clear(w)
					}
				default:
					identity = id
				}
			}

			switch class {
			case PathPublicOnly:
				if identity != nil {
					redirectHome(w, r)
					return
				}
			case PathUserProtected:
				if identity == nil {
					redirectLogin(w, r)
					return
				}
			case PathAdminProtected:
				if identity == nil {
					redirectLogin(w, r)
					return
				}
				if identity.Role != models.RoleAdmin {
					log.Info("non-admin redirected from admin area", "path", r.URL.Path, "user_id", identity.UserID.Hex())
					redirectHome(w, r)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func redirectLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login?redirect=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
