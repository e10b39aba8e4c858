package guard

import (
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/aussiebroadwan/souq/pkg/httpx"
	"github.com/aussiebroadwan/souq/pkg/slogx"
)

// StatusSource is implemented by *session.Controller.
type StatusSource interface {
	Status() domain.AuthStatus
}

// Paths are the redirect targets.
type Paths struct {
	Login        string
	Unauthorized string
	Verify       string
}

var DefaultPaths = Paths{
	Login:        "/login",
	Unauthorized: "/unauthorized",
	Verify:       "/verify-account",
}

// Guard turns Decide into HTTP behavior.
type Guard struct {
	source StatusSource
	paths  Paths
}

func New(source StatusSource, paths Paths) *Guard {
	if paths.Login == "" {
		paths.Login = DefaultPaths.Login
	}
	if paths.Unauthorized == "" {
		paths.Unauthorized = DefaultPaths.Unauthorized
	}
	if paths.Verify == "" {
		paths.Verify = DefaultPaths.Verify
	}
	return &Guard{source: source, paths: paths}
}

// Protect gates the wrapped handler. Redirects use 303 and the login
// redirect carries the original path and query in "from". While loading a
// placeholder is served and the browser is asked to retry shortly.
func (g *Guard) Protect(req Requirements) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outcome := Decide(g.source.Status(), req)

			if outcome != Render {
				slogx.FromContext(r.Context()).Debug("route guard",
					"path", r.URL.Path,
					"outcome", outcome.String(),
				)
			}

			switch outcome {
			case Loading:
				w.Header().Set("Refresh", "1")
				httpx.WriteJSON(w, http.StatusOK, map[string]string{"state": string(domain.StateLoading)})
			case RedirectLogin:
				target := g.paths.Login + "?" + url.Values{"from": {r.URL.RequestURI()}}.Encode()
				httpx.NoCache(w)
				http.Redirect(w, r, target, http.StatusSeeOther)
			case RedirectUnauthorized:
				httpx.NoCache(w)
				http.Redirect(w, r, g.paths.Unauthorized, http.StatusSeeOther)
			case RedirectVerify:
				httpx.NoCache(w)
				http.Redirect(w, r, g.paths.Verify, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
