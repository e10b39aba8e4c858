package http

import (
	"net/http"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/aussiebroadwan/souq/internal/souq/guard"
	"github.com/aussiebroadwan/souq/pkg/httpx"
)

// PageHandler renders page placeholders from the current auth status. The
// real pages are built client side; the gateway only decides who gets them.
type PageHandler struct {
	Status guard.StatusSource
}

// greeting never fails on a missing profile: an authenticated user whose
// profile has not loaded yet sees a placeholder.
func greeting(u *domain.UserProfile) string {
	if name := u.DisplayName(); name != "" {
		return "Welcome, " + name
	}
	return "Welcome"
}

func (h *PageHandler) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := h.Status.Status()
		httpx.WriteJSON(w, http.StatusOK, PageResponse{
			Page:     name,
			Greeting: greeting(st.User),
			User:     st.User,
		})
	}
}

// HandleLoginPage godoc
//
//	@Summary	Sign-in page
//	@Tags		Pages
//	@Produce	json
//	@Param		from	query		string	false	"Path to return to after signing in"
//	@Success	200		{object}	PageResponse
//	@Router		/login [get]
func (h *PageHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, PageResponse{
		Page: "login",
		From: safeReturnPath(r.URL.Query().Get("from")),
	})
}

// HandleSession godoc
//
//	@Summary	Current auth status
//	@Tags		Session
//	@Produce	json
//	@Success	200	{object}	domain.AuthStatus
//	@Router		/api/session [get]
func (h *PageHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Status.Status())
}
