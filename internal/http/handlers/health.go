package handlers

import (
	"net/http"

	"stylemate/internal/i18n"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound keeps unknown routes on the same localized JSON envelope as the
// rest of the API.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.fail(w, r, http.StatusNotFound, i18n.MsgNotFound)
}
