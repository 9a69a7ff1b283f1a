package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// OutfitsFile streams a stored artifact back to the client. Stored objects are
// immutable, so aggressive caching is safe.
func (a *App) OutfitsFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.NotFound(w, r)
		return
	}
	data, contentType, err := a.Blobs.Get(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}
