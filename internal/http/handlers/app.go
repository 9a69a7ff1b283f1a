package handlers

import (
	"encoding/json"
	"net/http"

	"stylemate/internal/i18n"
	"stylemate/internal/infra"
	"stylemate/internal/joborch"
	"stylemate/internal/middleware"
	"stylemate/internal/providers/openai"
	"stylemate/internal/storage"
)

// App bundles the collaborators the HTTP layer needs.
type App struct {
	Logger         infra.Logger
	Registry       *joborch.Registry
	Blobs          storage.BlobStore
	Classifier     openai.Classifier
	MaxUploadBytes int64
	OutfitSize     string
}

func NewApp(logger infra.Logger, registry *joborch.Registry, blobs storage.BlobStore, classifier openai.Classifier, maxUploadBytes int64, outfitSize string) *App {
	return &App{
		Logger:         logger,
		Registry:       registry,
		Blobs:          blobs,
		Classifier:     classifier,
		MaxUploadBytes: maxUploadBytes,
		OutfitSize:     outfitSize,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes an {ok:false, error} payload localized for the request.
func (a *App) fail(w http.ResponseWriter, r *http.Request, code int, msgKey string, args ...any) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, code, map[string]any{
		"ok":    false,
		"error": i18n.T(locale, msgKey, args...),
	})
}

func (a *App) maxMB() int {
	return int(a.MaxUploadBytes / (1024 * 1024))
}

func currentLocale(r *http.Request) string {
	return middleware.LocaleFromContext(r.Context())
}
