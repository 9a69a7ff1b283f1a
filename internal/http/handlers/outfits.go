package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stylemate/internal/domain"
	"stylemate/internal/i18n"
	"stylemate/internal/storage"
)

// OutfitsStart validates the submission, stores the two source photos, and
// creates + triggers the generation job. Validation failures are synchronous
// 4xx responses; no job record is created for them.
func (a *App) OutfitsStart(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgBadContentType)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if !domain.ValidEmail(email) {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidEmail)
		return
	}
	event := strings.TrimSpace(r.FormValue("event"))
	if event == "" {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgEmptyEvent)
		return
	}
	archetype, err := domain.ParseArchetype([]byte(strings.TrimSpace(r.FormValue("archetype"))))
	if err != nil {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidArchetype)
		return
	}

	count := 1
	if v := strings.TrimSpace(r.FormValue("count")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			count = domain.ClampCount(n)
		}
	}

	full, err := a.readPNG(r, "full")
	if err != nil {
		a.failUpload(w, r, err)
		return
	}
	face, err := a.readPNG(r, "face")
	if err != nil {
		a.failUpload(w, r, err)
		return
	}

	job := domain.NewJobID()
	inputKey := storage.JobKey(job, storage.SlotInput)
	faceKey := storage.JobKey(job, storage.SlotFace)
	if _, err := a.Blobs.Put(r.Context(), inputKey, full, "image/png"); err != nil {
		a.Logger.Error().Err(err).Msg("store input image")
		a.fail(w, r, http.StatusInternalServerError, i18n.MsgInternal)
		return
	}
	if _, err := a.Blobs.Put(r.Context(), faceKey, face, "image/png"); err != nil {
		a.Logger.Error().Err(err).Msg("store face image")
		a.fail(w, r, http.StatusInternalServerError, i18n.MsgInternal)
		return
	}

	actor := a.Registry.Locate(job)
	spec := domain.JobSpec{
		Requester:         email,
		EventLabel:        event,
		Archetype:         archetype,
		ReferenceImageRef: inputKey,
		FaceImageRef:      faceKey,
		TargetSize:        a.OutfitSize,
		RequestedCount:    count,
	}
	if err := actor.Init(r.Context(), spec); err != nil {
		if errors.Is(err, domain.ErrInvalidSpec) {
			a.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidArchetype)
			return
		}
		a.Logger.Error().Err(err).Str("job", job).Msg("init job")
		a.fail(w, r, http.StatusInternalServerError, i18n.MsgInternal)
		return
	}
	if err := actor.Run(r.Context()); err != nil {
		a.Logger.Error().Err(err).Str("job", job).Msg("run job")
		a.fail(w, r, http.StatusInternalServerError, i18n.MsgInternal)
		return
	}

	a.json(w, http.StatusOK, map[string]any{"ok": true, "job": job})
}

// OutfitsStatus serves the persisted job snapshot. The identifier shape is
// checked before the lookup so malformed input never reaches the actor layer.
func (a *App) OutfitsStatus(w http.ResponseWriter, r *http.Request) {
	job := strings.TrimSpace(r.URL.Query().Get("job"))
	if !domain.ValidJobID(job) {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgBadJob)
		return
	}

	view, err := a.Registry.Locate(job).Status(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.fail(w, r, http.StatusNotFound, i18n.MsgJobNotFound)
			return
		}
		a.Logger.Error().Err(err).Str("job", job).Msg("load job status")
		a.fail(w, r, http.StatusInternalServerError, i18n.MsgInternal)
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"ok":     true,
		"status": view.Status,
		"error":  view.Error,
		"images": view.Images,
	})
}

func (a *App) readPNG(r *http.Request, name string) ([]byte, error) {
	data, contentType, err := formFile(r, name, a.MaxUploadBytes)
	if err != nil {
		return nil, err
	}
	if !looksPNGType(contentType) || !sniffPNG(data) {
		return nil, errNotPNG
	}
	return data, nil
}

var errNotPNG = errors.New("not a png")

func (a *App) failUpload(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errFileTooLarge):
		a.fail(w, r, http.StatusBadRequest, i18n.MsgFileTooLarge, a.maxMB())
	case errors.Is(err, errNotPNG):
		a.fail(w, r, http.StatusBadRequest, i18n.MsgNeedPNG)
	default:
		a.fail(w, r, http.StatusBadRequest, i18n.MsgMissingFiles)
	}
}
