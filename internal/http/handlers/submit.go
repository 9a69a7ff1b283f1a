package handlers

import (
	"errors"
	"net/http"
	"strings"

	"stylemate/internal/domain"
	"stylemate/internal/i18n"
	"stylemate/internal/providers/openai"
	"stylemate/internal/telemetry"
)

// Submit runs the stateless archetype classification: two photos in, one
// normalized archetype out. No job is created here.
func (a *App) Submit(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgBadContentType)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if !domain.ValidEmail(email) {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidEmail)
		return
	}

	face, faceType, faceErr := formFile(r, "face", a.MaxUploadBytes)
	full, fullType, fullErr := formFile(r, "full", a.MaxUploadBytes)
	if errors.Is(faceErr, errFileTooLarge) || errors.Is(fullErr, errFileTooLarge) {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgFileTooLarge, a.maxMB())
		return
	}
	if faceErr != nil || fullErr != nil {
		a.fail(w, r, http.StatusBadRequest, i18n.MsgMissingFiles)
		return
	}

	telemetry.ClassifyCalls.Inc()
	archetype, aiText, err := a.Classifier.Classify(r.Context(),
		openai.ImagePart{Data: face, MIME: faceType},
		openai.ImagePart{Data: full, MIME: fullType},
	)
	if err != nil {
		telemetry.ClassifyFailures.Inc()
		a.Logger.Warn().Err(err).Msg("classification failed")
		preview := aiText
		if len(preview) > 400 {
			preview = preview[:400]
		}
		if aiText != "" {
			locale := currentLocale(r)
			a.json(w, http.StatusBadGateway, map[string]any{
				"ok":            false,
				"error":         i18n.T(locale, i18n.MsgInvalidAIJSON),
				"aiTextPreview": preview,
			})
			return
		}
		a.fail(w, r, http.StatusBadGateway, i18n.MsgClassifyFailed)
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"ok":     true,
		"result": archetype,
		"aiText": aiText,
	})
}
