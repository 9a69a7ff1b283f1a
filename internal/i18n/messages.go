// Package i18n localizes user-facing error messages. The product's primary
// audience is Russian-speaking, so ru is the default and en the fallback for
// everyone else.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Supported locales, in matcher preference order.
var supported = []language.Tag{
	language.Russian,
	language.English,
}

var matcher = language.NewMatcher(supported)

// Match picks the best locale from an Accept-Language header value, falling
// back to fallback when nothing usable is present.
func Match(acceptLanguage, fallback string) string {
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			tag, _, conf := matcher.Match(tags...)
			if conf > language.No {
				base, _ := tag.Base()
				if base.String() == "ru" {
					return "ru"
				}
			}
			// A parseable header that does not match ru means the
			// requester is not a Russian speaker.
			return "en"
		}
	}
	if fallback == "ru" || fallback == "en" {
		return fallback
	}
	return "en"
}

// RussianSpeakingCountry reports whether a country code should default to ru.
func RussianSpeakingCountry(code string) bool {
	switch code {
	case "RU", "BY", "KZ", "UA", "KG", "UZ":
		return true
	}
	return false
}

// Message keys.
const (
	MsgBadContentType   = "bad_content_type"
	MsgInvalidEmail     = "invalid_email"
	MsgEmptyEvent       = "empty_event"
	MsgInvalidArchetype = "invalid_archetype"
	MsgMissingFiles     = "missing_files"
	MsgNeedPNG          = "need_png"
	MsgFileTooLarge     = "file_too_large"
	MsgBadJob           = "bad_job"
	MsgJobNotFound      = "job_not_found"
	MsgClassifyFailed   = "classify_failed"
	MsgInvalidAIJSON    = "invalid_ai_json"
	MsgNotFound         = "not_found"
	MsgInternal         = "internal"
)

var messages = map[string]map[string]string{
	"ru": {
		MsgBadContentType:   "Ожидается multipart/form-data",
		MsgInvalidEmail:     "Некорректный email",
		MsgEmptyEvent:       "Пустое мероприятие",
		MsgInvalidArchetype: "Некорректный archetype",
		MsgMissingFiles:     "Нужно загрузить 2 фото: face и full",
		MsgNeedPNG:          "Нужно PNG (квадрат) для генерации",
		MsgFileTooLarge:     "Файл слишком большой (макс %dMB)",
		MsgBadJob:           "Некорректный идентификатор задачи",
		MsgJobNotFound:      "Задача не найдена",
		MsgClassifyFailed:   "Ошибка сервиса классификации",
		MsgInvalidAIJSON:    "AI вернул невалидный JSON",
		MsgNotFound:         "Не найдено",
		MsgInternal:         "Внутренняя ошибка",
	},
	"en": {
		MsgBadContentType:   "Expected multipart/form-data",
		MsgInvalidEmail:     "Invalid email",
		MsgEmptyEvent:       "Event must not be empty",
		MsgInvalidArchetype: "Invalid archetype",
		MsgMissingFiles:     "Two photos are required: face and full",
		MsgNeedPNG:          "A PNG image is required for generation",
		MsgFileTooLarge:     "File too large (max %dMB)",
		MsgBadJob:           "Bad job identifier",
		MsgJobNotFound:      "Job not found",
		MsgClassifyFailed:   "Classification service error",
		MsgInvalidAIJSON:    "AI returned invalid JSON",
		MsgNotFound:         "Not found",
		MsgInternal:         "Internal error",
	},
}

// T renders the message for key in the given locale.
func T(locale, key string, args ...any) string {
	table, ok := messages[locale]
	if !ok {
		table = messages["en"]
	}
	msg, ok := table[key]
	if !ok {
		msg = messages["en"][key]
	}
	if msg == "" {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
