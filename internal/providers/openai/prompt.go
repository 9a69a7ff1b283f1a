package openai

import (
	"fmt"
	"strings"

	"stylemate/internal/domain"
)

var classifyPrompt = strings.Join([]string{
	`Ты — эксперт по "типажам внешности из TikTok" (вайб-архетипы).`,
	"На входе 2 фото: (1) лицо, (2) полный рост.",
	"",
	"Задача:",
	`- Выбери РОВНО ОДИН типаж (короткое название на русском, пример: "Луна", "Солнце", "Лёд", "Муза", "Нимфа", "Дива").`,
	"- Объясни почему (1–2 предложения: черты, контраст, линии/силуэт).",
	"- Дай 4 коротких признака (2–5 слов каждый).",
	"",
	"Верни СТРОГО JSON. Без пояснений, без Markdown, без кодовых блоков.",
	`Формат: {"type":"...","reason":"...","bullets":["...","...","...","..."]}`,
}, "\n")

// BuildOutfitPrompt renders the generation instruction for one job. The first
// reference image is the full-body photo, the second the face reference; the
// wording tells the model the face photo wins for identity.
func BuildOutfitPrompt(eventLabel string, archetype domain.Archetype) string {
	return strings.Join([]string{
		fmt.Sprintf("Сгенерируй образ (полный рост) для мероприятия: %s.", eventLabel),
		fmt.Sprintf("Типаж внешности: %s. Обоснование: %s.", archetype.Type, archetype.Reason),
		"Первое фото — тело и поза, второе фото — лицо.",
		"Лицо на результате должно точно совпадать со вторым фото (приоритет идентичности лица).",
		"Одежда и стилистика должны соответствовать типажу и мероприятию. Фон нейтральный.",
	}, "\n")
}
