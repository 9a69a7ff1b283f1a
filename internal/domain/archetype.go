package domain

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ArchetypeBullets is the fixed number of trait bullets per archetype.
const ArchetypeBullets = 4

// bulletPlaceholder pads short bullet lists so clients always render four rows.
const bulletPlaceholder = "—"

// Archetype is the AI-derived style classification attached to a job.
type Archetype struct {
	Type    string   `json:"type"`
	Reason  string   `json:"reason"`
	Bullets []string `json:"bullets"`
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseArchetype decodes raw JSON into a normalized Archetype. It fails closed:
// a missing type or reason rejects the payload instead of defaulting.
func ParseArchetype(raw []byte) (Archetype, error) {
	var in struct {
		Type    string          `json:"type"`
		Reason  string          `json:"reason"`
		Bullets json.RawMessage `json:"bullets"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return Archetype{}, errors.New("archetype is not a JSON object")
	}
	a := Archetype{
		Type:   strings.TrimSpace(in.Type),
		Reason: strings.TrimSpace(in.Reason),
	}
	if a.Type == "" || a.Reason == "" {
		return Archetype{}, errors.New("archetype requires non-empty type and reason")
	}
	if len(in.Bullets) > 0 {
		var items []any
		if err := json.Unmarshal(in.Bullets, &items); err == nil {
			for _, it := range items {
				s, ok := it.(string)
				if !ok {
					continue
				}
				if s = strings.TrimSpace(s); s != "" {
					a.Bullets = append(a.Bullets, s)
				}
				if len(a.Bullets) == ArchetypeBullets {
					break
				}
			}
		}
	}
	for len(a.Bullets) < ArchetypeBullets {
		a.Bullets = append(a.Bullets, bulletPlaceholder)
	}
	return a, nil
}

// ExtractArchetype locates a JSON object inside free-form model output and
// parses it. Models occasionally wrap the object in prose or code fences.
func ExtractArchetype(text string) (Archetype, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Archetype{}, errors.New("empty model output")
	}
	if a, err := ParseArchetype([]byte(text)); err == nil {
		return a, nil
	}
	m := jsonObjectPattern.FindString(text)
	if m == "" {
		return Archetype{}, errors.New("no JSON object in model output")
	}
	return ParseArchetype([]byte(m))
}
