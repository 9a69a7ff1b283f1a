package domain

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// JobStatus enumerates outfit job lifecycle states.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusSaving  JobStatus = "saving"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// MaxErrorLength bounds the persisted lastError message.
const MaxErrorLength = 2000

// MaxOutputCount is the upper bound on candidate outputs per job.
const MaxOutputCount = 2

var (
	jobIDPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// JobRecord is the durable state of one outfit generation job. It is owned
// exclusively by the job's actor; no other component writes it.
type JobRecord struct {
	ID                string    `json:"id"`
	Requester         string    `json:"requester"`
	EventLabel        string    `json:"event_label"`
	Archetype         Archetype `json:"archetype"`
	ReferenceImageRef string    `json:"reference_image_ref"`
	FaceImageRef      string    `json:"face_image_ref"`
	TargetSize        string    `json:"target_size"`
	RequestedCount    int       `json:"requested_count"`
	Status            JobStatus `json:"status"`
	OutputImageRefs   []string  `json:"output_image_refs,omitempty"`
	LastError         string    `json:"last_error,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// JobSpec carries the immutable inputs supplied at job creation.
type JobSpec struct {
	Requester         string
	EventLabel        string
	Archetype         Archetype
	ReferenceImageRef string
	FaceImageRef      string
	TargetSize        string
	RequestedCount    int
}

// Validate checks the spec before a record is created.
func (s JobSpec) Validate() error {
	if !ValidEmail(s.Requester) {
		return ErrInvalidSpec
	}
	if strings.TrimSpace(s.EventLabel) == "" {
		return ErrInvalidSpec
	}
	if strings.TrimSpace(s.Archetype.Type) == "" || strings.TrimSpace(s.Archetype.Reason) == "" {
		return ErrInvalidSpec
	}
	if strings.TrimSpace(s.ReferenceImageRef) == "" || strings.TrimSpace(s.FaceImageRef) == "" {
		return ErrInvalidSpec
	}
	if strings.TrimSpace(s.TargetSize) == "" {
		return ErrInvalidSpec
	}
	return nil
}

// ClampCount normalizes a requested output count into the supported [1,2] range.
func ClampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxOutputCount {
		return MaxOutputCount
	}
	return n
}

// NewJobID returns a URL-safe 24-hex-character identifier derived from 12
// cryptographically random bytes.
func NewJobID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("domain: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// ValidJobID reports whether s has the canonical job identifier shape.
func ValidJobID(s string) bool {
	return jobIDPattern.MatchString(s)
}

// ValidEmail applies the RFC-5322-light check used at the request boundary.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// TruncateError bounds a pipeline failure message for persistence. The cut
// backs off to a rune boundary so Cyrillic messages stay valid UTF-8.
func TruncateError(msg string) string {
	if len(msg) <= MaxErrorLength {
		return msg
	}
	cut := MaxErrorLength
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
