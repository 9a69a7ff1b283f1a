// Package joborch is the job orchestration core: one actor per job identifier
// owns the job's durable record and sequences the generation pipeline.
package joborch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stylemate/internal/domain"
	"stylemate/internal/infra"
	"stylemate/internal/jobstore"
	"stylemate/internal/providers/openai"
	"stylemate/internal/storage"
	"stylemate/internal/telemetry"
)

// Timeouts bounds each external call the pipeline makes.
type Timeouts struct {
	Fetch    time.Duration
	Generate time.Duration
	Upload   time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Fetch <= 0 {
		t.Fetch = 30 * time.Second
	}
	if t.Generate <= 0 {
		t.Generate = 3 * time.Minute
	}
	if t.Upload <= 0 {
		t.Upload = 30 * time.Second
	}
	return t
}

// StatusView is the snapshot returned to pollers.
type StatusView struct {
	Status domain.JobStatus `json:"status"`
	Error  string           `json:"error,omitempty"`
	Images []string         `json:"images"`
}

// Actor serializes all writes to one job record. The registry guarantees a
// single instance per identifier, so the mutex below is the only admission
// control the at-most-one-execution guarantee needs.
type Actor struct {
	id       string
	store    jobstore.Store
	blobs    storage.BlobStore
	editor   openai.ImageEditor
	logger   infra.Logger
	timeouts Timeouts

	mu sync.Mutex
}

func newActor(id string, deps Deps) *Actor {
	return &Actor{
		id:       id,
		store:    deps.Store,
		blobs:    deps.Blobs,
		editor:   deps.Editor,
		logger:   deps.Logger.With().Str("job", id).Logger(),
		timeouts: deps.Timeouts.withDefaults(),
	}
}

// Init creates the job record if it does not exist yet. Re-initializing an
// existing record is a success no-op and never overwrites it.
func (a *Actor) Init(ctx context.Context, spec domain.JobSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.store.Get(ctx, a.id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	rec := &domain.JobRecord{
		ID:                a.id,
		Requester:         spec.Requester,
		EventLabel:        spec.EventLabel,
		Archetype:         spec.Archetype,
		ReferenceImageRef: spec.ReferenceImageRef,
		FaceImageRef:      spec.FaceImageRef,
		TargetSize:        spec.TargetSize,
		RequestedCount:    domain.ClampCount(spec.RequestedCount),
		Status:            domain.JobStatusQueued,
		UpdatedAt:         time.Now().UTC(),
	}
	return a.store.Put(ctx, rec)
}

// Run triggers one pipeline attempt. When a pipeline is already in flight
// (running or saving) or the job is done, the call is a success no-op; the
// status is advanced to running and persisted before the goroutine starts, so
// concurrent Run calls observe the claim.
func (a *Actor) Run(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.store.Get(ctx, a.id)
	if err != nil {
		return err
	}

	switch rec.Status {
	case domain.JobStatusRunning, domain.JobStatusSaving, domain.JobStatusDone:
		return nil
	}

	rec.Status = domain.JobStatusRunning
	rec.LastError = ""
	rec.OutputImageRefs = nil
	rec.UpdatedAt = time.Now().UTC()
	if err := a.store.Put(ctx, rec); err != nil {
		return err
	}

	telemetry.JobsStarted.Inc()
	go a.pipeline(rec)
	return nil
}

// Status is a pure read of the persisted record; it never blocks on the
// pipeline and is safe to call concurrently with an in-flight Run.
func (a *Actor) Status(ctx context.Context) (StatusView, error) {
	rec, err := a.store.Get(ctx, a.id)
	if err != nil {
		return StatusView{}, err
	}
	view := StatusView{Status: rec.Status, Images: []string{}}
	if rec.Status == domain.JobStatusError {
		view.Error = rec.LastError
	}
	if rec.Status == domain.JobStatusDone {
		view.Images = append(view.Images, rec.OutputImageRefs...)
	}
	return view, nil
}

// pipeline runs one attempt to completion. It is detached from the request
// context; each external call carries its own timeout. Failures are persisted
// into the record, never returned to the Run caller.
func (a *Actor) pipeline(rec *domain.JobRecord) {
	ctx := context.Background()

	body, err := a.fetchBlob(ctx, rec.ReferenceImageRef)
	if err != nil {
		a.fail(ctx, rec, fmt.Errorf("fetch reference image: %w", err))
		return
	}
	face, err := a.fetchBlob(ctx, rec.FaceImageRef)
	if err != nil {
		a.fail(ctx, rec, fmt.Errorf("fetch face image: %w", err))
		return
	}

	prompt := openai.BuildOutfitPrompt(rec.EventLabel, rec.Archetype)

	// The model call is the slow, billed step. Flipping to saving first lets
	// pollers tell "waiting on the model" apart from "persisting results".
	rec.Status = domain.JobStatusSaving
	rec.UpdatedAt = time.Now().UTC()
	if err := a.store.Put(ctx, rec); err != nil {
		a.fail(ctx, rec, fmt.Errorf("persist saving state: %w", err))
		return
	}

	count := domain.ClampCount(rec.RequestedCount)
	genCtx, cancel := context.WithTimeout(ctx, a.timeouts.Generate)
	candidates, err := a.editor.EditImages(genCtx, openai.ImageEditRequest{
		Prompt: prompt,
		Size:   rec.TargetSize,
		Count:  count,
		Images: []openai.ImagePart{
			{Data: body, MIME: "image/png"},
			{Data: face, MIME: "image/png"},
		},
	})
	cancel()
	if err != nil {
		a.fail(ctx, rec, fmt.Errorf("generate outfits: %w", err))
		return
	}
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	refs := make([]string, 0, len(candidates))
	for i, img := range candidates {
		upCtx, cancel := context.WithTimeout(ctx, a.timeouts.Upload)
		url, err := a.blobs.Put(upCtx, storage.JobKey(a.id, storage.OutputSlot(i+1)), img, "image/png")
		cancel()
		if err != nil {
			a.fail(ctx, rec, fmt.Errorf("upload candidate %d: %w", i+1, err))
			return
		}
		refs = append(refs, url)
	}

	rec.Status = domain.JobStatusDone
	rec.OutputImageRefs = refs
	rec.LastError = ""
	rec.UpdatedAt = time.Now().UTC()
	if err := a.store.Put(ctx, rec); err != nil {
		a.fail(ctx, rec, fmt.Errorf("persist done state: %w", err))
		return
	}

	telemetry.JobsSucceeded.Inc()
	a.logger.Info().Int("images", len(refs)).Msg("job completed")
}

func (a *Actor) fetchBlob(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeouts.Fetch)
	defer cancel()
	data, _, err := a.blobs.Get(ctx, key)
	return data, err
}

func (a *Actor) fail(ctx context.Context, rec *domain.JobRecord, cause error) {
	rec.Status = domain.JobStatusError
	rec.LastError = domain.TruncateError(cause.Error())
	rec.OutputImageRefs = nil
	rec.UpdatedAt = time.Now().UTC()
	if err := a.store.Put(ctx, rec); err != nil {
		a.logger.Error().Err(err).Msg("failed to persist error state")
	}
	telemetry.JobsFailed.Inc()
	a.logger.Warn().Err(cause).Msg("job failed")
}
