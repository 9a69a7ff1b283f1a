package joborch

import (
	"sync"

	"stylemate/internal/infra"
	"stylemate/internal/jobstore"
	"stylemate/internal/providers/openai"
	"stylemate/internal/storage"
)

// Deps are the collaborators shared by every actor.
type Deps struct {
	Store    jobstore.Store
	Blobs    storage.BlobStore
	Editor   openai.ImageEditor
	Logger   infra.Logger
	Timeouts Timeouts
}

// Registry routes a job identifier to its single actor instance. Actors are
// constructed lazily; the same identifier always yields the same instance,
// which is what makes the actor's serialization guarantees hold.
type Registry struct {
	deps Deps

	mu     sync.Mutex
	actors map[string]*Actor
}

// NewRegistry builds an empty registry over the shared dependencies.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:   deps,
		actors: make(map[string]*Actor),
	}
}

// Locate returns the actor owning jobID, creating it on first use.
func (r *Registry) Locate(jobID string) *Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.actors[jobID]; ok {
		return a
	}
	a := newActor(jobID, r.deps)
	r.actors[jobID] = a
	return a
}
