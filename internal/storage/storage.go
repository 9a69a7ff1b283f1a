// Package storage stores job artifacts under jobs/<id>/<slot> keys.
package storage

import (
	"context"
	"fmt"
)

// Slot names for a job's stored artifacts.
const (
	SlotInput = "input.png"
	SlotFace  = "face.png"
)

// BlobStore is the contract for the remote artifact sink. Put returns a
// retrievable URL for the stored object.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
}

// JobKey builds the canonical storage key for a job slot.
func JobKey(jobID, slot string) string {
	return fmt.Sprintf("jobs/%s/%s", jobID, slot)
}

// OutputSlot names the Nth generated candidate, 1-based.
func OutputSlot(n int) string {
	return fmt.Sprintf("out_%d.png", n)
}
