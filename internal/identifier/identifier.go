package identifier

import "github.com/google/uuid"

// Generator produces opaque unique identifiers, optionally prefixed. Used for
// naming stored attachment blobs and lifecycle events.
type Generator interface {
	NewID(prefix string) string
}

type uuidGenerator struct{}

// NewUUIDGenerator returns a Generator backed by random UUIDs.
func NewUUIDGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
