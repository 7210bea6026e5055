package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for timeline items.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

// MustNewID is for callers that cannot surface an error, such as payload
// normalization. It panics only if the system random source fails.
func MustNewID(g Generator) string {
	value, err := g.NewID()
	if err != nil {
		panic(err)
	}
	return value
}
