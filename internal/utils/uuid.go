package utils

import "github.com/google/uuid"

// TempIDPrefix marks client-generated ids of entities not yet stored on the server.
const TempIDPrefix = "tmp-"

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered UUIDv7, or a random UUID if v7 fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// NewTempID returns a temporary id for an optimistic entity.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}
