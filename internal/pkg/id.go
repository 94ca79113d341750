package pkg

import "github.com/google/uuid"

// GenerateGameID returns a random session identifier.
func GenerateGameID() string {
	return uuid.NewString()
}
