package idgen

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultSize = 8

	// Lowercase plus digits keeps ids easy to read out loud when sharing
	// a room over a second channel.
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator mints short opaque tokens used as room and peer identifiers.
// Stateless and safe for concurrent use.
type Generator struct {
	size int
}

// New creates a Generator producing ids of the given length.
// size must be between 2 and 64.
func New(size int) (*Generator, error) {
	if size < 2 || size > 64 {
		return nil, fmt.Errorf("id size must be between 2 and 64, got %d", size)
	}
	return &Generator{size: size}, nil
}

func (g *Generator) NewID() (string, error) {
	id, err := gonanoid.Generate(alphabet, g.size)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id, nil
}

func (g *Generator) Size() int { return g.size }
