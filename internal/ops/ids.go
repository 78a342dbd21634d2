package ops

import (
	"fmt"
	"math/rand/v2"
)

const (
	orderIDPrefix    = "ORD"
	deliveryIDPrefix = "DEL"

	// idAttempts bounds the collision retries; after that the last draw is kept.
	idAttempts = 10
)

// IDSource draws display identifiers such as ORD-4821.
type IDSource interface {
	Next(prefix string) string
}

// RandomIDs draws a four digit suffix in [1000, 9999].
type RandomIDs struct{}

func (RandomIDs) Next(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, 1000+rand.IntN(9000))
}

// SequenceIDs hands out ascending suffixes. It is deterministic and used for seeding and tests.
type SequenceIDs struct {
	next int
}

// NewSequenceIDs starts the sequence at start.
func NewSequenceIDs(start int) *SequenceIDs {
	return &SequenceIDs{next: start}
}

func (s *SequenceIDs) Next(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, s.next)
	s.next++
	return id
}

func drawUnique(src IDSource, prefix string, taken func(string) bool) string {
	id := src.Next(prefix)
	for attempt := 1; attempt < idAttempts && taken(id); attempt++ {
		id = src.Next(prefix)
	}
	return id
}
