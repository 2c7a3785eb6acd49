package domain

import "errors"

// BestPractice is a single corpus entry. Created during seeding, read many
// times, never mutated.
type BestPractice struct {
	id        string
	text      string
	embedding []float32
}

// NewBestPractice validates and creates a corpus entry.
func NewBestPractice(id, text string, embedding []float32) (BestPractice, error) {
	if id == "" {
		return BestPractice{}, errors.New("practice id is required")
	}
	if text == "" {
		return BestPractice{}, errors.New("practice text is required")
	}
	if len(embedding) == 0 {
		return BestPractice{}, errors.New("practice embedding is required")
	}
	return BestPractice{id: id, text: text, embedding: embedding}, nil
}

// ID returns the practice identifier.
func (p *BestPractice) ID() string { return p.id }

// Text returns the practice statement.
func (p *BestPractice) Text() string { return p.text }

// Embedding returns the practice embedding vector.
func (p *BestPractice) Embedding() []float32 { return p.embedding }
