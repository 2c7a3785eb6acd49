package embcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/db"
	"github.com/kailas-cloud/listwise/internal/domain"
)

// --- Mocks ---

type memStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type countingEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	c.calls++
	if c.err != nil {
		return domain.EmbeddingResult{}, c.err
	}
	return domain.EmbeddingResult{Embedding: c.vec, PromptTokens: 3, TotalTokens: 3}, nil
}

// --- Tests ---

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	store := newMemStore()
	cached := New(inner, store, nil, zap.NewNop())

	first, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
	if first.TotalTokens != 3 {
		t.Errorf("miss should report real usage, got %d", first.TotalTokens)
	}

	second, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (hit must not call inner)", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit should report zero tokens, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[1] != 0.2 {
		t.Errorf("cached vector mismatch: %v", second.Embedding)
	}
}

func TestEmbed_DifferentTextsDifferentKeys(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	store := newMemStore()
	cached := New(inner, store, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "one"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cached.Embed(context.Background(), "two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestEmbed_StoreGetFailure_FallsThrough(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	store := newMemStore()
	store.getErr = errors.New("connection reset")
	cached := New(inner, store, nil, zap.NewNop())

	res, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("cache failure must not fail the embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if len(res.Embedding) != 1 {
		t.Errorf("unexpected vector: %v", res.Embedding)
	}
}

func TestEmbed_StoreSetFailure_Ignored(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	store := newMemStore()
	store.setErr = errors.New("readonly replica")
	cached := New(inner, store, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("cache write failure must not fail the embed: %v", err)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("provider down")}
	cached := New(inner, newMemStore(), nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.1, -2.5, 1536.0}
	got, err := bytesToVector(vectorToCacheBytes(vec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 0.1 || got[1] != -2.5 || got[2] != 1536.0 {
		t.Errorf("round trip mismatch: %v", got)
	}
}

func TestBytesToVector_InvalidLength(t *testing.T) {
	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for non-multiple-of-4 data")
	}
}
