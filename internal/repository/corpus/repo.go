// Package corpus persists the best-practice corpus in Redis and serves
// KNN retrieval over it.
package corpus

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/listwise/internal/db"
	"github.com/kailas-cloud/listwise/internal/domain"
)

const (
	// IndexName is the FT index over practice hashes.
	IndexName = domain.KeyPrefix + "practices:idx"

	keyPrefix  = domain.KeyPrefix + "practice:"
	versionKey = domain.KeyPrefix + "practices:version"

	contentField = "__content"
	vectorField  = "__vector"
)

// store is the narrow db surface the repository needs.
type store interface {
	db.HashStore
	db.KVStore
	db.IndexManager
	db.Searcher
}

// HNSWConfig holds HNSW build parameters for the practice index.
type HNSWConfig struct {
	M              int
	EFConstruction int
}

// Repository stores best practices as hashes and queries them via FT.SEARCH.
type Repository struct {
	store store
	dims  int
	hnsw  HNSWConfig
}

// Option configures a Repository.
type Option func(*Repository)

// WithHNSW overrides the default HNSW build parameters.
func WithHNSW(cfg HNSWConfig) Option {
	return func(r *Repository) {
		if cfg.M > 0 {
			r.hnsw.M = cfg.M
		}
		if cfg.EFConstruction > 0 {
			r.hnsw.EFConstruction = cfg.EFConstruction
		}
	}
}

// New creates a corpus repository. dims is the embedding dimensionality the
// index is created with.
func New(s store, dims int, opts ...Option) *Repository {
	r := &Repository{
		store: s,
		dims:  dims,
		hnsw:  HNSWConfig{M: 32, EFConstruction: 400},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureIndex creates the practice index if it does not exist.
func (r *Repository) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := r.indexDefinition()
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && err != db.ErrIndexExists {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// ResetIndex drops the index and all stored practices, then recreates the
// index empty. Used when the corpus version changes.
func (r *Repository) ResetIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, IndexName); err != nil && err != db.ErrIndexNotFound {
		return fmt.Errorf("drop index: %w", err)
	}

	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scan practices: %w", err)
	}
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	return r.EnsureIndex(ctx)
}

// Upsert writes practices as hashes in a single pipelined round-trip.
func (r *Repository) Upsert(ctx context.Context, practices []domain.BestPractice) error {
	if len(practices) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(practices))
	for i := range practices {
		p := &practices[i]
		items[i] = db.HashSetItem{
			Key: keyPrefix + p.ID(),
			Fields: map[string]string{
				contentField: p.Text(),
				vectorField:  vectorBlob(p.Embedding()),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert practices: %w", err)
	}
	return nil
}

// Query returns the texts of the k practices nearest to the query vector,
// most similar first.
func (r *Repository) Query(ctx context.Context, vector []float32, k int) ([]string, error) {
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{contentField},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	texts := make([]string, 0, len(res.Entries))
	for _, entry := range res.Entries {
		if text, ok := entry.Fields[contentField]; ok && text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// Version returns the stored corpus version, or 0 when none was recorded yet.
func (r *Repository) Version(ctx context.Context) (int, error) {
	data, err := r.store.Get(ctx, versionKey)
	if err != nil {
		if err == db.ErrKeyNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("get version: %w", err)
	}

	v, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", data, err)
	}
	return v, nil
}

// SetVersion records the corpus version after a successful seed.
func (r *Repository) SetVersion(ctx context.Context, version int) error {
	if err := r.store.Set(ctx, versionKey, []byte(strconv.Itoa(version))); err != nil {
		return fmt.Errorf("set version: %w", err)
	}
	return nil
}

func (r *Repository) indexDefinition() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        IndexName,
		StorageType: db.StorageHash,
		Prefixes:    []string{keyPrefix},
		Fields: []db.IndexField{
			{
				Name:              vectorField,
				Alias:             "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.dims,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruction,
			},
		},
	}
}

// vectorBlob serializes a vector as little-endian float32 bytes, the format
// the index's FLOAT32 vector field stores.
func vectorBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
