// Package embedder implements a deterministic, dependency-free-of-ML text
// embedder: a hashed bag-of-words ("feature hashing") over the tokens
// produced by pkg/text's analyzer. It exists because the record store's
// embedder is an injected capability with only a contract — something
// concrete is needed to actually drive inserts, updates, and queries.
package embedder

import (
	"math"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/mnohosten/versionvec/pkg/concurrent"
	"github.com/mnohosten/versionvec/pkg/text"
)

// DefaultDimension is the output vector width used when none is configured.
const DefaultDimension = 64

// Hashed is a hashed bag-of-words embedder. Each stemmed, stop-word-filtered
// token is blake2b-hashed; the digest picks both a bucket (mod D) and a
// sign bit, so unrelated tokens partially cancel rather than only ever
// accumulating in the same direction. The result is L2-normalized, which
// makes cosine distance and dot product interchangeable for ranking.
type Hashed struct {
	dim      int
	analyzer *text.Analyzer
	cache    *concurrent.ShardedLRUCache
}

// Option configures a Hashed embedder.
type Option func(*Hashed)

// WithCache attaches an embedding cache keyed by raw input text. This is a
// performance aid only — embedding remains a pure function of its input,
// and the cache is never consulted for correctness.
func WithCache(capacityItems int, ttl time.Duration) Option {
	return func(h *Hashed) {
		h.cache = concurrent.NewShardedLRUCache(capacityItems, ttl, 8)
	}
}

// New builds a Hashed embedder with the given output dimensionality.
func New(dim int, opts ...Option) *Hashed {
	if dim <= 0 {
		dim = DefaultDimension
	}
	h := &Hashed{dim: dim, analyzer: text.NewAnalyzer()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Dimension reports the fixed output width.
func (h *Hashed) Dimension() int {
	return h.dim
}

// Embed turns text into a fixed-length vector. Deterministic for a given
// input: the empty string tokenizes to zero tokens and yields the
// well-defined zero vector.
func (h *Hashed) Embed(textInput string) []float32 {
	if h.cache != nil {
		if cached, ok := h.cache.Get(textInput); ok {
			return cached.([]float32)
		}
	}

	vec := make([]float32, h.dim)
	for _, token := range h.analyzer.Analyze(textInput) {
		digest := blake2b.Sum256([]byte(token))
		bucket := bucketFromDigest(digest[:], h.dim)
		sign := signFromDigest(digest[:])
		vec[bucket] += sign
	}
	normalize(vec)

	if h.cache != nil {
		h.cache.Put(textInput, vec)
	}
	return vec
}

func bucketFromDigest(digest []byte, dim int) int {
	var acc uint32
	for i := 0; i < 4 && i < len(digest); i++ {
		acc = acc<<8 | uint32(digest[i])
	}
	return int(acc % uint32(dim))
}

func signFromDigest(digest []byte) float32 {
	if len(digest) == 0 {
		return 1
	}
	if digest[len(digest)-1]&1 == 0 {
		return 1
	}
	return -1
}

func normalize(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	mag := float32(math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] /= mag
	}
}
