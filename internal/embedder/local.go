package embedder

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
)

const (
	// ProviderLocal identifies the in-process deterministic embedder.
	ProviderLocal = "local"

	// LocalDimension is the vector dimension of the local provider.
	LocalDimension = 384

	localModelName = "local-hash-embeddings"
)

// LocalProvider is an in-process embedder for offline operation and tests.
// Vectors are derived from repeated SHA-256 hashing of the text, so the same
// text always maps to the same unit-length vector. There is no semantic
// locality; the provider exists so the pipeline works without network access.
type LocalProvider struct {
	cache *Cache
}

// NewLocalProvider creates a local embedder.
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{cache: cache}, nil
}

func (l *LocalProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if l.cache != nil {
		if vec, ok := l.cache.Get(hash); ok {
			return vec, nil
		}
	}

	vec := hashVector(text)
	if l.cache != nil {
		l.cache.Set(hash, vec)
	}
	return vec, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.EmbedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return localModelName
}

func (l *LocalProvider) Close() error {
	return nil
}

// hashVector fills all LocalDimension components from a chain of SHA-256
// digests over the text, then normalizes to unit length.
func hashVector(text string) []float32 {
	vec := make([]float32, LocalDimension)
	digest := sha256.Sum256([]byte(text))
	for i := 0; i < LocalDimension; i++ {
		if i > 0 && i%sha256.Size == 0 {
			digest = sha256.Sum256(digest[:])
		}
		vec[i] = float32(digest[i%sha256.Size])/255.0 - 0.5
	}
	return normalize(vec)
}

// normalize scales a vector to unit L2 length; the zero vector is returned
// unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
