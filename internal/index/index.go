package index

import (
	"fmt"
	"sort"

	"github.com/docqa/docqa-mcp/pkg/types"
)

// Flat is an exhaustive nearest-neighbor index over fixed-dimension float32
// vectors using squared L2 distance. At the expected corpus scale (tens of
// thousands of chunks) a brute-force scan is an intentional choice: no
// approximate structure is needed.
//
// A Flat index is immutable once built. Any change to the document set is a
// full rebuild producing a new index value.
type Flat struct {
	dim     int
	vectors [][]float32
	tags    []string
}

// Build constructs an index from records. It fails with types.ErrEmptyCorpus
// when records is empty and with types.ErrDimensionMismatch when vectors do
// not all share one nonzero dimension. The index copies the vectors, so
// callers may reuse the record slices afterwards.
func Build(records []types.VectorRecord) (*Flat, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records to index", types.ErrEmptyCorpus)
	}

	dim := len(records[0].Vector)
	if dim == 0 {
		return nil, fmt.Errorf("%w: record 0 has a zero-length vector", types.ErrDimensionMismatch)
	}

	f := &Flat{
		dim:     dim,
		vectors: make([][]float32, len(records)),
		tags:    make([]string, len(records)),
	}
	for i, rec := range records {
		if len(rec.Vector) != dim {
			return nil, fmt.Errorf("%w: record %d has dimension %d, want %d",
				types.ErrDimensionMismatch, i, len(rec.Vector), dim)
		}
		vec := make([]float32, dim)
		copy(vec, rec.Vector)
		f.vectors[i] = vec
		f.tags[i] = rec.Tag
	}
	return f, nil
}

// Search returns the min(k, Size()) stored records nearest to query, ordered
// by ascending squared L2 distance. A query of the wrong dimension fails with
// types.ErrDimensionMismatch. k <= 0 yields no results.
func (f *Flat) Search(query []float32, k int) ([]types.Match, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			types.ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 {
		return []types.Match{}, nil
	}
	if k > len(f.vectors) {
		k = len(f.vectors)
	}

	matches := make([]types.Match, len(f.vectors))
	for i, vec := range f.vectors {
		matches[i] = types.Match{Tag: f.tags[i], Distance: squaredL2(query, vec), Position: i}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches[:k], nil
}

// Size returns the number of indexed records.
func (f *Flat) Size() int {
	return len(f.vectors)
}

// Dimension returns the vector dimension the index was built with.
func (f *Flat) Dimension() int {
	return f.dim
}

// squaredL2 computes the squared Euclidean distance between two vectors of
// equal length.
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
