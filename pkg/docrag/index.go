// Package docrag holds the embedding index: document chunks, their
// vectors, cosine top-k retrieval and the on-disk cache.
package docrag

import (
	"fmt"
	"math"
	"sort"
)

// Meta identifies the document and model an index was built from.
type Meta struct {
	DocHash string
	Model   string
	Source  string
}

// Result is a retrieved chunk paired with its raw cosine similarity.
type Result struct {
	Text  string
	Score float32
}

// Index is an immutable embedding index over the chunks of one document.
// Row i of the embedding matrix belongs to chunk i. Normalized rows are
// computed once at construction, never serialized, so an Index is safe
// for concurrent TopK calls from the moment it exists.
type Index struct {
	chunks     []string
	embeddings [][]float32
	normalized [][]float32
	meta       Meta
}

// New builds a fully normalized index. The number of embedding rows must
// match the number of chunks, and all rows must share one dimension.
func New(chunks []string, embeddings [][]float32, meta Meta) (*Index, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%d chunks but %d embedding rows", len(chunks), len(embeddings))
	}

	dim := 0
	if len(embeddings) > 0 {
		dim = len(embeddings[0])
	}
	normalized := make([][]float32, len(embeddings))
	for i, row := range embeddings {
		if len(row) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch: row %d has %d values, want %d", i, len(row), dim)
		}
		normalized[i] = normalize(row)
	}

	return &Index{
		chunks:     chunks,
		embeddings: embeddings,
		normalized: normalized,
		meta:       meta,
	}, nil
}

// Len returns the number of chunks in the index.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Dimension returns the embedding dimension, 0 for an empty index.
func (ix *Index) Dimension() int {
	if len(ix.embeddings) == 0 {
		return 0
	}
	return len(ix.embeddings[0])
}

// Meta returns the document hash, model and source path of the index.
func (ix *Index) Meta() Meta {
	return ix.meta
}

// Chunks returns a copy of the chunk texts in document order.
func (ix *Index) Chunks() []string {
	out := make([]string, len(ix.chunks))
	copy(out, ix.chunks)
	return out
}

// TopK returns up to k chunks ordered by descending cosine similarity to
// the query vector. A zero query vector has no defined similarity and
// yields an empty result, as does a query of the wrong dimension.
func (ix *Index) TopK(query []float32, k int) []Result {
	if k <= 0 || len(ix.chunks) == 0 || len(query) != ix.Dimension() {
		return nil
	}

	var norm float64
	for _, x := range query {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return nil
	}
	inv := float32(1 / math.Sqrt(norm))
	q := make([]float32, len(query))
	for i, x := range query {
		q[i] = x * inv
	}

	scores := make([]float32, len(ix.normalized))
	for i, row := range ix.normalized {
		scores[i] = dot(row, q)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps ties in document order; no particular tie order
	// is promised to callers.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]Result, 0, k)
	for _, i := range order[:k] {
		results = append(results, Result{Text: ix.chunks[i], Score: scores[i]})
	}
	return results
}

// normalize returns v scaled to unit length. A zero vector comes back
// unchanged so it contributes zero similarity instead of NaN.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	copy(out, v)
	if sum == 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range out {
		out[i] *= inv
	}
	return out
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
