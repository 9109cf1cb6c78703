// Package similarity implements cosine-similarity ranking over small vector
// sets, plus a compact binary codec for persisting embeddings.
package similarity

import (
	"encoding/binary"
	"math"
	"sort"
)

// Match pairs an input index with its similarity score.
type Match struct {
	Index int
	Score float32
}

// Cosine computes the cosine similarity between two vectors. Mismatched
// lengths and zero vectors score 0 so callers never see NaN.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// Rank scores every vector against the query and returns the top k matches
// in descending score order. Empty vectors are skipped. The sort is stable:
// ties keep their input order.
func Rank(query []float32, vectors [][]float32, k int) []Match {
	matches := make([]Match, 0, len(vectors))
	for i, vec := range vectors {
		if len(vec) == 0 {
			continue
		}
		matches = append(matches, Match{Index: i, Score: Cosine(query, vec)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}

	return matches
}

// Pack converts a float32 vector to its little-endian binary representation,
// for stores that persist embeddings as bytes.
func Pack(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Unpack is the inverse of Pack. Malformed input returns nil.
func Unpack(b []byte) []float32 {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
