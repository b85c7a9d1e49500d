// Package bm25 implements an in-memory Okapi BM25 index over a fixed
// document set.
package bm25

import (
	"math"
	"strings"
)

const (
	k1      = 1.5
	b       = 0.75
	epsilon = 0.25
)

type posting struct {
	doc int
	tf  float64
}

// Index scores a fixed document set with Okapi BM25. Documents are indexed
// once at construction; the index is safe for concurrent reads.
type Index struct {
	postings  map[string][]posting
	docLens   []float64
	avgDocLen float64
	idf       map[string]float64
	n         int
}

// Tokenize lowercases s and splits it on whitespace. Queries must go
// through the same analysis the index applies to documents.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// NewIndex builds the index over the given document texts, one document per
// element, in order.
func NewIndex(texts []string) *Index {
	idx := &Index{
		postings: make(map[string][]posting),
		docLens:  make([]float64, len(texts)),
		idf:      make(map[string]float64),
		n:        len(texts),
	}
	docFreq := make(map[string]int)
	var total float64
	for i, text := range texts {
		tokens := Tokenize(text)
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for t, f := range tf {
			idx.postings[t] = append(idx.postings[t], posting{doc: i, tf: float64(f)})
			docFreq[t]++
		}
		idx.docLens[i] = float64(len(tokens))
		total += float64(len(tokens))
	}
	if idx.n > 0 {
		idx.avgDocLen = total / float64(idx.n)
	}
	idx.computeIDF(docFreq)
	return idx
}

// computeIDF assigns ln((N-df+0.5)/(df+0.5)) per term. Terms occurring in
// more than half the corpus come out negative and are floored at epsilon
// times the average idf, keeping them scorable.
func (idx *Index) computeIDF(docFreq map[string]int) {
	if len(docFreq) == 0 {
		return
	}
	var sum float64
	var negative []string
	for term, df := range docFreq {
		v := math.Log(float64(idx.n)-float64(df)+0.5) - math.Log(float64(df)+0.5)
		idx.idf[term] = v
		sum += v
		if v < 0 {
			negative = append(negative, term)
		}
	}
	floor := epsilon * (sum / float64(len(idx.idf)))
	for _, term := range negative {
		idx.idf[term] = floor
	}
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return idx.n }

// Scores returns one BM25 score per indexed document, in index order.
// Repeated query tokens contribute once per occurrence.
func (idx *Index) Scores(tokens []string) []float64 {
	scores := make([]float64, idx.n)
	for _, t := range tokens {
		w, ok := idx.idf[t]
		if !ok {
			continue
		}
		for _, p := range idx.postings[t] {
			norm := p.tf + k1*(1-b+b*idx.docLens[p.doc]/idx.avgDocLen)
			scores[p.doc] += w * p.tf * (k1 + 1) / norm
		}
	}
	return scores
}
