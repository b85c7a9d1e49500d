package corpus

import (
	"fmt"

	"github.com/seoulbites/matzip/internal/domain"
)

// Matrix holds document embeddings row-major, one row per corpus document.
// Rows are unit-normalized, so a dot product against a unit query vector is
// the cosine similarity.
type Matrix struct {
	data []float32
	rows int
	dim  int
}

// NewMatrix wraps rows*dim float32 values as a matrix.
func NewMatrix(data []float32, rows, dim int) (*Matrix, error) {
	if rows < 0 || dim <= 0 {
		return nil, fmt.Errorf("matrix shape %dx%d: %w", rows, dim, domain.ErrCorpusMisaligned)
	}
	if len(data) != rows*dim {
		return nil, fmt.Errorf("matrix has %d values for shape %dx%d: %w", len(data), rows, dim, domain.ErrCorpusMisaligned)
	}
	return &Matrix{data: data, rows: rows, dim: dim}, nil
}

// Rows returns the number of document rows.
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the embedding dimension.
func (m *Matrix) Dim() int { return m.dim }

// Row returns the embedding of document i. The slice aliases matrix storage
// and must not be mutated.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

// Scores computes the dot product of query against every row, in row order.
func (m *Matrix) Scores(query []float32) ([]float64, error) {
	if len(query) != m.dim {
		return nil, fmt.Errorf("query dimension %d against matrix dimension %d: %w", len(query), m.dim, domain.ErrCorpusMisaligned)
	}
	scores := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.dim : (i+1)*m.dim]
		var dot float32
		for j, v := range row {
			dot += v * query[j]
		}
		scores[i] = float64(dot)
	}
	return scores, nil
}
