// Package learn implements the small numerical primitives behind the
// prediction pipeline: a dense matrix, an n-gram bag-of-words vectorizer and
// a linear multi-class classifier. Everything is deterministic so that the
// same training data always produces the same model.
package learn

import "fmt"

// Matrix is a dense row-major matrix of float64 values. A matrix with zero
// columns is valid and is used to represent features without any extractable
// vocabulary.
type Matrix struct {
	Data []float64
	Rows int
	Cols int
}

// NewMatrix creates a zero-valued matrix of the given shape.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set assigns the value at row i, column j.
func (m Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i. The slice aliases the matrix data.
func (m Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Scale multiplies every value by f and returns the matrix for chaining.
func (m Matrix) Scale(f float64) Matrix {
	for i := range m.Data {
		m.Data[i] *= f
	}
	return m
}

// HStack concatenates matrices column-wise. All blocks must have the same
// number of rows; zero-width blocks are valid and contribute no columns.
func HStack(blocks ...Matrix) (Matrix, error) {
	if len(blocks) == 0 {
		return Matrix{}, fmt.Errorf("hstack needs at least one block")
	}
	rows := blocks[0].Rows
	cols := 0
	for _, b := range blocks {
		if b.Rows != rows {
			return Matrix{}, fmt.Errorf("hstack row mismatch: %d vs %d", rows, b.Rows)
		}
		cols += b.Cols
	}

	out := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		dst := out.Row(i)
		offset := 0
		for _, b := range blocks {
			copy(dst[offset:offset+b.Cols], b.Row(i))
			offset += b.Cols
		}
	}
	return out, nil
}
