package fpsim

import (
	"fmt"
	"sort"
)

// Matrix is an immutable 2-D value grid paired with ordered row and column
// labels. Every instance is held in canonical form: both axes sorted ascending
// by label with the values permuted consistently. The sort is applied by the
// constructor, so input order does not survive construction and callers must
// not rely on it.
type Matrix[T any] struct {
	values    [][]T
	rowLabels []string
	colLabels []string
}

// BitMatrix holds boolean fingerprint rows parsed from 0/1 text
type BitMatrix = Matrix[bool]

// ScoreMatrix holds real-valued similarity scores
type ScoreMatrix = Matrix[float64]

// NewMatrix builds a canonical Matrix from a value grid and per-axis labels.
// Label counts must match the grid shape, labels must be unique per axis and
// every row must have the same width. The grid is copied, never aliased.
func NewMatrix[T any](values [][]T, rowLabels, colLabels []string) (*Matrix[T], error) {
	rows := len(values)
	if rows == 0 {
		return nil, ErrEmptyMatrix
	}
	cols := len(values[0])
	if cols == 0 {
		return nil, ErrEmptyMatrix
	}

	for i, row := range values {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRaggedMatrix, i+1, len(row), cols)
		}
	}
	if len(rowLabels) != rows {
		return nil, fmt.Errorf("%w: %d row labels for %d rows", ErrLabelMismatch, len(rowLabels), rows)
	}
	if len(colLabels) != cols {
		return nil, fmt.Errorf("%w: %d column labels for %d columns", ErrLabelMismatch, len(colLabels), cols)
	}
	if label, dup := firstDuplicate(rowLabels); dup {
		return nil, fmt.Errorf("%w: row label %q", ErrDuplicateLabel, label)
	}
	if label, dup := firstDuplicate(colLabels); dup {
		return nil, fmt.Errorf("%w: column label %q", ErrDuplicateLabel, label)
	}

	sortedRowLabels, rowPerm := sortedAxis(rowLabels)
	sortedColLabels, colPerm := sortedAxis(colLabels)

	// Permute a private copy of the grid into canonical order.
	canonical := make([][]T, rows)
	for i, src := range rowPerm {
		row := make([]T, cols)
		for j, cell := range colPerm {
			row[j] = values[src][cell]
		}
		canonical[i] = row
	}

	return &Matrix[T]{
		values:    canonical,
		rowLabels: sortedRowLabels,
		colLabels: sortedColLabels,
	}, nil
}

// Rows returns the number of rows
func (m *Matrix[T]) Rows() int { return len(m.values) }

// Cols returns the number of columns
func (m *Matrix[T]) Cols() int { return len(m.values[0]) }

// At returns the value at row i, column j
func (m *Matrix[T]) At(i, j int) T { return m.values[i][j] }

// Row returns a copy of row i
func (m *Matrix[T]) Row(i int) []T {
	row := make([]T, len(m.values[i]))
	copy(row, m.values[i])
	return row
}

// RowLabels returns a copy of the row labels in canonical order
func (m *Matrix[T]) RowLabels() []string {
	labels := make([]string, len(m.rowLabels))
	copy(labels, m.rowLabels)
	return labels
}

// ColLabels returns a copy of the column labels in canonical order
func (m *Matrix[T]) ColLabels() []string {
	labels := make([]string, len(m.colLabels))
	copy(labels, m.colLabels)
	return labels
}

// sortedAxis returns the labels sorted ascending together with the
// permutation mapping sorted positions back to original indices
func sortedAxis(labels []string) (sorted []string, perm []int) {
	perm = make([]int, len(labels))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool { return labels[perm[a]] < labels[perm[b]] })

	sorted = make([]string, len(labels))
	for i, src := range perm {
		sorted[i] = labels[src]
	}
	return sorted, perm
}

// firstDuplicate reports the first label that appears more than once
func firstDuplicate(labels []string) (string, bool) {
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			return label, true
		}
		seen[label] = struct{}{}
	}
	return "", false
}
