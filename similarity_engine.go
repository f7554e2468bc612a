package fpsim

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// similarityEngine implements the SimilarityEngine interface
type similarityEngine struct {
	logger           Logger
	progressCallback ProgressCallback
}

// NewSimilarityEngine creates a new SimilarityEngine instance
func NewSimilarityEngine() SimilarityEngine {
	return &similarityEngine{
		logger:           DiscardLogger{},
		progressCallback: nil,
	}
}

// NewSimilarityEngineWithLogger creates a new SimilarityEngine with a custom logger
func NewSimilarityEngineWithLogger(logger Logger) SimilarityEngine {
	return &similarityEngine{
		logger:           logger,
		progressCallback: nil,
	}
}

// SetProgressCallback sets a callback fired once per completed result row
func (se *similarityEngine) SetProgressCallback(callback ProgressCallback) {
	se.progressCallback = callback
}

// Tversky computes the generalized similarity index between two fingerprints.
// With I the number of features common to x and y, Dxy the features only in x
// and Dyx the features only in y:
//
//	score = I / (I + alpha*Dxy + beta*Dyx)
//
// alpha = beta = 1 yields the Tanimoto/Jaccard coefficient, alpha = beta = 0.5
// the Dice coefficient, alpha = 1, beta = 0 superstructure-likeness and
// alpha = 0, beta = 1 substructure-likeness.
//
// When neither fingerprint has a set bit the denominator is zero and the
// result is NaN. This degenerate value is returned as-is, never guarded;
// callers that care must check with math.IsNaN.
func (se *similarityEngine) Tversky(x, y Fingerprint, alpha, beta float64) (float64, error) {
	// Validate before any bit arithmetic
	if err := validateCoefficients(alpha, beta); err != nil {
		return 0, err
	}
	if x.Length() != y.Length() {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, x.Length(), y.Length())
	}

	return tverskyScore(x, y, alpha, beta), nil
}

// Tanimoto computes the Tanimoto/Jaccard coefficient, the alpha = beta = 1
// special case of the Tversky index
func (se *similarityEngine) Tanimoto(x, y Fingerprint) (float64, error) {
	return se.Tversky(x, y, 1, 1)
}

// Dice computes the Dice coefficient, the alpha = beta = 0.5 special case of
// the Tversky index
func (se *similarityEngine) Dice(x, y Fingerprint) (float64, error) {
	return se.Tversky(x, y, 0.5, 0.5)
}

// TverskyMatrix computes result[i][j] = Tversky(row_i(m), row_j(n)) for every
// row pair across two bit matrices. Work is partitioned by output row across
// a fixed pool of workers; each worker owns a disjoint stripe of rows and
// writes only to those rows, so the computation needs no locking and the
// result is bit-identical for every worker count.
func (se *similarityEngine) TverskyMatrix(
	m, n *BitMatrix,
	alpha, beta float64,
	workers int,
) (*ScoreMatrix, error) {
	// Validate before any row computation is dispatched
	if err := validateCoefficients(alpha, beta); err != nil {
		return nil, err
	}
	if m.Cols() != n.Cols() {
		return nil, fmt.Errorf("%w: %d columns vs %d columns", ErrDimensionMismatch, m.Cols(), n.Cols())
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > m.Rows() {
		workers = m.Rows()
	}

	se.logger.Infof(
		"Computing similarity matrix, m_rows: %d, n_rows: %d, cols: %d, alpha: %v, beta: %v, workers: %d",
		m.Rows(), n.Rows(), m.Cols(), alpha, beta, workers)

	startTime := time.Now()

	// Pack both operands once, outside the parallel region
	left := packRows(m)
	right := packRows(n)

	totalRows := len(left)
	values := make([][]float64, totalRows)
	callback := se.progressCallback

	// The counter is shared between workers but purely observational; the
	// computed values never depend on it.
	var completed atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(first int) {
			defer wg.Done()

			for i := first; i < totalRows; i += workers {
				row := make([]float64, len(right))
				x := left[i]
				for j := range right {
					row[j] = tverskyScore(x, right[j], alpha, beta)
				}
				values[i] = row

				done := int(completed.Add(1))
				if callback != nil {
					callback(done, totalRows)
				}
			}
		}(w)
	}
	wg.Wait()

	// Both operands are already canonical, so attaching their row labels
	// leaves the computed row order untouched.
	result, err := NewMatrix(values, m.RowLabels(), n.RowLabels())
	if err != nil {
		return nil, err
	}

	se.logger.Infof("Similarity matrix completed, pairs: %d, duration_ms: %d",
		totalRows*len(right), time.Since(startTime).Milliseconds())

	return result, nil
}

// tverskyScore computes the index with preconditions already checked
func tverskyScore(x, y Fingerprint, alpha, beta float64) float64 {
	common, onlyX, onlyY := overlapCounts(x, y)
	return float64(common) / (float64(common) + alpha*float64(onlyX) + beta*float64(onlyY))
}

// validateCoefficients rejects negative Tversky weights
func validateCoefficients(alpha, beta float64) error {
	if alpha < 0 || beta < 0 {
		return fmt.Errorf("%w: alpha=%v, beta=%v", ErrNegativeCoefficient, alpha, beta)
	}
	return nil
}

// packRows converts every row of a bit matrix into its fingerprint form
func packRows(m *BitMatrix) []Fingerprint {
	prints := make([]Fingerprint, m.Rows())
	for i := range prints {
		prints[i] = NewFingerprint(m.Row(i))
	}
	return prints
}
