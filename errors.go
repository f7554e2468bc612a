package fpsim

import (
	"errors"
	"fmt"
)

// Error types for the fingerprint similarity library
var (
	// ErrNegativeCoefficient indicates a Tversky alpha or beta below zero
	ErrNegativeCoefficient = errors.New("similarity coefficient must be non-negative")

	// ErrLengthMismatch indicates two fingerprints of different lengths were compared
	ErrLengthMismatch = errors.New("fingerprint length mismatch")

	// ErrDimensionMismatch indicates matrix shapes are incompatible for the requested operation
	ErrDimensionMismatch = errors.New("matrix dimension mismatch")

	// ErrEmptyMatrix indicates the input contained no matrix data
	ErrEmptyMatrix = errors.New("matrix has no data")

	// ErrRaggedMatrix indicates rows of unequal width were encountered
	ErrRaggedMatrix = errors.New("matrix rows have unequal widths")

	// ErrDuplicateLabel indicates an axis carries the same label more than once
	ErrDuplicateLabel = errors.New("duplicate axis label")

	// ErrLabelMismatch indicates labels do not line up with the data they describe
	ErrLabelMismatch = errors.New("label mismatch")

	// ErrMatrixFileNotFound indicates the matrix file could not be found
	ErrMatrixFileNotFound = errors.New("matrix file not found")

	// ErrPredictorNotConfigured indicates a prediction job was run without an interaction predictor
	ErrPredictorNotConfigured = errors.New("interaction predictor not configured")

	// ErrInvalidConfiguration indicates configuration parameters are invalid
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ParseError reports a cell that failed conversion while loading a matrix.
// Row and Col are 1-based positions within the data region, so label rows
// and label columns do not shift them.
type ParseError struct {
	Row  int
	Col  int
	Cell string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse cell %q at row %d, column %d: %v", e.Cell, e.Row, e.Col, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
