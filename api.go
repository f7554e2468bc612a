package fpsim

import (
	"io"
	"time"
)

// SimilarityEngine computes the generalized Tversky set-overlap index between
// molecular fingerprints, for single pairs and for whole matrices
type SimilarityEngine interface {
	// Tversky computes the generalized similarity index
	// I / (I + alpha*Dxy + beta*Dyx) over the overlap counts of x and y.
	// Fails with ErrNegativeCoefficient or ErrLengthMismatch before any
	// bit arithmetic. A pair with no set bits on either side yields NaN.
	Tversky(x, y Fingerprint, alpha, beta float64) (float64, error)

	// Tanimoto computes the Tanimoto/Jaccard coefficient (alpha = beta = 1)
	Tanimoto(x, y Fingerprint) (float64, error)

	// Dice computes the Dice coefficient (alpha = beta = 0.5)
	Dice(x, y Fingerprint) (float64, error)

	// TverskyMatrix computes Tversky(row_i(m), row_j(n)) for every row pair
	// across two bit matrices, partitioned row-wise over a fixed worker pool.
	// workers <= 0 uses all available CPUs. The result carries m's row labels
	// on rows and n's row labels on columns and is bit-identical for every
	// worker count.
	TverskyMatrix(m, n *BitMatrix, alpha, beta float64, workers int) (*ScoreMatrix, error)

	// SetProgressCallback sets a callback fired once per completed result row.
	// It must be set before computation starts and has no effect on results.
	SetProgressCallback(callback ProgressCallback)
}

// MatrixCodec parses and serializes labeled matrices in delimiter-separated
// text form. The label configuration is fixed per codec; see LabelMode.
type MatrixCodec[T any] interface {
	// Parse reads delimiter-separated lines into a canonical Matrix.
	// Cell conversion failures are reported as *ParseError with the
	// offending 1-based data position.
	Parse(reader io.Reader) (*Matrix[T], error)

	// ParseFile parses a matrix from a file path
	ParseFile(path string) (*Matrix[T], error)

	// Write serializes a matrix, emitting only the axes the codec's
	// LabelMode covers. It is the exact inverse of Parse for LabelBoth
	// up to the canonical label sort.
	Write(writer io.Writer, m *Matrix[T]) error

	// WriteFile serializes a matrix to a file path
	WriteFile(path string, m *Matrix[T]) error
}

// InteractionPredictor is the external link-prediction collaborator.
// Its internals are opaque here: the pipeline only supplies correctly shaped,
// correctly labeled matrices and consumes the returned records.
type InteractionPredictor interface {
	// Featurize turns a similarity matrix into a thresholded, optionally
	// weighted feature representation
	Featurize(similarity *ScoreMatrix, cutoff float64, weighted bool) (FeatureGraph, error)

	// Construct builds the combined graph from the training and query
	// adjacency/feature inputs
	Construct(adjacency AdjacencyPair, features FeatureGraphPair) (InteractionGraph, error)

	// Predict scores unobserved source/target pairs of the query adjacency
	Predict(graph InteractionGraph, queryAdjacency *BitMatrix, opts PredictOptions) ([]InteractionRecord, error)
}

// Pipeline orchestrates the batch similarity and prediction tools
type Pipeline interface {
	// RunSimilarityJob loads one or two fingerprint matrices, computes their
	// Tversky similarity matrix and serializes it to the job's output path
	RunSimilarityJob(job SimilarityJob) error

	// RunPredictionJob feeds drug/drug similarity into the interaction
	// predictor and writes the predicted interaction records
	RunPredictionJob(job PredictionJob) error

	// GetStats returns performance and usage statistics
	GetStats() PipelineStats
}

// FeatureGraph is an opaque handle to the collaborator's thresholded feature
// representation of a similarity matrix. Its contents are never inspected here.
type FeatureGraph any

// InteractionGraph is an opaque handle to the collaborator's combined
// drug/target graph. Its contents are never inspected here.
type InteractionGraph any

// AdjacencyPair carries the training and query interaction adjacencies handed
// to Construct. Query rows are the drugs being scored; its columns share the
// training target labels.
type AdjacencyPair struct {
	Train *BitMatrix
	Query *BitMatrix
}

// FeatureGraphPair carries the featurized training and query similarity views
type FeatureGraphPair struct {
	Train FeatureGraph
	Query FeatureGraph
}

// PredictOptions selects the compute device used by the collaborator
type PredictOptions struct {
	GPU   bool `json:"gpu"`
	GPUID int  `json:"gpu_id"`
}

// InteractionRecord is one predicted source/target interaction with its score
type InteractionRecord struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Score  float64 `json:"score"`
}

// SimilarityJob describes one run of the similarity tool. Alpha and Beta are
// used exactly as given; alpha = beta = 0 is a valid Tversky parameterization,
// so callers wanting the Tanimoto defaults should fill in DefaultAlpha and
// DefaultBeta themselves.
type SimilarityJob struct {
	// MatrixPath is the fingerprint matrix M (the --MD input)
	MatrixPath string
	// OtherPath is the fingerprint matrix N (--ND); empty selects MatrixPath,
	// the self-similarity mode
	OtherPath string
	// OutputPath receives the serialized similarity matrix (--MN)
	OutputPath string
	// Delimiter separates cells on input and output; empty selects DefaultDelimiter
	Delimiter string
	// Labeled marks the inputs as carrying row/column labels, which are then
	// attached to the output as well
	Labeled bool

	Alpha   float64
	Beta    float64
	Workers int
}

// PredictionJob describes one run of the prediction tool
type PredictionJob struct {
	// TrainInteractionPath is the labeled drug x target 0/1 adjacency (--dt-train)
	TrainInteractionPath string
	// TrainFingerprintPath is the labeled training drug fingerprint matrix (--dd-train)
	TrainFingerprintPath string
	// QueryFingerprintPath is the labeled query drug fingerprint matrix (--dd-query)
	QueryFingerprintPath string
	// OutputPath receives one "<source> <target> <score>" line per record
	OutputPath string
	// Delimiter separates matrix cells; empty selects DefaultDelimiter
	Delimiter string

	Cutoff   float64
	Weighted bool
	GPU      bool
	GPUID    int

	Alpha   float64
	Beta    float64
	Workers int
}

// PipelineStats provides performance and usage statistics
type PipelineStats struct {
	SimilarityRuns int64         `json:"similarity_runs"`
	PredictionRuns int64         `json:"prediction_runs"`
	PairsScored    int64         `json:"pairs_scored"`
	AverageLatency time.Duration `json:"average_latency"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// ProgressCallback is called once per completed row during matrix similarity
// computation. It is observational only and never influences the result.
type ProgressCallback func(completed, total int)

// Logger interface for configurable logging
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
}
