package fpsim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
)

// pipeline implements the Pipeline interface
type pipeline struct {
	engine    SimilarityEngine
	predictor InteractionPredictor
	logger    Logger
	stats     *PipelineStats
	mtx       sync.RWMutex
}

// NewPipeline creates a new Pipeline instance. The predictor may be nil for
// similarity-only use; prediction jobs then fail with ErrPredictorNotConfigured.
func NewPipeline(engine SimilarityEngine, predictor InteractionPredictor) Pipeline {
	return &pipeline{
		engine:    engine,
		predictor: predictor,
		logger:    DiscardLogger{},
		stats: &PipelineStats{
			LastUpdated: time.Now(),
		},
	}
}

// NewPipelineWithLogger creates a new Pipeline instance with a custom logger
func NewPipelineWithLogger(
	engine SimilarityEngine,
	predictor InteractionPredictor,
	logger Logger,
) Pipeline {
	return &pipeline{
		engine:    engine,
		predictor: predictor,
		logger:    logger,
		stats: &PipelineStats{
			LastUpdated: time.Now(),
		},
	}
}

// RunSimilarityJob loads one or two fingerprint matrices, computes their
// Tversky similarity matrix and serializes it to the job's output path
func (p *pipeline) RunSimilarityJob(job SimilarityJob) error {
	startTime := time.Now()

	delimiter := job.Delimiter
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	otherPath := job.OtherPath
	if otherPath == "" {
		// Self-similarity mode: compare the matrix against itself
		otherPath = job.MatrixPath
	}

	mode := LabelNone
	if job.Labeled {
		mode = LabelBoth
	}

	p.logger.Infof(
		"Similarity job started, md: %s, nd: %s, output: %s, alpha: %v, beta: %v, labeled: %v, workers: %d",
		job.MatrixPath, otherPath, job.OutputPath, job.Alpha, job.Beta, job.Labeled, job.Workers)

	codec := NewBitMatrixCodec(delimiter, mode, p.logger)

	m, err := codec.ParseFile(job.MatrixPath)
	if err != nil {
		return fmt.Errorf("loading MD matrix: %w", err)
	}
	n := m
	if otherPath != job.MatrixPath {
		if n, err = codec.ParseFile(otherPath); err != nil {
			return fmt.Errorf("loading ND matrix: %w", err)
		}
	}

	result, err := p.engine.TverskyMatrix(m, n, job.Alpha, job.Beta, job.Workers)
	if err != nil {
		return fmt.Errorf("computing similarity: %w", err)
	}

	writer := NewScoreMatrixCodec(delimiter, mode, p.logger)
	if err := writer.WriteFile(job.OutputPath, result); err != nil {
		return fmt.Errorf("writing similarity matrix: %w", err)
	}

	duration := time.Since(startTime)
	p.recordRun(duration, int64(m.Rows())*int64(n.Rows()), false)

	p.logger.Infof("Similarity job completed, rows: %d, cols: %d, duration_ms: %d",
		result.Rows(), result.Cols(), duration.Milliseconds())

	return nil
}

// RunPredictionJob feeds drug/drug similarity into the interaction predictor
// and writes the predicted interaction records one per line
func (p *pipeline) RunPredictionJob(job PredictionJob) error {
	if p.predictor == nil {
		return ErrPredictorNotConfigured
	}

	startTime := time.Now()

	delimiter := job.Delimiter
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	p.logger.Infof(
		"Prediction job started, dt_train: %s, dd_train: %s, dd_query: %s, output: %s, "+
			"cutoff: %v, weighted: %v, gpu: %v, gpu_id: %d",
		job.TrainInteractionPath, job.TrainFingerprintPath, job.QueryFingerprintPath,
		job.OutputPath, job.Cutoff, job.Weighted, job.GPU, job.GPUID)

	codec := NewBitMatrixCodec(delimiter, LabelBoth, p.logger)

	adjacency, err := codec.ParseFile(job.TrainInteractionPath)
	if err != nil {
		return fmt.Errorf("loading dt-train matrix: %w", err)
	}
	trainPrints, err := codec.ParseFile(job.TrainFingerprintPath)
	if err != nil {
		return fmt.Errorf("loading dd-train matrix: %w", err)
	}
	queryPrints, err := codec.ParseFile(job.QueryFingerprintPath)
	if err != nil {
		return fmt.Errorf("loading dd-query matrix: %w", err)
	}

	// Shape and label obligations toward the collaborator, checked before
	// any similarity computation
	if trainPrints.Cols() != queryPrints.Cols() {
		return fmt.Errorf("%w: dd-train has %d feature columns, dd-query has %d",
			ErrDimensionMismatch, trainPrints.Cols(), queryPrints.Cols())
	}
	if missing := missingLabels(adjacency.RowLabels(), trainPrints.RowLabels()); len(missing) > 0 {
		return fmt.Errorf("%w: dt-train drugs %v have no dd-train fingerprint",
			ErrLabelMismatch, missing)
	}

	trainSim, err := p.engine.TverskyMatrix(trainPrints, trainPrints, job.Alpha, job.Beta, job.Workers)
	if err != nil {
		return fmt.Errorf("computing training similarity: %w", err)
	}
	querySim, err := p.engine.TverskyMatrix(queryPrints, trainPrints, job.Alpha, job.Beta, job.Workers)
	if err != nil {
		return fmt.Errorf("computing query similarity: %w", err)
	}

	trainGraph, err := p.predictor.Featurize(trainSim, job.Cutoff, job.Weighted)
	if err != nil {
		return fmt.Errorf("featurizing training similarity: %w", err)
	}
	queryGraph, err := p.predictor.Featurize(querySim, job.Cutoff, job.Weighted)
	if err != nil {
		return fmt.Errorf("featurizing query similarity: %w", err)
	}

	// Query interactions are by definition unobserved, so the query
	// adjacency is all-zero and shares the training target labels
	queryAdjacency, err := zeroAdjacency(queryPrints.RowLabels(), adjacency.ColLabels())
	if err != nil {
		return fmt.Errorf("building query adjacency: %w", err)
	}

	graph, err := p.predictor.Construct(
		AdjacencyPair{Train: adjacency, Query: queryAdjacency},
		FeatureGraphPair{Train: trainGraph, Query: queryGraph},
	)
	if err != nil {
		return fmt.Errorf("constructing interaction graph: %w", err)
	}

	records, err := p.predictor.Predict(graph, queryAdjacency, PredictOptions{GPU: job.GPU, GPUID: job.GPUID})
	if err != nil {
		return fmt.Errorf("predicting interactions: %w", err)
	}

	file, err := os.Create(job.OutputPath) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", job.OutputPath, err)
	}
	if err := WriteInteractions(file, records); err != nil {
		file.Close()
		return fmt.Errorf("writing predictions to %s: %w", job.OutputPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", job.OutputPath, err)
	}

	duration := time.Since(startTime)
	pairs := int64(trainPrints.Rows())*int64(trainPrints.Rows()) +
		int64(queryPrints.Rows())*int64(trainPrints.Rows())
	p.recordRun(duration, pairs, true)

	p.logger.Infof("Prediction job completed, records: %d, duration_ms: %d",
		len(records), duration.Milliseconds())

	return nil
}

// GetStats returns performance and usage statistics
func (p *pipeline) GetStats() PipelineStats {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	// Return a copy to prevent external modification
	return PipelineStats{
		SimilarityRuns: p.stats.SimilarityRuns,
		PredictionRuns: p.stats.PredictionRuns,
		PairsScored:    p.stats.PairsScored,
		AverageLatency: p.stats.AverageLatency,
		LastUpdated:    p.stats.LastUpdated,
	}
}

// recordRun updates the internal statistics
func (p *pipeline) recordRun(latency time.Duration, pairs int64, prediction bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if prediction {
		p.stats.PredictionRuns++
	} else {
		p.stats.SimilarityRuns++
	}
	p.stats.PairsScored += pairs

	// Update average latency using incremental average formula
	// new_avg = old_avg + (new_value - old_avg) / count
	runs := p.stats.SimilarityRuns + p.stats.PredictionRuns
	if runs == 1 {
		p.stats.AverageLatency = latency
	} else {
		delta := latency - p.stats.AverageLatency
		p.stats.AverageLatency += delta / time.Duration(runs)
	}

	p.stats.LastUpdated = time.Now()
}

// WriteInteractions writes one whitespace-joined "<source> <target> <score>"
// line per record
func WriteInteractions(writer io.Writer, records []InteractionRecord) error {
	buffered := bufio.NewWriter(writer)
	for _, record := range records {
		line := record.Source + " " + record.Target + " " +
			strconv.FormatFloat(record.Score, 'g', -1, 64) + "\n"
		if _, err := buffered.WriteString(line); err != nil {
			return fmt.Errorf("writing interaction record: %w", err)
		}
	}
	return buffered.Flush()
}

// zeroAdjacency builds an all-zero bit matrix over the given labels
func zeroAdjacency(rowLabels, colLabels []string) (*BitMatrix, error) {
	values := make([][]bool, len(rowLabels))
	for i := range values {
		values[i] = make([]bool, len(colLabels))
	}
	return NewMatrix(values, rowLabels, colLabels)
}

// missingLabels returns the entries of want that are absent from have
func missingLabels(want, have []string) []string {
	known := make(map[string]struct{}, len(have))
	for _, label := range have {
		known[label] = struct{}{}
	}

	var missing []string
	for _, label := range want {
		if _, ok := known[label]; !ok {
			missing = append(missing, label)
		}
	}
	return missing
}
