// Package noop provides a stand-in InteractionPredictor so the prediction
// tool links and runs end to end without the real link-prediction library.
// It preserves every shape and label obligation of the interface but performs
// no resource-diffusion scoring: all predicted scores are zero.
package noop

import (
	"fmt"

	"github.com/kydenul/fpsim"
)

var _ fpsim.InteractionPredictor = (*Predictor)(nil)

// Predictor implements fpsim.InteractionPredictor without any graph math
type Predictor struct{}

// NewPredictor creates a new no-op Predictor
func NewPredictor() *Predictor {
	return &Predictor{}
}

// featureView is the no-op feature representation: the thresholded edge count
// alongside the similarity matrix it came from
type featureView struct {
	similarity *fpsim.ScoreMatrix
	edges      int
	weighted   bool
}

// graphView bundles everything Construct receives
type graphView struct {
	adjacency fpsim.AdjacencyPair
	features  fpsim.FeatureGraphPair
}

// Featurize counts the entries at or above the cutoff and keeps the matrix
// for shape checks in Construct
func (p *Predictor) Featurize(
	similarity *fpsim.ScoreMatrix,
	cutoff float64,
	weighted bool,
) (fpsim.FeatureGraph, error) {
	edges := 0
	for i := 0; i < similarity.Rows(); i++ {
		for j := 0; j < similarity.Cols(); j++ {
			if similarity.At(i, j) >= cutoff {
				edges++
			}
		}
	}
	return &featureView{similarity: similarity, edges: edges, weighted: weighted}, nil
}

// Construct validates that the adjacency and feature inputs agree on their
// drug labels and bundles them into an opaque graph handle
func (p *Predictor) Construct(
	adjacency fpsim.AdjacencyPair,
	features fpsim.FeatureGraphPair,
) (fpsim.InteractionGraph, error) {
	train, ok := features.Train.(*featureView)
	if !ok {
		return nil, fmt.Errorf("noop: unexpected training feature graph %T", features.Train)
	}
	query, ok := features.Query.(*featureView)
	if !ok {
		return nil, fmt.Errorf("noop: unexpected query feature graph %T", features.Query)
	}

	if train.similarity.Rows() != adjacency.Train.Rows() {
		return nil, fmt.Errorf("noop: training similarity has %d drugs, adjacency has %d",
			train.similarity.Rows(), adjacency.Train.Rows())
	}
	if query.similarity.Rows() != adjacency.Query.Rows() {
		return nil, fmt.Errorf("noop: query similarity has %d drugs, adjacency has %d",
			query.similarity.Rows(), adjacency.Query.Rows())
	}

	return &graphView{adjacency: adjacency, features: features}, nil
}

// Predict enumerates every unobserved query drug/target pair with score zero.
// Real scores come from the external resource-diffusion library; this
// implementation only exercises the plumbing around it.
func (p *Predictor) Predict(
	graph fpsim.InteractionGraph,
	queryAdjacency *fpsim.BitMatrix,
	opts fpsim.PredictOptions,
) ([]fpsim.InteractionRecord, error) {
	if _, ok := graph.(*graphView); !ok {
		return nil, fmt.Errorf("noop: unexpected interaction graph %T", graph)
	}

	drugs := queryAdjacency.RowLabels()
	targets := queryAdjacency.ColLabels()

	records := make([]fpsim.InteractionRecord, 0, len(drugs)*len(targets))
	for i, drug := range drugs {
		for j, target := range targets {
			if queryAdjacency.At(i, j) {
				// Observed interactions are never re-scored.
				continue
			}
			records = append(records, fpsim.InteractionRecord{
				Source: drug,
				Target: target,
				Score:  0,
			})
		}
	}
	return records, nil
}
