package noop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kydenul/fpsim"
)

func bitMatrix(t *testing.T, values [][]bool, rowLabels, colLabels []string) *fpsim.BitMatrix {
	t.Helper()
	m, err := fpsim.NewMatrix(values, rowLabels, colLabels)
	require.NoError(t, err)
	return m
}

func scoreMatrix(t *testing.T, values [][]float64, rowLabels, colLabels []string) *fpsim.ScoreMatrix {
	t.Helper()
	m, err := fpsim.NewMatrix(values, rowLabels, colLabels)
	require.NoError(t, err)
	return m
}

func TestPredictorPreservesShapes(t *testing.T) {
	predictor := NewPredictor()

	trainSim := scoreMatrix(t,
		[][]float64{{1, 0.5}, {0.5, 1}},
		[]string{"drugA", "drugB"},
		[]string{"drugA", "drugB"},
	)
	querySim := scoreMatrix(t,
		[][]float64{{0.8, 0.2}},
		[]string{"drugX"},
		[]string{"drugA", "drugB"},
	)

	trainGraph, err := predictor.Featurize(trainSim, 0.5, false)
	require.NoError(t, err)
	queryGraph, err := predictor.Featurize(querySim, 0.5, true)
	require.NoError(t, err)

	require.Equal(t, 4, trainGraph.(*featureView).edges)
	require.Equal(t, 1, queryGraph.(*featureView).edges)

	adjacency := fpsim.AdjacencyPair{
		Train: bitMatrix(t,
			[][]bool{{true, false}, {false, true}},
			[]string{"drugA", "drugB"},
			[]string{"t1", "t2"},
		),
		Query: bitMatrix(t,
			[][]bool{{false, false}},
			[]string{"drugX"},
			[]string{"t1", "t2"},
		),
	}

	graph, err := predictor.Construct(adjacency, fpsim.FeatureGraphPair{
		Train: trainGraph,
		Query: queryGraph,
	})
	require.NoError(t, err)

	records, err := predictor.Predict(graph, adjacency.Query, fpsim.PredictOptions{})
	require.NoError(t, err)

	require.Equal(t, []fpsim.InteractionRecord{
		{Source: "drugX", Target: "t1", Score: 0},
		{Source: "drugX", Target: "t2", Score: 0},
	}, records)
}

func TestPredictorSkipsObservedInteractions(t *testing.T) {
	predictor := NewPredictor()

	query := bitMatrix(t,
		[][]bool{{true, false}},
		[]string{"drugX"},
		[]string{"t1", "t2"},
	)
	graph := &graphView{}

	records, err := predictor.Predict(graph, query, fpsim.PredictOptions{})
	require.NoError(t, err)
	require.Equal(t, []fpsim.InteractionRecord{
		{Source: "drugX", Target: "t2", Score: 0},
	}, records)
}

func TestConstructRejectsMismatchedShapes(t *testing.T) {
	predictor := NewPredictor()

	trainSim := scoreMatrix(t, [][]float64{{1}}, []string{"drugA"}, []string{"drugA"})
	trainGraph, err := predictor.Featurize(trainSim, 0.5, false)
	require.NoError(t, err)

	adjacency := fpsim.AdjacencyPair{
		Train: bitMatrix(t,
			[][]bool{{true}, {false}},
			[]string{"drugA", "drugB"},
			[]string{"t1"},
		),
		Query: bitMatrix(t, [][]bool{{false}}, []string{"drugX"}, []string{"t1"}),
	}

	_, err = predictor.Construct(adjacency, fpsim.FeatureGraphPair{
		Train: trainGraph,
		Query: trainGraph,
	})
	require.Error(t, err)
}
