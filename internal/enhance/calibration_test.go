package enhance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/enhance"
	"github.com/pagelens/pagelens/internal/model"
)

func TestCalibration_NoHeuristicsMeansNoOverride(t *testing.T) {
	t.Parallel()

	e := enhance.NewCalibrationEnhancer()
	res, err := e.Enhance(context.Background(), nil, model.HeuristicBundle{}, &model.OverallAssessment{OverallScore: 70})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Nil(t, res.OverrideScore)
}

func TestCalibration_OverrideIsCapped(t *testing.T) {
	t.Parallel()

	e := enhance.NewCalibrationEnhancer()
	heur := model.HeuristicBundle{
		"readability": &model.HeuristicResult{SubScore: 95, Success: true},
	}
	res, err := e.Enhance(context.Background(), nil, heur, &model.OverallAssessment{OverallScore: 60})
	require.NoError(t, err)
	require.NotNil(t, res.OverrideScore)
	// Heuristic mean is 35 points above; adjustment capped at +5.
	assert.InDelta(t, 65, *res.OverrideScore, 1e-9)
	assert.Equal(t, "C+", res.OverrideGrade)
}

func TestCalibration_SmallDisagreementLeavesScoreAlone(t *testing.T) {
	t.Parallel()

	e := enhance.NewCalibrationEnhancer()
	heur := model.HeuristicBundle{
		"readability": &model.HeuristicResult{SubScore: 70.5, Success: true},
	}
	res, err := e.Enhance(context.Background(), nil, heur, &model.OverallAssessment{OverallScore: 70})
	require.NoError(t, err)
	assert.Nil(t, res.OverrideScore)
}

func TestCalibration_NilAssessmentIsAnError(t *testing.T) {
	t.Parallel()

	e := enhance.NewCalibrationEnhancer()
	_, err := e.Enhance(context.Background(), nil, model.HeuristicBundle{}, nil)
	assert.Error(t, err)
}
