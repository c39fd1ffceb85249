package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai/stub"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
	"github.com/ranqi-ly/soul-matrix-ai/internal/usecase"
)

func testProfiles() (domain.PredictProfile, domain.PredictProfile) {
	p1 := domain.PredictProfile{Name: "Ada", Gender: "female", Age: 29, Interests: "hiking", Values: "honesty", Lifestyle: "early riser"}
	p2 := domain.PredictProfile{Name: "Ben", Gender: "male", Age: 31, Interests: "cooking", Values: "family", Lifestyle: "night owl"}
	return p1, p2
}

func TestPredict_ParsesModelReply(t *testing.T) {
	cl := stub.New()
	cl.Response = "Match score: 67\n\nAnalysis:\ncomplementary routines\n\nRecommendations:\n1. cook together"
	svc := usecase.NewPredictService(testCfg(), cl, newMemCache(t))
	p1, p2 := testProfiles()

	pred, err := svc.Run(context.Background(), p1, p2)
	require.NoError(t, err)
	assert.Equal(t, 67, pred.Score)
	assert.Contains(t, pred.Analysis, "complementary routines")
	assert.Equal(t, []string{"cook together"}, pred.Recommendations)
}

func TestPredict_SecondCallServedFromCache(t *testing.T) {
	cl := stub.New()
	cl.Response = "score: 71\nAnalysis:\nsteady pair"
	svc := usecase.NewPredictService(testCfg(), cl, newMemCache(t))
	p1, p2 := testProfiles()

	first, err := svc.Run(context.Background(), p1, p2)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), p1, p2)
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Analysis, second.Analysis)
	assert.Equal(t, 1, cl.Calls, "identical profile pair must not trigger a second model call")
}

func TestPredict_SwappedProfilesAreDistinct(t *testing.T) {
	cl := stub.New()
	cl.Response = "score: 71"
	svc := usecase.NewPredictService(testCfg(), cl, newMemCache(t))
	p1, p2 := testProfiles()

	_, err := svc.Run(context.Background(), p1, p2)
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), p2, p1)
	require.NoError(t, err)
	assert.Equal(t, 2, cl.Calls)
}

func TestPredict_MissingNameRejected(t *testing.T) {
	svc := usecase.NewPredictService(testCfg(), stub.New(), newMemCache(t))
	_, p2 := testProfiles()

	_, err := svc.Run(context.Background(), domain.PredictProfile{}, p2)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestPredict_MissingAPIKeyRejected(t *testing.T) {
	cfg := testCfg()
	cfg.AIAPIKey = ""
	svc := usecase.NewPredictService(cfg, stub.New(), newMemCache(t))
	p1, p2 := testProfiles()

	_, err := svc.Run(context.Background(), p1, p2)
	assert.True(t, errors.Is(err, domain.ErrConfigMissing))
}
