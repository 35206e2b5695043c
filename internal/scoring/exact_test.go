package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactScorer_Score(t *testing.T) {
	t.Parallel()

	res, err := ExactScorer{}.Score(context.Background(),
		[]string{"Jazz", "Pop"}, []string{"Jazz", "Funk"})
	require.NoError(t, err)

	require.Len(t, res.PerLabel, 2)
	assert.Equal(t, 100, res.PerLabel[0].Score)
	assert.Equal(t, "Jazz", res.PerLabel[0].MatchedWith)
	assert.Equal(t, 0, res.PerLabel[1].Score)
	assert.Equal(t, 50, res.AverageScore)
}

func TestExactScorer_Score_AllCorrect(t *testing.T) {
	t.Parallel()

	res, err := ExactScorer{}.Score(context.Background(),
		[]string{"Funk", "Jazz"}, []string{"Jazz", "Funk"})
	require.NoError(t, err)
	assert.Equal(t, 100, res.AverageScore)
}

func TestExactScorer_Score_NoDoubleMatch(t *testing.T) {
	t.Parallel()

	// One correct label cannot satisfy two identical claims
	res, err := ExactScorer{}.Score(context.Background(),
		[]string{"Jazz", "Jazz"}, []string{"Jazz", "Funk"})
	require.NoError(t, err)

	assert.Equal(t, 100, res.PerLabel[0].Score)
	assert.Equal(t, 0, res.PerLabel[1].Score)
	assert.Equal(t, 50, res.AverageScore)
}

func TestExactScorer_Score_NoClaims(t *testing.T) {
	t.Parallel()

	res, err := ExactScorer{}.Score(context.Background(), nil, []string{"Jazz"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.AverageScore)
	assert.Empty(t, res.PerLabel)
}
