package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPScorer_Score(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req scoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"Jass"}, req.Claimed)
		assert.Equal(t, []string{"Jazz"}, req.Correct)

		json.NewEncoder(w).Encode(Result{
			PerLabel:     []LabelScore{{Claimed: "Jass", MatchedWith: "Jazz", Score: 90, Explanation: "拼写相近"}},
			AverageScore: 90,
		})
	}))
	defer srv.Close()

	scorer := NewHTTPScorer(srv.URL, 2*time.Second)
	res, err := scorer.Score(context.Background(), []string{"Jass"}, []string{"Jazz"})
	require.NoError(t, err)

	assert.Equal(t, 90, res.AverageScore)
	require.Len(t, res.PerLabel, 1)
	assert.Equal(t, "Jazz", res.PerLabel[0].MatchedWith)
}

func TestHTTPScorer_Score_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	scorer := NewHTTPScorer(srv.URL, 2*time.Second)
	_, err := scorer.Score(context.Background(), []string{"Jazz"}, []string{"Jazz"})
	assert.Error(t, err)
}

func TestHTTPScorer_Score_Unreachable(t *testing.T) {
	t.Parallel()

	scorer := NewHTTPScorer("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := scorer.Score(context.Background(), []string{"Jazz"}, []string{"Jazz"})
	assert.Error(t, err)
}
