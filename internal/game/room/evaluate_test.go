package room_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/scoring"
	"github.com/palemoky/genre-battle/internal/testutil"
)

// claimAll lets alice take both correct answers and bob the distractors.
func claimAll(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	for _, c := range []struct {
		actor room.PlayerID
		label string
	}{
		{alice, "Jazz"}, {alice, "Funk"}, {bob, "Pop"}, {bob, "Metal"},
	} {
		_, err := f.engine.Handle(ctx, room.SelectOption{RoomCode: f.code, Actor: c.actor, Label: c.label})
		require.NoError(t, err)
	}
}

func TestEngine_EvaluateRound_ExactScoring(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	claimAll(t, f)
	ctx := context.Background()

	res, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)

	assert.Equal(t, room.StatusEvaluating, res.Room.Status)
	assert.Equal(t, room.RoundCompleted, res.Room.ActiveRound().Status)
	assert.Equal(t, 100, res.Room.Player(alice).Score)
	assert.Equal(t, 0, res.Room.Player(bob).Score)

	require.Len(t, res.Events, 1)
	assert.Equal(t, room.ToRoom, res.Events[0].Scope)
	assert.Equal(t, protocol.MsgRoundEvaluated, res.Events[0].Msg.Type)

	// The result message reveals the answers and per-label details
	payload, err := protocol.ParsePayload[protocol.RoundEvaluatedPayload](res.Events[0].Msg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz", "Funk"}, payload.CorrectAnswers)
	require.Len(t, payload.Results, 2)
}

func TestEngine_EvaluateRound_ExternalScorer(t *testing.T) {
	t.Parallel()

	scorer := &testutil.MockScorer{}
	scorer.On("Score", mock.Anything, mock.Anything, mock.Anything).Return(&scoring.Result{
		PerLabel:     []scoring.LabelScore{{Claimed: "Jazz", MatchedWith: "Jazz", Score: 80}},
		AverageScore: 80,
	}, nil)

	f := startedGame(t, scorer)
	claimAll(t, f)

	res, err := f.engine.Handle(context.Background(), room.EvaluateRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)

	assert.Equal(t, 80, res.Room.Player(alice).Score)
	assert.Equal(t, 80, res.Room.Player(bob).Score)
	scorer.AssertNumberOfCalls(t, "Score", 2)
}

// TestEngine_EvaluateRound_ScorerFallback drives the local exact-match
// fallback: the external scorer fails but evaluation still completes.
func TestEngine_EvaluateRound_ScorerFallback(t *testing.T) {
	t.Parallel()

	scorer := &testutil.FailingScorer{Err: assert.AnError}
	f := startedGame(t, scorer)
	claimAll(t, f)

	res, err := f.engine.Handle(context.Background(), room.EvaluateRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)

	assert.Equal(t, 2, scorer.Calls())
	assert.Equal(t, 100, res.Room.Player(alice).Score)
	assert.Equal(t, 0, res.Room.Player(bob).Score)
	assert.Equal(t, room.StatusEvaluating, res.Room.Status)
}

func TestEngine_EvaluateRound_ZeroClaims(t *testing.T) {
	t.Parallel()

	scorer := &testutil.FailingScorer{Err: assert.AnError}
	f := startedGame(t, scorer)
	ctx := context.Background()

	// Only alice claims, bob never does. Auto evaluation skips the
	// quota gate the same way a timeout-driven evaluation would.
	_, err := f.engine.Handle(ctx, room.SelectOption{RoomCode: f.code, Actor: alice, Label: "Jazz"})
	require.NoError(t, err)

	res, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)

	// Zero-claim players are scored 0 without hitting the scorer
	assert.Equal(t, 1, scorer.Calls())
	assert.Equal(t, 0, res.Room.Player(bob).Score)
	assert.Equal(t, 100, res.Room.Player(alice).Score)
}

func TestEngine_EvaluateRound_Idempotent(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	claimAll(t, f)
	ctx := context.Background()

	first, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)

	// A second trigger re-sends the stored result, nothing is re-scored
	// and totals do not grow.
	second, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Actor: alice, Auto: true})
	require.NoError(t, err)

	assert.Equal(t, first.Room.Player(alice).Score, second.Room.Player(alice).Score)
	require.Len(t, second.Events, 1)
	assert.Equal(t, room.ToCaller, second.Events[0].Scope)
	assert.Equal(t, protocol.MsgRoundEvaluated, second.Events[0].Msg.Type)
}

// TestEngine_EvaluateRound_ClaimDuringEvaluate interleaves a legal claim
// with evaluation: bob's second claim commits between the scoring pass and
// the evaluation save. The stale scores must be discarded and the round
// re-scored so the stored result covers every stored selection.
func TestEngine_EvaluateRound_ClaimDuringEvaluate(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	ctx := context.Background()
	for _, c := range []struct {
		actor room.PlayerID
		label string
	}{
		{alice, "Jazz"}, {alice, "Funk"}, {bob, "Pop"},
	} {
		_, err := f.engine.Handle(ctx, room.SelectOption{RoomCode: f.code, Actor: c.actor, Label: c.label})
		require.NoError(t, err)
	}

	injected := false
	f.store.SaveHook = func(r *room.Room) {
		if injected {
			return
		}
		injected = true
		_, err := f.engine.Handle(ctx, room.SelectOption{RoomCode: f.code, Actor: bob, Label: "Metal"})
		require.NoError(t, err)
	}

	res, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)
	assert.True(t, injected)

	// The completed round carries both of bob's claims and both were scored
	round := res.Room.ActiveRound()
	require.Equal(t, room.RoundCompleted, round.Status)
	assert.Equal(t, []string{"Pop", "Metal"}, round.Selections[bob])
	require.Len(t, round.Details[bob], 2)
	assert.Equal(t, 0, res.Room.Player(bob).Score)
	assert.Equal(t, 100, res.Room.Player(alice).Score)
}

// TestEngine_EvaluateRound_ConcurrentTriggers races two evaluation triggers
// through the version-conflict path: an auto trigger commits while the
// creator's trigger is saving. The loser adopts the stored result instead of
// re-applying scores.
func TestEngine_EvaluateRound_ConcurrentTriggers(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	claimAll(t, f)
	ctx := context.Background()

	var inner *room.Result
	injected := false
	f.store.SaveHook = func(r *room.Room) {
		if injected {
			return
		}
		injected = true
		res, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Auto: true})
		require.NoError(t, err)
		inner = res
	}

	outer, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)
	require.NotNil(t, inner)

	// Totals are applied exactly once
	assert.Equal(t, 100, outer.Room.Player(alice).Score)
	assert.Equal(t, 0, outer.Room.Player(bob).Score)
	assert.Equal(t, inner.Room.Player(alice).Score, outer.Room.Player(alice).Score)

	require.Len(t, outer.Events, 1)
	assert.Equal(t, protocol.MsgRoundEvaluated, outer.Events[0].Msg.Type)
}

func TestEngine_EvaluateRound_NonCreatorForbidden(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	claimAll(t, f)

	_, err := f.engine.Handle(context.Background(), room.EvaluateRound{RoomCode: f.code, Actor: bob})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestEngine_EvaluateRound_AutoSkipsCreatorCheck(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	claimAll(t, f)

	_, err := f.engine.Handle(context.Background(), room.EvaluateRound{RoomCode: f.code, Auto: true})
	assert.NoError(t, err)
}

func TestEngine_EvaluateRound_BeforeStart(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)

	_, err = f.engine.Handle(ctx, room.EvaluateRound{RoomCode: res.Room.Code, Actor: alice})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}
