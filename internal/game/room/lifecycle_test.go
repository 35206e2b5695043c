package room_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/scoring"
	"github.com/palemoky/genre-battle/internal/testutil"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
	carol = "carol@example.com"
)

type fixture struct {
	engine   *room.Engine
	store    *testutil.MemoryStore
	provider *testutil.FixedProvider
	code     string
}

// newFixture creates an engine with an in-memory store and a fixed
// two-answer round (Jazz + Funk correct, Pop + Metal distractors).
func newFixture(t *testing.T, scorer scoring.Scorer) *fixture {
	t.Helper()
	if scorer == nil {
		scorer = scoring.ExactScorer{}
	}
	store := testutil.NewMemoryStore()
	provider := &testutil.FixedProvider{Content: testutil.TwoGenreContent()}
	return &fixture{
		engine:   room.NewEngine(store, provider, scorer, 3),
		store:    store,
		provider: provider,
	}
}

// startedGame creates a room with alice (creator) + bob and starts round 1.
func startedGame(t *testing.T, scorer scoring.Scorer) *fixture {
	t.Helper()
	f := newFixture(t, scorer)
	ctx := context.Background()

	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)
	f.code = res.Room.Code

	_, err = f.engine.Handle(ctx, room.JoinRoom{RoomCode: f.code, Actor: bob, Name: "Bob"})
	require.NoError(t, err)

	_, err = f.engine.Handle(ctx, room.StartGame{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)

	return f
}

func TestEngine_CreateRoom(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	res, err := f.engine.Handle(context.Background(), room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 3})
	require.NoError(t, err)

	assert.Len(t, res.Room.Code, 6)
	assert.Equal(t, room.StatusWaiting, res.Room.Status)
	assert.True(t, res.Room.IsCreator(alice))
	assert.Equal(t, 3, res.Room.RoundCount)

	// Creation is acknowledged to the caller only
	require.Len(t, res.Events, 1)
	assert.Equal(t, room.ToCaller, res.Events[0].Scope)
	assert.Equal(t, protocol.MsgRoomCreated, res.Events[0].Msg.Type)
}

func TestEngine_CreateRoom_InvalidRoundCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	_, err := f.engine.Handle(context.Background(), room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRoundCount)
}

func TestEngine_JoinRoom(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)
	code := res.Room.Code

	res, err = f.engine.Handle(ctx, room.JoinRoom{RoomCode: code, Actor: bob, Name: "Bob"})
	require.NoError(t, err)
	assert.Len(t, res.Room.Players, 2)

	// Caller gets the snapshot, the room gets the roster update
	require.Len(t, res.Events, 2)
	assert.Equal(t, protocol.MsgRoomJoined, res.Events[0].Msg.Type)
	assert.Equal(t, room.ToRoom, res.Events[1].Scope)
	assert.Equal(t, protocol.MsgPlayerJoined, res.Events[1].Msg.Type)
}

func TestEngine_JoinRoom_Idempotent(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)

	// Re-joining after the game started resumes instead of failing
	res, err := f.engine.Handle(context.Background(), room.JoinRoom{RoomCode: f.code, Actor: bob, Name: "Bob"})
	require.NoError(t, err)
	assert.Len(t, res.Room.Players, 2)

	// No roster broadcast for a resume
	require.Len(t, res.Events, 1)
	assert.Equal(t, protocol.MsgRoomJoined, res.Events[0].Msg.Type)
}

func TestEngine_JoinRoom_AfterStartRejected(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	_, err := f.engine.Handle(context.Background(), room.JoinRoom{RoomCode: f.code, Actor: carol, Name: "Carol"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEngine_JoinRoom_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	_, err := f.engine.Handle(context.Background(), room.JoinRoom{RoomCode: "ZZZZZZ", Actor: bob, Name: "Bob"})
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestEngine_StartGame(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)
	code := res.Room.Code
	_, err = f.engine.Handle(ctx, room.JoinRoom{RoomCode: code, Actor: bob, Name: "Bob"})
	require.NoError(t, err)

	res, err = f.engine.Handle(ctx, room.StartGame{RoomCode: code, Actor: alice})
	require.NoError(t, err)

	assert.Equal(t, room.StatusRoundInProgress, res.Room.Status)
	require.NotNil(t, res.Room.ActiveRound())
	assert.Equal(t, 2, res.Room.ActiveRound().Quota())

	require.Len(t, res.Events, 1)
	assert.Equal(t, room.ToRoom, res.Events[0].Scope)
	assert.Equal(t, protocol.MsgGameStarted, res.Events[0].Msg.Type)

	// The round view sent to clients never carries the answers
	payload, err := protocol.ParsePayload[protocol.NewRoundPayload](res.Events[0].Msg)
	require.NoError(t, err)
	assert.Len(t, payload.Round.Options, 4)
}

func TestEngine_StartGame_NonCreatorForbidden(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)
	code := res.Room.Code
	_, err = f.engine.Handle(ctx, room.JoinRoom{RoomCode: code, Actor: bob, Name: "Bob"})
	require.NoError(t, err)

	_, err = f.engine.Handle(ctx, room.StartGame{RoomCode: code, Actor: bob})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestEngine_StartGame_NotEnoughPlayers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)

	_, err = f.engine.Handle(ctx, room.StartGame{RoomCode: res.Room.Code, Actor: alice})
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughPlayers)
}

func TestEngine_StartGame_ProviderFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)
	code := res.Room.Code
	_, err = f.engine.Handle(ctx, room.JoinRoom{RoomCode: code, Actor: bob, Name: "Bob"})
	require.NoError(t, err)

	f.provider.Err = assert.AnError
	_, err = f.engine.Handle(ctx, room.StartGame{RoomCode: code, Actor: alice})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	// The room must stay joinable: the failed start changed nothing
	loaded, err := f.engine.Snapshot(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, room.StatusWaiting, loaded.Status)
}

func TestEngine_AdvanceRound_RequiresEvaluating(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	_, err := f.engine.Handle(context.Background(), room.AdvanceRound{RoomCode: f.code, Actor: alice})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEngine_CloseRoom(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Handle(ctx, room.CreateRoom{Actor: alice, Name: "Alice", RoundCount: 2})
	require.NoError(t, err)
	code := res.Room.Code

	// Non-creator cannot close
	_, err = f.engine.Handle(ctx, room.CloseRoom{RoomCode: code, Actor: bob})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	res, err = f.engine.Handle(ctx, room.CloseRoom{RoomCode: code, Actor: alice})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, protocol.MsgRoomClosed, res.Events[0].Msg.Type)

	_, err = f.engine.Handle(ctx, room.CloseRoom{RoomCode: code, Actor: alice})
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

// TestEngine_FullGame walks a two-round game to completion and checks
// the final standings order, including the join-order tie break.
func TestEngine_FullGame(t *testing.T) {
	t.Parallel()

	f := startedGame(t, nil)
	ctx := context.Background()

	playBoth := func(aliceLabels, bobLabels [2]string) {
		for i := 0; i < 2; i++ {
			_, err := f.engine.Handle(ctx, room.SelectOption{RoomCode: f.code, Actor: alice, Label: aliceLabels[i]})
			require.NoError(t, err)
			_, err = f.engine.Handle(ctx, room.SelectOption{RoomCode: f.code, Actor: bob, Label: bobLabels[i]})
			require.NoError(t, err)
		}
		_, err := f.engine.Handle(ctx, room.EvaluateRound{RoomCode: f.code, Actor: alice})
		require.NoError(t, err)
	}

	// Round 1: alice takes both correct answers, bob the distractors
	playBoth([2]string{"Jazz", "Funk"}, [2]string{"Pop", "Metal"})

	res, err := f.engine.Handle(ctx, room.AdvanceRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgNewRound, res.Events[0].Msg.Type)

	// Round 2: mirror image, both players end on the same total
	playBoth([2]string{"Pop", "Metal"}, [2]string{"Jazz", "Funk"})

	res, err = f.engine.Handle(ctx, room.AdvanceRound{RoomCode: f.code, Actor: alice})
	require.NoError(t, err)
	assert.Equal(t, room.StatusCompleted, res.Room.Status)
	require.Len(t, res.Events, 1)
	assert.Equal(t, protocol.MsgGameOver, res.Events[0].Msg.Type)

	payload, err := protocol.ParsePayload[protocol.GameOverPayload](res.Events[0].Msg)
	require.NoError(t, err)
	require.Len(t, payload.Standings, 2)

	// Equal totals: the earlier joiner ranks first
	assert.Equal(t, payload.Standings[0].Score, payload.Standings[1].Score)
	assert.Equal(t, alice, payload.Standings[0].ID)
	assert.Equal(t, bob, payload.Standings[1].ID)
}
