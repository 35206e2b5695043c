package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/scoring"
	"github.com/palemoky/genre-battle/internal/testutil"
)

type harness struct {
	handler *Handler
	server  *testutil.SimpleServer
	store   *testutil.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := testutil.NewMemoryStore()
	provider := &testutil.FixedProvider{Content: testutil.TwoGenreContent()}
	engine := room.NewEngine(store, provider, scoring.ExactScorer{}, 3)
	srv := testutil.NewSimpleServer()

	return &harness{
		handler: NewHandler(HandlerDeps{Server: srv, Engine: engine, AutoEvalDelay: time.Millisecond}),
		server:  srv,
		store:   store,
	}
}

func connect(connID string) *testutil.SimpleClient {
	return &testutil.SimpleClient{ConnID: connID}
}

func createRoom(t *testing.T, h *harness, c *testutil.SimpleClient, userID, name string) string {
	t.Helper()
	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		UserID: userID, Name: name, RoundCount: 2,
	}))

	msgs := c.MessagesOfType(protocol.MsgRoomCreated)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.RoomCreatedPayload](msgs[0])
	require.NoError(t, err)
	return payload.Room.RoomCode
}

func joinRoom(t *testing.T, h *harness, c *testutil.SimpleClient, code, userID, name string) {
	t.Helper()
	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: code, UserID: userID, Name: name,
	}))
	require.Len(t, c.MessagesOfType(protocol.MsgRoomJoined), 1)
}

func TestHandler_Ping(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")

	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 123}))

	msgs := c.MessagesOfType(protocol.MsgPong)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.PongPayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, int64(123), payload.ClientTimestamp)
}

func TestHandler_UnknownMessageType(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")

	h.handler.Handle(c, &protocol.Message{Type: "bogus"})

	require.Len(t, c.MessagesOfType(protocol.MsgError), 1)
}

func TestHandler_CreateRoom(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")

	code := createRoom(t, h, c, "alice@example.com", "Alice")
	assert.Len(t, code, 6)
	assert.Equal(t, code, c.GetRoom())
	assert.Equal(t, "alice@example.com", c.GetUserID())
}

func TestHandler_CreateRoom_MissingFields(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")

	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Name: "Alice", RoundCount: 2,
	}))

	require.Len(t, c.MessagesOfType(protocol.MsgError), 1)
	assert.Empty(t, c.MessagesOfType(protocol.MsgRoomCreated))
}

func TestHandler_JoinRoom_NotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")

	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: "ZZZZZZ", UserID: "bob@example.com", Name: "Bob",
	}))

	msgs := c.MessagesOfType(protocol.MsgError)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, payload.Code)
}

func TestHandler_SelectOption_FailureAck(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	creator := connect("conn-1")
	joiner := connect("conn-2")

	code := createRoom(t, h, creator, "alice@example.com", "Alice")
	joinRoom(t, h, joiner, code, "bob@example.com", "Bob")
	h.handler.Handle(creator, protocol.MustNewMessage(protocol.MsgStartGame, nil))

	h.handler.Handle(creator, protocol.MustNewMessage(protocol.MsgSelectOption, protocol.SelectOptionPayload{Label: "Jazz"}))
	h.handler.Handle(joiner, protocol.MustNewMessage(protocol.MsgSelectOption, protocol.SelectOptionPayload{Label: "Jazz"}))

	// The loser gets a structured failure ack, not a bare error frame
	msgs := joiner.MessagesOfType(protocol.MsgSelectResult)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.SelectResultPayload](msgs[0])
	require.NoError(t, err)
	assert.False(t, payload.Success)
	assert.Equal(t, protocol.ErrCodeAlreadyClaimed, payload.Code)
	assert.Equal(t, "Jazz", payload.Label)
	assert.Empty(t, joiner.MessagesOfType(protocol.MsgError))
}

func TestHandler_SelectOption_NotInRoom(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")

	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgSelectOption, protocol.SelectOptionPayload{Label: "Jazz"}))

	msgs := c.MessagesOfType(protocol.MsgError)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotInRoom, payload.Code)
}

func TestHandler_FullRound_Broadcasts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	creator := connect("conn-1")
	joiner := connect("conn-2")

	code := createRoom(t, h, creator, "alice@example.com", "Alice")
	joinRoom(t, h, joiner, code, "bob@example.com", "Bob")
	h.handler.Handle(creator, protocol.MustNewMessage(protocol.MsgStartGame, nil))

	for _, claim := range []struct {
		c     *testutil.SimpleClient
		label string
	}{
		{creator, "Jazz"}, {creator, "Funk"}, {joiner, "Pop"}, {joiner, "Metal"},
	} {
		h.handler.Handle(claim.c, protocol.MustNewMessage(protocol.MsgSelectOption, protocol.SelectOptionPayload{Label: claim.label}))
	}

	types := make(map[protocol.MessageType]int)
	for _, msg := range h.server.RoomMessages(code) {
		types[msg.Type]++
	}
	assert.Equal(t, 1, types[protocol.MsgPlayerJoined])
	assert.Equal(t, 1, types[protocol.MsgGameStarted])
	assert.Equal(t, 4, types[protocol.MsgSelectionsUpdated])
	assert.Equal(t, 1, types[protocol.MsgRoundComplete])

	// The last claim schedules the auto evaluation
	assert.Eventually(t, func() bool {
		for _, msg := range h.server.RoomMessages(code) {
			if msg.Type == protocol.MsgRoundEvaluated {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestHandler_GetRoomState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")
	code := createRoom(t, h, c, "alice@example.com", "Alice")

	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgGetRoomState, nil))

	msgs := c.MessagesOfType(protocol.MsgRoomState)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.RoomStatePayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, code, payload.Room.RoomCode)
}

func TestHandler_CloseRoom_ReleasesBindings(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c := connect("conn-1")
	code := createRoom(t, h, c, "alice@example.com", "Alice")

	h.handler.Handle(c, protocol.MustNewMessage(protocol.MsgCloseRoom, nil))

	found := false
	for _, msg := range h.server.RoomMessages(code) {
		if msg.Type == protocol.MsgRoomClosed {
			found = true
		}
	}
	assert.True(t, found)
}
