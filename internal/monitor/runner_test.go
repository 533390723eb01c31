package monitor

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firesim/internal/sims/fire"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := fire.DefaultConfig()
	cfg.Width, cfg.Height = 6, 5
	cfg.Mix = fire.Mix{Grass: 1}
	g, err := fire.NewGrid(cfg.Width, cfg.Height, fire.RandomLayout(cfg.Width, cfg.Height, cfg.Mix, 1), fire.Seed{Ambient: cfg.Ambient})
	require.NoError(t, err)
	return NewRunner(fire.NewClock(g, cfg), 0.5, 200)
}

func TestRunnerStepOnceWhilePaused(t *testing.T) {
	r := newRunner(t)
	require.True(t, r.Status().Paused)

	st, err := r.StepOnce()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.Tick)
	assert.Equal(t, 0.5, st.Time)
	assert.Equal(t, 6, st.Width)
}

func TestRunnerIgniteAndField(t *testing.T) {
	r := newRunner(t)
	require.NoError(t, r.Ignite(2, 3))
	assert.Error(t, r.Ignite(5, 0))

	_, err := r.StepOnce()
	require.NoError(t, err)
	st, snap, err := r.Field(fire.FieldBurning)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.Tick)
	assert.Equal(t, 1.0, snap.At(2, 3))
	assert.Equal(t, 1, r.Stats().Burning)
}

func TestRunnerRunsUntilLimit(t *testing.T) {
	r := newRunner(t)
	r.SetLimit(5)
	updates, cancel := r.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() { _ = r.Run(ctx) }()
	r.Continue()

	assert.Eventually(t, func() bool { return r.Status().Paused && r.Status().Tick == 5 }, 5*time.Second, 5*time.Millisecond)
	select {
	case st := <-updates:
		assert.Positive(t, st.Tick)
	default:
		t.Fatal("subscriber saw no update")
	}

	r.Continue()
	assert.True(t, r.Status().Paused, "continue past the limit must be refused")
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	r := newRunner(t)
	updates, cancel := r.Subscribe()
	cancel()
	cancel()
	_, ok := <-updates
	assert.False(t, ok)
	_, err := r.StepOnce()
	assert.NoError(t, err)
}

func TestWebsocketStreamsFrames(t *testing.T) {
	r := newRunner(t)
	srv := httptest.NewServer(New(r).Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?field=fuel"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first fieldRsp
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "fuel", first.Field)
	assert.Equal(t, uint64(0), first.Tick)
	require.Len(t, first.Values, 5)

	require.NoError(t, conn.WriteJSON(map[string]string{"field": "temperature"}))
	var switched fieldRsp
	require.NoError(t, conn.ReadJSON(&switched))
	assert.Equal(t, "temperature", switched.Field)

	_, err = r.StepOnce()
	require.NoError(t, err)
	var next fieldRsp
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "temperature", next.Field)
	assert.Equal(t, uint64(1), next.Tick)
}
