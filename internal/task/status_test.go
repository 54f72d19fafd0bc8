package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"ytsa-go/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

func newTestStore(t *testing.T) (*StatusStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStatusStore(rdb), mr
}

func TestStatusLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetState(ctx, "t1", StatePending))

	status, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, StatePending, status.State)

	require.NoError(t, store.SetState(ctx, "t1", StateRunning))
	require.NoError(t, store.SetSuccess(ctx, "t1", map[string]interface{}{"comments_fetched": 42}))

	status, err = store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, status.State)
	result, ok := status.Result.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 42, result["comments_fetched"])
}

func TestStatusFailure(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetState(ctx, "t1", StateRunning))
	require.NoError(t, store.SetFailure(ctx, "t1", errors.New("quota exceeded")))

	status, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, StateFailure, status.State)
	assert.Equal(t, "quota exceeded", status.Error)
}

func TestStatusUnknownTask(t *testing.T) {
	store, _ := newTestStore(t)

	status, err := store.Get(context.Background(), "no-such-task")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestStatusExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetState(ctx, "t1", StateSuccess))

	mr.FastForward(statusTTL + time.Minute)

	status, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, status, "expired task must look like an unknown task")
}
