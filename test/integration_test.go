package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privamed/smpc/pkg/crypto/fixedpoint"
	"github.com/privamed/smpc/pkg/crypto/shamir"
	"github.com/privamed/smpc/pkg/engine"
	"github.com/privamed/smpc/pkg/session"
	"github.com/privamed/smpc/pkg/store"
)

func TestFullWorkflow(t *testing.T) {
	dir := t.TempDir()

	st, err := store.NewFileStore(dir)
	require.NoError(t, err)
	eng := engine.New(st)

	id, err := eng.Create("variance", []string{"clinic-a", "clinic-b", "clinic-c"}, 2)
	require.NoError(t, err)

	require.NoError(t, eng.Submit(id, "clinic-a", 10.5))
	require.NoError(t, eng.Submit(id, "clinic-b", 20.75))
	require.NoError(t, eng.Submit(id, "clinic-c", 30.25))

	result, err := eng.Compute(id)
	require.NoError(t, err)
	assert.Equal(t, session.TypeVariance, result.Operation)
	assert.InDelta(t, 65.0417, result.Value, 1e-4)
	assert.Equal(t, "shamir-threshold-v1", result.SecurityMethod)

	// Simulate a process restart: reopen the store and read the result back.
	reopened, err := store.NewFileStore(dir)
	require.NoError(t, err)
	restarted := engine.New(reopened)

	view, err := restarted.GetResult(id)
	require.NoError(t, err)
	assert.Equal(t, session.StatusComputed, view.Status)
	require.NotNil(t, view.Result)
	assert.InDelta(t, result.Value, view.Result.Value, 1e-9)

	// The cached result is served without recomputation after restart too.
	again, err := restarted.Compute(id)
	require.NoError(t, err)
	assert.Equal(t, view.Result.ComputedAt, again.ComputedAt)
}

func TestPrivacyBelowQuorum(t *testing.T) {
	// A sub-threshold coalition must get an explicit failure, never a
	// plausible-looking reconstruction.
	codec := fixedpoint.NewCodec(shamir.FieldOrder())

	secret, err := codec.Encode(120.5)
	require.NoError(t, err)

	shares, err := shamir.Split(secret, shamir.Config{Parts: 5, Threshold: 3})
	require.NoError(t, err)

	for take := 0; take < 3; take++ {
		_, err := shamir.Combine(shares[:take], 3)
		require.Error(t, err)
		assert.ErrorIs(t, err, shamir.ErrInsufficientShares)
	}
}

func TestMultipleSessionsIndependent(t *testing.T) {
	eng := engine.New(store.NewMemoryStore())

	sumID, err := eng.Create("sum", []string{"org-a", "org-b"}, 2)
	require.NoError(t, err)
	meanID, err := eng.Create("mean", []string{"org-a", "org-b"}, 2)
	require.NoError(t, err)

	for _, id := range []string{sumID, meanID} {
		require.NoError(t, eng.Submit(id, "org-a", 4.0))
		require.NoError(t, eng.Submit(id, "org-b", 8.0))
	}

	sum, err := eng.Compute(sumID)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, sum.Value, 1e-4)

	mean, err := eng.Compute(meanID)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, mean.Value, 1e-4)

	// A failure in one session leaves the other untouched.
	failID, err := eng.Create("sum", []string{"org-a", "org-b", "org-c"}, 3)
	require.NoError(t, err)
	require.NoError(t, eng.Submit(failID, "org-a", 1.0))
	_, err = eng.Compute(failID)
	require.Error(t, err)

	view, err := eng.GetResult(sumID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusComputed, view.Status)
}
