package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviato-app/aviato-match/internal/domain/matching"
	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/internal/infrastructure/persistence/memory"
)

func TestPickerService_ApplyCommits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSelectionStore()
	svc := NewPickerService(store, nil)

	opened, err := svc.Open(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, selection.PickerOpen, opened.State)
	assert.NotEmpty(t, opened.SessionID)
	assert.Empty(t, opened.Selected)

	for _, tag := range []string{"Hiking", "Music", "Coffee", "Travel", "Art"} {
		v, err := svc.Toggle(ctx, "u1", tag)
		require.NoError(t, err)
		require.NotNil(t, v.Present)
		assert.True(t, *v.Present)
	}

	// Nothing is committed until Apply.
	committed, _ := store.Committed(ctx, "u1")
	assert.Zero(t, committed.Len())

	applied, err := svc.Apply(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, selection.PickerClosed, applied.State)
	assert.Equal(t, selection.OutcomeCommitted, applied.Outcome)
	assert.Equal(t, matching.ModeMatch, applied.Mode)

	committed, _ = store.Committed(ctx, "u1")
	assert.Equal(t, []string{"Hiking", "Music", "Coffee", "Travel", "Art"}, committed.Items())
}

func TestPickerService_CancelDiscardsAndReopenResyncs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSelectionStore()
	require.NoError(t, store.Commit(ctx, "u1", selection.NewSet("Hiking")))
	svc := NewPickerService(store, nil)

	_, err := svc.Open(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "u1", "Music")
	require.NoError(t, err)
	_, err = svc.Clear(ctx, "u1")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, selection.OutcomeDiscarded, cancelled.Outcome)
	assert.Equal(t, []string{"Hiking"}, cancelled.Selected)

	reopened, err := svc.Open(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hiking"}, reopened.Selected)
}

func TestPickerService_ToggleRemoves(t *testing.T) {
	ctx := context.Background()
	svc := NewPickerService(memory.NewSelectionStore(), nil)
	_, err := svc.Open(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "u1", "Yoga")
	require.NoError(t, err)
	v, err := svc.Toggle(ctx, "u1", "Yoga")
	require.NoError(t, err)
	assert.False(t, *v.Present)
	assert.Zero(t, v.Count)
}

func TestPickerService_CapacityIsSilent(t *testing.T) {
	ctx := context.Background()
	svc := NewPickerService(memory.NewSelectionStore(), nil)
	_, err := svc.Open(ctx, "u1")
	require.NoError(t, err)

	for _, tag := range selection.Vocabulary[:selection.MaxItems] {
		_, err := svc.Toggle(ctx, "u1", tag)
		require.NoError(t, err)
	}

	v, err := svc.Toggle(ctx, "u1", selection.Vocabulary[selection.MaxItems])
	require.NoError(t, err)
	assert.False(t, *v.Present)
	assert.True(t, v.IsFull)
	assert.Equal(t, selection.MaxItems, v.Count)
}

func TestPickerService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewPickerService(memory.NewSelectionStore(), nil)

	_, err := svc.Toggle(ctx, "u1", "Hiking")
	assert.ErrorIs(t, err, shared.ErrPickerNotFound)
	assert.True(t, shared.IsNotFound(err))

	_, err = svc.Open(ctx, "")
	assert.True(t, shared.IsValidation(err))

	_, err = svc.Open(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "u1", "Underwater Basket Weaving")
	assert.ErrorIs(t, err, shared.ErrUnknownInterest)

	_, err = svc.Cancel(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "u1", "Hiking")
	assert.ErrorIs(t, err, shared.ErrPickerClosed)
	_, err = svc.Apply(ctx, "u1")
	assert.True(t, shared.IsInvalidState(err))
}

func TestPickerService_ApplyFailureKeepsPickerOpen(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	store := &flakyStore{SelectionStore: memory.NewSelectionStore(), err: boom}
	svc := NewPickerService(store, nil)

	_, err := svc.Open(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "u1", "Hiking")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, "u1")
	assert.ErrorIs(t, err, boom)

	v, err := svc.Working(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, selection.PickerOpen, v.State)
	assert.Equal(t, []string{"Hiking"}, v.Selected)

	store.err = nil
	_, err = svc.Apply(ctx, "u1")
	require.NoError(t, err)
}

type flakyStore struct {
	*memory.SelectionStore
	err error
}

func (f *flakyStore) Commit(ctx context.Context, userID string, set selection.Set) error {
	if f.err != nil {
		return f.err
	}
	return f.SelectionStore.Commit(ctx, userID, set)
}

func TestPickerService_EvictsLeastRecentlyUsedSession(t *testing.T) {
	ctx := context.Background()
	svc := NewPickerServiceWithCapacity(memory.NewSelectionStore(), nil, 2)

	for _, id := range []string{"u1", "u2", "u3"} {
		_, err := svc.Open(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, svc.Sessions())

	_, err := svc.Working(ctx, "u1")
	assert.ErrorIs(t, err, shared.ErrPickerNotFound)

	_, err = svc.Working(ctx, "u3")
	assert.NoError(t, err)
}

// readFailStore fails Committed once failReads is set.
type readFailStore struct {
	*memory.SelectionStore
	failReads bool
}

func (s *readFailStore) Committed(ctx context.Context, userID string) (selection.Set, error) {
	if s.failReads {
		return selection.Set{}, errors.New("store unavailable")
	}
	return s.SelectionStore.Committed(ctx, userID)
}

func TestPickerService_CancelSurvivesStoreReadFailure(t *testing.T) {
	ctx := context.Background()
	store := &readFailStore{SelectionStore: memory.NewSelectionStore()}
	require.NoError(t, store.Commit(ctx, "u1", selection.NewSet("Hiking")))
	svc := NewPickerService(store, nil)

	_, err := svc.Open(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "u1", "Music")
	require.NoError(t, err)

	store.failReads = true
	cancelled, err := svc.Cancel(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, selection.PickerClosed, cancelled.State)
	assert.Equal(t, selection.OutcomeDiscarded, cancelled.Outcome)
	assert.Empty(t, cancelled.Selected)

	// Отмена уже применена: повторная даёт ошибку состояния.
	_, err = svc.Cancel(ctx, "u1")
	assert.True(t, shared.IsInvalidState(err))

	committed, err := store.SelectionStore.Committed(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hiking"}, committed.Items())
}
