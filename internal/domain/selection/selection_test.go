package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviato-app/aviato-match/internal/domain/shared"
)

func fullSet() Set {
	var s Set
	for i := 0; i < MaxItems; i++ {
		s.Toggle(fmt.Sprintf("tag-%02d", i))
	}
	return s
}

func TestSet_ToggleTwiceRestores(t *testing.T) {
	s := NewSet("Hiking", "Music")
	before := s.Items()

	assert.True(t, s.Toggle("Coffee"))
	assert.False(t, s.Toggle("Coffee"))
	assert.Equal(t, before, s.Items())

	assert.False(t, s.Toggle("Hiking"))
	assert.True(t, s.Toggle("Hiking"))
	assert.True(t, s.Equal(NewSet(before...)))
}

func TestSet_CapacityIsSilent(t *testing.T) {
	s := fullSet()
	require.Equal(t, MaxItems, s.Len())
	require.True(t, s.IsFull())

	assert.False(t, s.Toggle("one-too-many"))
	assert.Equal(t, MaxItems, s.Len())
	assert.False(t, s.Contains("one-too-many"))

	// removing still works on a full set
	assert.False(t, s.Toggle("tag-00"))
	assert.Equal(t, MaxItems-1, s.Len())
}

func TestNewSet_DropsDuplicatesAndOverflow(t *testing.T) {
	s := NewSet("a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, s.Items())

	tags := fullSet().Items()
	tags = append(tags, "extra")
	assert.Equal(t, MaxItems, NewSet(tags...).Len())
}

func TestSet_ClearAndClone(t *testing.T) {
	s := NewSet("a", "b")
	c := s.Clone()
	s.Clear()

	assert.Zero(t, s.Len())
	assert.Equal(t, []string{"a", "b"}, c.Items())
}

func TestSet_ItemsIsCopy(t *testing.T) {
	s := NewSet("a")
	items := s.Items()
	items[0] = "z"
	assert.True(t, s.Contains("a"))
}

func TestVocabulary(t *testing.T) {
	assert.True(t, IsKnownInterest("Hiking"))
	assert.False(t, IsKnownInterest("hiking"))
	assert.False(t, IsKnownInterest("Underwater Basket Weaving"))

	seen := map[string]bool{}
	for _, tag := range Vocabulary {
		assert.False(t, seen[tag], "duplicate %q", tag)
		seen[tag] = true
	}
}

func TestPicker_CancelThenReopenShowsCommitted(t *testing.T) {
	committed := NewSet("Hiking")
	p := NewPicker()

	p.Open(committed)
	_, err := p.Toggle("Music")
	require.NoError(t, err)
	working, _ := p.Working()
	require.True(t, working.Equal(NewSet("Hiking", "Music")))

	require.NoError(t, p.Cancel())
	assert.Equal(t, OutcomeDiscarded, p.LastOutcome())

	p.Open(committed)
	working, err = p.Working()
	require.NoError(t, err)
	assert.True(t, working.Equal(NewSet("Hiking")))
}

func TestPicker_ApplyThenReopenShowsApplied(t *testing.T) {
	committed := NewSet("Hiking")
	p := NewPicker()

	p.Open(committed)
	_, _ = p.Toggle("Music")
	applied, err := p.Apply()
	require.NoError(t, err)
	committed = applied
	assert.Equal(t, OutcomeCommitted, p.LastOutcome())

	p.Open(committed)
	working, err := p.Working()
	require.NoError(t, err)
	assert.True(t, working.Equal(NewSet("Hiking", "Music")))
}

func TestPicker_WorkingCopyIsIsolated(t *testing.T) {
	committed := NewSet("Hiking")
	p := NewPicker()
	p.Open(committed)

	_, _ = p.Toggle("Music")
	require.NoError(t, p.Clear())

	assert.Equal(t, []string{"Hiking"}, committed.Items())
}

func TestPicker_ClosedOperationsFail(t *testing.T) {
	p := NewPicker()

	_, err := p.Toggle("Music")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, p.Clear(), shared.ErrPickerClosed)
	assert.ErrorIs(t, p.Cancel(), shared.ErrPickerClosed)
	_, err = p.Apply()
	assert.ErrorIs(t, err, shared.ErrPickerClosed)
	_, err = p.Working()
	assert.ErrorIs(t, err, shared.ErrPickerClosed)
	assert.Equal(t, PickerClosed, p.State())
}
