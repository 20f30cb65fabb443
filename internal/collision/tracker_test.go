package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// constantHash puts every keyword in the same bucket.
func constantHash(string) uint64 { return 42 }

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Keywords())
}

func TestTracker_Track_Success(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("exposure"))
	require.NoError(t, tracker.Track("GAIN"))
	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Equal(t, []string{"EXPOSURE", "GAIN"}, tracker.Keywords())
	require.True(t, tracker.Has("Exposure"))
	require.False(t, tracker.Has("OFFSET"))
}

func TestTracker_Track_Duplicate(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("GAIN"))
	require.ErrorIs(t, tracker.Track("gain"), ErrDuplicateKeyword)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Track_Collision(t *testing.T) {
	tracker := NewTracker()
	tracker.sum = constantHash

	require.NoError(t, tracker.Track("A"))
	require.NoError(t, tracker.Track("B"))
	require.True(t, tracker.HasCollision())
	require.True(t, tracker.Has("A"))
	require.True(t, tracker.Has("B"))
	require.ErrorIs(t, tracker.Track("B"), ErrDuplicateKeyword)
	require.Equal(t, []string{"A", "B"}, tracker.Keywords())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.sum = constantHash

	require.NoError(t, tracker.Track("A"))
	require.NoError(t, tracker.Track("B"))
	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.False(t, tracker.Has("A"))
	require.NoError(t, tracker.Track("A"))
}
