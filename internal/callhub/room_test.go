package callhub

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCallRoom_LifecycleTransitions(t *testing.T) {
	room := newCallRoom("u1", "u2", "audio")

	assert.Equal(t, StatusRinging, room.Status)
	assert.False(t, room.CreatedAt.IsZero())
	assert.True(t, room.AcceptedAt.IsZero())

	// Валідний callId — випадковий UUID
	_, err := uuid.Parse(room.CallID)
	assert.NoError(t, err)

	assert.NoError(t, room.accept())
	assert.Equal(t, StatusAccepted, room.Status)
	assert.False(t, room.AcceptedAt.IsZero())

	assert.NoError(t, room.markConnected())
	assert.Equal(t, StatusConnected, room.Status)
	assert.False(t, room.ConnectedAt.IsZero())

	assert.NoError(t, room.end())
	assert.Equal(t, StatusEnded, room.Status)
	assert.False(t, room.EndedAt.IsZero())
}

func TestCallRoom_InvalidTransitions(t *testing.T) {
	room := newCallRoom("u1", "u2", "video")

	// connected до accept — заборонено, стан не змінюється
	assert.ErrorIs(t, room.markConnected(), ErrInvalidState)
	assert.Equal(t, StatusRinging, room.Status)
	assert.True(t, room.ConnectedAt.IsZero())

	// подвійний accept
	assert.NoError(t, room.accept())
	acceptedAt := room.AcceptedAt
	assert.ErrorIs(t, room.accept(), ErrInvalidState)
	assert.Equal(t, acceptedAt, room.AcceptedAt, "acceptedAt is set exactly once")

	// end валідний з будь-якого незавершеного стану, але не двічі
	assert.NoError(t, room.end())
	assert.ErrorIs(t, room.end(), ErrInvalidState)
}

func TestCallRoom_EndFromRinging(t *testing.T) {
	room := newCallRoom("u1", "u2", "")
	assert.Equal(t, "audio", room.CallType, "call type defaults to audio")

	assert.NoError(t, room.end())
	assert.Equal(t, StatusEnded, room.Status)
}

func TestCallRoom_Participants(t *testing.T) {
	room := newCallRoom("u1", "u2", "audio")

	assert.True(t, room.hasParticipant("u1"))
	assert.True(t, room.hasParticipant("u2"))
	assert.False(t, room.hasParticipant("u3"))

	peer, ok := room.otherParticipant("u1")
	assert.True(t, ok)
	assert.Equal(t, "u2", peer)

	peer, ok = room.otherParticipant("u2")
	assert.True(t, ok)
	assert.Equal(t, "u1", peer)

	_, ok = room.otherParticipant("u3")
	assert.False(t, ok)
}

func TestPairKey_IsOrderIndependent(t *testing.T) {
	assert.Equal(t, pairKey("u1", "u2"), pairKey("u2", "u1"))
	assert.NotEqual(t, pairKey("u1", "u2"), pairKey("u1", "u3"))
}
