package callhub

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Статуси кімнати дзвінка.
const (
	StatusRinging   = "ringing"
	StatusAccepted  = "accepted"
	StatusConnected = "connected"
	StatusEnded     = "ended"
)

// Причини завершення, які сервер підставляє сам.
const (
	ReasonPeerDisconnected = "peer_disconnected"
	ReasonTimeout          = "timeout"
)

var (
	ErrUnknownCall     = errors.New("unknown call")
	ErrInvalidState    = errors.New("event not applicable to current call status")
	ErrNotParticipant  = errors.New("sender is not a participant of this call")
	ErrPairBusy        = errors.New("a call between this pair is already in progress")
	ErrReceiverOffline = errors.New("receiver has no live connection")
)

// CallRoom — серверний запис одного дзвінка між двома користувачами.
// Живе виключно в пам'яті хаба і видаляється одразу після завершення.
type CallRoom struct {
	CallID     string
	CallerID   string
	ReceiverID string
	CallType   string // "audio" або "video"

	Status      string
	CreatedAt   time.Time
	AcceptedAt  time.Time
	ConnectedAt time.Time
	EndedAt     time.Time
}

func newCallRoom(callerID, receiverID, callType string) *CallRoom {
	if callType == "" {
		callType = "audio"
	}
	return &CallRoom{
		CallID:     uuid.New().String(),
		CallerID:   callerID,
		ReceiverID: receiverID,
		CallType:   callType,
		Status:     StatusRinging,
		CreatedAt:  time.Now(),
	}
}

// pairKey повертає ключ невпорядкованої пари учасників. Використовується,
// щоб між двома користувачами не існувало двох живих кімнат одночасно.
func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func (r *CallRoom) hasParticipant(userID string) bool {
	return r.CallerID == userID || r.ReceiverID == userID
}

// otherParticipant — "інший учасник відносно userID".
func (r *CallRoom) otherParticipant(userID string) (string, bool) {
	switch userID {
	case r.CallerID:
		return r.ReceiverID, true
	case r.ReceiverID:
		return r.CallerID, true
	}
	return "", false
}

// accept переводить кімнату ringing -> accepted.
func (r *CallRoom) accept() error {
	if r.Status != StatusRinging {
		return ErrInvalidState
	}
	r.Status = StatusAccepted
	r.AcceptedAt = time.Now()
	return nil
}

// markConnected фіксує завершення медіа-handshake. Дозволено лише після
// accept — call-connected до прийняття дзвінка відкидається.
func (r *CallRoom) markConnected() error {
	if r.Status != StatusAccepted {
		return ErrInvalidState
	}
	r.Status = StatusConnected
	r.ConnectedAt = time.Now()
	return nil
}

// end валідний з будь-якого незавершеного стану.
func (r *CallRoom) end() error {
	if r.Status == StatusEnded {
		return ErrInvalidState
	}
	r.Status = StatusEnded
	r.EndedAt = time.Now()
	return nil
}
