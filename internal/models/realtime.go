package models

import "encoding/json"

// Назви подій, які ходять через WebSocket.
// Вхідні (клієнт -> сервер):
const (
	EventInitiateCall  = "initiate-call"
	EventAcceptCall    = "accept-call"
	EventRejectCall    = "reject-call"
	EventEndCall       = "end-call"
	EventCallConnected = "call-connected"
	EventOffer         = "offer"
	EventAnswer        = "answer"
	EventIceCandidate  = "ice-candidate"
)

// Вихідні (сервер -> клієнт):
const (
	EventOnlineUsers      = "getOnlineUsers"
	EventIncomingCall     = "incoming-call"
	EventCallInitiated    = "call-initiated"
	EventCallAccepted     = "call-accepted"
	EventCallRejected     = "call-rejected"
	EventCallEnded        = "call-ended"
	EventCallBusy         = "call-busy"
	EventCallBlocked      = "call-blocked"
	EventUserOffline      = "user-offline"
	EventNewMessage       = "new-message"
	EventMessageDelivered = "message-delivered"
)

// Event — вихідний конверт: ім'я події плюс довільний payload.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// InboundEvent — вхідний конверт; Data декодується по-різному залежно від події.
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChatMessage — повідомлення чату у тому вигляді, в якому воно ходить через
// Redis Pub/Sub та WebSocket (на відміну від ChatHistory, яке живе в БД).
type ChatMessage struct {
	ID         uint   `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	Type       string `json:"type"` // "text", "photo", "media_url"
	Metadata   string `json:"metadata,omitempty"`
}

// InitiateCallPayload — дані події initiate-call від абонента, що дзвонить.
type InitiateCallPayload struct {
	ReceiverID   string `json:"receiverId"`
	CallerName   string `json:"callerName"`
	CallerAvatar string `json:"callerAvatar"`
	Type         string `json:"type"` // "audio" або "video"
}

// CallIDPayload — спільний payload для accept-call / reject-call / end-call /
// call-connected / call-initiated / call-accepted / call-rejected.
type CallIDPayload struct {
	CallID string `json:"callId"`
}

// IncomingCallPayload надсилається абоненту, якому дзвонять.
type IncomingCallPayload struct {
	CallID       string `json:"callId"`
	CallerID     string `json:"callerId"`
	CallerName   string `json:"callerName"`
	CallerAvatar string `json:"callerAvatar"`
	Type         string `json:"type"`
}

// CallEndedPayload: Reason заповнюється лише коли дзвінок завершив сервер
// (peer_disconnected, timeout), а не сам користувач.
type CallEndedPayload struct {
	CallID string `json:"callId"`
	Reason string `json:"reason,omitempty"`
}

// SignalPayload переносить offer/answer/ice-candidate. Сервер не заглядає
// всередину Offer/Answer/Candidate — пересилає байти як є.
type SignalPayload struct {
	CallID    string          `json:"callId"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// OnlineUsersPayload — повний знімок присутності.
type OnlineUsersPayload struct {
	UserIDs []string `json:"userIds"`
}

// UserOfflinePayload повідомляє ініціатору, що адресат не в мережі.
type UserOfflinePayload struct {
	ReceiverID string `json:"receiverId"`
}
