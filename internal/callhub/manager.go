package callhub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"rentgo/backend/internal/config"
	"rentgo/backend/internal/models"
	"rentgo/backend/internal/storage"
)

// SignalEnvelope — вхідна подія з уже прив'язаною ідентичністю відправника.
// SenderID проставляє транспортний шар зі свого handshake, а не клієнтський JSON.
type SignalEnvelope struct {
	SenderID string
	Event    string
	Data     json.RawMessage
}

// MissedCallNotifier отримує повідомлення про дзвінки, які нікуди не додзвонилися
// (адресат офлайн або ніхто не відповів до таймауту).
type MissedCallNotifier interface {
	NotifyMissedCall(userID, callerName string)
}

// ManagerService — єдиний власник реєстру з'єднань та сховища кімнат дзвінків.
// Усі мутації стану проходять через Run() в одній goroutine: реєстрація,
// відключення, переходи станів дзвінка. Завдяки цьому перехід кімнати
// атомарний відносно одночасного disconnect — без жодного дрібного локінгу
// по хендлерах.
type ManagerService struct {
	// mu захищає Clients лише для читачів з інших goroutines (Resolve,
	// SnapshotIDs). Пише в мапу виключно goroutine Run().
	mu      sync.RWMutex
	Clients map[string]Client

	rooms     map[string]*CallRoom // callId -> кімната
	pairIndex map[string]string    // невпорядкована пара -> callId живої кімнати

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan SignalEnvelope
	EmitCh       chan DirectedEvent

	deliveryCh chan models.ChatMessage
	quit       chan struct{}

	Storage  storage.Storage
	Notifier MissedCallNotifier

	// RingTimeout обмежує, скільки кімната може провисіти в ringing.
	RingTimeout time.Duration
}

// DirectedEvent — подія для конкретного користувача, надіслана ззовні хаба
// (наприклад, чат-фічею після збереження повідомлення).
type DirectedEvent struct {
	UserID string
	Event  models.Event
}

// NewManagerService створює хаб. Notifier необов'язковий.
func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		rooms:        make(map[string]*CallRoom),
		pairIndex:    make(map[string]string),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client, 16),
		EventCh:      make(chan SignalEnvelope, 256),
		EmitCh:       make(chan DirectedEvent, 256),
		deliveryCh:   make(chan models.ChatMessage, 64),
		quit:         make(chan struct{}),
		Storage:      s,
		RingTimeout:  config.RingTimeout,
	}
}

func (m *ManagerService) SetNotifier(n MissedCallNotifier) {
	m.Notifier = n
}

// Run — головний диспетчер. Запускається однією goroutine з main.
func (m *ManagerService) Run() {
	m.StartDeliveryListener() // Запускаємо слухача Redis

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.quit:
			m.mu.Lock()
			for userID, client := range m.Clients {
				client.Close()
				delete(m.Clients, userID)
			}
			m.mu.Unlock()
			return

		case client := <-m.RegisterCh:
			m.handleRegister(client)

		case client := <-m.UnregisterCh:
			m.handleUnregister(client)

		case env := <-m.EventCh:
			m.handleEvent(env)

		case ev := <-m.EmitCh:
			m.emitToUser(ev.UserID, ev.Event)

		case msg := <-m.deliveryCh:
			m.handleDelivery(msg)

		case <-ticker.C:
			m.expireRingingRooms()
		}
	}
}

// Stop зупиняє диспетчер та закриває всі з'єднання.
func (m *ManagerService) Stop() {
	close(m.quit)
}

// Resolve повертає живий handle користувача. Безпечний для виклику з будь-якої
// goroutine — це і є примітив, яким користується чат-фіча.
func (m *ManagerService) Resolve(userID string) (Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.Clients[userID]
	return c, ok
}

// EmitToUser ставить у чергу подію для конкретного користувача. Best-effort:
// якщо черга хаба переповнена або користувач офлайн, подія губиться.
func (m *ManagerService) EmitToUser(userID, event string, data any) {
	select {
	case m.EmitCh <- DirectedEvent{UserID: userID, Event: models.Event{Event: event, Data: data}}:
	default:
		log.Printf("Emit queue full, dropping %s for %s", event, userID)
	}
}

// --- Реєстрація та відключення ---

func (m *ManagerService) handleRegister(c Client) {
	userID := c.GetUserID()

	m.mu.Lock()
	old, existed := m.Clients[userID]
	m.Clients[userID] = c
	m.mu.Unlock()

	if existed && old != c {
		// Last-write-wins: нове з'єднання того самого користувача витісняє
		// старе. Витіснений handle явно закриваємо, щоб клієнт-двійник
		// не висів у напівживому стані.
		log.Printf("Duplicate registration for %s, closing superseded connection", userID)
		old.Close()
	}

	if m.Storage != nil {
		if err := m.Storage.AddOnlineUser(userID); err != nil {
			log.Printf("Error mirroring online status for %s: %v", userID, err)
		}
	}

	log.Printf("Client registered: %s", userID)
	m.announce()
}

func (m *ManagerService) handleUnregister(c Client) {
	userID := c.GetUserID()

	m.mu.Lock()
	current, ok := m.Clients[userID]
	if !ok || current != c {
		m.mu.Unlock()
		// Або подвійний unregister, або запізнілий disconnect витісненого
		// з'єднання — користувач і досі онлайн через новий handle.
		return
	}
	delete(m.Clients, userID)
	m.mu.Unlock()

	c.Close()

	if m.Storage != nil {
		if err := m.Storage.RemoveOnlineUser(userID); err != nil {
			log.Printf("Error clearing online status for %s: %v", userID, err)
		}
	}

	m.teardownRoomsFor(userID)

	log.Printf("Client unregistered: %s", userID)
	m.announce()
}

// teardownRoomsFor завершує всі живі кімнати за участю користувача і
// повідомляє другого учасника. Викликається рівно один раз на disconnect.
func (m *ManagerService) teardownRoomsFor(userID string) {
	for callID, room := range m.rooms {
		if !room.hasParticipant(userID) {
			continue
		}
		if err := room.end(); err != nil {
			continue
		}
		peer, _ := room.otherParticipant(userID)
		m.emitToUser(peer, models.Event{
			Event: models.EventCallEnded,
			Data:  models.CallEndedPayload{CallID: callID, Reason: ReasonPeerDisconnected},
		})
		m.deleteRoom(room)
		log.Printf("Call %s ended: participant %s disconnected", callID, userID)
	}
}

// expireRingingRooms завершує дзвінки, на які ніхто не відповів.
func (m *ManagerService) expireRingingRooms() {
	for callID, room := range m.rooms {
		if room.Status != StatusRinging || time.Since(room.CreatedAt) < m.RingTimeout {
			continue
		}
		if err := room.end(); err != nil {
			continue
		}
		payload := models.CallEndedPayload{CallID: callID, Reason: ReasonTimeout}
		m.emitToUser(room.CallerID, models.Event{Event: models.EventCallEnded, Data: payload})
		m.emitToUser(room.ReceiverID, models.Event{Event: models.EventCallEnded, Data: payload})
		m.deleteRoom(room)
		m.notifyMissed(room.ReceiverID, room.CallerID)
		log.Printf("Call %s ended: ring timeout", callID)
	}
}

func (m *ManagerService) deleteRoom(room *CallRoom) {
	delete(m.rooms, room.CallID)
	if id, ok := m.pairIndex[pairKey(room.CallerID, room.ReceiverID)]; ok && id == room.CallID {
		delete(m.pairIndex, pairKey(room.CallerID, room.ReceiverID))
	}
}

// --- Диспетчеризація вхідних подій ---

func (m *ManagerService) handleEvent(env SignalEnvelope) {
	var err error

	switch env.Event {
	case models.EventInitiateCall:
		err = m.handleInitiateCall(env)
	case models.EventAcceptCall:
		err = m.handleAcceptCall(env)
	case models.EventRejectCall:
		err = m.handleRejectCall(env)
	case models.EventEndCall:
		err = m.handleEndCall(env)
	case models.EventCallConnected:
		err = m.handleCallConnected(env)
	case models.EventOffer, models.EventAnswer, models.EventIceCandidate:
		err = m.relaySignal(env)
	default:
		log.Printf("Unknown event %q from %s, dropping", env.Event, env.SenderID)
		return
	}

	// Помилки тут — діагностика, а не причина валити процес: один
	// некоректний клієнт не повинен зачепити решту.
	if err != nil {
		log.Printf("Dropped %s from %s: %v", env.Event, env.SenderID, err)
	}
}

func (m *ManagerService) handleInitiateCall(env SignalEnvelope) error {
	var p models.InitiateCallPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return err
	}

	if m.Storage != nil {
		blocked, err := m.Storage.IsUserBlocked(env.SenderID)
		if err != nil {
			log.Printf("Error checking block status for %s: %v", env.SenderID, err)
		}
		if blocked {
			m.emitToUser(env.SenderID, models.Event{Event: models.EventCallBlocked})
			return nil
		}
	}

	// Адресат офлайн: кімнату не створюємо, ініціатору — user-offline,
	// а сам адресат дізнається про пропущений дзвінок через notifier.
	if _, online := m.Resolve(p.ReceiverID); !online {
		m.emitToUser(env.SenderID, models.Event{
			Event: models.EventUserOffline,
			Data:  models.UserOfflinePayload{ReceiverID: p.ReceiverID},
		})
		m.notifyMissed(p.ReceiverID, env.SenderID)
		return ErrReceiverOffline
	}

	// Між однією парою користувачів — щонайбільше одна жива кімната.
	if _, busy := m.pairIndex[pairKey(env.SenderID, p.ReceiverID)]; busy {
		m.emitToUser(env.SenderID, models.Event{
			Event: models.EventCallBusy,
			Data:  models.UserOfflinePayload{ReceiverID: p.ReceiverID},
		})
		return ErrPairBusy
	}

	room := newCallRoom(env.SenderID, p.ReceiverID, p.Type)
	m.rooms[room.CallID] = room
	m.pairIndex[pairKey(env.SenderID, p.ReceiverID)] = room.CallID

	m.emitToUser(env.SenderID, models.Event{
		Event: models.EventCallInitiated,
		Data:  models.CallIDPayload{CallID: room.CallID},
	})
	m.emitToUser(p.ReceiverID, models.Event{
		Event: models.EventIncomingCall,
		Data: models.IncomingCallPayload{
			CallID:       room.CallID,
			CallerID:     env.SenderID,
			CallerName:   p.CallerName,
			CallerAvatar: p.CallerAvatar,
			Type:         room.CallType,
		},
	})

	log.Printf("Call %s initiated: %s -> %s (%s)", room.CallID, env.SenderID, p.ReceiverID, room.CallType)
	return nil
}

func (m *ManagerService) handleAcceptCall(env SignalEnvelope) error {
	room, err := m.roomForParticipant(env)
	if err != nil {
		return err
	}
	// Прийняти дзвінок може лише той, кому дзвонять.
	if room.ReceiverID != env.SenderID {
		return ErrNotParticipant
	}
	if err := room.accept(); err != nil {
		return err
	}

	// Якщо ініціатор уже відвалився, кімната все одно переходить в accepted —
	// teardown прийде його disconnect-шляхом.
	m.emitToUser(room.CallerID, models.Event{
		Event: models.EventCallAccepted,
		Data:  models.CallIDPayload{CallID: room.CallID},
	})
	return nil
}

func (m *ManagerService) handleRejectCall(env SignalEnvelope) error {
	room, err := m.roomForParticipant(env)
	if err != nil {
		return err
	}
	if room.ReceiverID != env.SenderID {
		return ErrNotParticipant
	}
	if room.Status != StatusRinging {
		return ErrInvalidState
	}
	room.end()

	m.emitToUser(room.CallerID, models.Event{
		Event: models.EventCallRejected,
		Data:  models.CallIDPayload{CallID: room.CallID},
	})
	m.deleteRoom(room)
	return nil
}

func (m *ManagerService) handleEndCall(env SignalEnvelope) error {
	room, err := m.roomForParticipant(env)
	if err != nil {
		return err
	}
	if err := room.end(); err != nil {
		return err
	}

	// call-ended отримують обидва учасники; відсутнє з'єднання — не помилка.
	payload := models.CallIDPayload{CallID: room.CallID}
	m.emitToUser(room.CallerID, models.Event{Event: models.EventCallEnded, Data: payload})
	m.emitToUser(room.ReceiverID, models.Event{Event: models.EventCallEnded, Data: payload})
	m.deleteRoom(room)

	log.Printf("Call %s ended by %s (duration since created: %s)",
		room.CallID, env.SenderID, room.EndedAt.Sub(room.CreatedAt))
	return nil
}

func (m *ManagerService) handleCallConnected(env SignalEnvelope) error {
	room, err := m.roomForParticipant(env)
	if err != nil {
		return err
	}
	// Внутрішня бухгалтерія для обліку тривалості, назовні нічого не шлемо.
	return room.markConnected()
}

// relaySignal пересилає offer/answer/ice-candidate другому учаснику, не
// заглядаючи в payload. Якщо той офлайн — тихо дропаємо (лише лог).
func (m *ManagerService) relaySignal(env SignalEnvelope) error {
	var p models.SignalPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return err
	}

	room, ok := m.rooms[p.CallID]
	if !ok {
		return ErrUnknownCall
	}
	peer, ok := room.otherParticipant(env.SenderID)
	if !ok {
		return ErrNotParticipant
	}

	if _, online := m.Resolve(peer); !online {
		log.Printf("Counterpart %s offline, dropping %s for call %s", peer, env.Event, p.CallID)
		return nil
	}

	m.emitToUser(peer, models.Event{Event: env.Event, Data: p})
	return nil
}

// roomForParticipant — спільна валідація для подій з callId: кімната має
// існувати, а відправник — бути її учасником. Відсутня кімната це окремий
// результат ("unknown call"), а не падіння: клієнти ретраять події для вже
// завершених дзвінків.
func (m *ManagerService) roomForParticipant(env SignalEnvelope) (*CallRoom, error) {
	var p models.CallIDPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, err
	}
	room, ok := m.rooms[p.CallID]
	if !ok {
		return nil, ErrUnknownCall
	}
	if !room.hasParticipant(env.SenderID) {
		return nil, ErrNotParticipant
	}
	return room, nil
}

// --- Допоміжне ---

// emitToUser кладе подію в Send-канал клієнта, якщо той онлайн. Переповнений
// канал означає мертве або безнадійно повільне з'єднання — знімаємо його.
func (m *ManagerService) emitToUser(userID string, event models.Event) {
	client, ok := m.Resolve(userID)
	if !ok {
		return
	}
	select {
	case client.GetSendChannel() <- event:
	default:
		log.Printf("Send buffer full for %s, dropping connection", userID)
		m.handleUnregister(client)
	}
}

func (m *ManagerService) notifyMissed(userID, callerID string) {
	if m.Notifier == nil {
		return
	}
	callerName := callerID
	if m.Storage != nil {
		if caller, err := m.Storage.GetUserByID(callerID); err == nil && caller != nil && caller.DisplayName != "" {
			callerName = caller.DisplayName
		}
	}
	// Надсилання в Telegram — мережевий виклик, не тримаємо ним цикл хаба.
	go m.Notifier.NotifyMissedCall(userID, callerName)
}

// handleDelivery: чат-фіча зберегла повідомлення і опублікувала його в Redis;
// якщо адресат онлайн — пушимо йому new-message, а відправнику підтвердження.
func (m *ManagerService) handleDelivery(msg models.ChatMessage) {
	if _, online := m.Resolve(msg.ReceiverID); !online {
		return
	}
	m.emitToUser(msg.ReceiverID, models.Event{Event: models.EventNewMessage, Data: msg})
	m.emitToUser(msg.SenderID, models.Event{Event: models.EventMessageDelivered, Data: models.ChatMessage{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
	}})
}
