package callhub

import (
	"sort"

	"rentgo/backend/internal/models"
)

// SnapshotIDs повертає копію множини онлайн-користувачів на поточний момент.
// Саме копію: живу мапу реєстру назовні не віддаємо нікому.
func (m *ManagerService) SnapshotIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.Clients))
	for userID := range m.Clients {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}

// announce розсилає повний знімок присутності всім підключеним клієнтам.
// Викликається після кожного успішного register та unregister.
func (m *ManagerService) announce() {
	ids := m.SnapshotIDs()
	event := models.Event{
		Event: models.EventOnlineUsers,
		Data:  models.OnlineUsersPayload{UserIDs: ids},
	}

	// Спершу збираємо знімок одержувачів: з'єднання, яке спричинило зміну,
	// на момент розсилки вже може бути знятим.
	m.mu.RLock()
	targets := make([]Client, 0, len(m.Clients))
	for _, client := range m.Clients {
		targets = append(targets, client)
	}
	m.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.GetSendChannel() <- event:
		default:
			// Переповнений буфер: клієнт не вичитує — знімаємо з'єднання,
			// але вже після завершення розсилки.
			defer m.handleUnregister(client)
		}
	}
}
