package callhub

import (
	"encoding/json"
	"log"

	"rentgo/backend/internal/models"
)

// StartDeliveryListener запускає goroutine, яка слухає Redis Pub/Sub канал
// доставки чат-повідомлень. Чат-фіча публікує туди кожне збережене
// повідомлення; хаб доносить його до живого з'єднання адресата.
func (m *ManagerService) StartDeliveryListener() {
	if m.Storage == nil {
		return // У тестах хаб працює без Redis
	}
	pubsub := m.Storage.SubscribeDeliveries()
	if pubsub == nil {
		return
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()

		for msg := range ch {
			var chatMsg models.ChatMessage
			if err := json.Unmarshal([]byte(msg.Payload), &chatMsg); err != nil {
				log.Printf("Error unmarshalling Redis delivery message: %v", err)
				continue
			}

			// Передаємо в головний цикл обробки (ManagerService)
			select {
			case m.deliveryCh <- chatMsg:
			case <-m.quit:
				return
			}
		}
	}()
}
