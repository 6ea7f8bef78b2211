package handler

import (
	"log"
	"net/http"

	"rentgo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SendMessage — колаборатор чат-фічі: зберігає повідомлення і публікує
// сповіщення про доставку, яке хаб донесе до живого з'єднання адресата.
func (h *Handler) SendMessage(c *gin.Context) {
	senderID, err := userIDFromRequest(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	var msg models.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message body"})
		return
	}
	if msg.ReceiverID == "" || msg.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_id and content are required"})
		return
	}

	msg.SenderID = senderID
	if msg.Type == "" {
		msg.Type = "text"
	}

	if err := h.Storage.SaveMessage(&msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	// Доставка — best-effort: якщо публікація впала, повідомлення вже
	// збережене, адресат добере його через /history.
	if err := h.Storage.PublishDelivery(msg); err != nil {
		log.Printf("Error publishing delivery for message %d: %v", msg.ID, err)
	}

	_, online := h.Hub.Resolve(msg.ReceiverID)

	c.JSON(http.StatusOK, gin.H{"id": msg.ID, "delivered": online})
}

// GetHistory повертає історію листування з конкретним співрозмовником
func (h *Handler) GetHistory(c *gin.Context) {
	userID, err := userIDFromRequest(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	peerID := c.Param("peer")
	history, err := h.Storage.GetChatHistory(userID, peerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": history})
}

// CreateReport приймає скаргу на іншого учасника дзвінка
func (h *Handler) CreateReport(c *gin.Context) {
	reporterID, err := userIDFromRequest(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	var req struct {
		ReportedUserID string `json:"reported_user_id" binding:"required"`
		CallID         string `json:"call_id"`
		ReportType     string `json:"report_type" binding:"required"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reported_user_id and report_type are required"})
		return
	}

	report := &models.CallReport{
		ReporterID:     reporterID,
		ReportedUserID: req.ReportedUserID,
		CallID:         req.CallID,
		ReportType:     req.ReportType,
		Reason:         req.Reason,
	}

	if err := h.Reports.HandleReport(report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": report.ID, "status": report.Status})
}
