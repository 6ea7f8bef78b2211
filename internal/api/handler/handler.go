package handler

import (
	"rentgo/backend/internal/callhub"
	"rentgo/backend/internal/complaint"
	"rentgo/backend/internal/storage"
)

// Handler містить посилання на CallHub та сервіси
type Handler struct {
	Hub     *callhub.ManagerService
	Storage storage.Storage
	Reports *complaint.Service
}

func NewHandler(hub *callhub.ManagerService, s storage.Storage, reports *complaint.Service) *Handler {
	return &Handler{Hub: hub, Storage: s, Reports: reports}
}
