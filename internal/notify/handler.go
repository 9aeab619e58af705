// internal/notify/handler.go
package notify

import (
	"encoding/json"
	"net/http"

	"salescrm-notifier/internal/common/logger"
	"salescrm-notifier/internal/store"
)

// Handler exposes the facade on the daemon's admin mux. The CRM's main API
// lives elsewhere; this surface exists for operators and integration checks.
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log.WithFields(map[string]interface{}{"component": "notify-handler"})}
}

// Register mounts the admin routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/notifications", h.createNotification)
	mux.HandleFunc("/admin/test-send", h.testSend)
}

type createNotificationRequest struct {
	RecipientID *int64 `json:"recipientId,omitempty"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Type        string `json:"type,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Link        string `json:"link,omitempty"`
}

// createNotification persists a system notification and triggers its
// fan-out. Responds 201 with the stored row; delivery outcomes are not part
// of the response.
func (h *Handler) createNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Message == "" {
		http.Error(w, "title and message are required", http.StatusBadRequest)
		return
	}

	n, err := h.svc.CreateSystemNotification(r.Context(), store.CreateParams{
		RecipientID: req.RecipientID,
		Title:       req.Title,
		Message:     req.Message,
		Type:        req.Type,
		Icon:        req.Icon,
		Link:        req.Link,
	})
	if err != nil {
		h.log.Error("notification create failed", map[string]interface{}{"error": err})
		http.Error(w, "failed to create notification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(n)
}

type testSendRequest struct {
	RecipientID int64  `json:"recipientId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Category    string `json:"category,omitempty"`
}

// testSend pushes one message through the real pipeline and reports the
// delivery outcome synchronously.
func (h *Handler) testSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req testSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.RecipientID == 0 {
		http.Error(w, "recipientId is required", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		req.Category = "system"
	}

	ok := h.svc.SendNotification(r.Context(), req.RecipientID, req.Title, req.Body, req.Category)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": ok})
}
