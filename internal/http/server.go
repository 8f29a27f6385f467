// Package http serves the WhatsApp webhook: endpoint verification, incoming
// message delivery and health checks.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gastozap/internal/log"
	"gastozap/internal/middleware/trace"
	"gastozap/internal/services"
	"gastozap/internal/whatsapp"
)

type Server struct {
	http.Server
	handler     *services.MessageHandler
	verifyToken string
	startedAt   time.Time
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr, verifyToken string, handler *services.MessageHandler) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           trace.Middleware(mux),
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler:     handler,
		verifyToken: verifyToken,
		startedAt:   time.Now(),
	}

	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/webhook/test", s.handleWebhookTest)
	mux.HandleFunc("/healthz", s.handleHealth)

	return s
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleVerify(w, r)
	case http.MethodPost:
		s.handleIncoming(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerify answers the WhatsApp endpoint verification handshake: echo the
// challenge when the verify token matches, 403 otherwise.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	slog.InfoContext(ctx, "Webhook verification attempt", "mode", mode)

	if mode == "subscribe" && s.verifyToken != "" && token == s.verifyToken {
		slog.InfoContext(ctx, "Webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	slog.WarnContext(ctx, "Webhook verification failed")
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// handleIncoming processes a webhook delivery. Malformed JSON gets a 400;
// everything else is acknowledged with 200 so WhatsApp does not retry
// messages we already looked at.
func (s *Server) handleIncoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.WarnContext(ctx, "Invalid webhook payload", log.FieldError, err)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "No data received",
		})
		return
	}

	slog.InfoContext(ctx, "Webhook delivery received",
		log.FieldRequestID, trace.GetRequestID(ctx),
		"entries", len(payload.Entry))

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				s.handler.HandleIncoming(ctx, msg)
			}
			for _, status := range change.Value.Statuses {
				s.handler.HandleStatus(ctx, status)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type webhookTestRequest struct {
	Message string `json:"message"`
	Phone   string `json:"phone"`
}

// handleWebhookTest feeds a message through the pipeline without a real
// WhatsApp delivery, for local testing.
func (s *Server) handleWebhookTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req webhookTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" || req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": `Formato inválido. Use: {"message": "texto", "phone": "5511999999999"}`,
		})
		return
	}

	s.handler.HandleIncoming(r.Context(), whatsapp.Message{
		ID:   "test_message_id",
		From: req.Phone,
		Type: "text",
		Text: &whatsapp.Text{Body: req.Message},
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Mensagem processada com sucesso",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", log.FieldError, err)
	}
}
