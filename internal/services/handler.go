package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"gastozap/internal/core"
	"gastozap/internal/log"
	"gastozap/internal/nlp"
	"gastozap/internal/whatsapp"
)

// Sender is the outbound messaging port. The real implementation is the
// WhatsApp Graph API client.
type Sender interface {
	IsConfigured() bool
	SendText(ctx context.Context, to, body string) error
	MarkRead(ctx context.Context, messageID string) error
}

// Expenses with confidence below this get an automatic-classification
// warning appended to the confirmation.
const lowConfidenceThreshold = 0.7

// MessageHandler routes incoming messages through the NLP engine and
// replies to the user.
type MessageHandler struct {
	engine   *nlp.Engine
	expenses *ExpenseService
	sender   Sender
}

func NewMessageHandler(engine *nlp.Engine, expenses *ExpenseService, sender Sender) *MessageHandler {
	return &MessageHandler{engine: engine, expenses: expenses, sender: sender}
}

// HandleIncoming dispatches one webhook message by type. It never returns an
// error to the transport: failures turn into error replies so the webhook can
// always acknowledge.
func (h *MessageHandler) HandleIncoming(ctx context.Context, msg whatsapp.Message) {
	slog.InfoContext(ctx, "Processing message",
		log.FieldMessageID, msg.ID,
		log.FieldUserPhone, msg.From,
		log.FieldMessageType, msg.Type)

	h.markRead(ctx, msg.ID)

	switch msg.Type {
	case "text":
		body := ""
		if msg.Text != nil {
			body = msg.Text.Body
		}
		h.handleText(ctx, msg.From, body)
	case "interactive":
		h.handleInteractive(ctx, msg.From, msg.Interactive)
	case "image", "document", "audio", "video":
		h.sendText(ctx, msg.From, mediaText(msg.Type))
	default:
		slog.WarnContext(ctx, "Unsupported message type", log.FieldMessageType, msg.Type)
		h.sendText(ctx, msg.From, unsupportedText())
	}
}

// HandleStatus records a delivery/read status update. There is nothing to act
// on yet.
func (h *MessageHandler) HandleStatus(ctx context.Context, status whatsapp.Status) {
	slog.InfoContext(ctx, "Message status update",
		log.FieldMessageID, status.ID,
		"status", status.Status)
}

func (h *MessageHandler) handleText(ctx context.Context, from, body string) {
	text := strings.TrimSpace(body)
	if text == "" {
		h.sendText(ctx, from, errorText("Mensagem vazia"))
		return
	}

	switch strings.ToLower(text) {
	case "ajuda", "help", "/help", "/ajuda":
		h.sendText(ctx, from, helpText())
		return
	case "estatisticas", "estatísticas", "stats", "/stats":
		h.sendText(ctx, from, h.statisticsReply(ctx, from))
		return
	case "ultimos", "últimos", "/ultimos", "ultimos gastos", "últimos gastos":
		h.sendText(ctx, from, h.recentReply(ctx, from))
		return
	}

	if err := h.engine.Validate(text); err != nil {
		h.sendText(ctx, from, errorText(validationText(err)))
		return
	}

	pm := h.engine.Process(text)

	slog.InfoContext(ctx, "Message processed",
		log.FieldIntent, string(pm.Intent),
		log.FieldCategory, pm.Category,
		log.FieldConfidence, pm.Confidence,
		log.FieldPeriod, string(pm.Period))

	switch pm.Intent {
	case core.IntentExpense:
		h.sendText(ctx, from, h.expenseReply(ctx, from, pm))
	case core.IntentReport:
		h.sendText(ctx, from, h.reportReply(ctx, from, pm))
	default:
		h.sendText(ctx, from, unknownText())
	}
}

func (h *MessageHandler) handleInteractive(ctx context.Context, from string, interactive *whatsapp.Interactive) {
	buttonID := ""
	if interactive != nil && interactive.ButtonReply != nil {
		buttonID = interactive.ButtonReply.ID
	}
	slog.InfoContext(ctx, "Button pressed", "button_id", buttonID)

	switch buttonID {
	case "help":
		h.sendText(ctx, from, helpText())
	case "stats":
		h.sendText(ctx, from, h.statisticsReply(ctx, from))
	default:
		h.sendText(ctx, from, "Opção não reconhecida.")
	}
}

func (h *MessageHandler) expenseReply(ctx context.Context, from string, pm core.ProcessedMessage) string {
	expense, err := h.expenses.Record(ctx, from, pm)
	if err != nil {
		if errors.Is(err, ErrNoAmount) {
			return errorText("Não consegui identificar o valor do gasto. Tente algo como 'Gastei 50 reais em alimentação'")
		}
		slog.ErrorContext(ctx, "Failed to record expense", log.FieldError, err)
		return errorText("Erro ao registrar gasto")
	}

	reply := core.CategoryEmoji(expense.Category) + " " + expenseRegisteredText(expense.Amount, expense.Category)
	if pm.Confidence < lowConfidenceThreshold {
		reply += "\n\n⚠️ Identifiquei automaticamente como '" + expense.Category + "'. Se estiver errado, me avise!"
	}
	return reply
}

func (h *MessageHandler) reportReply(ctx context.Context, from string, pm core.ProcessedMessage) string {
	total, err := h.expenses.TotalByPeriod(ctx, from, pm.Period, pm.Category)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build report", log.FieldError, err)
		return errorText("Erro ao gerar relatório")
	}

	general := pm.Category == "" || pm.Category == core.SentinelCategory

	var b strings.Builder
	if general {
		b.WriteString("📊 *Relatório Geral*\n")
	} else {
		b.WriteString(core.CategoryEmoji(pm.Category) + " *Relatório " + titleCase(pm.Category) + "*\n")
	}
	b.WriteString("Período: " + core.PeriodLabel(pm.Period) + "\n")
	b.WriteString("Total gasto: " + core.FormatBRL(total))

	if general {
		summary, err := h.expenses.SummaryByPeriod(ctx, from, pm.Period)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to build category summary", log.FieldError, err)
			return errorText("Erro ao gerar relatório")
		}
		if len(summary) > 0 {
			b.WriteString("\n\n*Por categoria:*")
			shown := summary
			if len(shown) > 5 {
				shown = shown[:5]
			}
			for _, item := range shown {
				b.WriteString("\n" + core.CategoryEmoji(item.Name) + " " + titleCase(item.Name) + ": " + core.FormatBRL(item.Total))
			}
			if rest := len(summary) - 5; rest > 0 {
				b.WriteString("\n... e mais " + strconv.Itoa(rest) + " categorias")
			}
		}
	}

	return b.String()
}

func (h *MessageHandler) statisticsReply(ctx context.Context, from string) string {
	stats, err := h.expenses.Statistics(ctx, from)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build statistics", log.FieldError, err)
		return errorText("Erro ao gerar estatísticas")
	}
	return statisticsText(stats)
}

func (h *MessageHandler) recentReply(ctx context.Context, from string) string {
	expenses, err := h.expenses.Recent(ctx, from)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list recent expenses", log.FieldError, err)
		return errorText("Erro ao listar gastos")
	}
	return recentText(expenses)
}

func (h *MessageHandler) sendText(ctx context.Context, to, body string) {
	if !h.sender.IsConfigured() {
		slog.WarnContext(ctx, "WhatsApp client not configured, logging reply instead",
			"to", to, "reply", body)
		return
	}
	if err := h.sender.SendText(ctx, to, body); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply", "to", to, log.FieldError, err)
	}
}

func (h *MessageHandler) markRead(ctx context.Context, messageID string) {
	if !h.sender.IsConfigured() {
		return
	}
	if err := h.sender.MarkRead(ctx, messageID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark message as read",
			log.FieldMessageID, messageID, log.FieldError, err)
	}
}

func validationText(err error) string {
	switch {
	case errors.Is(err, nlp.ErrEmptyMessage):
		return "Mensagem vazia"
	case errors.Is(err, nlp.ErrMessageTooLong):
		return "Mensagem muito longa (máximo 500 caracteres)"
	default:
		return "Mensagem inválida"
	}
}
