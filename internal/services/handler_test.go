package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gastozap/internal/core"
	"gastozap/internal/nlp"
	"gastozap/internal/whatsapp"
)

type fakeRepo struct {
	created   []core.Expense
	createErr error

	total     core.Money
	summary   []core.CategoryAmount
	stats     core.UserStatistics
	recent    []core.Expense
	recentErr error
}

func (f *fakeRepo) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if f.createErr != nil {
		return core.Expense{}, f.createErr
	}
	e.ID = int64(len(f.created) + 1)
	e.CreatedAt = time.Now()
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeRepo) TotalBetween(_ context.Context, _ string, _, _ time.Time, _ string) (core.Money, error) {
	return f.total, nil
}

func (f *fakeRepo) CategorySummary(_ context.Context, _ string, _, _ time.Time) ([]core.CategoryAmount, error) {
	return f.summary, nil
}

func (f *fakeRepo) UserStatistics(_ context.Context, _ string, _ time.Time) (core.UserStatistics, error) {
	return f.stats, nil
}

func (f *fakeRepo) RecentExpenses(_ context.Context, _ string, limit int) ([]core.Expense, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakePublisher struct {
	ids []int64
	err error
}

func (f *fakePublisher) PublishExpenseRecorded(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, id)
	return nil
}

type fakeSender struct {
	configured bool
	sent       []string
	read       []string
}

func (f *fakeSender) IsConfigured() bool { return f.configured }

func (f *fakeSender) SendText(_ context.Context, _ string, body string) error {
	f.sent = append(f.sent, body)
	return nil
}

func (f *fakeSender) MarkRead(_ context.Context, id string) error {
	f.read = append(f.read, id)
	return nil
}

func newTestHandler(repo *fakeRepo, pub EventPublisher) (*MessageHandler, *fakeSender) {
	sender := &fakeSender{configured: true}
	svc := NewExpenseService(repo, pub)
	h := NewMessageHandler(nlp.New(nlp.NoopTagger{}), svc, sender)
	return h, sender
}

func textMessage(body string) whatsapp.Message {
	return whatsapp.Message{
		ID:   "wamid.test",
		From: "5511999999999",
		Type: "text",
		Text: &whatsapp.Text{Body: body},
	}
}

func lastReply(t *testing.T, sender *fakeSender) string {
	t.Helper()
	if len(sender.sent) == 0 {
		t.Fatal("no reply sent")
	}
	return sender.sent[len(sender.sent)-1]
}

func TestRecordConvertsAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewExpenseService(repo, pub)

	amount := 85.5
	saved, err := svc.Record(context.Background(), "5511999999999", core.ProcessedMessage{
		Intent:       core.IntentExpense,
		Amount:       &amount,
		Category:     "roupas",
		Description:  "camiseta",
		Confidence:   0.9,
		OriginalText: "comprei uma camiseta por 85,50",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if saved.Amount.Cents != 8550 {
		t.Errorf("amount cents = %d, want 8550", saved.Amount.Cents)
	}
	if len(pub.ids) != 1 || pub.ids[0] != saved.ID {
		t.Errorf("published ids = %v, want [%d]", pub.ids, saved.ID)
	}
}

func TestRecordWithoutAmount(t *testing.T) {
	svc := NewExpenseService(&fakeRepo{}, nil)
	_, err := svc.Record(context.Background(), "5511999999999", core.ProcessedMessage{
		Intent: core.IntentExpense,
	})
	if !errors.Is(err, ErrNoAmount) {
		t.Fatalf("err = %v, want ErrNoAmount", err)
	}
}

func TestRecordSurvivesPublishFailure(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(repo, pub)

	amount := 10.0
	if _, err := svc.Record(context.Background(), "5511999999999", core.ProcessedMessage{
		Amount:   &amount,
		Category: "outros",
	}); err != nil {
		t.Fatalf("Record should not fail when publish fails: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expense not saved, created = %d", len(repo.created))
	}
}

func TestHandleExpenseMessage(t *testing.T) {
	repo := &fakeRepo{}
	h, sender := newTestHandler(repo, nil)

	h.HandleIncoming(context.Background(), textMessage("gastei 50 reais em alimentação"))

	reply := lastReply(t, sender)
	if !strings.Contains(reply, "✅ Gasto de R$ 50,00 em Alimentação registrado com sucesso!") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.HasPrefix(reply, "🍽️") {
		t.Errorf("reply missing category emoji: %q", reply)
	}
	if strings.Contains(reply, "⚠️") {
		t.Errorf("high-confidence reply should not carry a warning: %q", reply)
	}
	if len(sender.read) != 1 || sender.read[0] != "wamid.test" {
		t.Errorf("mark read calls = %v", sender.read)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(repo.created))
	}
	if repo.created[0].Amount.Cents != 5000 || repo.created[0].Category != "alimentação" {
		t.Errorf("stored expense = %+v", repo.created[0])
	}
}

func TestHandleExpenseLowConfidenceWarning(t *testing.T) {
	// Amount only, sentinel category, placeholder description: scores 0.5.
	// "paguei" carries no category trigger ("gastei" would match casa via
	// its "gas" trigger and score 0.7).
	h, sender := newTestHandler(&fakeRepo{}, nil)

	h.HandleIncoming(context.Background(), textMessage("paguei 50"))

	reply := lastReply(t, sender)
	if !strings.Contains(reply, "⚠️ Identifiquei automaticamente como 'outros'") {
		t.Errorf("reply = %q, want low-confidence warning", reply)
	}
}

func TestHandleExpenseWithoutAmount(t *testing.T) {
	h, sender := newTestHandler(&fakeRepo{}, nil)

	h.HandleIncoming(context.Background(), textMessage("gastei muito no mercado"))

	reply := lastReply(t, sender)
	if !strings.Contains(reply, "Não consegui identificar o valor do gasto") {
		t.Errorf("reply = %q", reply)
	}
}

func TestHandleGeneralReport(t *testing.T) {
	repo := &fakeRepo{
		total: core.Money{Cents: 123456},
		summary: []core.CategoryAmount{
			{Name: "alimentação", Total: core.Money{Cents: 80000}},
			{Name: "transporte", Total: core.Money{Cents: 20000}},
			{Name: "saúde", Total: core.Money{Cents: 10000}},
			{Name: "lazer", Total: core.Money{Cents: 7000}},
			{Name: "casa", Total: core.Money{Cents: 4000}},
			{Name: "roupas", Total: core.Money{Cents: 2000}},
			{Name: "outros", Total: core.Money{Cents: 456}},
		},
	}
	h, sender := newTestHandler(repo, nil)

	h.HandleIncoming(context.Background(), textMessage("resumo do mês"))

	reply := lastReply(t, sender)
	for _, want := range []string{
		"📊 *Relatório Geral*",
		"Período: este mês",
		"Total gasto: R$ 1.234,56",
		"*Por categoria:*",
		"🍽️ Alimentação: R$ 800,00",
		"... e mais 2 categorias",
	} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q:\n%s", want, reply)
		}
	}
	if strings.Contains(reply, "Roupas") {
		t.Errorf("summary should cap at five categories:\n%s", reply)
	}
}

func TestHandleReportCategoryFromVerbSubstring(t *testing.T) {
	// The casa trigger "gas" matches inside "gastei", so this wording yields
	// a casa category report rather than the general breakdown.
	repo := &fakeRepo{total: core.Money{Cents: 123456}}
	h, sender := newTestHandler(repo, nil)

	h.HandleIncoming(context.Background(), textMessage("quanto gastei este mês"))

	reply := lastReply(t, sender)
	if !strings.Contains(reply, "🏠 *Relatório Casa*") {
		t.Errorf("reply = %q", reply)
	}
	if strings.Contains(reply, "*Por categoria:*") {
		t.Errorf("category report should not carry a summary:\n%s", reply)
	}
}

func TestHandleCategoryReport(t *testing.T) {
	repo := &fakeRepo{total: core.Money{Cents: 15000}}
	h, sender := newTestHandler(repo, nil)

	h.HandleIncoming(context.Background(), textMessage("relatório de alimentação"))

	reply := lastReply(t, sender)
	if !strings.Contains(reply, "🍽️ *Relatório Alimentação*") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "Total gasto: R$ 150,00") {
		t.Errorf("reply = %q", reply)
	}
	if strings.Contains(reply, "*Por categoria:*") {
		t.Errorf("category report should not carry a summary:\n%s", reply)
	}
}

func TestHandleHelpCommand(t *testing.T) {
	h, sender := newTestHandler(&fakeRepo{}, nil)

	for _, cmd := range []string{"ajuda", "HELP", "/help", "/ajuda"} {
		h.HandleIncoming(context.Background(), textMessage(cmd))
		reply := lastReply(t, sender)
		if !strings.Contains(reply, "*WhatsApp Expense Tracker - Ajuda*") {
			t.Errorf("command %q: reply = %q", cmd, reply)
		}
	}
}

func TestHandleStatsCommand(t *testing.T) {
	repo := &fakeRepo{
		stats: core.UserStatistics{
			TotalExpenses:    12,
			TotalAmount:      core.Money{Cents: 340000},
			TodayTotal:       core.Money{Cents: 5000},
			WeekTotal:        core.Money{Cents: 45000},
			MonthTotal:       core.Money{Cents: 120000},
			MostUsedCategory: "alimentação",
		},
	}
	h, sender := newTestHandler(repo, nil)

	h.HandleIncoming(context.Background(), textMessage("stats"))

	reply := lastReply(t, sender)
	for _, want := range []string{
		"📈 *Suas Estatísticas*",
		"💰 Total gasto: R$ 3.400,00",
		"📝 Total de gastos: 12",
		"📅 Esta semana: R$ 450,00",
		"🍽️ Categoria mais usada: Alimentação",
	} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q:\n%s", want, reply)
		}
	}
}

func TestHandleRecentCommand(t *testing.T) {
	repo := &fakeRepo{recent: []core.Expense{
		{
			Amount:      core.Money{Cents: 5000},
			Category:    "alimentação",
			Description: "almoço",
			CreatedAt:   time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC),
		},
		{
			Amount:      core.Money{Cents: 12000},
			Category:    "combustível",
			Description: "gasolina",
			CreatedAt:   time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		},
	}}
	h, sender := newTestHandler(repo, nil)

	h.HandleIncoming(context.Background(), textMessage("últimos"))

	reply := lastReply(t, sender)
	for _, want := range []string{
		"🧾 *Últimos gastos*",
		"🍽️ 13/03 - R$ 50,00 - almoço",
		"⛽ 12/03 - R$ 120,00 - gasolina",
	} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q:\n%s", want, reply)
		}
	}
}

func TestHandleRecentCommandEmpty(t *testing.T) {
	h, sender := newTestHandler(&fakeRepo{}, nil)

	h.HandleIncoming(context.Background(), textMessage("ultimos gastos"))

	if !strings.Contains(lastReply(t, sender), "ainda não registrou nenhum gasto") {
		t.Errorf("reply = %q", lastReply(t, sender))
	}
}

func TestHandleRecentCommandError(t *testing.T) {
	repo := &fakeRepo{recentErr: errors.New("db closed")}
	h, sender := newTestHandler(repo, nil)

	h.HandleIncoming(context.Background(), textMessage("/ultimos"))

	if !strings.Contains(lastReply(t, sender), "❌ Erro: Erro ao listar gastos") {
		t.Errorf("reply = %q", lastReply(t, sender))
	}
}

func TestHandleUnknownMessage(t *testing.T) {
	h, sender := newTestHandler(&fakeRepo{}, nil)

	h.HandleIncoming(context.Background(), textMessage("bom dia"))

	if !strings.Contains(lastReply(t, sender), "🤔 Não entendi sua mensagem.") {
		t.Errorf("reply = %q", lastReply(t, sender))
	}
}

func TestHandleTooLongMessage(t *testing.T) {
	h, sender := newTestHandler(&fakeRepo{}, nil)

	h.HandleIncoming(context.Background(), textMessage(strings.Repeat("a", 501)))

	if !strings.Contains(lastReply(t, sender), "❌ Erro: Mensagem muito longa") {
		t.Errorf("reply = %q", lastReply(t, sender))
	}
}

func TestHandleInteractiveButtons(t *testing.T) {
	h, sender := newTestHandler(&fakeRepo{}, nil)

	msg := whatsapp.Message{
		ID:   "wamid.btn",
		From: "5511999999999",
		Type: "interactive",
		Interactive: &whatsapp.Interactive{
			Type:        "button_reply",
			ButtonReply: &whatsapp.ButtonReply{ID: "help"},
		},
	}
	h.HandleIncoming(context.Background(), msg)
	if !strings.Contains(lastReply(t, sender), "Ajuda") {
		t.Errorf("help button reply = %q", lastReply(t, sender))
	}

	msg.Interactive.ButtonReply.ID = "nope"
	h.HandleIncoming(context.Background(), msg)
	if got := lastReply(t, sender); got != "Opção não reconhecida." {
		t.Errorf("unknown button reply = %q", got)
	}
}

func TestHandleMediaMessage(t *testing.T) {
	h, sender := newTestHandler(&fakeRepo{}, nil)

	h.HandleIncoming(context.Background(), whatsapp.Message{
		ID: "wamid.img", From: "5511999999999", Type: "image",
	})

	reply := lastReply(t, sender)
	if !strings.Contains(reply, "Recebi sua image") || !strings.Contains(reply, "envie o gasto como texto") {
		t.Errorf("reply = %q", reply)
	}
}

func TestUnconfiguredSenderLogsOnly(t *testing.T) {
	repo := &fakeRepo{}
	sender := &fakeSender{configured: false}
	h := NewMessageHandler(nlp.New(nlp.NoopTagger{}), NewExpenseService(repo, nil), sender)

	h.HandleIncoming(context.Background(), textMessage("gastei 50 reais em alimentação"))

	if len(sender.sent) != 0 || len(sender.read) != 0 {
		t.Errorf("unconfigured sender should not be called: sent=%v read=%v", sender.sent, sender.read)
	}
	if len(repo.created) != 1 {
		t.Errorf("expense should still be recorded, created = %d", len(repo.created))
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"alimentação", "Alimentação"},
		{"outros", "Outros"},
		{"duas palavras", "Duas Palavras"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := titleCase(tc.in); got != tc.want {
			t.Errorf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
