package services

import (
	"fmt"
	"strings"
	"unicode"

	"gastozap/internal/core"
)

// Reply texts sent back over WhatsApp. All user-facing copy is pt-BR.

func expenseRegisteredText(amount core.Money, category string) string {
	return fmt.Sprintf("✅ Gasto de %s em %s registrado com sucesso!",
		core.FormatBRL(amount), titleCase(category))
}

func statisticsText(stats core.UserStatistics) string {
	var b strings.Builder
	b.WriteString("📈 *Suas Estatísticas*\n\n")
	b.WriteString("💰 Total gasto: " + core.FormatBRL(stats.TotalAmount) + "\n")
	fmt.Fprintf(&b, "📝 Total de gastos: %d\n\n", stats.TotalExpenses)
	b.WriteString("🗓️ Hoje: " + core.FormatBRL(stats.TodayTotal) + "\n")
	b.WriteString("📅 Esta semana: " + core.FormatBRL(stats.WeekTotal) + "\n")
	b.WriteString("📆 Este mês: " + core.FormatBRL(stats.MonthTotal) + "\n")
	if stats.MostUsedCategory != "" {
		b.WriteString("\n" + core.CategoryEmoji(stats.MostUsedCategory) +
			" Categoria mais usada: " + titleCase(stats.MostUsedCategory))
	}
	return b.String()
}

func helpText() string {
	return strings.TrimSpace(`
🤖 *WhatsApp Expense Tracker - Ajuda*

*Como registrar gastos:*
• "Gastei 50 reais em alimentação"
• "Combustível 120"
• "Paguei 30 no almoço"

*Como solicitar relatórios:*
• "Relatório alimentação"
• "Quanto gastei este mês"
• "Total de gastos"

*Categorias disponíveis:*
• Alimentação • Transporte • Combustível
• Saúde • Educação • Lazer
• Casa • Roupas • Outros

Digite "últimos" para ver seus gastos recentes.
Digite "ajuda" a qualquer momento para ver esta mensagem.`)
}

func recentText(expenses []core.Expense) string {
	if len(expenses) == 0 {
		return "📭 Você ainda não registrou nenhum gasto."
	}
	var b strings.Builder
	b.WriteString("🧾 *Últimos gastos*\n")
	for _, e := range expenses {
		b.WriteString("\n" + core.CategoryEmoji(e.Category) + " " + e.CreatedAt.Format("02/01") +
			" - " + core.FormatBRL(e.Amount) + " - " + e.Description)
	}
	return b.String()
}

func unknownText() string {
	return strings.TrimSpace(`
🤔 Não entendi sua mensagem.

Tente algo como:
• "Gastei 50 reais em alimentação"
• "Relatório do mês"
• "ajuda" para ver todas as opções`)
}

func mediaText(messageType string) string {
	return fmt.Sprintf("Recebi sua %s, mas ainda não consigo processar arquivos. "+
		"Por favor, envie o gasto como texto. Exemplo: 'Gastei 50 reais em alimentação'",
		messageType)
}

func unsupportedText() string {
	return "🤖 Ainda não consigo processar esse tipo de mensagem. " +
		"Por favor, envie mensagens de texto com seus gastos."
}

func errorText(message string) string {
	return "❌ Erro: " + message
}

// titleCase uppercases the first letter of each word, keeping the rest as-is
// ("alimentação" becomes "Alimentação").
func titleCase(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			startOfWord = true
			b.WriteRune(r)
			continue
		}
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
