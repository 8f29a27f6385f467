package nlp

import "gastozap/internal/core"

// Category pairs a canonical category name with its ordered trigger tokens.
// Declaration order is the tie-break: the first category whose trigger matches
// wins, so "combustível" (a trigger of both transporte and combustível)
// resolves to transporte.
type Category struct {
	Name     string
	Triggers []string
}

// categoryTable is the canonical category dictionary. Order matters; do not
// sort. Every name here must also exist in core's emoji table.
var categoryTable = []Category{
	{Name: "alimentação", Triggers: []string{
		"alimentação", "alimentacao", "comida", "lanche", "almoço", "almoco",
		"jantar", "café", "cafe", "restaurante", "mercado", "supermercado",
		"padaria", "açougue", "acougue", "feira", "delivery",
	}},
	{Name: "transporte", Triggers: []string{
		"transporte", "uber", "taxi", "ônibus", "onibus", "metro", "metrô",
		"trem", "passagem", "viagem", "combustível", "combustivel", "gasolina",
		"álcool", "alcool", "diesel", "posto",
	}},
	{Name: "combustível", Triggers: []string{
		"combustível", "combustivel", "gasolina", "álcool", "alcool",
		"diesel", "posto", "abasteci", "abastecer",
	}},
	{Name: "saúde", Triggers: []string{
		"saúde", "saude", "médico", "medico", "hospital", "farmácia", "farmacia",
		"remédio", "remedio", "consulta", "exame", "dentista", "plano de saúde",
	}},
	{Name: "educação", Triggers: []string{
		"educação", "educacao", "escola", "faculdade", "curso", "livro",
		"material escolar", "mensalidade", "matrícula", "matricula",
	}},
	{Name: "lazer", Triggers: []string{
		"lazer", "cinema", "teatro", "show", "festa", "bar", "balada",
		"entretenimento", "diversão", "diversao", "jogo", "streaming",
	}},
	{Name: "casa", Triggers: []string{
		"casa", "aluguel", "condomínio", "condominio", "luz", "água", "agua",
		"gás", "gas", "internet", "telefone", "limpeza", "móveis", "moveis",
	}},
	{Name: "roupas", Triggers: []string{
		"roupas", "roupa", "calça", "calca", "camisa", "sapato", "tênis", "tenis",
		"vestido", "saia", "blusa", "casaco", "moda", "shopping",
	}},
	{Name: core.SentinelCategory, Triggers: []string{
		"outros", "diverso", "vário", "vario", "geral",
	}},
}

// expenseKeywords mark a message as a spending record.
var expenseKeywords = []string{
	"gastei", "gasto", "paguei", "comprei", "saiu", "custou",
	"despesa", "débito", "conta", "fatura", "pagamento",
}

// reportKeywords mark a message as a report request. Checked before expense
// keywords: they are rarer and more specific, so a report request containing
// an expense verb ("quanto gastei") still classifies as report.
var reportKeywords = []string{
	"relatório", "relatorio", "resumo", "total", "quanto gastei",
	"balanço", "balanco", "extrato", "histórico", "historico",
}

// moneyPatterns are the ordered amount pattern families: the first family that
// yields a match wins, and within it the first match in the text.
var moneyPatterns = []string{
	`(?:r\$\s*)?(\d+(?:[.,]\d{2})?)`, // r$ 50,00 / r$50 / 50.00 / 50
	`(\d+)\s*reais?`,                 // 50 reais
	`(\d+)\s*(?:pila|pratas?)`,       // 50 pila / 50 prata (gírias)
}

// descriptionStopwords are common prepositions and articles removed when
// building the free-text description.
var descriptionStopwords = []string{
	"em", "de", "com", "para", "no", "na", "do", "da", "r$",
}

// periodKeywords maps report wording to a period, first match wins.
var periodKeywords = []struct {
	Keyword string
	Period  core.Period
}{
	{"hoje", core.PeriodToday},
	{"ontem", core.PeriodYesterday},
	{"semana", core.PeriodWeek},
	{"mês", core.PeriodMonth},
	{"mes", core.PeriodMonth},
	{"ano", core.PeriodYear},
	{"total", core.PeriodAll},
}
