package http

import (
	"fmt"
	"html/template"
	"strconv"

	"carteira/internal/core"
)

// formatBRL renders cents as Brazilian currency, e.g. "R$ 1.500,00".
func formatBRL(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	// Insert thousands separators right to left.
	var grouped []byte
	for i, c := range []byte(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, c)
	}

	s := fmt.Sprintf("R$ %s,%02d", grouped, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// formatDateBR renders a date as dd/mm/yyyy.
func formatDateBR(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day(), int(d.Month()), d.Year())
}

func kindLabel(k core.Kind) string {
	switch k {
	case core.KindIncome:
		return "Receita"
	case core.KindExpense:
		return "Despesa"
	}
	return string(k)
}

func categoryLabel(c core.Category) string {
	switch c {
	case core.CategoryFood:
		return "Alimentação"
	case core.CategoryClothing:
		return "Vestuário"
	case core.CategoryTransport:
		return "Transporte"
	case core.CategoryOther:
		return "Outros"
	}
	return string(c)
}

func methodLabel(m core.Method) string {
	switch m {
	case core.MethodCash:
		return "Dinheiro"
	case core.MethodPix:
		return "Pix"
	case core.MethodCard:
		return "Cartão"
	}
	return string(m)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":         formatBRL,
		"dateBR":        formatDateBR,
		"kindLabel":     kindLabel,
		"categoryLabel": categoryLabel,
		"methodLabel":   methodLabel,
	}
}
