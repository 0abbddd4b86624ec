package model

import (
	"time"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "receita"
	TransactionExpense TransactionType = "despesa"
)

var PaymentMethods = []string{"Pix", "Cartão", "Dinheiro", "Boleto", "TED"}

var TransactionCategories = []string{
	"Consulta", "Procedimento", "Material", "Aluguel", "Funcionários", "Equipamentos", "Outros",
}

type Transaction struct {
	ID          string          `db:"id" json:"id"`
	Date        string          `db:"date" json:"date"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	Method      string          `db:"method" json:"method"`
	Type        TransactionType `db:"type" json:"type"`
	Value       float64         `db:"value" json:"value"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type TransactionRequest struct {
	Description string          `json:"description"`
	Type        TransactionType `json:"type" binding:"omitempty,oneof=receita despesa"`
	Value       float64         `json:"value" binding:"gte=0"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Method      string          `json:"method" binding:"omitempty,oneof=Pix Cartão Dinheiro Boleto TED"`
	Category    string          `json:"category"`
}

// Period selects the Financeiro date window, always ending today.
type Period string

const (
	PeriodWeek  Period = "semana"
	PeriodMonth Period = "mes"
	PeriodYear  Period = "ano"
)

// TransactionFilter narrows the Financeiro table without affecting the totals.
type TransactionFilter string

const (
	FilterAll     TransactionFilter = "todos"
	FilterIncome  TransactionFilter = "receita"
	FilterExpense TransactionFilter = "despesa"
)

type FinanceSummary struct {
	Period       Period         `json:"period"`
	Filter       string         `json:"filter"`
	From         string         `json:"from"`
	To           string         `json:"to"`
	Transactions []*Transaction `json:"transactions"`
	TotalIncome  float64        `json:"total_receita"`
	TotalExpense float64        `json:"total_despesa"`
	Balance      float64        `json:"saldo"`
	Formatted    struct {
		TotalIncome  string `json:"total_receita"`
		TotalExpense string `json:"total_despesa"`
		Balance      string `json:"saldo"`
	} `json:"formatted"`
}
