package analytics

import (
	"errors"
	"time"

	"family-finance/internal/models"

	"github.com/shopspring/decimal"
)

var ErrNoSource = errors.New("analytics engine has no data source")

// Source provides the data the engine aggregates.
type Source interface {
	Snapshot() Snapshot
}

// Summary is every dashboard figure computed from one snapshot.
type Summary struct {
	Filters            models.GlobalFilters `json:"filters"`
	TotalBalance       decimal.Decimal      `json:"totalBalance"`
	Income             decimal.Decimal      `json:"income"`
	Expenses           decimal.Decimal      `json:"expenses"`
	SavingsRate        float64              `json:"savingsRate"`
	TransactionCount   int                  `json:"transactionCount"`
	ExpensesByCategory []CategoryExpense    `json:"expensesByCategory"`
	MonthlyFlow        []MonthFlow          `json:"monthlyFlow"`
}

// Engine evaluates aggregates against the current state of a Source.
type Engine struct {
	source Source
	now    func() time.Time
}

// NewEngine binds an engine to src. A nil now uses time.Now.
func NewEngine(src Source, now func() time.Time) (*Engine, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{source: src, now: now}, nil
}

func (e *Engine) FilteredTransactions() []models.Transaction {
	return FilteredTransactions(e.source.Snapshot())
}

func (e *Engine) TotalBalance() decimal.Decimal {
	return TotalBalance(e.source.Snapshot())
}

func (e *Engine) IncomeForPeriod() decimal.Decimal {
	return IncomeForPeriod(e.source.Snapshot())
}

func (e *Engine) ExpensesForPeriod() decimal.Decimal {
	return ExpensesForPeriod(e.source.Snapshot())
}

func (e *Engine) ExpensesByCategory() []CategoryExpense {
	return ExpensesByCategory(e.source.Snapshot())
}

func (e *Engine) CategoryPercentage(category string) float64 {
	return CategoryPercentage(e.source.Snapshot(), category)
}

func (e *Engine) SavingsRate() float64 {
	return SavingsRate(e.source.Snapshot())
}

func (e *Engine) MonthlyFlow() []MonthFlow {
	return MonthlyFlow(e.source.Snapshot(), e.now())
}

// Summary computes all figures from a single snapshot so they agree with
// each other.
func (e *Engine) Summary() Summary {
	s := e.source.Snapshot()
	txs := FilteredTransactions(s)
	income := sumByType(txs, models.TypeIncome)
	expenses := sumByType(txs, models.TypeExpense)
	return Summary{
		Filters:            s.Filters,
		TotalBalance:       TotalBalance(s),
		Income:             income,
		Expenses:           expenses,
		SavingsRate:        ratio(income.Sub(expenses), income),
		TransactionCount:   len(txs),
		ExpensesByCategory: expensesByCategory(txs, s.Categories),
		MonthlyFlow:        MonthlyFlow(s, e.now()),
	}
}

// StaticSource serves a fixed snapshot.
type StaticSource Snapshot

func (s StaticSource) Snapshot() Snapshot { return Snapshot(s) }
