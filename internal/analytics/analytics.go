package analytics

import (
	"sort"
	"strings"
	"time"

	"family-finance/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultCategoryColor is used when an expense category has no matching
// Category row.
const DefaultCategoryColor = "#9CA3AF"

// MonthsInFlow is the length of the trailing monthly flow series.
const MonthsInFlow = 12

var hundred = decimal.NewFromInt(100)

// Snapshot is a consistent copy of the finance store's collections and
// active filter.
type Snapshot struct {
	Transactions []models.Transaction
	Goals        []models.FinanceGoal
	Cards        []models.CreditCard
	Accounts     []models.BankAccount
	Members      []models.FamilyMember
	Categories   []models.Category
	Filters      models.GlobalFilters
}

type CategoryExpense struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Color    string          `json:"color"`
}

type MonthFlow struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Label formats the month as YYYY-MM.
func (m MonthFlow) Label() string {
	return models.NewDate(m.Year, m.Month, 1).Format("2006-01")
}

// Matches reports whether t passes every active predicate of f.
func Matches(f models.GlobalFilters, t models.Transaction) bool {
	if f.MemberID.Valid && (t.MemberID == nil || *t.MemberID != f.MemberID.UUID) {
		return false
	}
	if !f.DateRange.Contains(t.Date) {
		return false
	}
	if f.TransactionType != "" && f.TransactionType != models.TypeAll &&
		string(f.TransactionType) != string(t.Type) {
		return false
	}
	if q := strings.ToLower(f.SearchQuery); q != "" {
		if !strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) {
			return false
		}
	}
	return true
}

// FilteredTransactions returns the transactions matching the snapshot's
// filters in collection order. The input is never modified.
func FilteredTransactions(s Snapshot) []models.Transaction {
	out := make([]models.Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if Matches(s.Filters, t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// TotalBalance is the sum of account balances minus the sum of card invoices.
// Filters do not apply.
func TotalBalance(s Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.Balance)
	}
	for _, c := range s.Cards {
		total = total.Sub(c.CurrentInvoice)
	}
	return total
}

func sumByType(txs []models.Transaction, typ models.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == typ {
			total = total.Add(t.Amount)
		}
	}
	return total
}

func IncomeForPeriod(s Snapshot) decimal.Decimal {
	return sumByType(FilteredTransactions(s), models.TypeIncome)
}

func ExpensesForPeriod(s Snapshot) decimal.Decimal {
	return sumByType(FilteredTransactions(s), models.TypeExpense)
}

// ExpensesByCategory groups filtered expenses by category name, largest
// first. Equal amounts keep the order in which the category first appeared.
func ExpensesByCategory(s Snapshot) []CategoryExpense {
	return expensesByCategory(FilteredTransactions(s), s.Categories)
}

func expensesByCategory(txs []models.Transaction, categories []models.Category) []CategoryExpense {
	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		if _, ok := colors[c.Name]; !ok {
			colors[c.Name] = c.Color
		}
	}

	index := map[string]int{}
	var out []CategoryExpense
	for _, t := range txs {
		if t.Type != models.TypeExpense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			color, found := colors[t.Category]
			if !found || color == "" {
				color = DefaultCategoryColor
			}
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryExpense{Category: t.Category, Amount: decimal.Zero, Color: color})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Amount.GreaterThan(out[b].Amount)
	})
	return out
}

// ratio returns num/den*100, or 0 when den is zero.
func ratio(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return num.Div(den).Mul(hundred).InexactFloat64()
}

// CategoryPercentage is the filtered expense total of one category relative
// to filtered income.
func CategoryPercentage(s Snapshot, category string) float64 {
	txs := FilteredTransactions(s)
	spent := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TypeExpense && t.Category == category {
			spent = spent.Add(t.Amount)
		}
	}
	return ratio(spent, sumByType(txs, models.TypeIncome))
}

func SavingsRate(s Snapshot) float64 {
	txs := FilteredTransactions(s)
	income := sumByType(txs, models.TypeIncome)
	return ratio(income.Sub(sumByType(txs, models.TypeExpense)), income)
}

// MonthlyFlow buckets every transaction into the twelve calendar months
// ending with now's month, oldest first. Transactions without a date are
// skipped.
func MonthlyFlow(s Snapshot, now time.Time) []MonthFlow {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(MonthsInFlow - 1), 0)

	series := make([]MonthFlow, MonthsInFlow)
	for i := range series {
		m := first.AddDate(0, i, 0)
		series[i] = MonthFlow{Year: m.Year(), Month: m.Month(), Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, t := range s.Transactions {
		if t.Date.IsZero() {
			continue
		}
		i := (t.Date.Year()-first.Year())*12 + int(t.Date.Month()) - int(first.Month())
		if i < 0 || i >= MonthsInFlow {
			continue
		}
		switch t.Type {
		case models.TypeIncome:
			series[i].Income = series[i].Income.Add(t.Amount)
		case models.TypeExpense:
			series[i].Expense = series[i].Expense.Add(t.Amount)
		}
	}
	return series
}
