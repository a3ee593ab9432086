package analytics

import (
	"reflect"
	"testing"
	"time"

	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(typ models.TransactionType, amount, category string, date models.Date) models.Transaction {
	return models.Transaction{
		ID:          uuid.New(),
		Type:        typ,
		Amount:      dec(amount),
		Description: category + " purchase",
		Category:    category,
		Date:        date,
		Status:      models.StatusCompleted,
	}
}

func allTime() models.GlobalFilters {
	return models.GlobalFilters{TransactionType: models.TypeAll}
}

func TestTotalBalance(t *testing.T) {
	s := Snapshot{
		Accounts: []models.BankAccount{{Balance: dec("12500.50")}, {Balance: dec("3200.10")}},
		Cards:    []models.CreditCard{{CurrentInvoice: dec("4500.20")}},
		// filters never affect the balance
		Filters: models.GlobalFilters{TransactionType: models.TypeOnlyIncome, SearchQuery: "nothing matches"},
	}

	got := TotalBalance(s)
	if !got.Equal(dec("11200.40")) {
		t.Errorf("TotalBalance() = %s, want 11200.40", got)
	}
}

func TestExpensesByCategoryGroupsAndSorts(t *testing.T) {
	day := models.NewDate(2024, time.March, 10)
	s := Snapshot{
		Transactions: []models.Transaction{
			tx(models.TypeExpense, "120.50", "Transporte", day),
			tx(models.TypeExpense, "850", "Alimentação", day),
			tx(models.TypeIncome, "5000", "Salário", day),
			tx(models.TypeExpense, "50", "Alimentação", day),
		},
		Categories: []models.Category{{Name: "Alimentação", Color: "#EF4444"}},
		Filters:    allTime(),
	}

	got := ExpensesByCategory(s)
	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(got), got)
	}
	if got[0].Category != "Alimentação" || !got[0].Amount.Equal(dec("900")) || got[0].Color != "#EF4444" {
		t.Errorf("first group = %+v", got[0])
	}
	if got[1].Category != "Transporte" || !got[1].Amount.Equal(dec("120.50")) {
		t.Errorf("second group = %+v", got[1])
	}
	if got[1].Color != DefaultCategoryColor {
		t.Errorf("unknown category color = %q, want %q", got[1].Color, DefaultCategoryColor)
	}

	sum := decimal.Zero
	for i, g := range got {
		if i > 0 && g.Amount.GreaterThan(got[i-1].Amount) {
			t.Errorf("groups not sorted: %s after %s", g.Amount, got[i-1].Amount)
		}
		sum = sum.Add(g.Amount)
	}
	if want := ExpensesForPeriod(s); !sum.Equal(want) {
		t.Errorf("sum of groups = %s, want %s", sum, want)
	}
}

func TestExpensesByCategoryTiesKeepFirstAppearance(t *testing.T) {
	day := models.NewDate(2024, time.March, 10)
	s := Snapshot{
		Transactions: []models.Transaction{
			tx(models.TypeExpense, "10", "Lazer", day),
			tx(models.TypeExpense, "10", "Saúde", day),
			tx(models.TypeExpense, "10", "Educação", day),
		},
		Filters: allTime(),
	}

	var names []string
	for _, g := range ExpensesByCategory(s) {
		names = append(names, g.Category)
	}
	want := []string{"Lazer", "Saúde", "Educação"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestZeroIncomeRatios(t *testing.T) {
	s := Snapshot{
		Transactions: []models.Transaction{
			tx(models.TypeExpense, "300", "Moradia", models.NewDate(2024, time.May, 2)),
		},
		Filters: allTime(),
	}

	if got := CategoryPercentage(s, "Moradia"); got != 0 {
		t.Errorf("CategoryPercentage() = %v, want 0", got)
	}
	if got := SavingsRate(s); got != 0 {
		t.Errorf("SavingsRate() = %v, want 0", got)
	}
	if got := SavingsRate(Snapshot{}); got != 0 {
		t.Errorf("SavingsRate(empty) = %v, want 0", got)
	}
}

func TestRatios(t *testing.T) {
	day := models.NewDate(2024, time.May, 2)
	s := Snapshot{
		Transactions: []models.Transaction{
			tx(models.TypeIncome, "4000", "Salário", day),
			tx(models.TypeExpense, "1000", "Moradia", day),
			tx(models.TypeExpense, "200", "Lazer", day),
		},
		Filters: allTime(),
	}

	if got := CategoryPercentage(s, "Moradia"); got != 25 {
		t.Errorf("CategoryPercentage(Moradia) = %v, want 25", got)
	}
	if got := CategoryPercentage(s, "Viagem"); got != 0 {
		t.Errorf("CategoryPercentage(Viagem) = %v, want 0", got)
	}
	if got := SavingsRate(s); got != 70 {
		t.Errorf("SavingsRate() = %v, want 70", got)
	}
}

func TestFilteredTransactionsPredicates(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	march := models.NewDate(2024, time.March, 15)
	april := models.NewDate(2024, time.April, 1)

	groceries := tx(models.TypeExpense, "80", "Alimentação", march)
	groceries.Description = "Mercado do bairro"
	groceries.MemberID = &alice
	salary := tx(models.TypeIncome, "5000", "Salário", march)
	salary.MemberID = &bob
	bus := tx(models.TypeExpense, "4.40", "Transporte", april)
	broken := tx(models.TypeExpense, "10", "Lazer", models.Date{})

	all := []models.Transaction{groceries, salary, bus, broken}

	tests := []struct {
		name    string
		filters models.GlobalFilters
		want    []uuid.UUID
	}{
		{
			name:    "no filters",
			filters: allTime(),
			want:    []uuid.UUID{groceries.ID, salary.ID, bus.ID, broken.ID},
		},
		{
			name:    "member",
			filters: models.GlobalFilters{MemberID: uuid.NullUUID{UUID: alice, Valid: true}, TransactionType: models.TypeAll},
			want:    []uuid.UUID{groceries.ID},
		},
		{
			name: "inclusive date range excludes undated",
			filters: models.GlobalFilters{
				DateRange:       models.DateRange{Start: march, End: april},
				TransactionType: models.TypeAll,
			},
			want: []uuid.UUID{groceries.ID, salary.ID, bus.ID},
		},
		{
			name:    "month range",
			filters: models.DefaultFilters(time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC)),
			want:    []uuid.UUID{groceries.ID, salary.ID},
		},
		{
			name:    "type",
			filters: models.GlobalFilters{TransactionType: models.TypeOnlyIncome},
			want:    []uuid.UUID{salary.ID},
		},
		{
			name:    "search on description ignores case",
			filters: models.GlobalFilters{TransactionType: models.TypeAll, SearchQuery: "MERCADO"},
			want:    []uuid.UUID{groceries.ID},
		},
		{
			name:    "search on category",
			filters: models.GlobalFilters{TransactionType: models.TypeAll, SearchQuery: "transp"},
			want:    []uuid.UUID{bus.ID},
		},
		{
			name: "predicates combine with AND",
			filters: models.GlobalFilters{
				MemberID:        uuid.NullUUID{UUID: bob, Valid: true},
				TransactionType: models.TypeOnlyExpense,
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{Transactions: all, Filters: tt.filters}
			got := FilteredTransactions(s)

			var ids []uuid.UUID
			for _, g := range got {
				if !Matches(tt.filters, g) {
					t.Errorf("returned transaction %s does not match filters", g.ID)
				}
				ids = append(ids, g.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
			if len(s.Transactions) != 4 {
				t.Errorf("input modified")
			}
		})
	}
}

func TestIncomePlusExpensesCoversFilteredSet(t *testing.T) {
	day := models.NewDate(2024, time.June, 5)
	s := Snapshot{
		Transactions: []models.Transaction{
			tx(models.TypeIncome, "100.10", "Freelance", day),
			tx(models.TypeExpense, "20.05", "Lazer", day),
			tx(models.TypeExpense, "0.95", "Lazer", day),
			tx(models.TypeIncome, "1", "Investimentos", day),
		},
		Filters: allTime(),
	}

	total := decimal.Zero
	for _, t := range FilteredTransactions(s) {
		total = total.Add(t.Amount)
	}
	got := IncomeForPeriod(s).Add(ExpensesForPeriod(s))
	if !got.Equal(total) {
		t.Errorf("income+expenses = %s, want %s", got, total)
	}
	if !IncomeForPeriod(Snapshot{}).IsZero() || !ExpensesForPeriod(Snapshot{}).IsZero() {
		t.Error("empty snapshot should sum to zero")
	}
}

func TestMonthlyFlowSingleIncome(t *testing.T) {
	now := time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC)
	s := Snapshot{
		Transactions: []models.Transaction{
			tx(models.TypeIncome, "100", "Freelance", models.NewDate(2024, time.February, 14)),
		},
		// the series ignores filters
		Filters: models.GlobalFilters{TransactionType: models.TypeOnlyExpense},
	}

	series := MonthlyFlow(s, now)
	if len(series) != MonthsInFlow {
		t.Fatalf("len = %d, want %d", len(series), MonthsInFlow)
	}
	if series[0].Label() != "2023-07" || series[MonthsInFlow-1].Label() != "2024-06" {
		t.Errorf("window = %s..%s, want 2023-07..2024-06", series[0].Label(), series[MonthsInFlow-1].Label())
	}

	hits := 0
	for _, m := range series {
		if m.Label() == "2024-02" {
			if !m.Income.Equal(dec("100")) || !m.Expense.IsZero() {
				t.Errorf("2024-02 = %+v", m)
			}
			hits++
			continue
		}
		if !m.Income.IsZero() || !m.Expense.IsZero() {
			t.Errorf("%s should be empty, got %+v", m.Label(), m)
		}
	}
	if hits != 1 {
		t.Errorf("month 2024-02 found %d times", hits)
	}
}

func TestMonthlyFlowSkipsOutOfWindowAndUndated(t *testing.T) {
	now := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)
	s := Snapshot{
		Transactions: []models.Transaction{
			tx(models.TypeExpense, "10", "Lazer", models.NewDate(2023, time.January, 31)),
			tx(models.TypeExpense, "20", "Lazer", models.NewDate(2023, time.February, 1)),
			tx(models.TypeExpense, "30", "Lazer", models.NewDate(2024, time.February, 1)),
			tx(models.TypeExpense, "40", "Lazer", models.Date{}),
		},
	}

	total := decimal.Zero
	for _, m := range MonthlyFlow(s, now) {
		total = total.Add(m.Expense)
	}
	if !total.Equal(dec("20")) {
		t.Errorf("expense total in window = %s, want 20", total)
	}
}

func TestEngine(t *testing.T) {
	if _, err := NewEngine(nil, nil); err != ErrNoSource {
		t.Fatalf("NewEngine(nil) err = %v, want ErrNoSource", err)
	}

	day := models.NewDate(2024, time.June, 5)
	src := StaticSource{
		Transactions: []models.Transaction{
			tx(models.TypeIncome, "2000", "Salário", day),
			tx(models.TypeExpense, "500", "Moradia", day),
		},
		Accounts: []models.BankAccount{{Balance: dec("1000")}},
		Filters:  allTime(),
	}
	now := func() time.Time { return time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC) }

	e, err := NewEngine(src, now)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	first, second := e.Summary(), e.Summary()
	if !reflect.DeepEqual(first, second) {
		t.Error("Summary() not repeatable")
	}
	if !first.Income.Equal(e.IncomeForPeriod()) || !first.Expenses.Equal(e.ExpensesForPeriod()) {
		t.Errorf("summary totals disagree: %+v", first)
	}
	if first.SavingsRate != e.SavingsRate() || first.SavingsRate != 75 {
		t.Errorf("savings rate = %v", first.SavingsRate)
	}
	if first.TransactionCount != len(e.FilteredTransactions()) {
		t.Errorf("count = %d", first.TransactionCount)
	}
	if !first.TotalBalance.Equal(e.TotalBalance()) {
		t.Errorf("balance = %s", first.TotalBalance)
	}
	if got := e.CategoryPercentage("Moradia"); got != 25 {
		t.Errorf("CategoryPercentage = %v", got)
	}
	if len(e.MonthlyFlow()) != MonthsInFlow || len(e.ExpensesByCategory()) != 1 {
		t.Error("unexpected series lengths")
	}
}
