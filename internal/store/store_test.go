package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"family-finance/internal/analytics"
	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

type harness struct {
	store  *Store
	fake   *fakeBackend
	notes  *recordingNotifier
	events *recordingPublisher
	user   models.Identity
}

func newHarness(t *testing.T, seed func(*fakeBackend)) *harness {
	t.Helper()
	fake := newFakeBackend()
	if seed != nil {
		seed(fake)
	}
	h := &harness{
		fake:   fake,
		notes:  &recordingNotifier{},
		events: &recordingPublisher{},
		user:   models.Identity{UserID: uuid.New(), Email: "ana.souza@example.com"},
	}
	s, err := New(Options{
		Backend:  fake.backend(),
		Notifier: h.notes,
		Events:   h.events,
		Now:      func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.store = s
	if err := s.Associate(context.Background(), h.user); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	t.Cleanup(s.Close)
	return h
}

func waitOp[T any](t *testing.T, op *Op[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := op.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("operation did not complete")
	}
	return v, err
}

func expense(amount string) models.Transaction {
	return models.Transaction{
		Type:        models.TypeExpense,
		Amount:      decimal.RequireFromString(amount),
		Description: "Padaria",
		Category:    "Alimentação",
		Date:        models.NewDate(2024, time.June, 10),
		AccountID:   uuid.New(),
	}
}

func TestNewRequiresEveryTable(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty backend")
	}
}

func TestMutationsRequireSession(t *testing.T) {
	s, err := New(Options{Backend: newFakeBackend().backend()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := waitOp(t, s.AddTransaction(expense("10"))); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestAddTransactionVisibleBeforeBackendAnswers(t *testing.T) {
	h := newHarness(t, nil)
	release := h.fake.transactions.hold("insert")
	defer release()

	op := h.store.AddTransaction(expense("42.50"))

	got := analytics.FilteredTransactions(h.store.Snapshot())
	if len(got) != 1 || got[0].ID != op.TempID {
		t.Fatalf("filtered = %+v, want the pending entry %s", got, op.TempID)
	}
	if st, _ := h.store.TransactionStatus(op.TempID); st != Pending {
		t.Errorf("status = %v, want pending", st)
	}
	if h.store.PendingCount() != 1 {
		t.Errorf("PendingCount() = %d, want 1", h.store.PendingCount())
	}

	release()
	stored, err := waitOp(t, op)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if stored.ID == uuid.Nil || stored.ID == op.TempID {
		t.Errorf("stored id = %s, want a backend id", stored.ID)
	}

	got = analytics.FilteredTransactions(h.store.Snapshot())
	if len(got) != 1 || got[0].ID != stored.ID {
		t.Fatalf("after confirm filtered = %+v", got)
	}
	if st, _ := h.store.TransactionStatus(stored.ID); st != Confirmed {
		t.Errorf("status = %v, want confirmed", st)
	}
	if got[0].Status != models.StatusCompleted {
		t.Errorf("default status = %q", got[0].Status)
	}

	events := h.events.all()
	if len(events) != 1 || events[0].RecordID != stored.ID || events[0].OwnerID != h.user.UserID {
		t.Errorf("events = %+v", events)
	}
}

func TestAddTransactionFailureRollsBack(t *testing.T) {
	h := newHarness(t, func(f *fakeBackend) {
		f.transactions.rows = []models.Transaction{expense("10").WithID(uuid.New())}
	})
	before := h.store.Transactions()
	h.fake.transactions.fail("insert", errBackendDown)

	_, err := waitOp(t, h.store.AddTransaction(expense("99")))
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("err = %v, want backend error", err)
	}

	if after := h.store.Transactions(); !reflect.DeepEqual(after, before) {
		t.Errorf("after rollback = %+v, want %+v", after, before)
	}
	notes := h.notes.all()
	if len(notes) != 1 || !notes[0].RolledBack || notes[0].Operation != models.OpInsert {
		t.Errorf("notifications = %+v", notes)
	}
	if len(h.events.all()) != 0 {
		t.Error("failed insert must not publish an event")
	}
}

func TestAddTransactionResolvesCardSource(t *testing.T) {
	card := models.CreditCard{ID: uuid.New(), Name: "Nubank"}
	h := newHarness(t, func(f *fakeBackend) {
		f.cards.rows = []models.CreditCard{card}
	})

	onCard := expense("30")
	onCard.AccountID = card.ID
	stored, err := waitOp(t, h.store.AddTransaction(onCard))
	if err != nil {
		t.Fatal(err)
	}
	if stored.Source != models.SourceCard {
		t.Errorf("source = %q, want card", stored.Source)
	}

	stored, err = waitOp(t, h.store.AddTransaction(expense("30")))
	if err != nil {
		t.Fatal(err)
	}
	if stored.Source != models.SourceAccount {
		t.Errorf("source = %q, want account", stored.Source)
	}
}

func TestUpdateFailureKeepsChange(t *testing.T) {
	existing := expense("10").WithID(uuid.New())
	h := newHarness(t, func(f *fakeBackend) {
		f.transactions.rows = []models.Transaction{existing}
	})
	h.fake.transactions.fail("update", errBackendDown)

	desc := "Padaria Pão Quente"
	_, err := waitOp(t, h.store.UpdateTransaction(existing.ID, models.TransactionPatch{Description: &desc}))
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("err = %v", err)
	}

	got := h.store.Transactions()
	if len(got) != 1 || got[0].Description != desc {
		t.Errorf("transactions = %+v, want description kept", got)
	}
	notes := h.notes.all()
	if len(notes) != 1 || notes[0].RolledBack || notes[0].Level != models.LevelError {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	h := newHarness(t, nil)
	desc := "x"
	_, err := waitOp(t, h.store.UpdateTransaction(uuid.New(), models.TransactionPatch{Description: &desc}))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if n := h.fake.transactions.callCount("update"); n != 0 {
		t.Errorf("backend called %d times", n)
	}
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	if _, err := waitOp(t, h.store.DeleteGoal(uuid.New())); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
	if n := h.fake.goals.callCount("delete"); n != 0 {
		t.Errorf("backend called %d times", n)
	}
}

func TestDeleteFailureRestoresCollection(t *testing.T) {
	a := models.BankAccount{ID: uuid.New(), Name: "Itaú", Balance: decimal.NewFromInt(100)}
	b := models.BankAccount{ID: uuid.New(), Name: "Nubank", Balance: decimal.NewFromInt(200)}
	c := models.BankAccount{ID: uuid.New(), Name: "Carteira", Balance: decimal.NewFromInt(5)}
	h := newHarness(t, func(f *fakeBackend) {
		f.accounts.rows = []models.BankAccount{a, b, c}
	})
	before := h.store.Accounts()
	h.fake.accounts.fail("delete", errBackendDown)

	op := h.store.DeleteAccount(b.ID)
	if got := h.store.Accounts(); len(got) != 2 {
		t.Fatalf("optimistic delete left %d accounts", len(got))
	}
	removed, err := waitOp(t, op)
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("err = %v", err)
	}
	if removed.ID != b.ID {
		t.Errorf("removed = %s, want %s", removed.ID, b.ID)
	}
	if after := h.store.Accounts(); !reflect.DeepEqual(after, before) {
		t.Errorf("after rollback = %+v, want %+v", after, before)
	}
	notes := h.notes.all()
	if len(notes) != 1 || !notes[0].RolledBack || notes[0].Operation != models.OpDelete {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestDeleteRollbackKeepsLaterChanges(t *testing.T) {
	a := models.BankAccount{ID: uuid.New(), Name: "Itaú"}
	b := models.BankAccount{ID: uuid.New(), Name: "Nubank"}
	h := newHarness(t, func(f *fakeBackend) {
		f.accounts.rows = []models.BankAccount{a, b}
	})
	release := h.fake.accounts.hold("delete")
	h.fake.accounts.fail("delete", errBackendDown)

	del := h.store.DeleteAccount(a.ID)
	added, err := waitOp(t, h.store.AddAccount(models.BankAccount{Name: "Inter"}))
	if err != nil {
		t.Fatal(err)
	}
	release()
	if _, err := waitOp(t, del); !errors.Is(err, errBackendDown) {
		t.Fatalf("err = %v", err)
	}

	var names []string
	for _, acc := range h.store.Accounts() {
		names = append(names, acc.Name)
	}
	want := []string{"Itaú", "Nubank", "Inter"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("accounts = %v, want %v", names, want)
	}
	if added.ID == uuid.Nil {
		t.Error("added account has no id")
	}
}

func TestPendingEntryRejectsUpdateAndDelete(t *testing.T) {
	h := newHarness(t, nil)
	release := h.fake.goals.hold("insert")
	defer release()

	op := h.store.AddGoal(models.FinanceGoal{Name: "Viagem", TargetAmount: decimal.NewFromInt(5000)})

	if _, err := waitOp(t, h.store.DeleteGoal(op.TempID)); !errors.Is(err, ErrPending) {
		t.Errorf("delete err = %v, want ErrPending", err)
	}
	if _, err := waitOp(t, h.store.AddGoalContribution(op.TempID, decimal.NewFromInt(10))); !errors.Is(err, ErrPending) {
		t.Errorf("contribution err = %v, want ErrPending", err)
	}

	release()
	goal, err := waitOp(t, op)
	if err != nil {
		t.Fatal(err)
	}
	if goal.Status != models.GoalActive {
		t.Errorf("status = %q, want active", goal.Status)
	}
}

func TestAddGoalContributionPersistsTotal(t *testing.T) {
	goal := models.FinanceGoal{
		ID:            uuid.New(),
		Name:          "Reserva de emergência",
		TargetAmount:  decimal.NewFromInt(10000),
		CurrentAmount: decimal.NewFromInt(100),
		Status:        models.GoalActive,
	}
	h := newHarness(t, func(f *fakeBackend) {
		f.goals.rows = []models.FinanceGoal{goal}
	})

	first := h.store.AddGoalContribution(goal.ID, decimal.NewFromInt(50))
	second := h.store.AddGoalContribution(goal.ID, decimal.RequireFromString("25.25"))
	if _, err := waitOp(t, first); err != nil {
		t.Fatal(err)
	}
	updated, err := waitOp(t, second)
	if err != nil {
		t.Fatal(err)
	}

	want := decimal.RequireFromString("175.25")
	if !updated.CurrentAmount.Equal(want) {
		t.Errorf("current = %s, want %s", updated.CurrentAmount, want)
	}
	var totals []string
	for _, p := range h.fake.goals.patches {
		if p.CurrentAmount == nil {
			t.Fatal("contribution patch without current amount")
		}
		totals = append(totals, p.CurrentAmount.String())
	}
	if len(totals) != 2 {
		t.Fatalf("patches = %v", totals)
	}
	// completions may arrive in any order, but each carries a total
	seen := map[string]bool{totals[0]: true, totals[1]: true}
	if !seen["150"] || !seen["175.25"] {
		t.Errorf("persisted totals = %v, want 150 and 175.25", totals)
	}
}

func TestAssociateCreatesMissingProfile(t *testing.T) {
	h := newHarness(t, nil)

	members := h.store.Members()
	if len(members) != 1 {
		t.Fatalf("members = %+v", members)
	}
	m := members[0]
	if m.ID != h.user.UserID || m.Name != "ana.souza" || m.Role != models.DefaultMemberRole || m.AvatarURL == "" {
		t.Errorf("profile = %+v", m)
	}

	if err := h.store.Associate(context.Background(), h.user); err != nil {
		t.Fatal(err)
	}
	if n := len(h.fake.profiles.snapshot()); n != 1 {
		t.Errorf("profiles stored = %d, want 1", n)
	}
	if n := h.fake.profiles.callCount("insert"); n != 1 {
		t.Errorf("profile inserts = %d, want 1", n)
	}
}

func TestAssociateKeepsExistingProfile(t *testing.T) {
	user := uuid.New()
	fake := newFakeBackend()
	fake.profiles.rows = []models.FamilyMember{{ID: user, Name: "Ana", Role: "Mãe"}}
	s, err := New(Options{Backend: fake.backend()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Associate(context.Background(), models.Identity{UserID: user, Email: "ana@example.com"}); err != nil {
		t.Fatal(err)
	}
	if fake.profiles.callCount("insert") != 0 {
		t.Error("existing profile should not be recreated")
	}
	if got := s.Members(); len(got) != 1 || got[0].Role != "Mãe" {
		t.Errorf("members = %+v", got)
	}
	if !s.Loaded() {
		t.Error("Loaded() = false after Associate")
	}
}

func TestAssociateLoadFailure(t *testing.T) {
	fake := newFakeBackend()
	fake.categories.fail("list", errBackendDown)
	notes := &recordingNotifier{}
	s, err := New(Options{Backend: fake.backend(), Notifier: notes})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	err = s.Associate(context.Background(), models.Identity{UserID: uuid.New()})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("err = %v", err)
	}
	if s.Loaded() {
		t.Error("Loaded() = true after failed load")
	}
	if n := notes.all(); len(n) != 1 || n[0].Operation != models.OpLoad {
		t.Errorf("notifications = %+v", n)
	}
}

func TestDissociateClearsCollectionsKeepsFilters(t *testing.T) {
	h := newHarness(t, func(f *fakeBackend) {
		f.transactions.rows = []models.Transaction{expense("10").WithID(uuid.New())}
		f.accounts.rows = []models.BankAccount{{ID: uuid.New(), Name: "Itaú"}}
	})
	q := "padaria"
	filters := h.store.SetFilters(models.FilterPatch{SearchQuery: &q})

	h.store.Dissociate()

	snap := h.store.Snapshot()
	if len(snap.Transactions)+len(snap.Accounts)+len(snap.Members) != 0 {
		t.Errorf("collections not cleared: %+v", snap)
	}
	if !reflect.DeepEqual(h.store.Filters(), filters) {
		t.Errorf("filters = %+v, want %+v", h.store.Filters(), filters)
	}
	if _, ok := h.store.Identity(); ok {
		t.Error("identity still set")
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	h := newHarness(t, nil)
	release := h.fake.transactions.hold("insert")
	defer release()

	op := h.store.AddTransaction(expense("10"))

	other := models.Identity{UserID: uuid.New(), Email: "bruno@example.com"}
	if err := h.store.Associate(context.Background(), other); err != nil {
		t.Fatal(err)
	}
	release()

	if _, err := waitOp(t, op); !errors.Is(err, ErrStale) {
		t.Errorf("err = %v, want ErrStale", err)
	}
	if got := h.store.Transactions(); len(got) != 0 {
		t.Errorf("new session sees %d transactions", len(got))
	}
	if len(h.notes.all()) != 0 {
		t.Errorf("stale completion notified: %+v", h.notes.all())
	}
}

func TestSetFiltersMerges(t *testing.T) {
	h := newHarness(t, nil)

	if f := h.store.Filters(); f.TransactionType != models.TypeAll || f.DateRange != models.MonthRange(fixedNow) {
		t.Errorf("default filters = %+v", f)
	}

	member := uuid.NullUUID{UUID: uuid.New(), Valid: true}
	h.store.SetFilters(models.FilterPatch{MemberID: &member})
	typ := models.TypeOnlyExpense
	got := h.store.SetFilters(models.FilterPatch{TransactionType: &typ})

	if got.MemberID != member || got.TransactionType != typ || got.DateRange != models.MonthRange(fixedNow) {
		t.Errorf("merged filters = %+v", got)
	}
}

func TestCrudForEveryCollection(t *testing.T) {
	h := newHarness(t, nil)

	card, err := waitOp(t, h.store.AddCard(models.CreditCard{Name: "Visa", Limit: decimal.NewFromInt(3000)}))
	if err != nil {
		t.Fatal(err)
	}
	invoice := decimal.NewFromInt(450)
	if _, err := waitOp(t, h.store.UpdateCard(card.ID, models.CardPatch{CurrentInvoice: &invoice})); err != nil {
		t.Fatal(err)
	}

	member, err := waitOp(t, h.store.AddMember(models.FamilyMember{Name: "Bruno"}))
	if err != nil {
		t.Fatal(err)
	}
	if member.Role != models.DefaultMemberRole {
		t.Errorf("member role = %q", member.Role)
	}
	role := "Pai"
	if _, err := waitOp(t, h.store.UpdateMember(member.ID, models.MemberPatch{Role: &role})); err != nil {
		t.Fatal(err)
	}

	cat, err := waitOp(t, h.store.AddCategory(models.Category{Name: "Pets", Type: models.TypeExpense, Color: "#000000"}))
	if err != nil {
		t.Fatal(err)
	}
	color := "#FFFFFF"
	if _, err := waitOp(t, h.store.UpdateCategory(cat.ID, models.CategoryPatch{Color: &color})); err != nil {
		t.Fatal(err)
	}

	acc, err := waitOp(t, h.store.AddAccount(models.BankAccount{Name: "Itaú", Balance: decimal.NewFromInt(1000)}))
	if err != nil {
		t.Fatal(err)
	}
	balance := decimal.NewFromInt(1200)
	if _, err := waitOp(t, h.store.UpdateAccount(acc.ID, models.AccountPatch{Balance: &balance})); err != nil {
		t.Fatal(err)
	}

	snap := h.store.Snapshot()
	if !analytics.TotalBalance(snap).Equal(decimal.NewFromInt(750)) {
		t.Errorf("balance = %s, want 750", analytics.TotalBalance(snap))
	}
	if snap.Categories[0].Color != color || snap.Members[1].Role != role {
		t.Errorf("updates not applied: %+v %+v", snap.Categories, snap.Members)
	}

	for _, err := range []error{
		errOf(waitOp(t, h.store.DeleteCard(card.ID))),
		errOf(waitOp(t, h.store.DeleteMember(member.ID))),
		errOf(waitOp(t, h.store.DeleteCategory(cat.ID))),
		errOf(waitOp(t, h.store.DeleteAccount(acc.ID))),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(h.fake.cards.snapshot())+len(h.fake.categories.snapshot())+len(h.fake.accounts.snapshot()) != 0 {
		t.Error("backend rows not deleted")
	}
	if got := h.store.Members(); len(got) != 1 {
		t.Errorf("members = %+v, want only the profile", got)
	}
}

func errOf[T any](_ T, err error) error { return err }

func TestCloseRejectsMutations(t *testing.T) {
	h := newHarness(t, nil)
	h.store.Close()
	if _, err := waitOp(t, h.store.AddAccount(models.BankAccount{Name: "x"})); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestReassociateSameUserKeepsInFlightWrites(t *testing.T) {
	existing := models.BankAccount{ID: uuid.New(), Name: "Itaú", Balance: decimal.NewFromInt(100)}
	h := newHarness(t, func(f *fakeBackend) {
		f.accounts.rows = []models.BankAccount{existing}
	})
	releaseInsert := h.fake.transactions.hold("insert")
	defer releaseInsert()
	releaseDelete := h.fake.accounts.hold("delete")
	defer releaseDelete()

	add := h.store.AddTransaction(expense("42"))
	del := h.store.DeleteAccount(existing.ID)

	if err := h.store.Associate(context.Background(), h.user); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if got := h.store.Transactions(); len(got) != 1 || got[0].ID != add.TempID {
		t.Fatalf("pending insert lost by reload: %+v", got)
	}
	if got := h.store.Accounts(); len(got) != 0 {
		t.Fatalf("reload brought back a row being deleted: %+v", got)
	}

	releaseInsert()
	releaseDelete()
	stored, err := waitOp(t, add)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := waitOp(t, del); err != nil {
		t.Fatalf("delete: %v", err)
	}

	mem := h.store.Transactions()
	if len(mem) != 1 || mem[0].ID != stored.ID {
		t.Errorf("memory = %+v, want %s", mem, stored.ID)
	}
	if rows := h.fake.transactions.snapshot(); len(rows) != 1 || rows[0].ID != stored.ID {
		t.Errorf("backend = %+v", rows)
	}
	if len(h.store.Accounts()) != 0 || len(h.fake.accounts.snapshot()) != 0 {
		t.Errorf("accounts memory = %+v, backend = %+v", h.store.Accounts(), h.fake.accounts.snapshot())
	}
	if len(h.notes.all()) != 0 {
		t.Errorf("notifications = %+v", h.notes.all())
	}
}

func TestMutationDuringReloadSurvivesLoad(t *testing.T) {
	h := newHarness(t, nil)
	releaseList := h.fake.transactions.hold("list")
	defer releaseList()
	releaseInsert := h.fake.transactions.hold("insert")
	defer releaseInsert()

	loaded := make(chan error, 1)
	go func() { loaded <- h.store.Associate(context.Background(), h.user) }()
	waitFor(t, func() bool { return h.fake.transactions.callCount("list") == 2 })

	add := h.store.AddTransaction(expense("15"))
	if got := h.store.Transactions(); len(got) != 1 {
		t.Fatalf("visible during load = %d, want 1", len(got))
	}

	releaseList()
	if err := <-loaded; err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if got := h.store.Transactions(); len(got) != 1 || got[0].ID != add.TempID {
		t.Fatalf("after load = %+v, want the pending entry", got)
	}

	releaseInsert()
	stored, err := waitOp(t, add)
	if err != nil {
		t.Fatal(err)
	}
	mem := h.store.Transactions()
	rows := h.fake.transactions.snapshot()
	if len(mem) != 1 || len(rows) != 1 || mem[0].ID != stored.ID || rows[0].ID != stored.ID {
		t.Errorf("memory = %+v, backend = %+v", mem, rows)
	}
	if st, _ := h.store.TransactionStatus(stored.ID); st != Confirmed {
		t.Errorf("status = %v, want confirmed", st)
	}
}

func TestWriteConfirmedDuringReloadIsNotDuplicated(t *testing.T) {
	goal := models.FinanceGoal{ID: uuid.New(), Name: "Viagem", TargetAmount: decimal.NewFromInt(1000)}
	h := newHarness(t, func(f *fakeBackend) {
		f.goals.rows = []models.FinanceGoal{goal}
	})
	releaseList := h.fake.goals.hold("list")
	defer releaseList()

	loaded := make(chan error, 1)
	go func() { loaded <- h.store.Associate(context.Background(), h.user) }()
	waitFor(t, func() bool { return h.fake.goals.callCount("list") == 2 })

	added, err := waitOp(t, h.store.AddGoal(models.FinanceGoal{Name: "Carro", TargetAmount: decimal.NewFromInt(30000)}))
	if err != nil {
		t.Fatal(err)
	}
	name := "Viagem para Recife"
	if _, err := waitOp(t, h.store.UpdateGoal(goal.ID, models.GoalPatch{Name: &name})); err != nil {
		t.Fatal(err)
	}

	releaseList()
	if err := <-loaded; err != nil {
		t.Fatal(err)
	}

	got := h.store.Goals()
	if len(got) != 2 {
		t.Fatalf("goals = %+v, want 2", got)
	}
	if got[0].ID != goal.ID || got[0].Name != name || got[1].ID != added.ID {
		t.Errorf("goals = %+v", got)
	}
}

func TestDissociateDuringLoadCancelsProfileInsert(t *testing.T) {
	fake := newFakeBackend()
	release := fake.profiles.hold("insert")
	defer release()
	s, err := New(Options{Backend: fake.backend()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	loaded := make(chan error, 1)
	go func() { loaded <- s.Associate(context.Background(), models.Identity{UserID: uuid.New(), Email: "ana@example.com"}) }()
	waitFor(t, func() bool { return fake.profiles.callCount("insert") == 1 })

	s.Dissociate()
	select {
	case err := <-loaded:
		if !errors.Is(err, ErrStale) {
			t.Errorf("err = %v, want ErrStale", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("profile insert was not cancelled by Dissociate")
	}
	if len(fake.profiles.snapshot()) != 0 {
		t.Error("profile stored after Dissociate")
	}
}
