package store

import (
	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Store) transactionsBinding() binding[models.Transaction, models.TransactionPatch] {
	return binding[models.Transaction, models.TransactionPatch]{
		entity: models.EntityTransaction, coll: &s.transactions, table: s.backend.Transactions,
	}
}

func (s *Store) goalsBinding() binding[models.FinanceGoal, models.GoalPatch] {
	return binding[models.FinanceGoal, models.GoalPatch]{
		entity: models.EntityGoal, coll: &s.goals, table: s.backend.Goals,
	}
}

func (s *Store) cardsBinding() binding[models.CreditCard, models.CardPatch] {
	return binding[models.CreditCard, models.CardPatch]{
		entity: models.EntityCard, coll: &s.cards, table: s.backend.Cards,
	}
}

func (s *Store) accountsBinding() binding[models.BankAccount, models.AccountPatch] {
	return binding[models.BankAccount, models.AccountPatch]{
		entity: models.EntityAccount, coll: &s.accounts, table: s.backend.Accounts,
	}
}

func (s *Store) membersBinding() binding[models.FamilyMember, models.MemberPatch] {
	return binding[models.FamilyMember, models.MemberPatch]{
		entity: models.EntityMember, coll: &s.members, table: s.backend.Profiles,
	}
}

func (s *Store) categoriesBinding() binding[models.Category, models.CategoryPatch] {
	return binding[models.Category, models.CategoryPatch]{
		entity: models.EntityCategory, coll: &s.categories, table: s.backend.Categories,
	}
}

// AddTransaction records t. Its Source is resolved from AccountID against
// the known cards. Amount validation is the caller's job.
func (s *Store) AddTransaction(t models.Transaction) *Op[models.Transaction] {
	return insert(s, s.transactionsBinding(), t.Clone(), func(t models.Transaction) models.Transaction {
		t.Source = s.sourceOfLocked(t.AccountID)
		if t.Status == "" {
			t.Status = models.StatusCompleted
		}
		return t
	})
}

func (s *Store) UpdateTransaction(id uuid.UUID, patch models.TransactionPatch) *Op[models.Transaction] {
	return updateWith(s, s.transactionsBinding(), models.OpUpdate, id, func(models.Transaction) models.TransactionPatch {
		if patch.AccountID != nil {
			src := s.sourceOfLocked(*patch.AccountID)
			patch.Source = &src
		}
		return patch
	})
}

func (s *Store) DeleteTransaction(id uuid.UUID) *Op[models.Transaction] {
	return remove(s, s.transactionsBinding(), id)
}

func (s *Store) AddGoal(g models.FinanceGoal) *Op[models.FinanceGoal] {
	return insert(s, s.goalsBinding(), g, func(g models.FinanceGoal) models.FinanceGoal {
		if g.Status == "" {
			g.Status = models.GoalActive
		}
		return g
	})
}

func (s *Store) UpdateGoal(id uuid.UUID, patch models.GoalPatch) *Op[models.FinanceGoal] {
	return update(s, s.goalsBinding(), id, patch)
}

func (s *Store) DeleteGoal(id uuid.UUID) *Op[models.FinanceGoal] {
	return remove(s, s.goalsBinding(), id)
}

// AddGoalContribution adds amount to the goal's current amount and persists
// the resulting total.
func (s *Store) AddGoalContribution(id uuid.UUID, amount decimal.Decimal) *Op[models.FinanceGoal] {
	return updateWith(s, s.goalsBinding(), models.OpContribute, id, func(g models.FinanceGoal) models.GoalPatch {
		total := g.CurrentAmount.Add(amount)
		return models.GoalPatch{CurrentAmount: &total}
	})
}

func (s *Store) AddCard(c models.CreditCard) *Op[models.CreditCard] {
	return insert(s, s.cardsBinding(), c, nil)
}

func (s *Store) UpdateCard(id uuid.UUID, patch models.CardPatch) *Op[models.CreditCard] {
	return update(s, s.cardsBinding(), id, patch)
}

func (s *Store) DeleteCard(id uuid.UUID) *Op[models.CreditCard] {
	return remove(s, s.cardsBinding(), id)
}

func (s *Store) AddAccount(a models.BankAccount) *Op[models.BankAccount] {
	return insert(s, s.accountsBinding(), a, nil)
}

func (s *Store) UpdateAccount(id uuid.UUID, patch models.AccountPatch) *Op[models.BankAccount] {
	return update(s, s.accountsBinding(), id, patch)
}

func (s *Store) DeleteAccount(id uuid.UUID) *Op[models.BankAccount] {
	return remove(s, s.accountsBinding(), id)
}

func (s *Store) AddMember(m models.FamilyMember) *Op[models.FamilyMember] {
	return insert(s, s.membersBinding(), m, func(m models.FamilyMember) models.FamilyMember {
		if m.Role == "" {
			m.Role = models.DefaultMemberRole
		}
		return m
	})
}

func (s *Store) UpdateMember(id uuid.UUID, patch models.MemberPatch) *Op[models.FamilyMember] {
	return update(s, s.membersBinding(), id, patch)
}

func (s *Store) DeleteMember(id uuid.UUID) *Op[models.FamilyMember] {
	return remove(s, s.membersBinding(), id)
}

func (s *Store) AddCategory(c models.Category) *Op[models.Category] {
	return insert(s, s.categoriesBinding(), c, nil)
}

func (s *Store) UpdateCategory(id uuid.UUID, patch models.CategoryPatch) *Op[models.Category] {
	return update(s, s.categoriesBinding(), id, patch)
}

func (s *Store) DeleteCategory(id uuid.UUID) *Op[models.Category] {
	return remove(s, s.categoriesBinding(), id)
}

// TransactionStatus reports whether the transaction with id is still pending.
func (s *Store) TransactionStatus(id uuid.UUID) (SyncStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions.statusOf(id)
}
