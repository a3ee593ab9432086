package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalArchived GoalStatus = "archived"
)

// YieldType names the investment vehicle a goal's money sits in. Display only.
type YieldType string

const (
	YieldCDI          YieldType = "cdi"
	YieldPoupanca     YieldType = "poupanca"
	YieldTesouroSelic YieldType = "tesouro_selic"
	YieldCDB          YieldType = "cdb"
	YieldLCILCA       YieldType = "lci_lca"
	YieldFixed        YieldType = "fixed"
)

func (y YieldType) IsValid() bool {
	switch y {
	case "", YieldCDI, YieldPoupanca, YieldTesouroSelic, YieldCDB, YieldLCILCA, YieldFixed:
		return true
	}
	return false
}

// FinanceGoal is a savings target ("caixinha").
type FinanceGoal struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount" db:"target_amount"`
	CurrentAmount decimal.Decimal `json:"currentAmount" db:"current_amount"`
	Category      string          `json:"category" db:"category"`
	Deadline      Date            `json:"deadline" db:"deadline"`
	Status        GoalStatus      `json:"status" db:"status"`
	YieldType     YieldType       `json:"yieldType,omitempty" db:"yield_type"`
}

func (g FinanceGoal) GetID() uuid.UUID { return g.ID }

func (g FinanceGoal) WithID(id uuid.UUID) FinanceGoal {
	g.ID = id
	return g
}

// Progress is CurrentAmount/TargetAmount as a percentage. It may exceed 100.
func (g FinanceGoal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

type GoalPatch struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Deadline      *Date            `json:"deadline,omitempty"`
	Status        *GoalStatus      `json:"status,omitempty"`
	YieldType     *YieldType       `json:"yieldType,omitempty"`
}

func (p GoalPatch) Apply(g FinanceGoal) FinanceGoal {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.YieldType != nil {
		g.YieldType = *p.YieldType
	}
	return g
}

func (p GoalPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.TargetAmount != nil {
		cols["target_amount"] = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		cols["current_amount"] = *p.CurrentAmount
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Deadline != nil {
		cols["deadline"] = *p.Deadline
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.YieldType != nil {
		cols["yield_type"] = string(*p.YieldType)
	}
	return cols
}
