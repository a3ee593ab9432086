package dto

import (
	"family-finance/internal/models"

	"github.com/shopspring/decimal"
)

type CreateGoalRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	TargetAmount  decimal.Decimal  `json:"targetAmount"`
	CurrentAmount decimal.Decimal  `json:"currentAmount"`
	Category      string           `json:"category"`
	Deadline      models.Date      `json:"deadline"`
	YieldType     models.YieldType `json:"yieldType,omitempty"`
}

func (r CreateGoalRequest) Validate() error {
	return firstError(
		required("name", r.Name),
		positive("targetAmount", r.TargetAmount),
		notNegative("currentAmount", r.CurrentAmount),
		yieldType(r.YieldType),
	)
}

func (r CreateGoalRequest) ToModel() models.FinanceGoal {
	return models.FinanceGoal{
		Name:          r.Name,
		Description:   r.Description,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Category:      r.Category,
		Deadline:      r.Deadline,
		Status:        models.GoalActive,
		YieldType:     r.YieldType,
	}
}

type UpdateGoalRequest models.GoalPatch

func (r UpdateGoalRequest) Validate() error {
	var errs []error
	if r.Name != nil {
		errs = append(errs, required("name", *r.Name))
	}
	if r.TargetAmount != nil {
		errs = append(errs, positive("targetAmount", *r.TargetAmount))
	}
	if r.CurrentAmount != nil {
		errs = append(errs, notNegative("currentAmount", *r.CurrentAmount))
	}
	if r.Status != nil && *r.Status != models.GoalActive && *r.Status != models.GoalArchived {
		errs = append(errs, invalid("status must be active or archived"))
	}
	if r.YieldType != nil {
		errs = append(errs, yieldType(*r.YieldType))
	}
	return firstError(errs...)
}

func (r UpdateGoalRequest) ToPatch() models.GoalPatch {
	return models.GoalPatch(r)
}

// ContributionRequest deposits Amount into a goal.
type ContributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r ContributionRequest) Validate() error {
	return positive("amount", r.Amount)
}

// GoalResponse is a goal plus its progress percentage.
type GoalResponse struct {
	models.FinanceGoal
	Progress float64 `json:"progress"`
}

func yieldType(y models.YieldType) error {
	if !y.IsValid() {
		return invalid("unknown yieldType %q", y)
	}
	return nil
}
