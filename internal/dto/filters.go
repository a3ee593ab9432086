package dto

import (
	"strings"

	"family-finance/internal/models"

	"github.com/google/uuid"
)

// FilterRequest changes the active filters. MemberID "all" or "" selects
// every member.
type FilterRequest struct {
	MemberID        *string            `json:"memberId,omitempty"`
	DateRange       *models.DateRange  `json:"dateRange,omitempty"`
	TransactionType *models.TypeFilter `json:"transactionType,omitempty"`
	SearchQuery     *string            `json:"searchQuery,omitempty"`
}

func (r FilterRequest) ToPatch() (models.FilterPatch, error) {
	var p models.FilterPatch
	if r.MemberID != nil {
		member := uuid.NullUUID{}
		if raw := strings.TrimSpace(*r.MemberID); raw != "" && raw != string(models.TypeAll) {
			id, err := uuid.Parse(raw)
			if err != nil {
				return p, invalid("memberId must be a uuid or \"all\"")
			}
			member = uuid.NullUUID{UUID: id, Valid: true}
		}
		p.MemberID = &member
	}
	if r.DateRange != nil {
		dr := *r.DateRange
		if !dr.Start.IsZero() && !dr.End.IsZero() && dr.Start.Compare(dr.End) > 0 {
			return p, invalid("dateRange start is after end")
		}
		p.DateRange = &dr
	}
	if r.TransactionType != nil {
		if !r.TransactionType.IsValid() {
			return p, invalid("transactionType must be all, income or expense")
		}
		t := *r.TransactionType
		p.TransactionType = &t
	}
	if r.SearchQuery != nil {
		p.SearchQuery = cleanTextPtr(r.SearchQuery)
	}
	return p, nil
}
