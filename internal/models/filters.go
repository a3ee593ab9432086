package models

import (
	"time"

	"github.com/google/uuid"
)

// TypeFilter restricts transactions by direction; TypeAll disables it.
type TypeFilter string

const (
	TypeAll         TypeFilter = "all"
	TypeOnlyIncome  TypeFilter = TypeFilter(TypeIncome)
	TypeOnlyExpense TypeFilter = TypeFilter(TypeExpense)
)

func (t TypeFilter) IsValid() bool {
	return t == TypeAll || t == TypeOnlyIncome || t == TypeOnlyExpense
}

// DateRange is an inclusive calendar-day interval. A zero bound is open.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains reports whether d falls in the range. A zero d is never contained
// in a bounded range.
func (r DateRange) Contains(d Date) bool {
	if r.Start.IsZero() && r.End.IsZero() {
		return true
	}
	if d.IsZero() {
		return false
	}
	if !r.Start.IsZero() && d.Compare(r.Start) < 0 {
		return false
	}
	if !r.End.IsZero() && d.Compare(r.End) > 0 {
		return false
	}
	return true
}

// MonthRange returns the first to last day of t's month.
func MonthRange(t time.Time) DateRange {
	first := NewDate(t.Year(), t.Month(), 1)
	last := DateOf(first.AddDate(0, 1, -1))
	return DateRange{Start: first, End: last}
}

// GlobalFilters is the one active filter shared by every view.
type GlobalFilters struct {
	MemberID        uuid.NullUUID `json:"memberId"`
	DateRange       DateRange     `json:"dateRange"`
	TransactionType TypeFilter    `json:"transactionType"`
	SearchQuery     string        `json:"searchQuery"`
}

// DefaultFilters selects every member and type over now's calendar month.
func DefaultFilters(now time.Time) GlobalFilters {
	return GlobalFilters{
		DateRange:       MonthRange(now),
		TransactionType: TypeAll,
	}
}

// FilterPatch carries the filter fields to change; nil fields keep their value.
// A MemberID with Valid=false selects all members.
type FilterPatch struct {
	MemberID        *uuid.NullUUID
	DateRange       *DateRange
	TransactionType *TypeFilter
	SearchQuery     *string
}

func (p FilterPatch) Apply(f GlobalFilters) GlobalFilters {
	if p.MemberID != nil {
		f.MemberID = *p.MemberID
	}
	if p.DateRange != nil {
		f.DateRange = *p.DateRange
	}
	if p.TransactionType != nil {
		f.TransactionType = *p.TransactionType
	}
	if p.SearchQuery != nil {
		f.SearchQuery = *p.SearchQuery
	}
	return f
}
