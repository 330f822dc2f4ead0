package models

import "time"

// DateRange is an inclusive instant range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FilterKind tags the active variant of a FilterSelection.
type FilterKind string

const (
	FilterNone  FilterKind = "none"
	FilterMonth FilterKind = "month"
	FilterRange FilterKind = "range"
)

// FilterSelection is the mutually-exclusive dashboard filter state: either a
// month-window slot index, an explicit date range, or nothing. Modelling it
// as a tagged union rules out both being set at once.
type FilterSelection struct {
	Kind       FilterKind `json:"kind"`
	MonthIndex int        `json:"monthIndex,omitempty"`
	Range      *DateRange `json:"range,omitempty"`
}

// NoFilter returns the cleared selection.
func NoFilter() FilterSelection {
	return FilterSelection{Kind: FilterNone}
}

// MonthFilter selects a month-window slot, implicitly clearing any explicit
// range.
func MonthFilter(index int) FilterSelection {
	return FilterSelection{Kind: FilterMonth, MonthIndex: index}
}

// RangeFilter selects an explicit date range, implicitly clearing any month
// slot.
func RangeFilter(start, end time.Time) FilterSelection {
	return FilterSelection{Kind: FilterRange, Range: &DateRange{Start: start, End: end}}
}
