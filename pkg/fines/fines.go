package fines

import (
	"math"
	"time"
)

// Charges for overdue loans: a flat amount for the first late day, then a
// smaller amount for every additional day.
const (
	FirstDayCharge = 50
	PerDayCharge   = 5
)

// LateDays returns how many days late a loan is at ref, rounding any partial
// day up. Zero when ref is at or before the due date: a loan is not overdue
// until strictly after it falls due.
func LateDays(dueDate, ref time.Time) int {
	if !ref.After(dueDate) {
		return 0
	}
	return int(math.Ceil(ref.Sub(dueDate).Hours() / 24))
}

// Compute is the single source of truth for fine amounts. Every call site
// (dashboards, admin listing, payment, return confirmation) must go through
// it so the displayed and charged amounts never disagree.
//
// For a returned loan the frozen amount recorded at confirmation time is
// final and returned as-is. For an active loan the fine is derived from the
// due date and ref; nothing stored on the loan is trusted, since no
// background job keeps it current.
func Compute(dueDate, ref time.Time, returned bool, frozen int) int {
	if returned {
		return frozen
	}
	lateDays := LateDays(dueDate, ref)
	if lateDays <= 0 {
		return 0
	}
	return FirstDayCharge + (lateDays-1)*PerDayCharge
}
