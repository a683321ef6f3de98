// Package schedule drives scheduled payments: it computes occurrence dates,
// moves schedules between lifecycle states and executes the ones that are due.
package schedule

import (
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/models"
)

// NextDate returns from plus one period of f. Month based periods keep the day
// of month when the target month has it and clamp to its last day otherwise,
// so 2025-01-31 plus one month is 2025-02-28. One-time schedules have no next
// date and get from back.
func NextDate(from time.Time, f models.Frequency) time.Time {
	switch f {
	case models.FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return addMonths(from, 1)
	case models.FrequencyQuarterly:
		return addMonths(from, 3)
	case models.FrequencyYearly:
		return addMonths(from, 12)
	}
	return from
}

func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// Pause stops an active schedule.
func Pause(sp *models.ScheduledPayment) error {
	if sp.Status != models.ScheduleActive {
		return apperr.InvalidState("only active schedules can be paused")
	}
	sp.Status = models.SchedulePaused
	return nil
}

// Cancel ends an active or paused schedule for good.
func Cancel(sp *models.ScheduledPayment) error {
	switch sp.Status {
	case models.ScheduleActive, models.SchedulePaused:
		sp.Status = models.ScheduleCancelled
		return nil
	}
	return apperr.InvalidState("only active or paused schedules can be cancelled")
}

// Resume reactivates a paused schedule. Recurring schedules continue one period
// after now rather than catching up on the runs missed while paused.
func Resume(sp *models.ScheduledPayment, now time.Time) error {
	if sp.Status != models.SchedulePaused {
		return apperr.InvalidState("only paused schedules can be resumed")
	}
	if sp.Ended(now) {
		return apperr.InvalidState("schedule ended")
	}
	sp.Status = models.ScheduleActive
	if sp.IsRecurring() {
		next := NextDate(now, sp.Frequency)
		sp.NextScheduled = &next
	}
	return nil
}

// Advance records a run at ranAt and moves the schedule to its next date. One-time
// schedules and schedules whose next date would pass the end date complete.
func Advance(sp *models.ScheduledPayment, ranAt time.Time) {
	sp.LastProcessed = &ranAt
	sp.TimesProcessed++

	if !sp.IsRecurring() || sp.NextScheduled == nil {
		sp.Status = models.ScheduleCompleted
		return
	}

	next := NextDate(*sp.NextScheduled, sp.Frequency)
	if sp.EndDate != nil && next.After(*sp.EndDate) {
		sp.Status = models.ScheduleCompleted
		return
	}
	sp.NextScheduled = &next
}
