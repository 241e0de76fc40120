// Package scheduling materializes learning-path assignments from recurring
// assignment rules.
package scheduling

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ParseRecurrence validates and parses a rule's cron recurrence expression.
// Standard five-field cron syntax plus descriptors like @weekly are accepted.
func ParseRecurrence(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence %q: %w", spec, err)
	}
	return schedule, nil
}

// RuleDue reports whether a rule should fire now, given the last time it ran.
// A rule that has never run is anchored at its creation time.
func RuleDue(spec string, lastRun *time.Time, createdAt, now time.Time) (bool, error) {
	schedule, err := ParseRecurrence(spec)
	if err != nil {
		return false, err
	}

	anchor := createdAt
	if lastRun != nil {
		anchor = *lastRun
	}
	return !schedule.Next(anchor).After(now), nil
}

// Describe renders a recurrence expression for display. Common descriptors
// get friendly names; anything else is shown as raw cron.
func Describe(spec string) string {
	switch spec {
	case "@hourly":
		return "every hour"
	case "@daily", "@midnight":
		return "every day"
	case "@weekly":
		return "every week"
	case "@monthly":
		return "every month"
	case "@yearly", "@annually":
		return "every year"
	}
	return "cron: " + spec
}
