// Package coverage computes handover-window staffing for a single day.
package coverage

import (
	"github.com/secopshq/shiftboard/pkg/models"
)

// Record is the analysis result for one (team, handover window) pair.
type Record struct {
	Team     string   `json:"team"`
	Window   string   `json:"window"`
	Risk     bool     `json:"risk"`
	Active   int      `json:"active"`
	Required int      `json:"required"`
	Members  []string `json:"members"`
}

// Analyze reports, per team and per handover window, which members hold
// a shift spanning the whole window on the given day. Output order is
// team declaration order crossed with window declaration order; teams
// without windows contribute nothing. Pure: same inputs, same output.
//
// Shift hours are start-of-day relative (overnight EndH >= 24) while
// windows live in the plain 0-24 domain. The comparison is deliberately
// kept in those mixed domains to match the deployed behavior: an
// early-morning window is never credited to the previous day's overnight
// shift.
func Analyze(teams []models.Team, month models.MonthSchedule, day int) []Record {
	var out []Record
	for _, team := range teams {
		for _, hw := range team.HandoverWindows {
			var active []string
			for _, member := range team.Members {
				entry, ok := month[member][day]
				if !ok || entry.Shift == nil || entry.Modifier.ClearsShift() {
					continue
				}
				if entry.Shift.StartH <= hw.Start && entry.Shift.EndH >= hw.End {
					active = append(active, member)
				}
			}
			out = append(out, Record{
				Team:     team.Key,
				Window:   hw.Label,
				Risk:     len(active) < team.MinCoverage,
				Active:   len(active),
				Required: team.MinCoverage,
				Members:  active,
			})
		}
	}
	return out
}
