// Package bulk plans and applies multi-cell shift assignments: one
// shift/status template written across a member set and a date range.
package bulk

import (
	"fmt"
	"strings"
	"time"

	"github.com/secopshq/shiftboard/pkg/config"
	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/store"
	"github.com/secopshq/shiftboard/pkg/timeutil"
)

// ErrRangeInverted rejects bulk ranges whose end precedes their start.
var ErrRangeInverted = fmt.Errorf("bulk range end date precedes start date")

// Clash is an advisory conflict: a (member, date) cell that already
// holds Paid Leave. Clashes warn, they do not block.
type Clash struct {
	Member string        `json:"member"`
	Date   string        `json:"date"`
	Was    models.Status `json:"was"`
}

// Report is the pre-flight summary shown before an apply.
type Report struct {
	TotalShifts int     `json:"totalShifts"`
	Clashes     []Clash `json:"clashes"`
}

// Plan is a fully resolved bulk assignment.
type Plan struct {
	Members []string
	Shift   *models.ShiftInstance
	Status  models.Status
	Dates   []time.Time
}

// CanApply reports whether the plan is complete enough to run. An
// incomplete plan applies as a no-op, never partially.
func (p *Plan) CanApply() bool {
	return len(p.Members) > 0 && len(p.Dates) > 0 && p.Shift != nil
}

// ParseDay parses a "YYYY-MM-DD" bulk range bound.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ComputeDateRange walks day by day from start to end inclusive,
// dropping Saturdays and Sundays when skipWeekends is set. end before
// start yields an empty range: the walk never runs backward.
func ComputeDateRange(start, end time.Time, skipWeekends bool) []time.Time {
	var days []time.Time
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if skipWeekends {
			if dow := cur.Weekday(); dow == time.Saturday || dow == time.Sunday {
				continue
			}
		}
		days = append(days, cur)
	}
	return days
}

// Planner resolves shift templates against the roster and applies plans
// onto store snapshots.
type Planner struct {
	Roster *config.Provider
	Blank  store.Filler
}

// ResolveStandard resolves a "{teamKey}-{shiftID}" selector to a copy of
// that team's standard shift.
func (p *Planner) ResolveStandard(selector string) (*models.ShiftInstance, error) {
	dash := strings.Index(selector, "-")
	if dash < 0 {
		return nil, fmt.Errorf("invalid shift selector %q, want TEAM-ID", selector)
	}
	teamKey, shiftID := selector[:dash], selector[dash+1:]
	s, ok := p.Roster.StandardShift(teamKey, shiftID)
	if !ok {
		return nil, fmt.Errorf("unknown shift %q for team %q", shiftID, teamKey)
	}
	return s.Instance(), nil
}

// ResolveCustom builds an ad hoc shift from clock strings. Hours are
// validated here so a malformed template fails before any cell is
// touched.
func (p *Planner) ResolveCustom(start, end string) (*models.ShiftInstance, error) {
	startH, err := timeutil.ParseClock(start)
	if err != nil {
		return nil, err
	}
	endH, err := timeutil.ParseClock(end)
	if err != nil {
		return nil, err
	}
	return &models.ShiftInstance{
		ID:       models.CustomShiftID,
		Label:    "Custom",
		Start:    start,
		End:      end,
		StartH:   startH,
		EndH:     endH,
		IsCustom: true,
	}, nil
}

// Preflight computes the operation count and Paid Leave clashes for the
// cross product of members and dates. Only Paid Leave counts: the point
// is protecting booked leave, not arbitrary prior edits.
func Preflight(members []string, dates []time.Time, all models.AllSchedules) Report {
	report := Report{Clashes: []Clash{}}
	for _, member := range members {
		for _, date := range dates {
			report.TotalShifts++
			key := timeutil.MonthKey(date.Year(), int(date.Month())-1)
			entry, ok := all[key][member][date.Day()]
			if ok && entry.Modifier == models.StatusPaidLeave {
				report.Clashes = append(report.Clashes, Clash{
					Member: member,
					Date:   date.Format("Jan 2"),
					Was:    entry.Modifier,
				})
			}
		}
	}
	return report
}

// Apply writes the plan onto the snapshot and returns it, creating any
// missing months blank first. The member's team comes from the static
// roster, not from whatever filter selected them. The caller publishes
// the returned value in one step; this function never touches shared
// state. Returns applied=false (and an untouched snapshot) when the
// plan's guard fails.
func (p *Planner) Apply(plan Plan, snapshot models.AllSchedules) (models.AllSchedules, bool, error) {
	if !plan.CanApply() {
		return snapshot, false, nil
	}
	if !plan.Status.Valid() {
		return snapshot, false, fmt.Errorf("invalid status %q", plan.Status)
	}

	for _, member := range plan.Members {
		teamKey, ok := p.Roster.MemberTeam(member)
		if !ok {
			return snapshot, false, fmt.Errorf("member %q not in roster", member)
		}
		for _, date := range plan.Dates {
			year, month0, day := date.Year(), int(date.Month())-1, date.Day()
			key := timeutil.MonthKey(year, month0)
			month, exists := snapshot[key]
			if !exists {
				month = p.Blank.Fill(year, month0)
				snapshot[key] = month
			}
			row, exists := month[member]
			if !exists {
				row = make(map[int]models.ScheduleEntry)
				month[member] = row
			}

			entry := models.ScheduleEntry{
				Modifier: plan.Status,
				Team:     teamKey,
			}
			if !plan.Status.ClearsShift() {
				shift := *plan.Shift
				entry.Shift = &shift
			}
			row[day] = entry
		}
	}
	return snapshot, true, nil
}

// Summary renders the audit detail line for an applied plan.
func (p *Plan) Summary() string {
	if len(p.Dates) == 0 {
		return "empty range"
	}
	first := p.Dates[0].Format("2006-01-02")
	last := p.Dates[len(p.Dates)-1].Format("2006-01-02")
	total := len(p.Members) * len(p.Dates)
	return fmt.Sprintf("Range: %s to %s · %d shifts · Status: %s", first, last, total, p.Status)
}
