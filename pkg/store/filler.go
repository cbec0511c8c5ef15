package store

import (
	"math/rand"

	"github.com/secopshq/shiftboard/pkg/config"
	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/timeutil"
)

// Filler synthesizes a month schedule the first time a month is viewed
// or edited. It is demo-data plumbing, not a correctness contract.
type Filler interface {
	Fill(year, month0 int) models.MonthSchedule
}

// BlankFiller produces an all-Off month for every roster member.
type BlankFiller struct {
	Roster *config.Provider
}

func (f *BlankFiller) Fill(year, month0 int) models.MonthSchedule {
	days := timeutil.DaysInMonth(year, month0)
	sched := make(models.MonthSchedule)
	for _, team := range f.Roster.Teams() {
		for _, member := range team.Members {
			row := make(map[int]models.ScheduleEntry, days)
			for d := 1; d <= days; d++ {
				row[d] = models.ScheduleEntry{Modifier: models.StatusOff}
			}
			sched[member] = row
		}
	}
	return sched
}

// DemoFiller produces a plausible staffed month: members rotate through
// their team's standard shifts with occasional leave, WFH and scheduled
// weekends mixed in. Seeded per (year, month) so repeated generation of
// the same month is identical.
type DemoFiller struct {
	Roster *config.Provider
}

func (f *DemoFiller) Fill(year, month0 int) models.MonthSchedule {
	days := timeutil.DaysInMonth(year, month0)
	rng := rand.New(rand.NewSource(int64(year)*100 + int64(month0)))
	sched := make(models.MonthSchedule)
	for _, team := range f.Roster.Teams() {
		for mIdx, member := range team.Members {
			row := make(map[int]models.ScheduleEntry, days)
			for d := 1; d <= days; d++ {
				shiftIdx := (mIdx*3 + d/3) % len(team.StandardShifts)
				shift := team.StandardShifts[shiftIdx]

				modifier := models.StatusOnSite
				if timeutil.IsWeekend(year, month0, d) {
					if rng.Float64() > 0.55 {
						modifier = models.StatusOff
					} else {
						modifier = models.StatusWeekend
					}
				} else if rng.Float64() > 0.93 {
					modifier = models.StatusPaidLeave
				} else if rng.Float64() > 0.88 {
					modifier = models.StatusWFH
				}

				entry := models.ScheduleEntry{
					Modifier: modifier,
					Team:     team.Key,
				}
				if !modifier.ClearsShift() {
					entry.Shift = shift.Instance()
				}
				row[d] = entry
			}
			sched[member] = row
		}
	}
	return sched
}
