// Package bucket aggregates one day of entries into the live status
// board: members grouped by identical active time window, plus off and
// leave groups.
package bucket

import (
	"fmt"
	"sort"

	"github.com/secopshq/shiftboard/pkg/config"
	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/timeutil"
)

// Member is one person's placement on the board.
type Member struct {
	Name   string  `json:"name"`
	Team   string  `json:"team"`
	IsLead bool    `json:"isLead"`
	StartH float64 `json:"startH"`
}

// Bucket groups members sharing an identical (start, end) time window,
// across teams. Keyed by the exact time-string pair, not shift id: two
// teams whose standard shifts share hours land together.
type Bucket struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	TimeLabel string   `json:"timeLabel"`
	StartH    float64  `json:"startH"`
	IsNow     bool     `json:"isNow"`
	Teams     []string `json:"teams"`
	Members   []Member `json:"members"`
}

// OffGroup holds the members without an active window today.
type OffGroup struct {
	Label   string   `json:"label"`
	Members []Member `json:"members"`
}

// Staffing are the day's headline counts, over the whole roster.
type Staffing struct {
	Active  int `json:"active"`
	OnLeave int `json:"onLeave"`
	WFH     int `json:"wfh"`
}

// Board is the assembled day view.
type Board struct {
	Active []Bucket   `json:"active"`
	Off    []OffGroup `json:"off"`
	Stats  Staffing   `json:"stats"`
}

// Build assembles the board for one day. visible filters which members
// appear in buckets (a MEMBER role sees only their own team); nil shows
// everyone. Stats always cover the full roster. nowH is the current
// fractional hour used for the is-now highlight.
func Build(roster *config.Provider, month models.MonthSchedule, day int, nowH float64, visible func(member, teamKey string) bool) Board {
	board := Board{Active: []Bucket{}, Off: []OffGroup{}}
	buckets := make(map[string]*Bucket)
	bucketTeams := make(map[string]map[string]bool)
	leave := OffGroup{Label: "On Leave"}
	off := OffGroup{Label: "Off Today"}

	for _, team := range roster.Teams() {
		for _, name := range team.Members {
			entry := month[name][day]

			switch entry.Modifier {
			case models.StatusPaidLeave:
				board.Stats.OnLeave++
			case models.StatusWFH:
				board.Stats.WFH++
				board.Stats.Active++
			case models.StatusOnSite, models.StatusWeekend:
				board.Stats.Active++
			}

			if visible != nil && !visible(name, team.Key) {
				continue
			}

			item := Member{Name: name, Team: team.Key, IsLead: roster.IsLead(name)}

			if entry.Shift == nil || entry.Modifier.ClearsShift() {
				if entry.Modifier == models.StatusPaidLeave {
					leave.Members = append(leave.Members, item)
				} else {
					off.Members = append(off.Members, item)
				}
				continue
			}

			item.StartH = entry.Shift.StartH
			key := entry.Shift.Start + "-" + entry.Shift.End
			b, ok := buckets[key]
			if !ok {
				b = &Bucket{
					Key:       key,
					Label:     bucketLabel(entry.Shift),
					TimeLabel: timeLabel(entry.Shift),
					StartH:    entry.Shift.StartH,
					IsNow:     isNow(entry.Shift, nowH),
				}
				buckets[key] = b
				bucketTeams[key] = make(map[string]bool)
			}
			bucketTeams[key][team.Key] = true
			b.Members = append(b.Members, item)
		}
	}

	for key, b := range buckets {
		for tk := range bucketTeams[key] {
			b.Teams = append(b.Teams, tk)
		}
		sort.Strings(b.Teams)
		sortMembers(b.Members)
		board.Active = append(board.Active, *b)
	}

	// Chronological bucket order in a diurnal sense: very late starts
	// (>= 20) sort as negative so night-shift staff lead the board.
	sort.SliceStable(board.Active, func(i, j int) bool {
		return effectiveHour(board.Active[i].StartH) < effectiveHour(board.Active[j].StartH)
	})

	sortMembers(leave.Members)
	sortMembers(off.Members)
	if len(leave.Members) > 0 {
		board.Off = append(board.Off, leave)
	}
	if len(off.Members) > 0 {
		board.Off = append(board.Off, off)
	}
	return board
}

// sortMembers orders a group lead-first, then by shift start hour, then
// by name.
func sortMembers(ms []Member) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.IsLead != b.IsLead {
			return a.IsLead
		}
		if a.StartH != b.StartH {
			return a.StartH < b.StartH
		}
		return a.Name < b.Name
	})
}

func effectiveHour(startH float64) float64 {
	if startH >= 20 {
		return startH - 24
	}
	return startH
}

func bucketLabel(shift *models.ShiftInstance) string {
	if shift.IsCustom {
		return "Custom"
	}
	if shift.ID != "" {
		return "Shift " + shift.ID
	}
	return "Shift"
}

func timeLabel(shift *models.ShiftInstance) string {
	start, err := timeutil.Clock12(shift.Start)
	if err != nil {
		start = shift.Start
	}
	end, err := timeutil.Clock12(shift.End)
	if err != nil {
		end = shift.End
	}
	return fmt.Sprintf("%s – %s", start, end)
}

// isNow reports whether nowH falls inside [startH, adjustedEnd), where
// an end before the start is pushed past midnight.
func isNow(shift *models.ShiftInstance, nowH float64) bool {
	end := shift.EndH
	if end < shift.StartH {
		end += 24
	}
	return nowH >= shift.StartH && nowH < end
}
