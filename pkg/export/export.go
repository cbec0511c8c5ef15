// Package export renders the currently viewed month in the two
// interchange formats consumed by downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/secopshq/shiftboard/pkg/models"
)

// monthDump is the JSON export envelope: the viewed month only.
type monthDump struct {
	Schedule models.MonthSchedule `json:"schedule"`
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
}

// MonthJSON dumps one month as {schedule, year, month}. month0 is
// zero-based, matching the store keys.
func MonthJSON(month models.MonthSchedule, year, month0 int) ([]byte, error) {
	return json.MarshalIndent(monthDump{Schedule: month, Year: year, Month: month0}, "", "  ")
}

// MonthCSV renders one row per (member, day): Member, Team, Day, Shift
// id (empty for off days), Status — with a trailing Note column when
// includeNotes is set. Rows follow team declaration order, then roster
// member order, then day.
func MonthCSV(teams []models.Team, month models.MonthSchedule, includeNotes bool) (string, error) {
	var out strings.Builder
	w := csv.NewWriter(&out)

	header := []string{"Member", "Team", "Day", "Shift", "Status"}
	if includeNotes {
		header = append(header, "Note")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, team := range teams {
		for _, member := range team.Members {
			row := month[member]
			days := make([]int, 0, len(row))
			for d := range row {
				days = append(days, d)
			}
			sort.Ints(days)
			for _, d := range days {
				entry := row[d]
				shiftID := ""
				if entry.Shift != nil {
					shiftID = entry.Shift.ID
				}
				rec := []string{member, team.Key, strconv.Itoa(d), shiftID, string(entry.Modifier)}
				if includeNotes {
					rec = append(rec, entry.Note)
				}
				if err := w.Write(rec); err != nil {
					return "", err
				}
			}
		}
	}

	w.Flush()
	return out.String(), w.Error()
}
