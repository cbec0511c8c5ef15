package models

// Status is the day-level state of a member. The string forms are the
// persisted format and must not change without migrating stored blobs.
type Status string

const (
	StatusOnSite    Status = "On-Site"
	StatusWFH       Status = "WFH"
	StatusPaidLeave Status = "Paid Leave"
	StatusOff       Status = "Off"
	StatusWeekend   Status = "Weekend Scheduled"
)

// AllStatuses lists every valid status in display order.
var AllStatuses = []Status{StatusOnSite, StatusWFH, StatusPaidLeave, StatusOff, StatusWeekend}

// Valid reports whether s is one of the closed set of statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOnSite, StatusWFH, StatusPaidLeave, StatusOff, StatusWeekend:
		return true
	}
	return false
}

// ClearsShift reports whether the status forbids an attached shift.
// Entries with these statuses always carry a nil shift.
func (s Status) ClearsShift() bool {
	return s == StatusOff || s == StatusPaidLeave
}

// StandardShift is a team's named time-of-day work window. EndH is
// start-of-day relative, so an overnight shift has EndH >= 24
// (21:00-06:00 yields EndH 30).
type StandardShift struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label" yaml:"label"`
	Start  string  `json:"start" yaml:"start"`
	End    string  `json:"end" yaml:"end"`
	StartH float64 `json:"startH" yaml:"startH"`
	EndH   float64 `json:"endH" yaml:"endH"`
}

// HandoverWindow is a same-day time range during which outgoing and
// incoming shift staff must overlap. Hours are in the plain 0-24 domain.
type HandoverWindow struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Label string  `json:"label" yaml:"label"`
}

// Team is one fixed organizational unit. Teams are immutable after load.
type Team struct {
	Key             string           `json:"key" yaml:"key"`
	Label           string           `json:"label" yaml:"label"`
	Lead            string           `json:"lead" yaml:"lead"`
	Members         []string         `json:"members" yaml:"members"`
	StandardShifts  []StandardShift  `json:"standardShifts" yaml:"standard_shifts"`
	MinCoverage     int              `json:"minCoverage" yaml:"min_coverage"`
	HandoverWindows []HandoverWindow `json:"handoverWindows" yaml:"handover_windows"`
}

// CustomShiftID marks an ad hoc shift that is not part of any team's
// standard set.
const CustomShiftID = "CUSTOM"

// ShiftInstance is a shift as stored in a schedule cell: either a copy of
// a StandardShift or a custom time window.
type ShiftInstance struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	StartH   float64 `json:"startH"`
	EndH     float64 `json:"endH"`
	IsCustom bool    `json:"isCustom,omitempty"`
}

// Instance copies a standard shift into a cell-ready value.
func (s StandardShift) Instance() *ShiftInstance {
	return &ShiftInstance{
		ID:     s.ID,
		Label:  s.Label,
		Start:  s.Start,
		End:    s.End,
		StartH: s.StartH,
		EndH:   s.EndH,
	}
}

// ScheduleEntry is a single (member, day) cell.
//
// Invariant: Modifier.ClearsShift() implies Shift == nil. The store
// enforces this on every write.
type ScheduleEntry struct {
	Shift    *ShiftInstance `json:"shift"`
	Modifier Status         `json:"modifier"`
	Team     string         `json:"team"`
	Note     string         `json:"note"`
}

// MonthSchedule maps member full name -> day of month (1..N) -> entry.
type MonthSchedule map[string]map[int]ScheduleEntry

// AllSchedules maps "{year}-{monthIndex0}" keys to month schedules. This
// is the top-level persisted state.
type AllSchedules map[string]MonthSchedule

// AuditLogEntry is one append-only record of a mutation.
type AuditLogEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Icon      string `json:"icon"`
	Type      string `json:"type"`
	Msg       string `json:"msg"`
	Detail    string `json:"detail,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Role gates write permissions. The check is a convenience for the UI,
// not a security boundary.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleLead   Role = "LEAD"
	RoleMember Role = "MEMBER"
)

// User is an identity consumed by permission checks. Team is empty for
// admins.
type User struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role Role   `json:"role" yaml:"role"`
	Team string `json:"team" yaml:"team"`
}
