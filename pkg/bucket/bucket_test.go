package bucket

import (
	"testing"

	"github.com/secopshq/shiftboard/pkg/config"
	"github.com/secopshq/shiftboard/pkg/models"
)

func loadRoster(t *testing.T) *config.Provider {
	t.Helper()
	roster, err := config.Load("")
	if err != nil {
		t.Fatalf("load roster: %v", err)
	}
	return roster
}

func inst(id, start, end string, startH, endH float64) *models.ShiftInstance {
	return &models.ShiftInstance{ID: id, Label: "Shift " + id, Start: start, End: end, StartH: startH, EndH: endH}
}

func onSite(shift *models.ShiftInstance) models.ScheduleEntry {
	return models.ScheduleEntry{Shift: shift, Modifier: models.StatusOnSite}
}

func TestBucketsKeyOnExactTimeWindow(t *testing.T) {
	roster := loadRoster(t)
	month := models.MonthSchedule{
		// Same hours across two different teams: one bucket.
		"Adity Bharti": {10: onSite(inst("A", "08:00", "17:00", 8, 17))},
		"Sameer Chugh": {10: onSite(inst("A", "08:00", "17:00", 8, 17))},
		// Thirty minutes longer: its own bucket.
		"Arpan Thomas": {10: onSite(inst("A", "08:00", "17:30", 8, 17.5))},
	}

	board := Build(roster, month, 10, 12, nil)
	if len(board.Active) != 2 {
		t.Fatalf("bucket count = %d, want 2", len(board.Active))
	}

	var shared *Bucket
	for i := range board.Active {
		if board.Active[i].Key == "08:00-17:00" {
			shared = &board.Active[i]
		}
	}
	if shared == nil {
		t.Fatal("08:00-17:00 bucket missing")
	}
	if len(shared.Members) != 2 {
		t.Errorf("shared bucket member count = %d, want 2", len(shared.Members))
	}
	if len(shared.Teams) != 2 || shared.Teams[0] != "CSIRT" || shared.Teams[1] != "ThreatMgmt" {
		t.Errorf("shared bucket teams = %v, want [CSIRT ThreatMgmt]", shared.Teams)
	}
}

func TestMemberOrderLeadFirst(t *testing.T) {
	roster := loadRoster(t)
	// The lead starts later than the others but still floats to the top;
	// the non-leads tie on start hour and fall back to name order.
	month := models.MonthSchedule{
		"Harmanpreet Singh": {10: onSite(inst("B", "10:00", "19:00", 10, 19))},
		"Bhakti Gupta":      {10: onSite(inst("A", "08:00", "17:00", 8, 17))},
		"Arpan Thomas":      {10: onSite(inst("A", "08:00", "17:00", 8, 17))},
	}

	board := Build(roster, month, 10, 12, nil)
	// Separate buckets here, so ordering shows within the shared one.
	shared := board.Active[0]
	if shared.Key != "08:00-17:00" {
		t.Fatalf("first bucket = %s, want the 08:00 one", shared.Key)
	}
	if shared.Members[0].Name != "Arpan Thomas" || shared.Members[1].Name != "Bhakti Gupta" {
		t.Errorf("non-lead order = %v, want alphabetical", shared.Members)
	}

	// Single mixed group: lead pinned first regardless of start hour.
	mixed := []Member{
		{Name: "Bhakti Gupta", StartH: 8},
		{Name: "Harmanpreet Singh", StartH: 10, IsLead: true},
		{Name: "Arpan Thomas", StartH: 8},
	}
	sortMembers(mixed)
	want := []string{"Harmanpreet Singh", "Arpan Thomas", "Bhakti Gupta"}
	for i, w := range want {
		if mixed[i].Name != w {
			t.Fatalf("sorted order = %v, want %v", mixed, want)
		}
	}
}

func TestBucketOrderNightShiftFirst(t *testing.T) {
	roster := loadRoster(t)
	month := models.MonthSchedule{
		"Adity Bharti": {10: onSite(inst("A", "05:00", "14:00", 5, 14))},
		"Arpan Thomas": {10: onSite(inst("C", "21:00", "06:00", 21, 30))},
		"Bhakti Gupta": {10: onSite(inst("B", "13:00", "22:00", 13, 22))},
	}

	board := Build(roster, month, 10, 12, nil)
	if len(board.Active) != 3 {
		t.Fatalf("bucket count = %d, want 3", len(board.Active))
	}
	// 21:00 sorts as -3, ahead of 05:00 and 13:00.
	wantKeys := []string{"21:00-06:00", "05:00-14:00", "13:00-22:00"}
	for i, want := range wantKeys {
		if board.Active[i].Key != want {
			t.Errorf("bucket[%d] = %s, want %s", i, board.Active[i].Key, want)
		}
	}
}

func TestOffAndLeaveGroups(t *testing.T) {
	roster := loadRoster(t)
	month := models.MonthSchedule{
		"Adity Bharti": {10: {Modifier: models.StatusPaidLeave}},
		"Arpan Thomas": {10: {Modifier: models.StatusOff}},
		"Bhakti Gupta": {10: onSite(inst("A", "05:00", "14:00", 5, 14))},
	}

	board := Build(roster, month, 10, 12, nil)
	if len(board.Off) != 2 {
		t.Fatalf("off group count = %d, want 2", len(board.Off))
	}
	if board.Off[0].Label != "On Leave" || board.Off[1].Label != "Off Today" {
		t.Errorf("off group labels = %s, %s", board.Off[0].Label, board.Off[1].Label)
	}
	foundLeave := false
	for _, m := range board.Off[0].Members {
		if m.Name == "Adity Bharti" {
			foundLeave = true
		}
	}
	if !foundLeave {
		t.Error("Paid Leave member missing from On Leave group")
	}
}

func TestStatsCoverFullRosterDespiteFilter(t *testing.T) {
	roster := loadRoster(t)
	month := models.MonthSchedule{
		"Adity Bharti": {10: onSite(inst("A", "05:00", "14:00", 5, 14))},
		"Sameer Chugh": {10: {Shift: inst("A", "08:00", "17:00", 8, 17), Modifier: models.StatusWFH}},
		"Manav Nathani": {10: {Modifier: models.StatusPaidLeave}},
	}

	onlyCSIRT := func(member, teamKey string) bool { return teamKey == "CSIRT" }
	board := Build(roster, month, 10, 12, onlyCSIRT)

	if board.Stats.Active != 2 || board.Stats.WFH != 1 || board.Stats.OnLeave != 1 {
		t.Errorf("stats = %+v, want active=2 wfh=1 onLeave=1", board.Stats)
	}
	for _, b := range board.Active {
		for _, m := range b.Members {
			if m.Team != "CSIRT" {
				t.Errorf("filtered board shows %s from %s", m.Name, m.Team)
			}
		}
	}
}

func TestIsNowOvernight(t *testing.T) {
	overnight := inst("C", "21:00", "06:00", 21, 30)
	if !isNow(overnight, 22) {
		t.Error("22:00 not inside 21:00-06:00")
	}
	if isNow(overnight, 12) {
		t.Error("noon inside 21:00-06:00")
	}
	// A custom shift stored with end < start gets the +24 correction.
	custom := &models.ShiftInstance{ID: models.CustomShiftID, Start: "23:00", End: "02:00", StartH: 23, EndH: 2, IsCustom: true}
	if !isNow(custom, 23.5) {
		t.Error("23:30 not inside 23:00-02:00")
	}
	if isNow(custom, 3) {
		t.Error("03:00 inside 23:00-02:00")
	}
}

func TestBucketLabels(t *testing.T) {
	roster := loadRoster(t)
	month := models.MonthSchedule{
		"Adity Bharti": {10: onSite(&models.ShiftInstance{ID: models.CustomShiftID, Start: "09:00", End: "12:00", StartH: 9, EndH: 12, IsCustom: true})},
		"Arpan Thomas": {10: onSite(inst("B", "13:00", "22:00", 13, 22))},
	}
	board := Build(roster, month, 10, 10, nil)
	labels := map[string]string{}
	for _, b := range board.Active {
		labels[b.Key] = b.Label
	}
	if labels["09:00-12:00"] != "Custom" {
		t.Errorf("custom bucket label = %q", labels["09:00-12:00"])
	}
	if labels["13:00-22:00"] != "Shift B" {
		t.Errorf("standard bucket label = %q", labels["13:00-22:00"])
	}
}
