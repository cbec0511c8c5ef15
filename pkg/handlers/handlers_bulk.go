package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/secopshq/shiftboard/pkg/audit"
	"github.com/secopshq/shiftboard/pkg/auth"
	"github.com/secopshq/shiftboard/pkg/bulk"
	"github.com/secopshq/shiftboard/pkg/models"
)

type bulkRequest struct {
	Members      []string `json:"members"`
	Start        string   `json:"start"` // YYYY-MM-DD, inclusive
	End          string   `json:"end"`
	SkipWeekends bool     `json:"skipWeekends"`

	Shift  string `json:"shift"` // "{teamKey}-{shiftID}" selector
	Custom *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"custom"`
	Status models.Status `json:"status"`
}

// resolveBulk validates the request against the roster and the caller's
// permissions and builds the plan. Template resolution is skipped for
// preflight-only calls.
func (h *Handler) resolveBulk(c *gin.Context, req *bulkRequest, needShift bool) (bulk.Plan, []time.Time, bool) {
	user := currentUser(c)

	if len(req.Members) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No members selected"})
		return bulk.Plan{}, nil, false
	}
	for _, member := range req.Members {
		teamKey, ok := h.Roster.MemberTeam(member)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown member: " + member})
			return bulk.Plan{}, nil, false
		}
		if !auth.CanEditTeam(user, teamKey) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot assign shifts for " + member})
			return bulk.Plan{}, nil, false
		}
	}

	start, err := bulk.ParseDay(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return bulk.Plan{}, nil, false
	}
	end, err := bulk.ParseDay(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return bulk.Plan{}, nil, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": bulk.ErrRangeInverted.Error()})
		return bulk.Plan{}, nil, false
	}

	dates := bulk.ComputeDateRange(start, end, req.SkipWeekends)

	plan := bulk.Plan{Members: req.Members, Dates: dates}
	if needShift {
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + string(req.Status)})
			return bulk.Plan{}, nil, false
		}
		plan.Status = req.Status

		var shift *models.ShiftInstance
		switch {
		case req.Custom != nil:
			shift, err = h.Planner.ResolveCustom(req.Custom.Start, req.Custom.End)
		case req.Shift != "":
			shift, err = h.Planner.ResolveStandard(req.Shift)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return bulk.Plan{}, nil, false
		}
		if shift == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No shift template resolved"})
			return bulk.Plan{}, nil, false
		}
		plan.Shift = shift
	}

	return plan, dates, true
}

// BulkPreflight reports the operation count and Paid Leave clashes for a
// prospective bulk assignment. Advisory only.
func (h *Handler) BulkPreflight(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, dates, ok := h.resolveBulk(c, &req, false)
	if !ok {
		return
	}

	report := bulk.Preflight(req.Members, dates, h.Store.Snapshot())
	c.JSON(http.StatusOK, report)
}

// BulkApply writes the plan onto a snapshot and publishes it in one
// step; intermediate batch states are never visible.
func (h *Handler) BulkApply(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, _, ok := h.resolveBulk(c, &req, true)
	if !ok {
		return
	}
	if !plan.CanApply() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to apply"})
		return
	}

	snapshot := h.Store.Snapshot()
	report := bulk.Preflight(plan.Members, plan.Dates, snapshot)

	next, applied, err := h.Planner.Apply(plan, snapshot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !applied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to apply"})
		return
	}
	h.Store.Publish(next)

	h.Audit.Record(models.AuditLogEntry{
		Icon: "📋", Type: audit.TypeBulkAssign,
		Msg:    "Bulk Assignment → " + strconv.Itoa(len(plan.Members)) + " members",
		Detail: plan.Summary(),
	})

	c.JSON(http.StatusOK, gin.H{
		"applied":     true,
		"totalShifts": report.TotalShifts,
		"clashes":     report.Clashes,
	})
}
