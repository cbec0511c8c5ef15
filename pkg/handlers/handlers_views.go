package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/secopshq/shiftboard/pkg/bucket"
	"github.com/secopshq/shiftboard/pkg/coverage"
	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/timeutil"
)

// viewCache memoizes derived views keyed by store version plus request
// parameters. Any store mutation bumps the version, which drops every
// cached result.
type viewCache struct {
	mu      sync.Mutex
	version uint64
	entries map[string]any
}

func (vc *viewCache) get(version uint64, key string) (any, bool) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.version != version || vc.entries == nil {
		return nil, false
	}
	v, ok := vc.entries[key]
	return v, ok
}

func (vc *viewCache) put(version uint64, key string, v any) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.version != version || vc.entries == nil {
		vc.version = version
		vc.entries = make(map[string]any)
	}
	vc.entries[key] = v
}

// Coverage returns the handover-window analysis for one day.
func (h *Handler) Coverage(c *gin.Context) {
	year, month0, err := h.monthParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := h.dayParam(c, year, month0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version := h.Store.Version()
	key := fmt.Sprintf("coverage|%d-%d-%d", year, month0, day)
	if cached, ok := h.views.get(version, key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	month := h.Store.GetOrCreateMonth(year, month0)
	records := coverage.Analyze(h.Roster.Teams(), month, day)
	// Lazy creation may have bumped the version; cache under the state
	// actually analyzed.
	version = h.Store.Version()

	resp := gin.H{"year": year, "month": month0, "day": day, "records": records}
	h.views.put(version, key, resp)
	c.JSON(http.StatusOK, resp)
}

// Overview returns the live status board for one day. MEMBER roles see
// only their own team's buckets; the headline stats always cover the
// whole roster.
func (h *Handler) Overview(c *gin.Context) {
	year, month0, err := h.monthParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := h.dayParam(c, year, month0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	var visible func(member, teamKey string) bool
	filterKey := "all"
	if user.Role == models.RoleMember {
		team := user.Team
		visible = func(_, teamKey string) bool { return teamKey == team }
		filterKey = "team:" + team
	}

	now := h.now()
	nowH := timeutil.HourOfDay(now)
	nowMin := now.Hour()*60 + now.Minute()

	version := h.Store.Version()
	// Key on the minute, not the raw clock, so one store version holds
	// at most one overview entry per minute instead of one per tick.
	key := fmt.Sprintf("overview|%d-%d-%d|%s|%d", year, month0, day, filterKey, nowMin)
	if cached, ok := h.views.get(version, key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	month := h.Store.GetOrCreateMonth(year, month0)
	board := bucket.Build(h.Roster, month, day, nowH, visible)
	version = h.Store.Version()

	resp := gin.H{"year": year, "month": month0, "day": day, "board": board}
	h.views.put(version, key, resp)
	c.JSON(http.StatusOK, resp)
}
