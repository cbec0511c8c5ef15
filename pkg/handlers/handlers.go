package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/secopshq/shiftboard/pkg/audit"
	"github.com/secopshq/shiftboard/pkg/auth"
	"github.com/secopshq/shiftboard/pkg/bulk"
	"github.com/secopshq/shiftboard/pkg/config"
	"github.com/secopshq/shiftboard/pkg/database"
	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/store"
	"github.com/secopshq/shiftboard/pkg/timeutil"
)

// Handler contains dependencies for the route handlers.
type Handler struct {
	DB      *gorm.DB
	Roster  *config.Provider
	Store   *store.Store
	Audit   *audit.Log
	Planner *bulk.Planner
	Log     *zap.Logger

	views viewCache
	now   func() time.Time
}

// NewHandler wires the handler set. now is injectable for tests; pass
// nil for the wall clock.
func NewHandler(db *gorm.DB, roster *config.Provider, st *store.Store, log *audit.Log, planner *bulk.Planner, zlog *zap.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	if zlog == nil {
		zlog = zap.NewNop()
	}
	return &Handler{
		DB:      db,
		Roster:  roster,
		Store:   st,
		Audit:   log,
		Planner: planner,
		Log:     zlog,
		now:     now,
	}
}

// AuthMiddleware verifies the JWT token and stores the caller identity.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user", claims.User())
		c.Next()
	}
}

// RequireAdmin gates key management behind the ADMIN role. Runs after
// AuthMiddleware.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser reads the identity set by AuthMiddleware.
func currentUser(c *gin.Context) models.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(models.User); ok {
			return u
		}
	}
	return models.User{}
}

// Login handles user login against the seeded user table.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.BoardUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	identity := models.User{ID: user.Username, Name: user.Name, Role: models.Role(user.Role), Team: user.Team}
	token, err := auth.CreateToken(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	h.Audit.Record(models.AuditLogEntry{
		Icon: "🔐", Type: audit.TypeLogin,
		Msg: identity.Name + " logged in",
	})

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer", "user": identity})
}

// monthParams reads ?year and ?month (zero-based) with the current real
// month as default.
func (h *Handler) monthParams(c *gin.Context) (int, int, error) {
	real := h.now()
	year, month0 := real.Year(), int(real.Month())-1

	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("invalid year")
		}
		year = n
	}
	if v := c.Query("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 11 {
			return 0, 0, errors.New("invalid month, want 0-11")
		}
		month0 = n
	}
	return year, month0, nil
}

// dayParam reads ?day with today as default, bounded by the month.
func (h *Handler) dayParam(c *gin.Context, year, month0 int) (int, error) {
	day := h.now().Day()
	if v := c.Query("day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.New("invalid day")
		}
		day = n
	}
	if day < 1 || day > timeutil.DaysInMonth(year, month0) {
		return 0, errors.New("day out of range")
	}
	return day, nil
}

// GetSchedule returns one month's roster, creating it lazily, plus each
// member's worked hours.
func (h *Handler) GetSchedule(c *gin.Context) {
	year, month0, err := h.monthParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	month := h.Store.GetOrCreateMonth(year, month0)

	hours := make(map[string]float64, len(month))
	for member := range month {
		hours[member] = store.MemberHours(month, member)
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"month":    month0,
		"days":     timeutil.DaysInMonth(year, month0),
		"schedule": month,
		"hours":    hours,
	})
}

type editCellRequest struct {
	Year   *int   `json:"year"`
	Month  *int   `json:"month"`
	Member string `json:"member"`
	Day    int    `json:"day"`

	// Exactly one of Shift/Custom is set for active statuses; both stay
	// empty for Off and Paid Leave.
	Shift  string `json:"shift"` // "{teamKey}-{shiftID}" selector
	Custom *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"custom"`

	Modifier models.Status `json:"modifier"`
	Note     string        `json:"note"`
	Reason   string        `json:"reason"`
}

// EditCell replaces a single schedule cell. Permission is checked before
// any mutation: rejected edits leave the store untouched.
func (h *Handler) EditCell(c *gin.Context) {
	var req editCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	real := h.now()
	year, month0 := real.Year(), int(real.Month())-1
	if req.Year != nil {
		year = *req.Year
	}
	if req.Month != nil {
		month0 = *req.Month
	}
	// An out-of-range month would land under a key no month view ever
	// reads back.
	if month0 < 0 || month0 > 11 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month, want 0-11"})
		return
	}
	if year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	teamKey, ok := h.Roster.MemberTeam(req.Member)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown member: " + req.Member})
		return
	}

	user := currentUser(c)
	if !auth.CanEditTeam(user, teamKey) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot edit this team's schedule"})
		return
	}

	if !req.Modifier.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + string(req.Modifier)})
		return
	}

	var shift *models.ShiftInstance
	if !req.Modifier.ClearsShift() {
		var err error
		switch {
		case req.Custom != nil:
			shift, err = h.Planner.ResolveCustom(req.Custom.Start, req.Custom.End)
		case req.Shift != "":
			shift, err = h.Planner.ResolveStandard(req.Shift)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	entry := models.ScheduleEntry{
		Shift:    shift,
		Modifier: req.Modifier,
		Team:     teamKey,
		Note:     req.Note,
	}
	if err := h.Store.SetCell(year, month0, req.Member, req.Day, entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail := "Shift: Off"
	if shift != nil {
		detail = "Shift: " + shift.Label + " (" + shift.Start + "–" + shift.End + ")"
	}
	h.Audit.Record(models.AuditLogEntry{
		Icon: "✏️", Type: audit.TypeEdit,
		Msg:    user.Name + " updated " + req.Member + " — Day " + strconv.Itoa(req.Day),
		Detail: detail + " | Status: " + string(req.Modifier),
		Reason: req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// AuditList returns the audit log, most recent first.
func (h *Handler) AuditList(c *gin.Context) {
	entries := h.Audit.Entries()
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
