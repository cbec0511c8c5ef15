package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/secopshq/shiftboard/pkg/auth"
	"github.com/secopshq/shiftboard/pkg/database"
	"github.com/secopshq/shiftboard/pkg/export"
)

// APIKeyMiddleware verifies the HMAC integration key guarding export
// routes.
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		name, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create the key record to track usage.
		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      name,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Next()
	}
}

// recordUsage upserts the per-key, per-day usage counters.
func (h *Handler) recordUsage(c *gin.Context, rows int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := h.now().Format("2006-01-02")

	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_rows":    gorm.Expr("total_rows + ?", rows),
		}),
	}).Create(&database.APIUsage{
		KeyID:        apiKey.ID,
		Date:         today,
		RequestCount: 1,
		TotalRows:    rows,
	})

	now := time.Now()
	h.DB.Model(apiKey).Update("last_used", &now)
}

// ExportJSON dumps the viewed month as {schedule, year, month}.
func (h *Handler) ExportJSON(c *gin.Context) {
	year, month0, err := h.monthParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	month := h.Store.GetOrCreateMonth(year, month0)
	raw, err := export.MonthJSON(month, year, month0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render export"})
		return
	}

	h.recordUsage(c, len(month))
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// ExportCSV emits one row per (member, day) of the viewed month.
// ?notes=1 appends the Note column.
func (h *Handler) ExportCSV(c *gin.Context) {
	year, month0, err := h.monthParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	month := h.Store.GetOrCreateMonth(year, month0)
	csvOut, err := export.MonthCSV(h.Roster.Teams(), month, c.Query("notes") == "1")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render export"})
		return
	}

	h.recordUsage(c, len(month))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvOut))
}
