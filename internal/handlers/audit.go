package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet_feeder/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimitInvalid = "invalid 'limit'; use a positive integer"
	errLoadAudit    = "failed to load audit log"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List audit entries
// @Description  Newest first. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         audit
// @Produce      json
// @Param        from     query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2026-10-01)
// @Param        to       query   string  false  "End of range; date-only treated as end of day"  example(2026-10-31)
// @Param        command  query   string  false  "Command"  Enums(DISPENSE,CLOSE,TARE,DISPENSE_DENIED,AUTO_DISPENSE,AUTO_CLOSE,AUTO_SKIPPED)
// @Param        limit    query   int     false  "Maximum entries (default 200)"
// @Success      200      {object}  map[string]interface{}  "count, entries"
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/v1/audit [get]
func (h *Handler) listAudit(c *gin.Context) {
	var (
		f   = service.AuditFilter{Command: c.Query("command")}
		err error
	)
	if qs := c.Query("from"); qs != "" {
		f.From, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		f.To, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if qs := c.Query("limit"); qs != "" {
		f.Limit, err = strconv.Atoi(qs)
		if err != nil || f.Limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
	}

	entries, err := h.services.AuditLog.List(c.Request.Context(), f)
	if err != nil {
		h.serviceError(c, err, errLoadAudit, "audit_list_failed", "from", f.From, "to", f.To, "command", f.Command)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-10-14T07:00:00Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
