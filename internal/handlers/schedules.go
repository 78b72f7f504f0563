package handlers

import (
	"fmt"
	"net/http"

	"pet_feeder/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusDeleted = "deleted"

	errListSchedules = "failed to load schedules"
	errSaveSchedule  = "failed to save schedule"
)

// ScheduleRequest is the create/update payload. Either time or hour+minute is required.
type ScheduleRequest struct {
	// Time of day, 24h "HH:MM"
	Time   string `json:"time,omitempty" example:"07:00"`
	Hour   *int   `json:"hour,omitempty" example:"7"`
	Minute *int   `json:"minute,omitempty" example:"0"`
	// Servo angle in degrees (0-180)
	Amount float64 `json:"amount" example:"90"`
	// Defaults to true
	Enabled *bool `json:"enabled,omitempty" example:"true"`
}

// EnabledRequest is the payload of PATCH /api/v1/schedules/{id}/enabled.
type EnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required" example:"false"`
}

func (r ScheduleRequest) toInput() (service.ScheduleInput, error) {
	in := service.ScheduleInput{Amount: r.Amount, Enabled: true}
	if r.Enabled != nil {
		in.Enabled = *r.Enabled
	}
	switch {
	case r.Time != "":
		hour, minute, err := service.ParseTimeOfDay(r.Time)
		if err != nil {
			return service.ScheduleInput{}, err
		}
		in.Hour, in.Minute = hour, minute
	case r.Hour != nil && r.Minute != nil:
		in.Hour, in.Minute = *r.Hour, *r.Minute
	default:
		return service.ScheduleInput{}, fmt.Errorf("%w: time or hour and minute required", service.ErrInvalidSchedule)
	}
	return in, nil
}

func (h *Handler) bindSchedule(c *gin.Context) (service.ScheduleInput, bool) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return service.ScheduleInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.ScheduleInput{}, false
	}
	return in, true
}

// @Summary      List schedules
// @Tags         schedules
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, schedules"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/schedules [get]
func (h *Handler) listSchedules(c *gin.Context) {
	list, err := h.services.Schedules.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSchedules, "schedules_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "schedules": list})
}

// @Summary      Create schedule
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        body  body      ScheduleRequest  true  "Schedule"
// @Success      201   {object}  models.ScheduleEntry
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/schedules [post]
func (h *Handler) createSchedule(c *gin.Context) {
	in, ok := h.bindSchedule(c)
	if !ok {
		return
	}
	s, err := h.services.Schedules.Create(c.Request.Context(), in)
	if err != nil {
		h.serviceError(c, err, errSaveSchedule, "schedule_create_failed")
		return
	}
	c.JSON(http.StatusCreated, s)
}

// @Summary      Get schedule
// @Tags         schedules
// @Produce      json
// @Param        id   path      string  true  "Schedule ID"
// @Success      200  {object}  models.ScheduleEntry
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/schedules/{id} [get]
func (h *Handler) getSchedule(c *gin.Context) {
	id := c.Param("id")
	s, err := h.services.Schedules.Get(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, errListSchedules, "schedule_get_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Update schedule
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Schedule ID"
// @Param        body  body      ScheduleRequest  true  "Schedule"
// @Success      200   {object}  models.ScheduleEntry
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/schedules/{id} [put]
func (h *Handler) updateSchedule(c *gin.Context) {
	in, ok := h.bindSchedule(c)
	if !ok {
		return
	}
	id := c.Param("id")
	s, err := h.services.Schedules.Update(c.Request.Context(), id, in)
	if err != nil {
		h.serviceError(c, err, errSaveSchedule, "schedule_update_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Enable or disable schedule
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Schedule ID"
// @Param        body  body      EnabledRequest  true  "Enabled flag"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/schedules/{id}/enabled [patch]
func (h *Handler) setScheduleEnabled(c *gin.Context) {
	var req EnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.services.Schedules.SetEnabled(c.Request.Context(), id, *req.Enabled); err != nil {
		h.serviceError(c, err, errSaveSchedule, "schedule_toggle_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "enabled": *req.Enabled})
}

// @Summary      Delete schedule
// @Tags         schedules
// @Produce      json
// @Param        id   path      string  true  "Schedule ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/schedules/{id} [delete]
func (h *Handler) deleteSchedule(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Schedules.Delete(c.Request.Context(), id); err != nil {
		h.serviceError(c, err, errSaveSchedule, "schedule_delete_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted, "id": id})
}
