package handlers

import (
	"errors"
	"io"
	"net/http"

	"pet_feeder/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"

	errGetState        = "failed to load state"
	errCommandFailed   = "command failed"
	errInvalidBodyPref = "invalid body: "
)

// DispenseRequest is the optional payload of POST /api/v1/feeder/dispense.
type DispenseRequest struct {
	// Servo angle in degrees (0-180). Omit to use the configured default.
	Angle *float64 `json:"angle,omitempty" example:"90"`
}

// @Summary      Health check
// @Description  Reports "degraded" with 503 when any registered dependency check fails.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	ctx := c.Request.Context()
	status, code := statusOK, http.StatusOK
	components := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			status, code = statusDegraded, http.StatusServiceUnavailable
			continue
		}
		components[name] = statusOK
	}
	resp := gin.H{"status": status}
	if len(components) > 0 {
		resp["components"] = components
	}
	c.JSON(code, resp)
}

// @Summary      Feeder state
// @Tags         feeder
// @Produce      json
// @Success      200  {object}  service.FeederState
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/feeder/state [get]
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Feeder.State(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Dispense food
// @Description  Opens the dispenser; it closes by itself after the configured dwell.
// @Tags         feeder
// @Accept       json
// @Produce      json
// @Param        body  body      DispenseRequest  false  "Dispense angle"
// @Success      200   {object}  map[string]interface{}  "status, outcome"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Failure      504   {object}  map[string]interface{}
// @Router       /api/v1/feeder/dispense [post]
func (h *Handler) dispense(c *gin.Context) {
	var req DispenseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	out, err := h.services.Feeder.Dispense(c.Request.Context(), req.Angle)
	h.respondWithOutcome(c, out, err)
}

// @Summary      Close dispenser
// @Tags         feeder
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, outcome"
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/feeder/close [post]
func (h *Handler) closeFeeder(c *gin.Context) {
	out, err := h.services.Feeder.Close(c.Request.Context())
	h.respondWithOutcome(c, out, err)
}

// @Summary      Tare scale
// @Tags         feeder
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, outcome"
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/feeder/tare [post]
func (h *Handler) tare(c *gin.Context) {
	out, err := h.services.Feeder.Tare(c.Request.Context())
	h.respondWithOutcome(c, out, err)
}

// respondWithOutcome writes the dispatcher result. Timeouts still carry the outcome
// because the command was sent and a close may be pending.
func (h *Handler) respondWithOutcome(c *gin.Context, out service.Outcome, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"status": out.Result, "outcome": out})
		return
	}
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = errCommandFailed
	}
	if h.log != nil {
		h.log.Infow("feeder_command_rejected", "err", err, "result", out.Result, "kind", out.Request.Kind)
	}
	c.JSON(code, gin.H{"error": msg, "status": out.Result, "outcome": out})
}
