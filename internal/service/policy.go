package service

import (
	"fmt"
	"time"

	"pet_feeder/internal/models"
)

// CanDispense reports whether food may be released now.
// now must already be in the schedules' timezone.
func CanDispense(currentWeight, maxWeight float64, schedules []models.ScheduleEntry, now time.Time, gated bool) bool {
	return CheckDispense(currentWeight, maxWeight, schedules, now, gated) == nil
}

// CheckDispense is CanDispense with the refusal reason. Errors wrap ErrPolicyDenied.
func CheckDispense(currentWeight, maxWeight float64, schedules []models.ScheduleEntry, now time.Time, gated bool) error {
	if currentWeight >= maxWeight {
		return fmt.Errorf("%w (%.1fg >= %.1fg)", ErrBowlNotEmpty, currentWeight, maxWeight)
	}
	if !gated {
		return nil
	}
	for _, s := range schedules {
		if s.Enabled && s.Hour == now.Hour() && s.Minute == now.Minute() {
			return nil
		}
	}
	return ErrOutsideSchedule
}
