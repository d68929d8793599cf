package georisk

import (
	"fmt"
	"strings"

	"minesafe.xyz/mine-monitor-service/pkg/models"
)

// ValidationError reports every out-of-range feature field, not just the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid reading: %s", strings.Join(e.Fields, "; "))
}

// NotFoundError means a referenced sensor or alert does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InvalidTransitionError means an alert state change was illegal from the
// alert's current status. The alert is left unchanged.
type InvalidTransitionError struct {
	AlertID string
	From    models.AlertStatus
	Op      string
	Reason  string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s alert %s in status %s: %s", e.Op, e.AlertID, e.From, e.Reason)
	}
	return fmt.Sprintf("cannot %s alert %s in status %s", e.Op, e.AlertID, e.From)
}
