package presenter

import "context"

// Severity selects the colour of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

const (
	colorSuccess = "#4CAF50"
	colorError   = "#F44336"
	colorInfo    = "#2196F3"
	colorWarning = "#FFC107"
)

// Color returns the notification background for s. Unknown severities
// render as warnings.
func (s Severity) Color() string {
	switch s {
	case SeveritySuccess:
		return colorSuccess
	case SeverityError:
		return colorError
	case SeverityInfo:
		return colorInfo
	default:
		return colorWarning
	}
}

// Surface is where notifications and panels are drawn. Every element is
// addressed by the id it was mounted with; unmounting an id that is gone is
// not an error.
type Surface interface {
	MountNotification(ctx context.Context, id, message, color string) error
	SetOpacity(ctx context.Context, id string, opacity float64) error
	MountPanel(ctx context.Context, id, header, body string) error
	Unmount(ctx context.Context, id string) error
}
