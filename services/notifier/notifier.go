package notifier

import "context"

// Severity classifies a notification
type Severity string

const (
	// SeverityInfo routes to the quiet logging channel
	SeverityInfo Severity = "info"
	// SeverityAlert routes to the alerting channel
	SeverityAlert Severity = "alert"
)

// Notifier represents a fire-and-forget notification side-channel
type Notifier interface {
	// Notify sends a message with the given severity
	Notify(ctx context.Context, message string, severity Severity) error
}

// SeverityForStatus maps an HTTP-style status code to a severity.
// 200 and 202 are routed as quiet success notifications, anything
// else raises an alert. Downstream channels depend on this mapping.
func SeverityForStatus(statusCode int) Severity {
	if statusCode == 200 || statusCode == 202 {
		return SeverityInfo
	}
	return SeverityAlert
}
