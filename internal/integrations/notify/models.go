package notify

// CancellationNotice is the payload sent to the notifier service when a
// booking is cancelled. The notifier owns contact lookup and delivery; this
// service only hands over the holder identity and booking reference.
type CancellationNotice struct {
	UserID    int64   `json:"userId"`
	Reference string  `json:"reference"`
	Reason    *string `json:"reason,omitempty"`
}

// Logger is the logging interface the client needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
