package offline

// Log message constants
const (
	LogMsgReportComputed = "offline progress computed"
)
