package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionLimit is the number of log files that triggers cleanup
	LogFileRetentionLimit = 10

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting GameDevClicker"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgCreateLogsDir       = "failed to create logs directory"
	ErrMsgOpenLogFile         = "failed to open log file"
	LogMsgDeleteOldLogFailed  = "Failed to delete old log file %s: %v\n"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/dead_letter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgCreateDeadLetterDir            = "failed to create dead-letter directory"
	ErrMsgCreateResilientPublisher       = "failed to create resilient publisher"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	LogMsgEventSubscribersRegistered     = "Event subscribers registered"
	ErrMsgFailedRegisterMetricsCollector = "failed to register metrics collector"
)

// =============================================================================
// Game System Initialization
// =============================================================================

const (
	LogMsgBalanceDataLoaded     = "Balance data loaded"
	LogMsgMilestoneConfigLoaded = "Milestone config loaded"
	LogMsgSaveBackendReady      = "Save backend ready"
	LogMsgSessionManagerReady   = "Session manager ready"
	LogMsgAutosaveScheduled     = "Autosave scheduled"

	ErrMsgLoadBalanceData     = "failed to load balance data"
	ErrMsgLoadMilestoneConfig = "failed to load milestone config"
	ErrMsgBuildMilestoneGates = "invalid milestone config"
	ErrMsgInitSaveBackend     = "failed to initialize save backend"
	ErrMsgConnectDatabase     = "failed to connect to database"
	ErrMsgApplyDatabaseSchema = "failed to apply database schema"

	// JobNameAutosave identifies the periodic session sweep in scheduler logs
	JobNameAutosave = "autosave"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgSchedulerStopped           = "Scheduler stopped"
	LogMsgSessionsClosed             = "Sessions saved and closed"
	LogMsgSessionCloseFailed         = "Session close finished with save errors"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"

	// Service names for shutdown logging
	ServiceNameProgression = "progression"
	ServiceNameShop        = "shop"
	ServiceNameOffline     = "offline"
	ServiceNameSaves       = "saves"
)

// Shutdown log message format (service name will be prepended)
const (
	LogMsgServiceShutdownFailed = " service shutdown failed"
)
