package constants

import "time"

const (
	AppName            = "korastor"
	DefaultKeyringUser = "storage-secret"
	DefaultConfigDir   = "~/.config/korastor"
	DefaultConfigPath  = "~/.config/korastor/korastor.db"
	DefaultConfigFile  = "~/.config/korastor/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the day key format used for daily counters (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Persistence keys
	AppStateKey      = "korastor_app_state"
	HealthSystemsKey = "korastor_health_systems"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "korastor-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "korastor-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.korastor"
	TrayExecutablePrefix   = "korastor-tray"

	// Storage timeouts
	StorageOpTimeout = 5 * time.Second
)
