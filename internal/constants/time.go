package constants

const (
	MsPerSecond int64 = 1000
	MsPerMinute       = 60 * MsPerSecond
	MsPerHour         = 60 * MsPerMinute
	MsPerDay          = 24 * MsPerHour
)
