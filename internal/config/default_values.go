package config

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"

	DefaultBackend   = BackendSQLite
	DefaultBaseDir   = "~/.habits"
	DefaultKey       = "habits"
	DefaultRedisAddr = "127.0.0.1:6379"
	DefaultLogLevel  = "info"
)
