package config

const (
	defaultFormat          = FormatText
	defaultFetchTimeout    = 30
	defaultFetchRetries    = 3
	defaultServerAddr      = "127.0.0.1:8787"
	defaultServerRateLimit = 20
	defaultServerBurst     = 40
	defaultMaxBodyBytes    = 10 << 20
	defaultHistoryDriver   = DriverSQLite
	defaultHistoryDSN      = "~/.local/share/textproc/history.db"
	defaultLogLevel        = "info"
	defaultLogFormat       = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Format: defaultFormat,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeout,
			MaxRetries:     defaultFetchRetries,
			RespectRobots:  true,
		},
		Server: Server{
			Addr:         defaultServerAddr,
			RateLimit:    defaultServerRateLimit,
			Burst:        defaultServerBurst,
			MaxBodyBytes: defaultMaxBodyBytes,
		},
		History: History{
			Enabled: false,
			Driver:  defaultHistoryDriver,
			DSN:     defaultHistoryDSN,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
