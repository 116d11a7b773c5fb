package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Retention: RetentionConfig{
			Days:       365,
			MaxEntries: 10000,
		},
		Capture: CaptureConfig{
			DenylistDomains:    []string{},
			DenylistRegex:      []string{},
			UseDefaultDenylist: false,
		},
		Storage: StorageConfig{
			Path:              "~/.config/frecent",
			Backend:           "sqlite",
			SQLiteFile:        "history.db",
			JSONFile:          "history.json",
			SQLiteJournalMode: "wal",
		},
		Search: SearchConfig{
			DebounceMS:      300,
			Limit:           10,
			CacheTTLSeconds: 30,
			CacheSize:       256,
		},
		Favicon: FaviconConfig{
			MaxBytes: 0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "frecent.log",
			MaxSize:    10485760,
			MaxBackups: 3,
		},
	}
}
