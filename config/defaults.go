package config

import "time"

// DefaultConfig returns the configuration the service starts with when
// nothing else is provided: sqlite cases and file storage under ./data.
func DefaultConfig() *Config {
	return &Config{
		Server:   DefaultServerConfig(),
		Cases:    DefaultCasesConfig(),
		Database: DefaultDatabaseConfig(),
		Redis:    DefaultRedisConfig(),
		Storage:  DefaultStorageConfig(),
		Log:      DefaultLogConfig(),
	}
}

// DefaultServerConfig returns the default HTTP serving options.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

// DefaultCasesConfig returns the default case store selection.
func DefaultCasesConfig() CasesConfig {
	return CasesConfig{
		Backend: "sqlite",
	}
}

// DefaultDatabaseConfig returns the default SQL settings.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "voiceagents",
		Password:        "",
		Name:            "data/voiceagents.db",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DefaultRedisConfig returns the default Redis settings.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "voiceagents:",
	}
}

// DefaultStorageConfig returns the default file storage locations.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		OrdersDir:   "data",
		WellnessDir: "data",
	}
}

// DefaultLogConfig returns the default logger settings.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:        "info",
		Format:       "json",
		OutputPaths:  []string{"stdout"},
		EnableCaller: true,
	}
}
