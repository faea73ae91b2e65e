package config

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	ExtractionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDatabasePath() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigin() string
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Extraction
}

func New() Config {
	return mainConfig{}
}
