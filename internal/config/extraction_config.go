package config

import "time"

type ExtractionConfig interface {
	GetExtractionBaseURL() string
	GetExtractionAPIKey() string
	GetExtractionModel() string
	GetExtractionTimeout() time.Duration
}

type Extraction struct{}

var _ ExtractionConfig = Extraction{}

func (Extraction) GetExtractionBaseURL() string {
	return GetEnv("EXTRACTION_BASE_URL", "https://api.openai.com/v1")
}

func (Extraction) GetExtractionAPIKey() string {
	return GetEnv("EXTRACTION_API_KEY", "")
}

func (Extraction) GetExtractionModel() string {
	return GetEnv("EXTRACTION_MODEL", "gpt-4o-mini")
}

func (Extraction) GetExtractionTimeout() time.Duration {
	return time.Duration(getEnvInt("EXTRACTION_TIMEOUT_SECONDS", 60)) * time.Second
}
