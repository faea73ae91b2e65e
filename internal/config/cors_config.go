package config

type Cors struct{}

var _ CorsConfig = Cors{}

// GetAllowedOrigin returns the single origin permitted to make credentialed
// cross-site requests. The browser client is served from a different host
// than this API, so the value must be exact (no wildcard with credentials).
func (Cors) GetAllowedOrigin() string {
	return GetEnv(allowedOrigin, "http://localhost:5173")
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}
