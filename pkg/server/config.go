package server

import "time"

// Config holds server configuration settings
type Config struct {
	Host string // Server host address
	Port int    // Server port

	EmbedderDimension int    // Output width of the hashed bag-of-words embedder
	DistanceMetric    string // Vector distance metric: cosine, euclidean, or dot
	DefaultQueryK     int    // Default top-k when a query request omits "k"

	ReadTimeout    time.Duration // HTTP read timeout
	WriteTimeout   time.Duration // HTTP write timeout
	IdleTimeout    time.Duration // HTTP idle timeout
	MaxRequestSize int64         // Maximum request body size in bytes
	EnableCORS     bool          // Enable CORS middleware
	AllowedOrigins []string      // CORS allowed origins
	AllowedMethods []string      // CORS allowed methods
	AllowedHeaders []string      // CORS allowed headers
	EnableLogging  bool          // Enable request logging

	// TLS/SSL configuration
	EnableTLS   bool   // Enable TLS/SSL
	TLSCertFile string // Path to TLS certificate file
	TLSKeyFile  string // Path to TLS private key file

	// GraphQL configuration
	EnableGraphQL bool // Enable GraphQL API endpoint
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:              "localhost",
		Port:              8080,
		EmbedderDimension: 64,
		DistanceMetric:    "cosine",
		DefaultQueryK:     2,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxRequestSize:    10 * 1024 * 1024, // 10MB
		EnableCORS:        true,
		AllowedOrigins:    []string{"*"},
		AllowedMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:    []string{"Content-Type", "Authorization", "X-Request-ID"},
		EnableLogging:     true,
		EnableTLS:         false,
		TLSCertFile:       "",
		TLSKeyFile:        "",
		EnableGraphQL:     false,
	}
}
