package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mnohosten/versionvec/pkg/server"
)

func main() {
	// Parse command-line flags
	host := flag.String("host", "localhost", "Server host address")
	port := flag.Int("port", 8080, "Server port")
	embedderDim := flag.Int("embedder-dimension", 64, "Output width of the hashed bag-of-words embedder")
	distanceMetric := flag.String("distance-metric", "cosine", "Vector distance metric: cosine, euclidean, or dot")
	defaultK := flag.Int("default-k", 2, "Default top-k when a query request omits \"k\"")
	corsOrigin := flag.String("cors-origin", "*", "CORS allowed origin")
	enableTLS := flag.Bool("tls", false, "Enable TLS/SSL")
	tlsCert := flag.String("tls-cert", "", "Path to TLS certificate file")
	tlsKey := flag.String("tls-key", "", "Path to TLS private key file")
	enableGraphQL := flag.Bool("graphql", false, "Enable GraphQL API endpoint (/graphql) and GraphiQL playground (/graphiql)")
	flag.Parse()

	// Create server configuration
	config := server.DefaultConfig()
	config.Host = *host
	config.Port = *port
	config.EmbedderDimension = *embedderDim
	config.DistanceMetric = *distanceMetric
	config.DefaultQueryK = *defaultK
	config.AllowedOrigins = []string{*corsOrigin}
	config.EnableTLS = *enableTLS
	config.TLSCertFile = *tlsCert
	config.TLSKeyFile = *tlsKey
	config.EnableGraphQL = *enableGraphQL

	// Create and start server
	srv, err := server.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create server: %v\n", err)
		os.Exit(1)
	}

	// Start server (blocks until shutdown)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
