package server

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	// Create temporary directory for certificates
	tmpDir, err := os.MkdirTemp("", "tls-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	certFile := filepath.Join(tmpDir, "cert.pem")
	keyFile := filepath.Join(tmpDir, "key.pem")

	// Generate certificate
	err = GenerateSelfSignedCert(certFile, keyFile, "localhost")
	if err != nil {
		t.Fatalf("Failed to generate certificate: %v", err)
	}

	// Check if files were created
	if _, err := os.Stat(certFile); os.IsNotExist(err) {
		t.Errorf("Certificate file was not created")
	}
	if _, err := os.Stat(keyFile); os.IsNotExist(err) {
		t.Errorf("Key file was not created")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatalf("Failed to load generated certificate: %v", err)
	}

	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("Failed to parse certificate: %v", err)
	}

	now := time.Now()
	if now.Before(x509Cert.NotBefore) || now.After(x509Cert.NotAfter) {
		t.Errorf("Certificate is not currently valid")
	}

	foundLocalhost := false
	for _, name := range x509Cert.DNSNames {
		if name == "localhost" || name == "127.0.0.1" {
			foundLocalhost = true
			break
		}
	}
	if !foundLocalhost {
		t.Errorf("Certificate does not include localhost or 127.0.0.1 in DNS names")
	}
}

func TestServerTLSConfiguration(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "server-tls-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	certFile := filepath.Join(tmpDir, "cert.pem")
	keyFile := filepath.Join(tmpDir, "key.pem")

	err = GenerateSelfSignedCert(certFile, keyFile, "localhost")
	if err != nil {
		t.Fatalf("Failed to generate certificate: %v", err)
	}

	// Server should fail if TLS is enabled but cert/key not specified
	config := DefaultConfig()
	config.Port = 0
	config.EnableTLS = true
	config.TLSCertFile = ""
	config.TLSKeyFile = ""

	_, err = New(config)
	if err == nil {
		t.Error("Expected error when TLS enabled but cert/key not specified")
	}

	// Server should fail if cert file doesn't exist
	config.TLSCertFile = filepath.Join(tmpDir, "nonexistent.pem")
	config.TLSKeyFile = keyFile

	_, err = New(config)
	if err == nil {
		t.Error("Expected error when cert file doesn't exist")
	}

	// Server should fail if key file doesn't exist
	config.TLSCertFile = certFile
	config.TLSKeyFile = filepath.Join(tmpDir, "nonexistent.key")

	_, err = New(config)
	if err == nil {
		t.Error("Expected error when key file doesn't exist")
	}

	// Server should start successfully with valid TLS configuration
	config.TLSCertFile = certFile
	config.TLSKeyFile = keyFile

	srv, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create server with TLS: %v", err)
	}
	defer srv.Shutdown()

	if !srv.config.EnableTLS {
		t.Error("TLS should be enabled")
	}
	if srv.config.TLSCertFile != certFile {
		t.Errorf("Expected cert file %s, got %s", certFile, srv.config.TLSCertFile)
	}
	if srv.config.TLSKeyFile != keyFile {
		t.Errorf("Expected key file %s, got %s", keyFile, srv.config.TLSKeyFile)
	}
}

func TestServerTLSConnection(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "server-tls-conn-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	certFile := filepath.Join(tmpDir, "cert.pem")
	keyFile := filepath.Join(tmpDir, "key.pem")

	err = GenerateSelfSignedCert(certFile, keyFile, "localhost")
	if err != nil {
		t.Fatalf("Failed to generate certificate: %v", err)
	}

	config := DefaultConfig()
	config.Host = "127.0.0.1"
	config.Port = 18443
	config.EnableTLS = true
	config.TLSCertFile = certFile
	config.TLSKeyFile = keyFile

	srv, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()
	defer srv.Shutdown()

	time.Sleep(200 * time.Millisecond)

	client := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // Accept self-signed certificate
			},
		},
		Timeout: 5 * time.Second,
	}

	url := fmt.Sprintf("https://%s:%d/_health", config.Host, config.Port)
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("Failed to connect to HTTPS server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var healthResp map[string]interface{}
	if err := json.Unmarshal(body, &healthResp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if ok, exists := healthResp["ok"].(bool); !exists || !ok {
		t.Errorf("Expected ok: true, got %v", healthResp["ok"])
	}

	if result, exists := healthResp["result"].(map[string]interface{}); exists {
		if status, ok := result["status"].(string); !ok || status != "ok" {
			t.Errorf("Expected status 'ok', got %v", result["status"])
		}
	} else {
		t.Error("Expected result field in response")
	}
}

func TestServerHTTPConnection(t *testing.T) {
	config := DefaultConfig()
	config.Host = "127.0.0.1"
	config.Port = 18080
	config.EnableTLS = false

	srv, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		srv.Start()
	}()
	defer srv.Shutdown()

	time.Sleep(200 * time.Millisecond)

	url := fmt.Sprintf("http://%s:%d/_health", config.Host, config.Port)
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Failed to connect to HTTP server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var healthResp map[string]interface{}
	if err := json.Unmarshal(body, &healthResp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if ok, exists := healthResp["ok"].(bool); !exists || !ok {
		t.Errorf("Expected ok: true, got %v", healthResp["ok"])
	}

	if result, exists := healthResp["result"].(map[string]interface{}); exists {
		if status, ok := result["status"].(string); !ok || status != "ok" {
			t.Errorf("Expected status 'ok', got %v", result["status"])
		}
	} else {
		t.Error("Expected result field in response")
	}
}
