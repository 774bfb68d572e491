package tpsclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/muurk/tpsctl/internal/logging"
)

// NewTLSConfig creates the client TLS configuration.
// caFile adds a PEM bundle to the system roots (TPS usually runs behind the
// PKI's own CA); certFile/keyFile enable client certificate authentication.
func NewTLSConfig(caFile, certFile, keyFile string, insecure bool) (*tls.Config, error) {
	config := &tls.Config{
		MinVersion: tls.VersionTLS12,
		// #nosec G402 -- opt-in for lab servers with self-signed certificates
		InsecureSkipVerify: insecure,
		VerifyConnection: func(cs tls.ConnectionState) error {
			logging.LogTLSHandshake(cs.ServerName, cs)
			return nil
		},
	}

	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA bundle %s", caFile)
		}
		config.RootCAs = pool
	}

	if certFile != "" || keyFile != "" {
		if certFile == "" || keyFile == "" {
			return nil, fmt.Errorf("client certificate and key must be given together")
		}
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		config.Certificates = []tls.Certificate{cert}
	}

	logging.Debug("TLS configuration created",
		zap.String("ca_file", caFile),
		zap.Bool("client_cert", certFile != ""),
		zap.Bool("insecure", insecure),
	)

	return config, nil
}
