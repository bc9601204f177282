// Package certs loads the optional TLS key pair the server listens with.
package certs

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// RenewWindow is how close to expiry a certificate counts as due for renewal.
const RenewWindow = 14 * 24 * time.Hour

// ErrExpired is returned by Load when the certificate is no longer valid.
var ErrExpired = errors.New("certificate expired")

// CertManager loads a PEM certificate and key from disk.
type CertManager struct {
	certFile string
	keyFile  string
	now      func() time.Time
}

// NewCertManager returns a manager for the given PEM files.
func NewCertManager(certFile, keyFile string, now func() time.Time) *CertManager {
	if now == nil {
		now = time.Now
	}
	return &CertManager{certFile: certFile, keyFile: keyFile, now: now}
}

// Load reads the key pair and parses its leaf certificate.
func (cm *CertManager) Load() (tls.Certificate, error) {
	pair, err := tls.LoadX509KeyPair(cm.certFile, cm.keyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load key pair: %w", err)
	}
	if pair.Leaf == nil {
		leaf, err := x509.ParseCertificate(pair.Certificate[0])
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("parse certificate: %w", err)
		}
		pair.Leaf = leaf
	}
	if cm.IsExpired(pair.Leaf) {
		return tls.Certificate{}, fmt.Errorf("%s: %w on %s", cm.certFile, ErrExpired, pair.Leaf.NotAfter.Format(time.RFC3339))
	}
	return pair, nil
}

// IsExpired checks if a certificate is expired.
func (cm *CertManager) IsExpired(cert *x509.Certificate) bool {
	return cert.NotAfter.Before(cm.now())
}

// NeedsRenewal reports whether cert expires within RenewWindow.
func (cm *CertManager) NeedsRenewal(cert *x509.Certificate) bool {
	return cert.NotAfter.Before(cm.now().Add(RenewWindow))
}

// TLSConfig returns a server config serving pair.
func TLSConfig(pair tls.Certificate) *tls.Config {
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
	}
}
