package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePair(t *testing.T, notAfter time.Time) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "academicverify.test"},
		NotBefore:    notAfter.Add(-365 * 24 * time.Hour),
		NotAfter:     notAfter,
		DNSNames:     []string{"academicverify.test"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600))
	return certFile, keyFile
}

func TestLoad(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	certFile, keyFile := writePair(t, now.Add(90*24*time.Hour))

	cm := NewCertManager(certFile, keyFile, func() time.Time { return now })
	pair, err := cm.Load()
	require.NoError(t, err)
	require.NotNil(t, pair.Leaf)
	assert.Equal(t, "academicverify.test", pair.Leaf.Subject.CommonName)
	assert.False(t, cm.NeedsRenewal(pair.Leaf))

	cfg := TLSConfig(pair)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Len(t, cfg.Certificates, 1)
}

func TestLoad_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	certFile, keyFile := writePair(t, now.Add(-time.Hour))

	_, err := NewCertManager(certFile, keyFile, func() time.Time { return now }).Load()
	require.ErrorIs(t, err, ErrExpired)
}

func TestNeedsRenewal(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	certFile, keyFile := writePair(t, now.Add(3*24*time.Hour))

	cm := NewCertManager(certFile, keyFile, func() time.Time { return now })
	pair, err := cm.Load()
	require.NoError(t, err)
	assert.True(t, cm.NeedsRenewal(pair.Leaf))
	assert.False(t, cm.IsExpired(pair.Leaf))
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := NewCertManager("nope.crt", "nope.key", nil).Load()
	require.Error(t, err)
}
