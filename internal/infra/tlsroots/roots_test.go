package tlsroots

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/kvwire-go/pkg/client"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

// ============================================================
// Pool Tests
// ============================================================

func TestNewPool(t *testing.T) {
	if pool := NewPool(); pool.Pool() == nil {
		t.Fatal("Pool() returned nil")
	}
	if pool := NewEmptyPool(); pool.Pool() == nil {
		t.Fatal("Pool() returned nil")
	}
}

func TestAddCertPEM(t *testing.T) {
	pool := NewEmptyPool()

	certPEM, _ := generateTestCertPEM(t)
	if err := pool.AddCertPEM(certPEM); err != nil {
		t.Fatalf("AddCertPEM() error = %v", err)
	}
}

func TestAddCertPEM_MultipleCerts(t *testing.T) {
	pool := NewEmptyPool()

	cert1, _ := generateTestCertPEM(t)
	cert2, key2 := generateTestCertPEM(t)
	combined := append(append(cert1, key2...), cert2...)

	if err := pool.AddCertPEM(combined); err != nil {
		t.Fatalf("AddCertPEM() error = %v", err)
	}
}

func TestAddCertPEM_NoCerts(t *testing.T) {
	pool := NewEmptyPool()

	for _, data := range [][]byte{{}, []byte("not a certificate")} {
		if err := pool.AddCertPEM(data); !errors.Is(err, ErrNoCertsFound) {
			t.Errorf("AddCertPEM(%q) error = %v, want %v", data, err, ErrNoCertsFound)
		}
	}
}

func TestAddCertPEM_InvalidCert(t *testing.T) {
	pool := NewEmptyPool()

	invalidPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: []byte("invalid certificate data"),
	})
	if err := pool.AddCertPEM(invalidPEM); err == nil {
		t.Error("AddCertPEM() expected error for invalid certificate")
	}
}

func TestAddCertFile_NotFound(t *testing.T) {
	pool := NewEmptyPool()

	if err := pool.AddCertFile("/nonexistent/path/cert.pem"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("AddCertFile() error = %v, want os.ErrNotExist", err)
	}
}

// ============================================================
// Config Tests
// ============================================================

func TestConfig_Disabled(t *testing.T) {
	cfg, err := Config{CAFile: "/ignored"}.ClientConfig()
	if err != nil || cfg != nil {
		t.Errorf("ClientConfig() = %v, %v; want nil, nil", cfg, err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := Config{Enabled: true, ServerName: "kv.internal"}.ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %v, want TLS 1.2", cfg.MinVersion)
	}
	if cfg.ServerName != "kv.internal" {
		t.Errorf("ServerName = %q", cfg.ServerName)
	}
	if cfg.RootCAs != nil {
		t.Error("RootCAs should be nil without a CA file")
	}
}

func TestConfig_KeyPair(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir)

	cfg, err := Config{Enabled: true, CertFile: certFile, KeyFile: keyFile}.ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("len(Certificates) = %d, want 1", len(cfg.Certificates))
	}
}

func TestConfig_KeyPairIncomplete(t *testing.T) {
	_, err := Config{Enabled: true, CertFile: "client.crt"}.ClientConfig()
	if !errors.Is(err, ErrKeyPairIncomplete) {
		t.Errorf("ClientConfig() error = %v, want ErrKeyPairIncomplete", err)
	}
}

func TestConfig_MissingCA(t *testing.T) {
	_, err := Config{Enabled: true, CAFile: filepath.Join(t.TempDir(), "ca.pem")}.ClientConfig()
	if err == nil {
		t.Error("ClientConfig() expected error for a missing CA file")
	}
}

// ============================================================
// Handshake Tests
// ============================================================

func TestConfig_DialTLS(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir)

	serverCert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatal(err)
	}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go serveOK(ln)

	cfg, err := Config{Enabled: true, CAFile: certFile}.ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}

	c, err := client.Dial(context.Background(), ln.Addr().String(), client.WithTLS(cfg))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if err := c.FlushDB(context.Background(), false); err != nil {
		t.Errorf("FlushDB() over TLS error = %v", err)
	}
}

func TestConfig_DialTLS_UnknownAuthority(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir)

	serverCert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatal(err)
	}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{serverCert}})
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go serveOK(ln)

	// The throwaway CA is unknown to an empty pool.
	cfg := &tls.Config{RootCAs: NewEmptyPool().Pool(), MinVersion: tls.VersionTLS12}
	if _, err := client.Dial(context.Background(), ln.Addr().String(), client.WithTLS(cfg)); err == nil {
		t.Error("Dial() expected verification failure")
	}
}

// serveOK answers every request with +OK.
func serveOK(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			dec := resp.NewDecoder(bufio.NewReader(conn))
			for {
				if _, err := dec.ReadValue(); err != nil {
					return
				}
				if _, err := conn.Write(resp.Serialize(resp.SimpleString("OK"))); err != nil {
					return
				}
			}
		}()
	}
}

// generateTestCertPEM generates a self-signed CA certificate valid for
// 127.0.0.1, returning the certificate and key in PEM format.
func generateTestCertPEM(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject: pkix.Name{
			Organization: []string{"Test Org"},
			CommonName:   "kvwire.test",
		},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey() error = %v", err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}

func writeTestKeyPair(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	certPEM, keyPEM := generateTestCertPEM(t)
	certFile = filepath.Join(dir, "store.crt")
	keyFile = filepath.Join(dir, "store.key")
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("WriteFile(cert) error = %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		t.Fatalf("WriteFile(key) error = %v", err)
	}
	return certFile, keyFile
}
