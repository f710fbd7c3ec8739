/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package grpc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
)

func TestNewSecurityProviderDefaults(t *testing.T) {
	log := logger.NewTestLogger()
	ctx := context.Background()

	provider, err := NewSecurityProvider(ctx, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &NoSecurityProvider{}, provider)

	provider, err = NewSecurityProvider(ctx, &models.SecurityConfig{}, log)
	require.NoError(t, err)
	assert.IsType(t, &NoSecurityProvider{}, provider)

	provider, err = NewSecurityProvider(ctx, &models.SecurityConfig{Mode: SecurityModeNone}, log)
	require.NoError(t, err)
	assert.IsType(t, &NoSecurityProvider{}, provider)
}

func TestNewSecurityProviderUnknownMode(t *testing.T) {
	log := logger.NewTestLogger()

	_, err := NewSecurityProvider(context.Background(), &models.SecurityConfig{Mode: "kerberos"}, log)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknownSecurityMode)
}

func TestNoSecurityProviderCredentials(t *testing.T) {
	provider := &NoSecurityProvider{logger: logger.NewTestLogger()}

	dialOpt, err := provider.GetClientCredentials(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, dialOpt)

	serverOpt, err := provider.GetServerCredentials(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, serverOpt)

	assert.NoError(t, provider.Close())
}

func TestMTLSProviderTelemetryRole(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, GenerateTestCertificates(tmpDir))

	config := &models.SecurityConfig{
		Mode:    SecurityModeMTLS,
		CertDir: tmpDir,
		Role:    models.RoleTelemetry,
		TLS: models.TLSConfig{
			CertFile: "server.pem",
			KeyFile:  "server-key.pem",
			CAFile:   "root.pem",
		},
	}

	provider, err := NewMTLSProvider(config, logger.NewTestLogger())
	require.NoError(t, err)

	defer func() { _ = provider.Close() }()

	serverOpt, err := provider.GetServerCredentials(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, serverOpt)

	// The telemetry service never dials other services.
	_, err = provider.GetClientCredentials(context.Background())
	assert.ErrorIs(t, err, errServiceNotClient)
}

func TestMTLSProviderWorkerRole(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, GenerateTestCertificates(tmpDir))

	config := &models.SecurityConfig{
		Mode:    SecurityModeMTLS,
		CertDir: tmpDir,
		Role:    models.RoleWorker,
		TLS: models.TLSConfig{
			CertFile: "client.pem",
			KeyFile:  "client-key.pem",
			CAFile:   "root.pem",
		},
	}

	provider, err := NewMTLSProvider(config, logger.NewTestLogger())
	require.NoError(t, err)

	defer func() { _ = provider.Close() }()

	dialOpt, err := provider.GetClientCredentials(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, dialOpt)

	_, err = provider.GetServerCredentials(context.Background())
	assert.ErrorIs(t, err, errServiceNotServer)
}

func TestMTLSProviderRejectsUnknownRole(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, GenerateTestCertificates(tmpDir))

	config := &models.SecurityConfig{
		Mode:    SecurityModeMTLS,
		CertDir: tmpDir,
		Role:    "dispatcher",
		TLS: models.TLSConfig{
			CertFile: "server.pem",
			KeyFile:  "server-key.pem",
			CAFile:   "root.pem",
		},
	}

	_, err := NewMTLSProvider(config, logger.NewTestLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidServiceRole)
}

func TestMTLSProviderRequiresTLSPaths(t *testing.T) {
	config := &models.SecurityConfig{
		Mode: SecurityModeMTLS,
		Role: models.RoleTelemetry,
	}

	_, err := NewMTLSProvider(config, logger.NewTestLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, errSecurityConfigRequired)
}

func TestNewSecurityProviderMTLSUppercaseMode(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, GenerateTestCertificates(tmpDir))

	config := &models.SecurityConfig{
		Mode:    "MTLS",
		CertDir: tmpDir,
		Role:    models.RoleTelemetry,
		TLS: models.TLSConfig{
			CertFile: "server.pem",
			KeyFile:  "server-key.pem",
			CAFile:   "root.pem",
		},
	}

	provider, err := NewSecurityProvider(context.Background(), config, logger.NewTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &MTLSProvider{}, provider)

	_ = provider.Close()
}

func TestCertificateManagerValidation(t *testing.T) {
	tmpDir := t.TempDir()
	certDir := filepath.Join(tmpDir, "certs")

	cm := NewCertificateManager(&models.SecurityConfig{CertDir: certDir})

	require.NoError(t, cm.EnsureCertificateDirectory())

	err := cm.ValidateCertificates(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingCerts)

	for _, file := range []string{"ca.crt", "server.crt", "server.key"} {
		require.NoError(t, os.WriteFile(filepath.Join(certDir, file), []byte("test"), 0o600))
	}

	assert.NoError(t, cm.ValidateCertificates(false))

	// Mutual validation still requires the client pair.
	err = cm.ValidateCertificates(true)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingCerts)

	for _, file := range []string{"client.crt", "client.key"} {
		require.NoError(t, os.WriteFile(filepath.Join(certDir, file), []byte("test"), 0o600))
	}

	assert.NoError(t, cm.ValidateCertificates(true))
}
