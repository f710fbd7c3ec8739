/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/timeplus-io/proton-go-driver/v2"

	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
)

const (
	defaultMaxBufferSize    = 500
	defaultFlushInterval    = 30 * time.Second
	defaultDialTimeout      = 5 * time.Second
	defaultMaxOpenConns     = 10
	defaultMaxIdleConns     = 5
	defaultConnMaxLifetime  = time.Hour
	defaultMaxExecutionTime = 60

	// requeueFactor bounds the write buffer after failed flushes: events
	// re-queued for retry never grow it past maxBufferSize*requeueFactor.
	requeueFactor = 10
)

// DB is the Proton-backed task event store.
type DB struct {
	Conn          proton.Conn
	logger        logger.Logger
	writeBuffer   []*models.CreatableEvent
	bufferMutex   sync.Mutex
	flushTimer    *time.Timer
	ctx           context.Context
	cancel        context.CancelFunc
	maxBufferSize int
	flushInterval time.Duration

	// storeFn performs the actual batch write; tests stub it out.
	storeFn func(ctx context.Context, events []*models.CreatableEvent) error
}

// createTLSConfig builds TLS configuration from the database security settings.
func createTLSConfig(config *models.ProtonDatabase) (*tls.Config, error) {
	sec := config.Security
	if sec == nil || sec.Mode == "" || sec.Mode == models.SecurityMode("none") {
		return nil, nil
	}

	certDir := sec.CertDir
	certFile := sec.TLS.CertFile
	keyFile := sec.TLS.KeyFile
	caFile := sec.TLS.CAFile

	// Prepend CertDir to relative paths
	if certDir != "" {
		if !filepath.IsAbs(certFile) {
			certFile = filepath.Join(certDir, certFile)
		}

		if !filepath.IsAbs(keyFile) {
			keyFile = filepath.Join(certDir, keyFile)
		}

		if !filepath.IsAbs(caFile) {
			caFile = filepath.Join(certDir, caFile)
		}
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load client certificate: %w", ErrFailedOpenDB, err)
	}

	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CA certificate: %w", ErrFailedOpenDB, err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%w: failed to append CA certificate to pool", ErrFailedOpenDB)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caCertPool,
		MinVersion:   tls.VersionTLS13,
		ServerName:   sec.ServerName,
	}, nil
}

// buildSettings maps the configured Proton session settings, filling defaults.
func buildSettings(config *models.ProtonDatabase) proton.Settings {
	settings := proton.Settings{
		"max_execution_time": defaultMaxExecutionTime,
	}

	if config.Settings.MaxExecutionTime > 0 {
		settings["max_execution_time"] = config.Settings.MaxExecutionTime
	}

	if config.Settings.OutputFormatJSONQuote64bitInt > 0 {
		settings["output_format_json_quote_64bit_int"] = config.Settings.OutputFormatJSONQuote64bitInt
	}

	if config.Settings.IdleConnectionTimeout > 0 {
		settings["idle_connection_timeout"] = config.Settings.IdleConnectionTimeout
	}

	if config.Settings.JoinUseNulls > 0 {
		settings["join_use_nulls"] = config.Settings.JoinUseNulls
	}

	if config.Settings.InputFormatDefaultsForOmittedFields > 0 {
		settings["input_format_defaults_for_omitted_fields"] = config.Settings.InputFormatDefaultsForOmittedFields
	}

	return settings
}

// New opens the database connection, verifies it, and ensures the schema.
func New(ctx context.Context, config *models.ProtonDatabase, log logger.Logger) (Service, error) {
	if config == nil {
		return nil, ErrConfigMissing
	}

	if len(config.Addresses) == 0 {
		return nil, fmt.Errorf("%w: at least one address is required", ErrConfigMissing)
	}

	tlsConfig, err := createTLSConfig(config)
	if err != nil {
		return nil, err
	}

	maxOpenConns := defaultMaxOpenConns
	if config.MaxConns > 0 {
		maxOpenConns = config.MaxConns
	}

	maxIdleConns := defaultMaxIdleConns
	if config.IdleConns > 0 {
		maxIdleConns = config.IdleConns
	}

	conn, err := proton.Open(&proton.Options{
		Addr: config.Addresses,
		TLS:  tlsConfig,
		Auth: proton.Auth{
			Database: config.Name,
			Username: config.Username,
			Password: config.Password,
		},
		Compression: &proton.Compression{
			Method: proton.CompressionLZ4,
		},
		Settings:        buildSettings(config),
		DialTimeout:     defaultDialTimeout,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: defaultConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToPing, err)
	}

	// Run database migrations to ensure schema is up-to-date.
	if err := RunMigrations(ctx, conn, log); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return createDBWithBuffer(ctx, conn, config, log), nil
}

// createDBWithBuffer creates the DB struct with write buffering configured.
func createDBWithBuffer(ctx context.Context, conn proton.Conn, config *models.ProtonDatabase, log logger.Logger) *DB {
	bufferCtx, cancel := context.WithCancel(ctx)

	maxBufferSize := defaultMaxBufferSize
	flushInterval := defaultFlushInterval

	if config.WriteBuffer.MaxSize != 0 {
		maxBufferSize = config.WriteBuffer.MaxSize
	}

	if config.WriteBuffer.FlushInterval > 0 {
		flushInterval = time.Duration(config.WriteBuffer.FlushInterval)
	}

	// A negative MaxSize disables buffering explicitly; zero means "use
	// the default".
	if maxBufferSize < 0 {
		maxBufferSize = 0
	}

	db := &DB{
		Conn:          conn,
		logger:        log,
		ctx:           bufferCtx,
		cancel:        cancel,
		maxBufferSize: maxBufferSize,
		flushInterval: flushInterval,
	}
	db.storeFn = db.InsertEventsImmediate

	if maxBufferSize > 0 {
		db.writeBuffer = make([]*models.CreatableEvent, 0, maxBufferSize*2)

		go db.backgroundFlush()

		log.Debug().
			Int("max_size", maxBufferSize).
			Dur("flush_interval", flushInterval).
			Msg("Started write buffer")
	} else {
		log.Debug().Msg("Write buffering disabled, all writes will be direct")
	}

	return db
}

// InsertEvents queues events for the next flush. With buffering disabled
// it writes directly.
func (db *DB) InsertEvents(ctx context.Context, events []*models.CreatableEvent) error {
	if len(events) == 0 {
		return nil
	}

	if db.maxBufferSize == 0 {
		return db.storeFn(ctx, events)
	}

	db.bufferMutex.Lock()
	defer db.bufferMutex.Unlock()

	db.writeBuffer = append(db.writeBuffer, events...)

	db.logger.Debug().
		Int("added", len(events)).
		Int("buffered", len(db.writeBuffer)).
		Msg("Buffered events")

	if len(db.writeBuffer) >= db.maxBufferSize {
		return db.flushBufferUnsafe(ctx)
	}

	// Reset the flush timer
	if db.flushTimer != nil {
		db.flushTimer.Stop()
	}

	db.flushTimer = time.AfterFunc(db.flushInterval, func() {
		db.bufferMutex.Lock()
		defer db.bufferMutex.Unlock()

		if len(db.writeBuffer) > 0 {
			if err := db.flushBufferUnsafe(context.Background()); err != nil {
				db.logger.Error().Err(err).Msg("Timer flush failed")
			}
		}
	})

	return nil
}

// Flush forces any buffered events to the database.
func (db *DB) Flush(ctx context.Context) error {
	return db.flushBuffer(ctx)
}

// Close flushes pending events and closes the connection.
func (db *DB) Close() error {
	if db.cancel != nil {
		db.cancel()
	}

	if err := db.flushBuffer(context.Background()); err != nil {
		db.logger.Warn().Err(err).Msg("Failed to flush buffer during close")
	}

	return db.Conn.Close()
}

// backgroundFlush periodically sweeps the buffer so events never sit
// longer than the flush interval, even when the timer path misfires.
func (db *DB) backgroundFlush() {
	ticker := time.NewTicker(db.flushInterval / 2) // Check twice as often as flush interval
	defer ticker.Stop()

	for {
		select {
		case <-db.ctx.Done():
			db.logger.Debug().Msg("Background flush routine stopping")

			return
		case <-ticker.C:
			db.bufferMutex.Lock()
			if len(db.writeBuffer) > 0 {
				if err := db.flushBufferUnsafe(context.Background()); err != nil {
					db.logger.Error().Err(err).Msg("Background flush failed")
				}
			}
			db.bufferMutex.Unlock()
		}
	}
}

// flushBuffer safely flushes the write buffer to the database.
func (db *DB) flushBuffer(ctx context.Context) error {
	db.bufferMutex.Lock()
	defer db.bufferMutex.Unlock()

	return db.flushBufferUnsafe(ctx)
}

// flushBufferUnsafe flushes the write buffer to the database (caller must
// hold bufferMutex).
func (db *DB) flushBufferUnsafe(ctx context.Context) error {
	if len(db.writeBuffer) == 0 {
		return nil
	}

	// Copy to minimize lock time on the shared slice header.
	toFlush := make([]*models.CreatableEvent, len(db.writeBuffer))
	copy(toFlush, db.writeBuffer)

	db.writeBuffer = db.writeBuffer[:0]

	if db.flushTimer != nil {
		db.flushTimer.Stop()
		db.flushTimer = nil
	}

	if err := db.storeFn(ctx, toFlush); err != nil {
		db.requeue(toFlush)

		return err
	}

	db.logger.Debug().Int("flushed", len(toFlush)).Msg("Flushed buffered events")

	return nil
}

// requeue puts a failed flush batch back on the buffer for retry, dropping
// the oldest events when the bound would be exceeded. Caller must hold
// bufferMutex.
func (db *DB) requeue(events []*models.CreatableEvent) {
	capacity := db.maxBufferSize * requeueFactor

	spare := capacity - len(db.writeBuffer)
	if spare <= 0 {
		db.logger.Error().
			Int("dropped", len(events)).
			Msg("Write buffer at capacity, dropping failed flush batch")

		return
	}

	if len(events) > spare {
		db.logger.Warn().
			Int("dropped", len(events)-spare).
			Msg("Write buffer near capacity, dropping oldest events from failed flush")

		events = events[len(events)-spare:]
	}

	db.writeBuffer = append(db.writeBuffer, events...)
}
