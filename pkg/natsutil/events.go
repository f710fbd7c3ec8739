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

// Package natsutil publishes TaskRadar CloudEvents to NATS JetStream and
// builds secured NATS connections.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
)

const (
	// EventSource identifies the telemetry service as the CloudEvents
	// producer.
	EventSource = "taskradar/telemetry"

	// TypeEventsStored is the CloudEvents type emitted after a batch of
	// task events has been handed to the store.
	TypeEventsStored = "com.carverauto.taskradar.events.stored"

	// SubjectEventsStored is the NATS subject events-stored notifications
	// publish to.
	SubjectEventsStored = "events.taskradar.stored"
)

// EventPublisher publishes CloudEvents to a NATS JetStream stream.
type EventPublisher struct {
	js       jetstream.JetStream
	stream   string
	subjects []string
}

// NewEventPublisher creates an EventPublisher for the given stream. The
// subject list is informational; the stream must already exist.
func NewEventPublisher(js jetstream.JetStream, streamName string, subjects []string) *EventPublisher {
	return &EventPublisher{
		js:       js,
		stream:   streamName,
		subjects: subjects,
	}
}

// PublishEventsStored publishes one events-stored notification.
func (p *EventPublisher) PublishEventsStored(ctx context.Context, data models.EventsStoredData) error {
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}

	if data.Source == "" {
		data.Source = EventSource
	}

	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          EventSource,
		Type:            TypeEventsStored,
		DataContentType: "application/json",
		Subject:         SubjectEventsStored,
		Time:            &data.Timestamp,
		Data:            data,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal events-stored event: %w", err)
	}

	if _, err := p.js.Publish(ctx, event.Subject, eventBytes); err != nil {
		return fmt.Errorf("failed to publish events-stored event: %w", err)
	}

	return nil
}

// CreateEventPublisher creates an EventPublisher on an existing NATS
// connection, creating the stream when it does not exist yet.
func CreateEventPublisher(ctx context.Context, nc *nats.Conn, streamName string, subjects []string) (*EventPublisher, error) {
	return CreateEventPublisherWithDomain(ctx, nc, "", streamName, subjects)
}

// CreateEventPublisherWithDomain creates an EventPublisher with optional
// JetStream domain support.
func CreateEventPublisherWithDomain(ctx context.Context, nc *nats.Conn, domain, streamName string, subjects []string) (*EventPublisher, error) {
	var (
		js  jetstream.JetStream
		err error
	)

	if domain != "" {
		js, err = jetstream.NewWithDomain(nc, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
		}
	} else {
		js, err = jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context: %w", err)
		}
	}

	// The stream has to cover the subject notifications publish to.
	subjects = ensureSubjectList(subjects, SubjectEventsStored)

	_, err = js.Stream(ctx, streamName)
	if isStreamMissingErr(err) {
		streamConfig := jetstream.StreamConfig{
			Name:     streamName,
			Subjects: subjects,
		}

		if _, err = js.CreateOrUpdateStream(ctx, streamConfig); err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get stream %s: %w", streamName, err)
	}

	return NewEventPublisher(js, streamName, subjects), nil
}

// ConnectWithSecurity creates a NATS connection, wiring mTLS from the
// security configuration when one is provided.
func ConnectWithSecurity(_ context.Context, natsURL string, security *models.SecurityConfig, log logger.Logger, extraOpts ...nats.Option) (*nats.Conn, error) {
	var opts []nats.Option

	if security != nil {
		tlsConf, err := TLSConfig(security)
		if err != nil {
			return nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
		}

		opts = append(opts,
			nats.Secure(tlsConf),
			nats.RootCAs(security.TLS.CAFile),
			nats.ClientCert(security.TLS.CertFile, security.TLS.KeyFile),
		)
	}

	opts = append(opts,
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)

	opts = append(opts, extraOpts...)

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

// ensureSubjectList appends subject unless an existing pattern already
// covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject reports whether a NATS subject pattern covers a concrete
// subject. "*" matches one token, ">" matches the remaining tokens.
func matchesSubject(pattern, subject string) bool {
	patternTokens := strings.Split(pattern, ".")
	subjectTokens := strings.Split(subject, ".")

	for i, token := range patternTokens {
		if token == ">" {
			return i < len(subjectTokens)
		}

		if i >= len(subjectTokens) {
			return false
		}

		if token != "*" && token != subjectTokens[i] {
			return false
		}
	}

	return len(patternTokens) == len(subjectTokens)
}

// isStreamMissingErr reports whether err means the stream does not exist
// yet, across the jetstream and legacy nats APIs.
func isStreamMissingErr(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoResponders)
}
