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

//go:generate mockgen -destination=mock_otlp.go -package=otlp github.com/carverauto/taskradar/pkg/otlp EventWriter,Enricher,Notifier,IDGenerator

package otlp

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/carverauto/taskradar/pkg/models"
)

// EventWriter persists normalized task events. InsertEvents may buffer;
// InsertEventsImmediate must not return until the rows are durable.
type EventWriter interface {
	InsertEvents(ctx context.Context, events []*models.CreatableEvent) error
	InsertEventsImmediate(ctx context.Context, events []*models.CreatableEvent) error
}

// Enricher augments a mapped batch before it is handed to the store.
// It is invoked exactly once per export call with the full batch and
// returns the slice to store, which may be the input slice mutated in
// place.
type Enricher interface {
	Enrich(ctx context.Context, events []*models.CreatableEvent) ([]*models.CreatableEvent, error)
}

// Notifier is told how many events were handed to the store after each
// successful dispatch. Notification failures never fail the export.
type Notifier interface {
	EventsStored(ctx context.Context, count int) error
}

// IDGenerator mints span ids for events that have no span of their own,
// such as events derived from log records.
type IDGenerator interface {
	GenerateSpanID() string
}

// RandomIDGenerator generates 8 random bytes per id, hex-encoded to the
// 16-character shape of a wire span id.
type RandomIDGenerator struct{}

func (RandomIDGenerator) GenerateSpanID() string {
	var b [8]byte

	// rand.Read never fails on supported platforms.
	_, _ = rand.Read(b[:])

	return hex.EncodeToString(b[:])
}
