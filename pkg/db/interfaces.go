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

// Package db persists normalized task events into Timeplus Proton.
package db

import (
	"context"

	"github.com/carverauto/taskradar/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/taskradar/pkg/db Service

// Service represents the task-event store.
type Service interface {
	// InsertEvents queues events on the write buffer; they reach the
	// database when the buffer fills or the flush interval elapses. With
	// buffering disabled it writes directly.
	InsertEvents(ctx context.Context, events []*models.CreatableEvent) error

	// InsertEventsImmediate bypasses the buffer and writes in one batch.
	InsertEventsImmediate(ctx context.Context, events []*models.CreatableEvent) error

	// Flush forces any buffered events to the database.
	Flush(ctx context.Context) error

	Close() error
}
