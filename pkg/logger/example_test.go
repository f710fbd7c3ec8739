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

package logger_test

import (
	"context"
	"fmt"

	"github.com/carverauto/taskradar/pkg/logger"
)

func ExampleInit() {
	config := &logger.Config{
		Level:      "debug",
		Debug:      true,
		Output:     "stdout",
		TimeFormat: "",
	}

	err := logger.Init(context.Background(), config)
	if err != nil {
		panic(err)
	}

	logger.Info().Str("component", "example").Msg("Logger initialized successfully")
}

func ExampleInitWithDefaults() {
	err := logger.InitWithDefaults(context.Background())
	if err != nil {
		panic(err)
	}

	logger.Info().Msg("Logger initialized with defaults")
}

func ExampleWithComponent() {
	componentLogger := logger.WithComponent("db")

	componentLogger.Info().
		Str("stream", "task_events").
		Int("count", 150).
		Msg("Batch flushed successfully")
}

func ExampleWithFields() {
	fields := map[string]interface{}{
		"run_id":      "run_abc123",
		"task_id":     "send-email",
		"environment": "env_prod",
	}

	enrichedLogger := logger.WithFields(fields)
	enrichedLogger.Info().Msg("Run completed")
}

func ExampleSetDebug() {
	logger.SetDebug(true)
	logger.Debug().Msg("This debug message will be visible")

	logger.SetDebug(false)
	logger.Debug().Msg("This debug message will be hidden")
	logger.Info().Msg("This info message will still be visible")
}

func Example_usageInService() {
	serviceLogger := logger.WithComponent("telemetry")

	batchID := "batch_9f2"
	spanCount := 42

	serviceLogger.Info().
		Str("batch_id", batchID).
		Int("spans", spanCount).
		Msg("Processing export request")

	if err := storeBatch(spanCount); err != nil {
		serviceLogger.Error().
			Err(err).
			Str("batch_id", batchID).
			Msg("Failed to store batch")
	}

	serviceLogger.Info().
		Str("batch_id", batchID).
		Msg("Export request completed")
}

func storeBatch(spanCount int) error {
	if spanCount <= 0 {
		return fmt.Errorf("empty batch: %d spans", spanCount)
	}

	return nil
}
