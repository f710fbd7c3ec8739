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

package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestOTelConfig(t *testing.T) {
	config := DefaultOTelConfig()

	if config.ServiceName == "" {
		t.Error("ServiceName should have a default value")
	}

	if config.BatchTimeout == 0 {
		t.Error("BatchTimeout should have a default value")
	}

	if config.BatchTimeout != Duration(5*time.Second) {
		t.Errorf("Expected default BatchTimeout to be 5s, got %v", config.BatchTimeout)
	}
}

func TestOTelWriter_Disabled(t *testing.T) {
	config := OTelConfig{
		Enabled: false,
	}

	writer, err := NewOTelWriter(context.Background(), config)
	if !errors.Is(err, ErrOTelLoggingDisabled) {
		t.Errorf("Expected ErrOTelLoggingDisabled, got %v", err)
	}

	if writer != nil {
		t.Error("Writer should be nil when OTel is disabled")
	}
}

func TestOTelWriter_NoEndpoint(t *testing.T) {
	config := OTelConfig{
		Enabled:  true,
		Endpoint: "",
	}

	writer, err := NewOTelWriter(context.Background(), config)
	if !errors.Is(err, ErrOTelEndpointRequired) {
		t.Errorf("Expected ErrOTelEndpointRequired, got %v", err)
	}

	if writer != nil {
		t.Error("Writer should be nil when endpoint is empty")
	}
}

func TestLoggerWithOTelDisabled(t *testing.T) {
	config := &Config{
		Level:  "info",
		Debug:  false,
		Output: "stdout",
		OTel: OTelConfig{
			Enabled: false,
		},
	}

	err := Init(context.Background(), config)
	if err != nil {
		t.Fatalf("Failed to initialize logger with OTel disabled: %v", err)
	}

	Info().Str("test", "value").Msg("Test message without OTel")
}

func TestLoggerWithOTelEnabledButNoEndpoint(t *testing.T) {
	config := &Config{
		Level:  "info",
		Debug:  false,
		Output: "stdout",
		OTel: OTelConfig{
			Enabled:  true,
			Endpoint: "",
		},
	}

	err := Init(context.Background(), config)
	if err != nil {
		t.Fatalf("Failed to initialize logger with OTel enabled but no endpoint: %v", err)
	}

	Info().Str("test", "value").Msg("Test message with OTel enabled but no endpoint")
}

func TestMapZerologLevelToOTel(t *testing.T) {
	tests := []struct {
		zerologLevel string
		expected     string
	}{
		{"trace", "TRACE"},
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"fatal", "FATAL"},
		{"panic", "FATAL"},
		{"unknown", "INFO"},
	}

	for _, test := range tests {
		result := mapZerologLevelToOTel(test.zerologLevel)
		if result.String() != test.expected {
			t.Errorf("mapZerologLevelToOTel(%s) = %s, expected %s",
				test.zerologLevel, result.String(), test.expected)
		}
	}
}

func TestSanitizeLogEntryTruncatesLongValues(t *testing.T) {
	entry := map[string]interface{}{
		"short": "ok",
		"long":  strings.Repeat("x", maxAttributeValueLength+100),
	}

	sanitized, truncatedKeys := sanitizeLogEntry(entry)

	if sanitized["short"] != "ok" {
		t.Errorf("Short value should be untouched, got %q", sanitized["short"])
	}

	if len(sanitized["long"]) > maxAttributeValueLength {
		t.Errorf("Long value should be truncated to %d, got %d",
			maxAttributeValueLength, len(sanitized["long"]))
	}

	if len(truncatedKeys) != 1 || truncatedKeys[0] != "long" {
		t.Errorf("Expected truncated keys [long], got %v", truncatedKeys)
	}
}

func TestSanitizeLogEntrySummarizesStructures(t *testing.T) {
	entry := map[string]interface{}{
		"big_slice": []interface{}{"a", "b", "c", "d", "e", "f", "g"},
	}

	sanitized, truncatedKeys := sanitizeLogEntry(entry)

	if !strings.Contains(sanitized["big_slice"], "total=7") {
		t.Errorf("Expected slice summary with total, got %q", sanitized["big_slice"])
	}

	if len(truncatedKeys) != 1 {
		t.Errorf("Expected the summarized key to be reported, got %v", truncatedKeys)
	}
}
