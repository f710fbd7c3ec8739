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

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

var errInvalidDuration = fmt.Errorf("invalid duration")

// Duration is a time.Duration that unmarshals from either a duration
// string ("30s") or a numeric nanosecond count.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// ServiceRole identifies how a service participates in the platform.
type ServiceRole string

const (
	RoleTelemetry ServiceRole = "telemetry" // Server only (OTLP ingest)
	RoleWorker    ServiceRole = "worker"    // Client only (ships telemetry)
)

// SecurityMode defines the type of security to use.
type SecurityMode string

type TLSConfig struct {
	CertFile     string `json:"cert_file"`
	KeyFile      string `json:"key_file"`
	CAFile       string `json:"ca_file"`
	ClientCAFile string `json:"client_ca_file"`
}

// SecurityConfig holds common security configuration.
type SecurityConfig struct {
	Mode           SecurityMode `json:"mode"`
	CertDir        string       `json:"cert_dir"`
	ServerName     string       `json:"server_name,omitempty"`
	Role           ServiceRole  `json:"role"`
	TLS            TLSConfig    `json:"tls"`
	WorkloadSocket string       `json:"workload_socket,omitempty"`
	TrustDomain    string       `json:"trust_domain,omitempty"`
	ServerSPIFFEID string       `json:"server_spiffe_id,omitempty"`
}

type ProtonSettings struct {
	MaxExecutionTime                    int `json:"max_execution_time"`
	OutputFormatJSONQuote64bitInt       int `json:"output_format_json_quote_64bit_int"`
	IdleConnectionTimeout               int `json:"idle_connection_timeout"`
	JoinUseNulls                        int `json:"join_use_nulls"`
	InputFormatDefaultsForOmittedFields int `json:"input_format_defaults_for_omitted_fields"`
}

type ProtonDatabase struct {
	Addresses   []string          `json:"addresses"`
	Name        string            `json:"name"`
	Username    string            `json:"username"`
	Password    string            `json:"password"`
	MaxConns    int               `json:"max_conns"`
	IdleConns   int               `json:"idle_conns"`
	Settings    ProtonSettings    `json:"settings"`
	Security    *SecurityConfig   `json:"security,omitempty"`
	WriteBuffer WriteBufferConfig `json:"write_buffer"`
}

// WriteBufferConfig tunes the store's buffered write path. A MaxSize of
// zero takes the store default; a negative MaxSize disables buffering
// entirely, so every insert is written directly.
type WriteBufferConfig struct {
	MaxSize       int      `json:"max_size"`
	FlushInterval Duration `json:"flush_interval"`
}
