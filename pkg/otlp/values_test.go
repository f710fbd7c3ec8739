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

package otlp

import (
	"encoding/hex"
	"testing"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

func kvStr(key, value string) *commonpb.KeyValue {
	return &commonpb.KeyValue{
		Key:   key,
		Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: value}},
	}
}

func kvInt(key string, value int64) *commonpb.KeyValue {
	return &commonpb.KeyValue{
		Key:   key,
		Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: value}},
	}
}

func kvDouble(key string, value float64) *commonpb.KeyValue {
	return &commonpb.KeyValue{
		Key:   key,
		Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: value}},
	}
}

func kvBool(key string, value bool) *commonpb.KeyValue {
	return &commonpb.KeyValue{
		Key:   key,
		Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: value}},
	}
}

func kvBytes(key string, value []byte) *commonpb.KeyValue {
	return &commonpb.KeyValue{
		Key:   key,
		Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_BytesValue{BytesValue: value}},
	}
}

func TestStringValue(t *testing.T) {
	if v, ok := stringValue(kvStr("k", "hello").Value); !ok || v != "hello" {
		t.Fatalf("expected (hello, true), got (%q, %v)", v, ok)
	}

	if _, ok := stringValue(kvInt("k", 7).Value); ok {
		t.Fatalf("expected mismatched tag to be absent")
	}

	if _, ok := stringValue(nil); ok {
		t.Fatalf("expected nil value to be absent")
	}
}

func TestIntValue(t *testing.T) {
	if v, ok := intValue(kvInt("k", 42).Value); !ok || v != 42 {
		t.Fatalf("expected (42, true), got (%d, %v)", v, ok)
	}

	if _, ok := intValue(kvDouble("k", 42).Value); ok {
		t.Fatalf("expected double tag to be absent as int")
	}
}

func TestDoubleValue(t *testing.T) {
	if v, ok := doubleValue(kvDouble("k", 1.5).Value); !ok || v != 1.5 {
		t.Fatalf("expected (1.5, true), got (%f, %v)", v, ok)
	}

	if _, ok := doubleValue(kvInt("k", 1).Value); ok {
		t.Fatalf("expected int tag to be absent as double")
	}
}

func TestBoolValue(t *testing.T) {
	if v, ok := boolValue(kvBool("k", true).Value); !ok || !v {
		t.Fatalf("expected (true, true), got (%v, %v)", v, ok)
	}

	if _, ok := boolValue(kvStr("k", "true").Value); ok {
		t.Fatalf("expected string tag to be absent as bool")
	}
}

func TestScalarValue(t *testing.T) {
	tests := []struct {
		name     string
		value    *commonpb.AnyValue
		expected any
		ok       bool
	}{
		{
			name:     "string",
			value:    kvStr("k", "v").Value,
			expected: "v",
			ok:       true,
		},
		{
			name:     "int",
			value:    kvInt("k", 9).Value,
			expected: int64(9),
			ok:       true,
		},
		{
			name:     "double",
			value:    kvDouble("k", 2.25).Value,
			expected: 2.25,
			ok:       true,
		},
		{
			name:     "bool",
			value:    kvBool("k", false).Value,
			expected: false,
			ok:       true,
		},
		{
			name:     "bytes render as hex",
			value:    kvBytes("k", []byte{0xde, 0xad}).Value,
			expected: "dead",
			ok:       true,
		},
		{
			name:  "nil is absent",
			value: nil,
			ok:    false,
		},
		{
			name: "kvlist is not scalar",
			value: &commonpb.AnyValue{Value: &commonpb.AnyValue_KvlistValue{
				KvlistValue: &commonpb.KeyValueList{Values: []*commonpb.KeyValue{kvStr("a", "b")}},
			}},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scalarValue(tt.value)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}

			if ok && got != tt.expected {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestHexIDRoundTrip(t *testing.T) {
	const want = "0123456789abcdef"

	raw, err := hex.DecodeString(want)
	if err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}

	got, ok := hexID(raw)
	if !ok {
		t.Fatalf("expected id to be present")
	}

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHexIDAbsent(t *testing.T) {
	if _, ok := hexID(nil); ok {
		t.Fatalf("expected nil id to be absent")
	}

	if _, ok := hexID([]byte{}); ok {
		t.Fatalf("expected empty id to be absent, never an empty string")
	}
}
