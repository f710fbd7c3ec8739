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

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

// The wire AnyValue is a tagged union: exactly one variant is set. Each
// decoder below returns the requested variant and true, or the zero
// value and false when the tag does not match. A mismatch is never an
// error; callers apply their own defaults.

func stringValue(v *commonpb.AnyValue) (string, bool) {
	if s, ok := v.GetValue().(*commonpb.AnyValue_StringValue); ok {
		return s.StringValue, true
	}

	return "", false
}

func intValue(v *commonpb.AnyValue) (int64, bool) {
	if i, ok := v.GetValue().(*commonpb.AnyValue_IntValue); ok {
		return i.IntValue, true
	}

	return 0, false
}

func doubleValue(v *commonpb.AnyValue) (float64, bool) {
	if d, ok := v.GetValue().(*commonpb.AnyValue_DoubleValue); ok {
		return d.DoubleValue, true
	}

	return 0, false
}

func boolValue(v *commonpb.AnyValue) (bool, bool) {
	if b, ok := v.GetValue().(*commonpb.AnyValue_BoolValue); ok {
		return b.BoolValue, true
	}

	return false, false
}

func bytesValue(v *commonpb.AnyValue) ([]byte, bool) {
	if b, ok := v.GetValue().(*commonpb.AnyValue_BytesValue); ok {
		return b.BytesValue, true
	}

	return nil, false
}

// scalarValue decodes whichever scalar variant is set, trying string,
// int, double, bool, then bytes (formatted as hex). Array and kvlist
// values do not decode to scalars and yield absent.
func scalarValue(v *commonpb.AnyValue) (any, bool) {
	if s, ok := stringValue(v); ok {
		return s, true
	}

	if i, ok := intValue(v); ok {
		return i, true
	}

	if d, ok := doubleValue(v); ok {
		return d, true
	}

	if b, ok := boolValue(v); ok {
		return b, true
	}

	if b, ok := bytesValue(v); ok {
		return hex.EncodeToString(b), true
	}

	return nil, false
}

// hexID formats a wire identifier as a lowercase hex string. An absent
// or empty identifier yields absent, never "".
func hexID(id []byte) (string, bool) {
	if len(id) == 0 {
		return "", false
	}

	return hex.EncodeToString(id), true
}
