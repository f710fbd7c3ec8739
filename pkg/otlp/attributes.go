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
	"strings"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

// Attribute lists are ordered and keys are not guaranteed unique; every
// lookup takes the first match.

func attrValue(attrs []*commonpb.KeyValue, key string) (*commonpb.AnyValue, bool) {
	for _, kv := range attrs {
		if kv.GetKey() == key {
			return kv.GetValue(), true
		}
	}

	return nil, false
}

func attrString(attrs []*commonpb.KeyValue, key string) (string, bool) {
	v, ok := attrValue(attrs, key)
	if !ok {
		return "", false
	}

	return stringValue(v)
}

func attrInt(attrs []*commonpb.KeyValue, key string) (int64, bool) {
	v, ok := attrValue(attrs, key)
	if !ok {
		return 0, false
	}

	return intValue(v)
}

func attrDouble(attrs []*commonpb.KeyValue, key string) (float64, bool) {
	v, ok := attrValue(attrs, key)
	if !ok {
		return 0, false
	}

	return doubleValue(v)
}

func attrBool(attrs []*commonpb.KeyValue, key string) (bool, bool) {
	v, ok := attrValue(attrs, key)
	if !ok {
		return false, false
	}

	return boolValue(v)
}

// project builds a scalar map from an attribute list, skipping excluded
// keys and anything that does not decode to a scalar. Keys become
// prefix + "." + key when a prefix is given. An empty result is nil,
// never an empty map: callers rely on nil to omit the field entirely.
func project(attrs []*commonpb.KeyValue, exclude map[string]struct{}, prefix string) map[string]any {
	var out map[string]any

	for _, kv := range attrs {
		key := kv.GetKey()
		if _, skip := exclude[key]; skip {
			continue
		}

		value, ok := scalarValue(kv.GetValue())
		if !ok {
			continue
		}

		if prefix != "" {
			key = prefix + "." + key
		}

		if out == nil {
			out = make(map[string]any)
		}

		out[key] = value
	}

	return out
}

// pick returns the attributes whose key starts with keyPrefix + ".",
// with that prefix stripped from the returned keys.
func pick(attrs []*commonpb.KeyValue, keyPrefix string) []*commonpb.KeyValue {
	prefix := keyPrefix + "."

	var out []*commonpb.KeyValue

	for _, kv := range attrs {
		if !strings.HasPrefix(kv.GetKey(), prefix) {
			continue
		}

		out = append(out, &commonpb.KeyValue{
			Key:   strings.TrimPrefix(kv.GetKey(), prefix),
			Value: kv.GetValue(),
		})
	}

	return out
}

// unwrapSingleton collapses a projected group to a single scalar when
// the group's sentinel key is present; otherwise the map passes through
// unchanged. A nil map stays nil, so absent groups stay absent.
func unwrapSingleton(m map[string]any, sentinelKey string) any {
	if m == nil {
		return nil
	}

	if v, ok := m[sentinelKey]; ok {
		return v
	}

	return m
}
