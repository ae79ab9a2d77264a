// Copyright 2025 The recall Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodePayload flattens an embedded JSON object into a string-keyed,
// string-valued map. Every scalar leaf is coerced to its canonical text form
// (42 -> "42", true -> "true"); nested objects and arrays are re-marshaled as
// JSON text after coercion. A payload that fails to decode as an object is
// preserved verbatim under the "raw" key rather than failing the line.
//
// When rewrapUser is set, a "user" field is replaced with the JSON object
// {"id": "<stringified value>"} regardless of its source shape.
func decodePayload(raw string, rewrapUser bool) map[string]string {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return map[string]string{"raw": raw}
	}

	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = coerceValue(v)
	}

	if rewrapUser {
		if uv, ok := obj["user"]; ok {
			wrapped, _ := json.Marshal(map[string]string{"id": coerceValue(uv)})
			out["user"] = string(wrapped)
		}
	}
	return out
}

func coerceValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case json.Number:
		return t.String()
	case map[string]any:
		coerced := make(map[string]string, len(t))
		for k, e := range t {
			coerced[k] = coerceValue(e)
		}
		bs, _ := json.Marshal(coerced)
		return string(bs)
	case []any:
		coerced := make([]string, len(t))
		for i, e := range t {
			coerced[i] = coerceValue(e)
		}
		bs, _ := json.Marshal(coerced)
		return string(bs)
	default:
		return fmt.Sprintf("%v", t)
	}
}
