// Copyright 2025 Sirenic Labs
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


package openai

// repairJSON fixes the one malformation small models produce regularly:
// a key missing its opening quote, as in `{present": true}`. Anything it
// does not recognize passes through untouched.
func repairJSON(s string) string {
	src := []rune(s)
	out := make([]rune, 0, len(src)+16)

	i := 0
	for i < len(src) {
		ch := src[i]
		out = append(out, ch)
		i++

		if ch != '{' && ch != ',' {
			continue
		}

		// Copy whitespace after the separator.
		for i < len(src) && (src[i] == ' ' || src[i] == '\n' || src[i] == '\t') {
			out = append(out, src[i])
			i++
		}

		// A bare identifier here, closed by `":`, lost its opening quote.
		if i >= len(src) || src[i] == '"' || !isASCIILetter(src[i]) {
			continue
		}
		start := i
		for i < len(src) && (isASCIILetter(src[i]) || src[i] == '_') {
			i++
		}
		if i+1 < len(src) && src[i] == '"' && src[i+1] == ':' {
			out = append(out, '"')
			out = append(out, src[start:i]...)
		} else {
			out = append(out, src[start:i]...)
		}
	}

	return string(out)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
