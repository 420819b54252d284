// Copyright 2025 The Meetlens Authors
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


package core

import "errors"

// Error taxonomy. Package-level errors elsewhere wrap one of these kinds
// so callers can classify failures without knowing the source package.
var (
	// ErrUnsupportedInput indicates input that is neither text nor a
	// structured value. Fatal to the request, never silently coerced.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrCapability indicates a generation or embedding capability failure.
	// Fatal during indexing, tolerated-and-defaulted during extraction,
	// degraded to empty results during search.
	ErrCapability = errors.New("capability failure")

	// ErrNotFound indicates a referenced document or group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates an underlying persistence failure. Always fatal
	// to the enclosing request, never partially committed.
	ErrStorage = errors.New("storage failure")
)
