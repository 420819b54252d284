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

package pipeline

import (
	"errors"
	"fmt"

	"github.com/meetlens/meetlens/core"
)

var (
	// ErrEmptyTranscript indicates the input normalized to no text at
	// all.
	ErrEmptyTranscript = fmt.Errorf("%w: transcript contains no text", core.ErrUnsupportedInput)

	// ErrNotConfirmed indicates a destructive operation was called
	// without confirmation.
	ErrNotConfirmed = errors.New("destructive operation requires confirmation")
)
