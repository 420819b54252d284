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


package transcript

import (
	"fmt"

	"github.com/meetlens/meetlens/core"
)

// ErrUnsupportedInputType is returned when the input is neither text nor a
// structured value. There is no silent coercion.
var ErrUnsupportedInputType = fmt.Errorf("%w: unsupported transcript input type", core.ErrUnsupportedInput)
