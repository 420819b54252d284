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

package storage

import (
	"fmt"

	"github.com/meetlens/meetlens/core"
)

var (
	// ErrDocumentNotFound indicates the requested document does not exist.
	ErrDocumentNotFound = fmt.Errorf("%w: document", core.ErrNotFound)

	// ErrExtractionNotFound indicates no extraction record exists for
	// the document.
	ErrExtractionNotFound = fmt.Errorf("%w: extraction record", core.ErrNotFound)

	// ErrSerializationFailed indicates a record could not be encoded or
	// decoded.
	ErrSerializationFailed = fmt.Errorf("%w: serialization failed", core.ErrStorage)

	// ErrTransactionFailed indicates a storage transaction could not be
	// completed.
	ErrTransactionFailed = fmt.Errorf("%w: transaction failed", core.ErrStorage)
)
