// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import "github.com/google/uuid"

// newEntryID generates prompt log entry ids. Package-level var so tests can
// make ids predictable.
var newEntryID = uuid.NewString
