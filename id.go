package tab

import "github.com/xraph/tab/id"

// ID is the primary identifier type for all Tab entities.
type ID = id.ID

// Prefix identifies the entity type encoded in an ID.
type Prefix = id.Prefix
