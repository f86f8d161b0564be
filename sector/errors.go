package sector

import "errors"

// ErrCatalogRequired is returned when a Matcher is constructed without a catalog.
var ErrCatalogRequired = errors.New("catalog is required")
