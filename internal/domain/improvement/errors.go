package improvement

import "errors"

// ErrNegativeDelta is returned when a delta would lower an attribute.
var ErrNegativeDelta = errors.New("negative delta")
