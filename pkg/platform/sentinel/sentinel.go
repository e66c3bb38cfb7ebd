// Package sentinel holds infrastructure facts returned by stores.
//
// Services translate these into pkg/domain-errors codes. Validation failures
// never use sentinels.
package sentinel

import "errors"

// ErrNotFound reports that the requested record does not exist.
var ErrNotFound = errors.New("not found")
