package repository

import "errors"

// ErrNotFound is returned by all repositories when a referenced document
// does not exist (including malformed ids).
var ErrNotFound = errors.New("not found")
