// Package uploader abstracts where uploaded images live. The catalog and
// identity services only see the Backend interface; whether files land on
// local disk or in a GCS bucket is a deployment choice.
package uploader

import (
	"context"
	"io"
)

// File describes one uploaded file to store.
type File struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Backend stores uploaded files and deletes them by their public URL.
type Backend interface {
	// Store writes the file under the given folder and returns its public URL.
	Store(ctx context.Context, folder string, f File) (string, error)
	// Delete removes a previously stored file by its public URL. Deleting a
	// URL this backend does not recognize returns an error.
	Delete(ctx context.Context, url string) error
}
