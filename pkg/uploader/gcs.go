package uploader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/skillboost/skillboost-api/pkg/helpers"
)

// GCS stores uploads in a Google Cloud Storage bucket with public-read URLs.
type GCS struct {
	Client *storage.Client
	Bucket string
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket}
}

func (g *GCS) Store(ctx context.Context, folder string, f File) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(f.Filename))
	objectPath := folder + "/" + name
	return helpers.UploadObject(ctx, g.Client, g.Bucket, objectPath, f.ContentType, f.Reader)
}

func (g *GCS) Delete(ctx context.Context, url string) error {
	prefix := helpers.PublicURL(g.Bucket, "")
	objectPath, ok := strings.CutPrefix(url, prefix)
	if !ok || objectPath == "" {
		return fmt.Errorf("url %q not in bucket %q", url, g.Bucket)
	}
	return g.Client.Bucket(g.Bucket).Object(objectPath).Delete(ctx)
}

var _ Backend = (*GCS)(nil)
