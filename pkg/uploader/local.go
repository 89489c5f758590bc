package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores uploads on the local filesystem under Dir and serves them at
// BaseURL. Dir is typically a public path the HTTP server exposes statically.
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Store(ctx context.Context, folder string, f File) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(f.Filename))
	dir := filepath.Join(l.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, f.Reader); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + folder + "/" + name, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, l.BaseURL+"/")
	if !ok {
		return fmt.Errorf("url %q not under base %q", url, l.BaseURL)
	}
	// Refuse anything that would escape Dir.
	rel = filepath.FromSlash(rel)
	if strings.Contains(rel, "..") {
		return fmt.Errorf("invalid object path %q", rel)
	}
	return os.Remove(filepath.Join(l.Dir, rel))
}

var _ Backend = (*Local)(nil)
