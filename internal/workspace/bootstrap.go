package workspace

import (
	"bytes"
	"context"
	"embed"
	"fmt"

	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

//go:embed default/*
var defaultsFS embed.FS

// DefaultConfig returns the embedded default configuration document.
func DefaultConfig() []byte {
	data, _ := defaultsFS.ReadFile("default/" + ConfigFile)
	return data
}

// EnsureDefault writes baseline workspace files under root when they are missing.
func EnsureDefault(ctx context.Context, fs afs.Service, root string) error {
	entries := []struct {
		path string // relative to workspace root
		src  string // path inside embed FS default/
	}{
		{ConfigFile, "default/" + ConfigFile},
	}
	baseURL := url.Normalize(root, file.Scheme)
	for _, e := range entries {
		absPath := url.Join(baseURL, e.path)
		if ok, _ := fs.Exists(ctx, absPath); ok {
			continue
		}
		data, err := fs.DownloadWithURL(ctx, url.Join("embed://localhost/", e.src), &defaultsFS)
		if err != nil {
			return fmt.Errorf("failed to download %v: %w", e.src, err)
		}
		if err = fs.Upload(ctx, absPath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write %v: %w", absPath, err)
		}
	}
	for _, kind := range []string{KindConversations} {
		dir := url.Join(baseURL, kind)
		if ok, _ := fs.Exists(ctx, dir); !ok {
			_ = fs.Create(ctx, dir, file.DefaultDirOsMode, true)
		}
	}
	return nil
}
