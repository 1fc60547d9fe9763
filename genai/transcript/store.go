package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/convsim/genai/conversation"
)

var (
	// ErrPersistence is returned when a transcript cannot be written or moved.
	ErrPersistence = errors.New("transcript persistence failed")
	// ErrLoad is returned when a transcript is missing or malformed.
	ErrLoad = errors.New("transcript load failed")
)

const (
	fileTimeLayout = "20060102_150405"
	fileExt        = ".json"
)

// Store persists transcripts under a base URL (local path, mem://, s3://, gs://).
type Store struct {
	baseURL string
	fs      afs.Service
	now     func() time.Time
}

// BaseURL returns the store root.
func (s *Store) BaseURL() string {
	return s.baseURL
}

// FileName returns the default transcript name for an agent.
func (s *Store) FileName(agentID string) string {
	return fmt.Sprintf("conversation_%v_%v%v", agentID, s.now().Format(fileTimeLayout), fileExt)
}

// Save writes history with metadata as an indented JSON record and returns its URL.
// An empty fileName uses FileName(metadata.AgentID); relative names resolve against the base URL.
func (s *Store) Save(ctx context.Context, turns []conversation.Turn, metadata *Metadata, fileName string) (string, error) {
	if fileName == "" {
		agentID := "unknown"
		if metadata != nil && metadata.AgentID != "" {
			agentID = metadata.AgentID
		}
		fileName = s.FileName(agentID)
	}
	URL := s.resolve(fileName)
	data, err := Encode(NewRecord(metadata, turns))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	parent, _ := url.Split(URL, file.Scheme)
	if err = s.ensureDir(ctx, parent); err != nil {
		return "", fmt.Errorf("%w: failed to create %v: %v", ErrPersistence, parent, err)
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: failed to write %v: %v", ErrPersistence, URL, err)
	}
	return URL, nil
}

// Load reads a transcript record.
func (s *Store) Load(ctx context.Context, URL string) (*Record, error) {
	URL = s.resolve(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %v: %v", ErrLoad, URL, err)
	}
	record := &Record{}
	if err = json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("%w: malformed transcript %v: %v", ErrLoad, URL, err)
	}
	if record.Conversation == nil {
		return nil, fmt.Errorf("%w: transcript %v has no conversation", ErrLoad, URL)
	}
	return record, nil
}

// Move relocates a transcript into destDir and returns the new URL.
func (s *Store) Move(ctx context.Context, URL, destDir string) (string, error) {
	URL = s.resolve(URL)
	destDir = s.resolve(destDir)
	if err := s.ensureDir(ctx, destDir); err != nil {
		return "", fmt.Errorf("%w: failed to create %v: %v", ErrPersistence, destDir, err)
	}
	_, name := url.Split(URL, file.Scheme)
	dest := url.Join(destDir, name)
	if err := s.fs.Move(ctx, URL, dest); err != nil {
		return "", fmt.Errorf("%w: failed to move %v to %v: %v", ErrPersistence, URL, dest, err)
	}
	return dest, nil
}

// List returns URLs of JSON transcripts directly under dir (base URL when empty), sorted.
func (s *Store) List(ctx context.Context, dir string) ([]string, error) {
	dir = s.resolve(dir)
	if ok, _ := s.fs.Exists(ctx, dir); !ok {
		return []string{}, nil
	}
	objects, err := s.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %v: %v", ErrLoad, dir, err)
	}
	result := []string{}
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), fileExt) {
			continue
		}
		result = append(result, object.URL())
	}
	sort.Strings(result)
	return result, nil
}

// BatchDir returns the directory URL for a batch started at ts.
func (s *Store) BatchDir(ts time.Time) string {
	return url.Join(s.baseURL, "batch_"+ts.Format(fileTimeLayout))
}

func (s *Store) ensureDir(ctx context.Context, dir string) error {
	if ok, _ := s.fs.Exists(ctx, dir); ok {
		return nil
	}
	return s.fs.Create(ctx, dir, file.DefaultDirOsMode, true)
}

// resolve turns a name or relative path into an absolute URL under the base URL.
func (s *Store) resolve(location string) string {
	if location == "" {
		return s.baseURL
	}
	if url.Scheme(location, "") != "" {
		return location
	}
	if path.IsAbs(location) {
		return url.Normalize(location, file.Scheme)
	}
	return url.Join(s.baseURL, location)
}

// Encode renders a record as two-space indented JSON without HTML escaping.
func Encode(record *Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// New creates a store rooted at baseURL; plain paths use the file scheme.
func New(baseURL string, options ...Option) *Store {
	if baseURL == "" {
		baseURL = "conversations"
	}
	if url.Scheme(baseURL, "") == "" {
		baseURL = url.Normalize(baseURL, file.Scheme)
	}
	ret := &Store{baseURL: strings.TrimRight(baseURL, "/"), fs: afs.New(), now: time.Now}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Option customises a Store.
type Option func(s *Store)

// WithClock sets the clock used for generated file names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFS sets the storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}
