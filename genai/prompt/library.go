package prompt

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

//go:embed defaults
var defaults embed.FS

// Kind groups prompt files by role.
type Kind string

const (
	KindBase        Kind = "user_agents"
	KindPersonality Kind = "user_agents/personalities"
	KindScenario    Kind = "user_agents/problem_roleplay"
	KindResponder   Kind = "chat_agents"
)

// BaseName is the default Initiator base prompt file.
const BaseName = "base_prompt"

// ErrNotFound is returned when a prompt exists neither at the library URL nor in the embedded defaults.
var ErrNotFound = errors.New("prompt not found")

// Library resolves prompt texts from a base URL, falling back to embedded defaults.
type Library struct {
	baseURL string
	fs      afs.Service
}

// Load returns the trimmed text of the named prompt of the given kind.
func (l *Library) Load(ctx context.Context, kind Kind, name string) (string, error) {
	fileName := name
	if path.Ext(fileName) == "" {
		fileName += ".txt"
	}
	if l.baseURL != "" {
		URL := url.Join(l.baseURL, string(kind), fileName)
		if ok, _ := l.fs.Exists(ctx, URL); ok {
			data, err := l.fs.DownloadWithURL(ctx, URL)
			if err != nil {
				return "", fmt.Errorf("failed to load prompt %v: %w", URL, err)
			}
			return strings.TrimSpace(string(data)), nil
		}
	}
	data, err := defaults.ReadFile(path.Join("defaults", string(kind), fileName))
	if err != nil {
		return "", fmt.Errorf("%w: %v/%v", ErrNotFound, kind, fileName)
	}
	return strings.TrimSpace(string(data)), nil
}

// BaseURL returns the library location.
func (l *Library) BaseURL() string {
	return l.baseURL
}

// NewLibrary creates a library rooted at baseURL; an empty baseURL uses embedded defaults only.
func NewLibrary(baseURL string) *Library {
	if baseURL != "" && url.Scheme(baseURL, "") == "" {
		baseURL = url.Normalize(baseURL, file.Scheme)
	}
	return &Library{baseURL: baseURL, fs: afs.New()}
}
