package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"text/template"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/convsim/internal/templating"
)

// Prompt is an instruction template given inline or by URI.
type Prompt struct {
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
	URI    string `yaml:"uri,omitempty" json:"uri,omitempty"`
	Engine string `yaml:"engine,omitempty" json:"engine,omitempty"`
}

// Init resolves the template text from URI when no inline text is set.
func (a *Prompt) Init(ctx context.Context) error {
	if strings.TrimSpace(a.Text) != "" || strings.TrimSpace(a.URI) == "" {
		return nil
	}
	uri := strings.TrimSpace(a.URI)
	if url.Scheme(uri, "") == "" {
		uri = url.Normalize(uri, file.Scheme)
	}
	data, err := afs.New().DownloadWithURL(ctx, uri)
	if err != nil {
		return err
	}
	a.Text = string(data)
	return nil
}

// Generate renders the prompt with vars using the configured engine (velty by default).
func (a *Prompt) Generate(ctx context.Context, vars map[string]interface{}) (string, error) {
	if a == nil {
		return "", nil
	}
	if err := a.Init(ctx); err != nil {
		return "", err
	}
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return "", nil
	}
	switch engine := strings.ToLower(strings.TrimSpace(a.Engine)); engine {
	case "velty", "vm", "":
		return templating.Expand(text, vars)
	case "go", "gotmpl", "text/template":
		tmpl, err := template.New("prompt").Parse(text)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, vars); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", errors.New("unsupported prompt type: " + engine)
	}
}

const initiatorTemplate = "${base}\n\nPERSONALITY:\n${personality}\n\nROLEPLAY SCENARIO:\n${scenario}"

// ComposeInitiator joins base instructions, personality and scenario into one
// system prompt with PERSONALITY and ROLEPLAY SCENARIO sections.
func ComposeInitiator(ctx context.Context, base, personality, scenario string) (string, error) {
	composed := &Prompt{Text: initiatorTemplate}
	text, err := composed.Generate(ctx, map[string]interface{}{
		"base":        strings.TrimSpace(base),
		"personality": strings.TrimSpace(personality),
		"scenario":    strings.TrimSpace(scenario),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
