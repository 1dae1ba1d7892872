package opener

import (
	_ "embed"
	"net/url"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed viewers.toml
var viewersTOML []byte

type Kind int

const (
	KindPage Kind = iota
	KindImage
)

func (k Kind) String() string {
	if k == KindImage {
		return "image"
	}
	return "page"
}

type kindConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type platformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

// ViewerDefinition describes how an image viewer is invoked.
type ViewerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
}

type tableConfig struct {
	Image     kindConfig                  `toml:"image"`
	Platforms map[string]platformConfig   `toml:"platforms"`
	Viewers   map[string]ViewerDefinition `toml:"viewers"`
}

func parseTable(data []byte) (*tableConfig, error) {
	var cfg tableConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DetectKind tells image links apart from article pages.
func (t *tableConfig) DetectKind(raw string) Kind {
	u, err := url.Parse(strings.ToLower(raw))
	if err != nil {
		return KindPage
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext != "" && slices.Contains(t.Image.Extensions, ext) {
		return KindImage
	}
	full := u.Host + u.Path
	for _, p := range t.Image.URLPatterns {
		if strings.Contains(full, p) {
			return KindImage
		}
	}
	return KindPage
}

func (t *tableConfig) defaultOpener() string {
	if p, ok := t.Platforms[runtime.GOOS]; ok && p.DefaultOpener != "" {
		return p.DefaultOpener
	}
	if p, ok := t.Platforms["fallback"]; ok && p.DefaultOpener != "" {
		return p.DefaultOpener
	}
	return "open"
}

// argsFor returns the arguments for viewer on this platform, or nil when
// the viewer is unknown or unsupported here.
func (t *tableConfig) argsFor(viewer string) ([]string, bool) {
	def, ok := t.Viewers[viewer]
	if !ok || !slices.Contains(def.Platforms, runtime.GOOS) {
		return nil, false
	}
	switch runtime.GOOS {
	case "darwin":
		if len(def.ArgsDarwin) > 0 {
			return def.ArgsDarwin, true
		}
	case "linux":
		if len(def.ArgsLinux) > 0 {
			return def.ArgsLinux, true
		}
	}
	return def.Args, true
}
