package opener

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/pders01/newshub/internal/config"
	"github.com/pders01/newshub/internal/debuglog"
	"github.com/pders01/newshub/internal/validation"
)

// UserTableFile, when present in the config directory, overrides entries of
// the built-in viewer table.
const UserTableFile = "viewers.toml"

// Launcher hands article links and images to external applications.
type Launcher struct {
	defaultOpener string
	imageViewer   string
	table         *tableConfig
	validator     *validation.URLValidator

	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

func New(cfg config.OpenConfig) *Launcher {
	return newLauncher(cfg, exec.LookPath, startDetached)
}

func newLauncher(cfg config.OpenConfig, lookPath func(string) (string, error), start func(*exec.Cmd) error) *Launcher {
	table, err := parseTable(viewersTOML)
	if err != nil {
		debuglog.Warnf("opener: built-in viewer table unreadable: %v", err)
		table = &tableConfig{}
	}
	mergeUserTable(table, filepath.Join(config.DefaultConfigDir(), UserTableFile))

	l := &Launcher{
		defaultOpener: cfg.DefaultOpener,
		table:         table,
		validator:     validation.NewLinkValidator(),
		lookPath:      lookPath,
		start:         start,
	}
	if l.defaultOpener == "" {
		l.defaultOpener = table.defaultOpener()
	}
	l.imageViewer = l.findCommand(cfg.ImageViewers...)
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
	return l
}

func mergeUserTable(table *tableConfig, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	user, err := parseTable(data)
	if err != nil {
		debuglog.Warnf("opener: ignoring %s: %v", path, err)
		return
	}
	if table.Viewers == nil {
		table.Viewers = map[string]ViewerDefinition{}
	}
	for name, def := range user.Viewers {
		table.Viewers[name] = def
	}
	table.Image.Extensions = append(table.Image.Extensions, user.Image.Extensions...)
	table.Image.URLPatterns = append(table.Image.URLPatterns, user.Image.URLPatterns...)
}

// Open routes raw to the image viewer or the default opener depending on
// what the link points at.
func (l *Launcher) Open(raw string) error {
	if l.table.DetectKind(raw) == KindImage {
		return l.OpenImage(raw)
	}
	return l.OpenLink(raw)
}

// OpenLink opens an article page with the system opener.
func (l *Launcher) OpenLink(raw string) error {
	link, err := l.validator.Validate(raw)
	if err != nil {
		return fmt.Errorf("refusing to open link: %w", err)
	}
	return l.launch(l.defaultOpener, nil, link)
}

// OpenImage opens an article image with the first available viewer.
func (l *Launcher) OpenImage(raw string) error {
	if raw == "" {
		return fmt.Errorf("article has no image")
	}
	link, err := l.validator.Validate(raw)
	if err != nil {
		return fmt.Errorf("refusing to open image: %w", err)
	}
	args, _ := l.table.argsFor(l.imageViewer)
	return l.launch(l.imageViewer, args, link)
}

func (l *Launcher) launch(program string, args []string, link string) error {
	if program == "" {
		return fmt.Errorf("no application found to open URL")
	}
	cmd := exec.Command(program, append(slices.Clone(args), link)...)
	debuglog.Debugf("opener: %s %v", program, cmd.Args[1:])
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", program, err)
	}
	return nil
}

func (l *Launcher) findCommand(commands ...string) string {
	for _, c := range commands {
		if _, err := l.lookPath(c); err == nil {
			return c
		}
	}
	return ""
}

// startDetached starts GUI applications without blocking the caller.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
