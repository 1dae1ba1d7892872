package share

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"github.com/pders01/newshub/internal/validation"
)

var linkValidator = validation.NewLinkValidator()

func validateLink(raw string) error {
	if _, err := linkValidator.Validate(raw); err != nil {
		return fmt.Errorf("cannot share link: %w", err)
	}
	return nil
}

// CommandTarget runs a user-configured program with the URL appended, for
// example a desktop share helper.
type CommandTarget struct {
	Argv []string
}

func (c *CommandTarget) Name() string { return "command" }

func (c *CommandTarget) Available() bool {
	if len(c.Argv) == 0 {
		return false
	}
	_, err := exec.LookPath(c.Argv[0])
	return err == nil
}

func (c *CommandTarget) Share(ctx context.Context, item Item) error {
	args := append(append([]string(nil), c.Argv[1:]...), item.URL)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func (c *CommandTarget) Priority() int { return 100 }

func (c *CommandTarget) Message() string { return "Shared" }

// ClipboardTarget copies the link to the system clipboard.
type ClipboardTarget struct {
	write       func(string) error
	unsupported bool
}

func NewClipboardTarget() *ClipboardTarget {
	return &ClipboardTarget{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

func (c *ClipboardTarget) Name() string { return "clipboard" }

func (c *ClipboardTarget) Available() bool { return !c.unsupported }

func (c *ClipboardTarget) Share(_ context.Context, item Item) error {
	return c.write(item.Text())
}

func (c *ClipboardTarget) Priority() int { return 50 }

func (c *ClipboardTarget) Message() string { return "Link copied to clipboard" }

// OSC52Target asks the terminal to set the clipboard, which also works over
// SSH where no local clipboard exists.
type OSC52Target struct {
	Out     io.Writer
	Enabled bool
	env     func(string) string
}

func NewOSC52Target(out io.Writer, enabled bool) *OSC52Target {
	return &OSC52Target{Out: out, Enabled: enabled, env: os.Getenv}
}

func (o *OSC52Target) Name() string { return "osc52" }

func (o *OSC52Target) Available() bool { return o.Enabled && o.Out != nil }

func (o *OSC52Target) Share(_ context.Context, item Item) error {
	seq := osc52.New(item.Text())
	switch {
	case o.env("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(o.env("TERM"), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(o.Out)
	return err
}

func (o *OSC52Target) Priority() int { return 10 }

func (o *OSC52Target) Message() string { return "Link sent to terminal clipboard" }

// Default builds the registry used by the app.
func Default(command []string, osc52Enabled bool, out io.Writer) *Registry {
	return NewRegistry(
		&CommandTarget{Argv: command},
		NewClipboardTarget(),
		NewOSC52Target(out, osc52Enabled),
	)
}
