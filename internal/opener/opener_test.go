package opener

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/newshub/internal/config"
)

type recorder struct {
	cmds []*exec.Cmd
	err  error
}

func (r *recorder) start(cmd *exec.Cmd) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func lookPathFor(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestDetectKind(t *testing.T) {
	table, err := parseTable(viewersTOML)
	require.NoError(t, err)

	tests := []struct {
		url  string
		want Kind
	}{
		{"https://cdn.example.com/photo.jpg", KindImage},
		{"https://cdn.example.com/Photo.JPEG?w=800", KindImage},
		{"https://cdn.example.com/a.webp#x", KindImage},
		{"https://i.imgur.com/abc", KindImage},
		{"https://news.example.com/2024/story.html", KindPage},
		{"https://news.example.com/story", KindPage},
		{"https://news.example.com/jpg/story", KindPage},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, table.DetectKind(tt.url))
		})
	}
}

func TestOpenLinkUsesDefaultOpener(t *testing.T) {
	rec := &recorder{}
	l := newLauncher(config.OpenConfig{DefaultOpener: "my-browser"}, lookPathFor(), rec.start)

	require.NoError(t, l.OpenLink("https://news.example.com/story"))
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"my-browser", "https://news.example.com/story"}, rec.cmds[0].Args)
}

func TestOpenLinkRejectsUnsafeLinks(t *testing.T) {
	rec := &recorder{}
	l := newLauncher(config.OpenConfig{DefaultOpener: "my-browser"}, lookPathFor(), rec.start)

	for _, bad := range []string{"", "javascript:alert(1)", "file:///etc/passwd", "http://127.0.0.1/admin"} {
		assert.Error(t, l.OpenLink(bad), bad)
	}
	assert.Empty(t, rec.cmds)
}

func TestOpenImagePicksFirstInstalledViewer(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("viewer arguments are defined per platform")
	}
	rec := &recorder{}
	cfg := config.OpenConfig{DefaultOpener: "xdg-open", ImageViewers: []string{"sxiv", "feh"}}
	l := newLauncher(cfg, lookPathFor("feh"), rec.start)

	require.NoError(t, l.OpenImage("https://cdn.example.com/photo.jpg"))
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"feh", "--scale-down", "--auto-zoom", "https://cdn.example.com/photo.jpg"}, rec.cmds[0].Args)
}

func TestOpenImageFallsBackToDefaultOpener(t *testing.T) {
	rec := &recorder{}
	cfg := config.OpenConfig{DefaultOpener: "my-browser", ImageViewers: []string{"not-installed"}}
	l := newLauncher(cfg, lookPathFor(), rec.start)

	require.NoError(t, l.OpenImage("https://cdn.example.com/photo.png"))
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, "my-browser", rec.cmds[0].Args[0])

	assert.ErrorContains(t, l.OpenImage(""), "no image")
}

func TestOpenRoutesByKind(t *testing.T) {
	rec := &recorder{}
	cfg := config.OpenConfig{DefaultOpener: "my-browser", ImageViewers: []string{"imgview"}}
	l := newLauncher(cfg, lookPathFor("imgview"), rec.start)

	require.NoError(t, l.Open("https://cdn.example.com/photo.gif"))
	require.NoError(t, l.Open("https://news.example.com/story"))
	require.Len(t, rec.cmds, 2)
	assert.Equal(t, "imgview", rec.cmds[0].Args[0])
	assert.Equal(t, "my-browser", rec.cmds[1].Args[0])
}

func TestStartFailureIsWrapped(t *testing.T) {
	rec := &recorder{err: errors.New("exec format error")}
	l := newLauncher(config.OpenConfig{DefaultOpener: "my-browser"}, lookPathFor(), rec.start)

	err := l.OpenLink("https://news.example.com/story")
	assert.ErrorContains(t, err, "failed to start my-browser")
}

func TestMergeUserTable(t *testing.T) {
	table, err := parseTable(viewersTOML)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, UserTableFile)
	user := []byte(`
[image]
extensions = ["heic"]

[viewers.custom]
platforms = ["linux", "darwin", "windows"]
args = ["--fullscreen"]
`)
	require.NoError(t, os.WriteFile(path, user, 0o644))
	mergeUserTable(table, path)

	assert.Equal(t, KindImage, table.DetectKind("https://x.example.com/a.heic"))
	args, ok := table.argsFor("custom")
	assert.True(t, ok)
	assert.Equal(t, []string{"--fullscreen"}, args)

	mergeUserTable(table, filepath.Join(dir, "missing.toml"))
	_, ok = table.argsFor("unknown")
	assert.False(t, ok)
}
