package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/newshub/internal/config"
)

// KeyMap binds actions to keys. Action keys come from the config; movement
// keys are fixed.
type KeyMap struct {
	Quit          key.Binding
	Search        key.Binding
	Submit        key.Binding
	Back          key.Binding
	NextCategory  key.Binding
	PrevCategory  key.Binding
	Sort          key.Binding
	Bookmark      key.Binding
	BookmarksOnly key.Binding
	ClearMarks    key.Binding
	NextPage      key.Binding
	PrevPage      key.Binding
	More          key.Binding
	Less          key.Binding
	ViewMode      key.Binding
	DarkMode      key.Binding
	Refresh       key.Binding
	Open          key.Binding
	OpenImage     key.Binding
	Share         key.Binding
	FindBookmark  key.Binding
	Up            key.Binding
	Down          key.Binding
	Confirm       key.Binding
}

func NewKeyMap(b config.KeyBindings) KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
		Search:        key.NewBinding(key.WithKeys(b.Search, "ctrl+f"), key.WithHelp(b.Search, "search")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Back:          key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		NextCategory:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/1-7", "category")),
		PrevCategory:  key.NewBinding(key.WithKeys("shift+tab")),
		Sort:          key.NewBinding(key.WithKeys(b.Sort), key.WithHelp(b.Sort, "sort")),
		Bookmark:      key.NewBinding(key.WithKeys(b.Bookmark), key.WithHelp(b.Bookmark, "bookmark")),
		BookmarksOnly: key.NewBinding(key.WithKeys(b.BookmarksOnly), key.WithHelp(b.BookmarksOnly, "saved only")),
		ClearMarks:    key.NewBinding(key.WithKeys(b.ClearMarks), key.WithHelp(b.ClearMarks, "clear saved")),
		NextPage:      key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("←/→", "page")),
		PrevPage:      key.NewBinding(key.WithKeys("left", "h", "pgup")),
		More:          key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "more/less")),
		Less:          key.NewBinding(key.WithKeys("-")),
		ViewMode:      key.NewBinding(key.WithKeys(b.ViewMode), key.WithHelp(b.ViewMode, "grid/list")),
		DarkMode:      key.NewBinding(key.WithKeys(b.DarkMode), key.WithHelp(b.DarkMode, "theme")),
		Refresh:       key.NewBinding(key.WithKeys(b.Refresh), key.WithHelp(b.Refresh, "refresh")),
		Open:          key.NewBinding(key.WithKeys(b.Open), key.WithHelp(b.Open, "open")),
		OpenImage:     key.NewBinding(key.WithKeys(b.OpenImage), key.WithHelp(b.OpenImage, "image")),
		Share:         key.NewBinding(key.WithKeys(b.Share), key.WithHelp(b.Share, "share")),
		FindBookmark:  key.NewBinding(key.WithKeys(b.FindBookmark), key.WithHelp(b.FindBookmark, "find saved")),
		Up:            key.NewBinding(key.WithKeys("up", "k")),
		Down:          key.NewBinding(key.WithKeys("down", "j")),
		Confirm:       key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("y/enter", "confirm")),
	}
}
