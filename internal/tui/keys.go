package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit       key.Binding
	NextFocus    key.Binding
	PrevFocus    key.Binding
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Toggle       key.Binding
	TabFinal     key.Binding
	TabRewritten key.Binding
	TabCleaned   key.Binding
	TabOriginal  key.Binding
	Copy         key.Binding
	Download     key.Binding
	CopyAny      key.Binding
	DownloadAny  key.Binding
	Help         key.Binding
	Dismiss      key.Binding
	Detach       key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "process")),
		NextFocus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevFocus:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less / prev tab")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more / next tab")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		TabFinal:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "final")),
		TabRewritten: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "rewritten")),
		TabCleaned:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "cleaned")),
		TabOriginal:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "original")),
		Copy:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Download:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		CopyAny:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy result")),
		DownloadAny:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "download result")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Dismiss:      key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "dismiss")),
		Detach:       key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear loaded file")),
		Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp and FullHelp satisfy help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextFocus, k.CopyAny, k.DownloadAny, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextFocus, k.PrevFocus, k.Detach, k.Help, k.Quit},
		{k.Up, k.Down, k.Left, k.Right, k.Toggle},
		{k.TabFinal, k.TabRewritten, k.TabCleaned, k.TabOriginal},
		{k.Copy, k.Download, k.CopyAny, k.DownloadAny, k.Dismiss},
	}
}
