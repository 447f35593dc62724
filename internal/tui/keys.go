package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap classifies key presses for the "vim" or "standard" layout. Arrow,
// Home and End keys work in both; vim adds hjkl and g/G.
type KeyMap struct {
	vim bool
}

// NewKeyMap returns the keymap for mode. Anything but "standard" is vim.
func NewKeyMap(mode string) *KeyMap {
	return &KeyMap{vim: mode != "standard"}
}

// either matches the named key, or letter when vim bindings are on.
func (k *KeyMap) either(msg tea.KeyMsg, key tea.KeyType, letter string) bool {
	return msg.Type == key || (k.vim && msg.String() == letter)
}

func (k *KeyMap) IsUp(msg tea.KeyMsg) bool    { return k.either(msg, tea.KeyUp, "k") }
func (k *KeyMap) IsDown(msg tea.KeyMsg) bool  { return k.either(msg, tea.KeyDown, "j") }
func (k *KeyMap) IsLeft(msg tea.KeyMsg) bool  { return k.either(msg, tea.KeyLeft, "h") }
func (k *KeyMap) IsRight(msg tea.KeyMsg) bool { return k.either(msg, tea.KeyRight, "l") }
func (k *KeyMap) IsHome(msg tea.KeyMsg) bool  { return k.either(msg, tea.KeyHome, "g") }
func (k *KeyMap) IsEnd(msg tea.KeyMsg) bool   { return k.either(msg, tea.KeyEnd, "G") }

// IsConfirm matches enter and space: launch, open or toggle the selection.
func (k *KeyMap) IsConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter || msg.String() == " "
}

// IsCancel matches esc. It abandons a text entry or a y/N prompt.
func (k *KeyMap) IsCancel(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc
}

func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return msg.String() == "q" || msg.Type == tea.KeyCtrlC
}

// IsDelete matches the key for uninstalling or forgetting the selection.
func (k *KeyMap) IsDelete(msg tea.KeyMsg) bool {
	return msg.String() == "d" || msg.Type == tea.KeyDelete
}

// NavigationHelp is the one-line hint shown in the footer
func (k *KeyMap) NavigationHelp() string {
	if k.vim {
		return "j/k: navigate  h/l: switch tab"
	}
	return "↑/↓: navigate  ←/→: switch tab"
}

// FullHelp is shown when ? is pressed
func (k *KeyMap) FullHelp() string {
	nav := `  ↑/↓     Move up/down
  ←/→     Previous/next tab
  Home    Go to first item
  End     Go to last item`
	del := "Delete"
	if k.vim {
		nav = `  j/k     Move down/up
  h/l     Previous/next tab
  g/G     Go to first/last item`
		del = "d     "
	}

	return `Navigation:
` + nav + `
  1-4     Jump to tab

Actions:
  enter   Launch build / open project
  D       Toggle default
  ` + del + `  Uninstall build / forget entry
  n       New launch argument or location
  r       Rescan
  esc     Cancel entry or prompt
  ?       Help
  q       Quit`
}
