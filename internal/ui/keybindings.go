package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/machq/internal/session"
)

// Binding maps terminal key names to a session event. Help is the footer
// label; bindings without one are not listed.
type Binding struct {
	Keys []string
	Kind session.EventKind
	Help string
}

// DefaultBindings is the console keymap. Printable keys without ctrl or alt
// insert their text.
var DefaultBindings = []Binding{
	{Keys: []string{"tab", "enter"}, Kind: session.EventAccept, Help: "accept"},
	{Keys: []string{"ctrl+t", "f2"}, Kind: session.EventToggleMode, Help: "compile"},
	{Keys: []string{"ctrl+d", "f3"}, Kind: session.EventCycleDialect, Help: "dialect"},
	{Keys: []string{"ctrl+u"}, Kind: session.EventClear, Help: "clear"},
	{Keys: []string{"esc", "ctrl+c"}, Kind: session.EventQuit, Help: "quit"},
	{Keys: []string{"up", "ctrl+p"}, Kind: session.EventUp},
	{Keys: []string{"down", "ctrl+n"}, Kind: session.EventDown},
	{Keys: []string{"left", "ctrl+b"}, Kind: session.EventLeft},
	{Keys: []string{"right", "ctrl+f"}, Kind: session.EventRight},
	{Keys: []string{"home", "ctrl+a"}, Kind: session.EventHome},
	{Keys: []string{"end", "ctrl+e"}, Kind: session.EventEnd},
	{Keys: []string{"backspace", "ctrl+h"}, Kind: session.EventBackspace},
	{Keys: []string{"delete"}, Kind: session.EventDelete},
}

// tableKeys scroll the result table instead of reaching the session.
var tableKeys = map[string]bool{
	"pgup":   true,
	"pgdown": true,
}

var bindingIndex = func() map[string]session.EventKind {
	idx := make(map[string]session.EventKind)
	for _, b := range DefaultBindings {
		for _, k := range b.Keys {
			idx[k] = b.Kind
		}
	}
	return idx
}()

// keyEvent translates a key press into a session event.
func keyEvent(msg tea.KeyPressMsg) (session.Event, bool) {
	if kind, ok := bindingIndex[msg.String()]; ok {
		return session.Key(kind), true
	}
	if msg.Code == 0x03 {
		return session.Key(session.EventQuit), true
	}
	if msg.Text == "" || msg.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
		return session.Event{}, false
	}
	return session.Insert(msg.Text), true
}

// isTableKey reports whether msg scrolls the result table.
func isTableKey(msg tea.KeyPressMsg) bool {
	return tableKeys[msg.String()]
}
