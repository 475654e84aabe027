package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/machq/internal/query"
	"github.com/oakwood-commons/machq/internal/session"
)

func fixture() []query.Record {
	return []query.Record{
		query.NewRecord("sin73l00045.maas", map[query.Field]any{
			query.Status: "Deployed", query.RAM: 6, query.Cores: 8, query.Zone: "zone-1",
		}),
		query.NewRecord("sin73l00046.maas", map[query.Field]any{
			query.Status: "Deployed", query.RAM: 2, query.Cores: 4, query.Zone: "zone-2",
		}),
		query.NewRecord("sin73l00047.maas", map[query.Field]any{
			query.Status: "Ready", query.RAM: 9, query.Cores: 16, query.Zone: "default",
		}),
	}
}

func newTestModel() *Model {
	m := NewModel(session.New(fixture()), Options{NoColor: true})
	m.SetSize(140, 30)
	return m
}

func send(m *Model, msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typed(s string) []tea.KeyPressMsg {
	return textMsgs(s)
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyPressMsg
		want session.Event
		ok   bool
	}{
		{"letter", tea.KeyPressMsg{Code: 'a', Text: "a"}, session.Insert("a"), true},
		{"space", tea.KeyPressMsg{Code: ' ', Text: " "}, session.Insert(" "), true},
		{"paren", tea.KeyPressMsg{Code: '(', Text: "("}, session.Insert("("), true},
		{"tab", tea.KeyPressMsg{Code: tea.KeyTab}, session.Key(session.EventAccept), true},
		{"enter", tea.KeyPressMsg{Code: tea.KeyEnter}, session.Key(session.EventAccept), true},
		{"ctrl+t", tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}, session.Key(session.EventToggleMode), true},
		{"f2", tea.KeyPressMsg{Code: tea.KeyF2}, session.Key(session.EventToggleMode), true},
		{"ctrl+d", tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}, session.Key(session.EventCycleDialect), true},
		{"ctrl+u", tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl}, session.Key(session.EventClear), true},
		{"esc", tea.KeyPressMsg{Code: tea.KeyEscape}, session.Key(session.EventQuit), true},
		{"ctrl+c", tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}, session.Key(session.EventQuit), true},
		{"raw etx", tea.KeyPressMsg{Code: 0x03}, session.Key(session.EventQuit), true},
		{"backspace", tea.KeyPressMsg{Code: tea.KeyBackspace}, session.Key(session.EventBackspace), true},
		{"delete", tea.KeyPressMsg{Code: tea.KeyDelete}, session.Key(session.EventDelete), true},
		{"home", tea.KeyPressMsg{Code: tea.KeyHome}, session.Key(session.EventHome), true},
		{"ctrl+e", tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl}, session.Key(session.EventEnd), true},
		{"up", tea.KeyPressMsg{Code: tea.KeyUp}, session.Key(session.EventUp), true},
		{"down", tea.KeyPressMsg{Code: tea.KeyDown}, session.Key(session.EventDown), true},
		{"unbound ctrl", tea.KeyPressMsg{Code: 'z', Mod: tea.ModCtrl}, session.Event{}, false},
		{"alt letter", tea.KeyPressMsg{Code: 'x', Text: "x", Mod: tea.ModAlt}, session.Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyEvent(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypingAndAccepting(t *testing.T) {
	m := newTestModel()
	send(m, typed("STA")...)
	send(m, tea.KeyPressMsg{Code: tea.KeyTab})

	input, cursor := m.Session().Input()
	assert.Equal(t, "STATUS(", input)
	assert.Equal(t, len(input), cursor)

	send(m, typed("r")...)
	send(m, tea.KeyPressMsg{Code: tea.KeyTab})
	send(m, typed(")")...)

	input, _ = m.Session().Input()
	assert.Equal(t, "STATUS(Ready)", input)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "sin73l00047.maas", m.table.Rows()[0].FQDN())
	assert.Contains(t, m.Render(), "1/3 records")
}

func TestCompiledViewAndBack(t *testing.T) {
	m := newTestModel()
	send(m, typed("sin73 RAM(>4)")...)
	send(m, tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})

	view := m.Render()
	assert.Contains(t, view, "FQDN LIKE '%sin73%' AND RAM > 4")
	assert.Contains(t, view, "COMPILED")

	send(m, typed("x")...)
	send(m, tea.KeyPressMsg{Code: tea.KeyF2})
	input, cursor := m.Session().Input()
	assert.Equal(t, "sin73 RAM(>4)", input)
	assert.Equal(t, len(input), cursor)
	assert.Contains(t, m.Render(), "EDITING")
}

func TestQuitReturnsQuitCmd(t *testing.T) {
	m := newTestModel()
	cmd := send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Quitting())
}

func TestTableKeysDoNotEdit(t *testing.T) {
	m := newTestModel()
	send(m, tea.KeyPressMsg{Code: tea.KeyPgDown})
	input, _ := m.Session().Input()
	assert.Empty(t, input)
}

func TestWindowSize(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 20, m.height)
	assert.True(t, m.View().AltScreen)
}

func TestSuggestionWindowKeepsSelectionVisible(t *testing.T) {
	m := NewModel(session.New(fixture()), Options{NoColor: true, MaxSuggestions: 2})
	send(m, tea.KeyPressMsg{Code: tea.KeyDown}, tea.KeyPressMsg{Code: tea.KeyDown})

	lines := m.renderSuggestions(m.Session().Snapshot())
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "> "), lines[1])
	assert.Contains(t, lines[1], "ZONE")
}

func TestFooterByMode(t *testing.T) {
	f := FooterModel{NoColor: true, Mode: session.Editing}
	assert.Contains(t, f.View(), "accept")
	assert.Contains(t, f.View(), "C-t compile")

	f.Mode = session.Compiled
	view := f.View()
	assert.NotContains(t, view, "accept")
	assert.Contains(t, view, "C-t edit")
	assert.Contains(t, view, "C-d dialect")
}
