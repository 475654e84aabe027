package ui

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys feeds scripted key presses to m. Each token mixes
// Vim-like keys ("<Tab>", "<C-t>") with literal text; a leading backslash
// makes the whole token literal. Processing stops at the first quit.
func ApplyStartupKeys(m *Model, keys []string) {
	if m == nil {
		return
	}
	for _, msg := range StartupKeyMsgs(keys) {
		m.Update(msg)
		if m.quitting {
			return
		}
	}
}

// StartupKeyMsgs parses scripted keys into key press messages.
func StartupKeyMsgs(keys []string) []tea.KeyPressMsg {
	var msgs []tea.KeyPressMsg
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if literal, ok := strings.CutPrefix(token, `\`); ok {
			msgs = append(msgs, textMsgs(literal)...)
			continue
		}
		for _, seg := range parseTokenSegments(token) {
			if !seg.isVimKey {
				msgs = append(msgs, textMsgs(seg.text)...)
				continue
			}
			if msg, ok := keyMsgFromToken(seg.text); ok {
				msgs = append(msgs, msg)
			}
		}
	}
	return msgs
}

func textMsgs(s string) []tea.KeyPressMsg {
	msgs := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return msgs
}

type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits "<F2>abc" into the key "<F2>" and the text "abc".
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for remaining != "" {
		start := strings.IndexByte(remaining, '<')
		if start < 0 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.IndexByte(remaining[start:], '>')
		if end < 0 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isVimKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var fKeys = []rune{
	tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5, tea.KeyF6,
	tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10, tea.KeyF11, tea.KeyF12,
}

// keyMsgFromToken parses one "<...>" token. Unknown names are ignored.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	inner, ok := strings.CutPrefix(token, "<")
	if !ok {
		return tea.KeyPressMsg{}, false
	}
	inner, ok = strings.CutSuffix(inner, ">")
	if !ok {
		return tea.KeyPressMsg{}, false
	}
	lower := strings.ToLower(inner)
	switch lower {
	case "esc", "escape", "c-[":
		return tea.KeyPressMsg{Code: tea.KeyEscape}, true
	case "cr", "enter", "return":
		return tea.KeyPressMsg{Code: tea.KeyEnter}, true
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}, true
	case "space":
		return tea.KeyPressMsg{Code: ' ', Text: " "}, true
	case "lt":
		return tea.KeyPressMsg{Code: '<', Text: "<"}, true
	case "bs", "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}, true
	case "del", "delete":
		return tea.KeyPressMsg{Code: tea.KeyDelete}, true
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}, true
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}, true
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}, true
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}, true
	case "home":
		return tea.KeyPressMsg{Code: tea.KeyHome}, true
	case "end":
		return tea.KeyPressMsg{Code: tea.KeyEnd}, true
	case "pgup", "pageup":
		return tea.KeyPressMsg{Code: tea.KeyPgUp}, true
	case "pgdown", "pagedown":
		return tea.KeyPressMsg{Code: tea.KeyPgDown}, true
	}
	if letter, ok := strings.CutPrefix(lower, "c-"); ok && len(letter) == 1 && letter[0] >= 'a' && letter[0] <= 'z' {
		return tea.KeyPressMsg{Code: rune(letter[0]), Mod: tea.ModCtrl}, true
	}
	if num, ok := strings.CutPrefix(lower, "f"); ok {
		if n, err := strconv.Atoi(num); err == nil && n >= 1 && n <= len(fKeys) {
			return tea.KeyPressMsg{Code: fKeys[n-1]}, true
		}
	}
	return tea.KeyPressMsg{}, false
}
