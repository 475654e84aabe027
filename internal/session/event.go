package session

// EventKind classifies a key event.
type EventKind int

//revive:disable:exported
const (
	EventInsert EventKind = iota
	EventLeft
	EventRight
	EventBackspace
	EventDelete
	EventHome
	EventEnd
	EventUp
	EventDown
	EventAccept
	EventToggleMode
	EventCycleDialect
	EventClear
	EventQuit
)

//revive:enable:exported

var eventNames = map[EventKind]string{
	EventInsert:       "insert",
	EventLeft:         "left",
	EventRight:        "right",
	EventBackspace:    "backspace",
	EventDelete:       "delete",
	EventHome:         "home",
	EventEnd:          "end",
	EventUp:           "up",
	EventDown:         "down",
	EventAccept:       "accept",
	EventToggleMode:   "toggle-mode",
	EventCycleDialect: "cycle-dialect",
	EventClear:        "clear",
	EventQuit:         "quit",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event is a single discrete key event. Text is set for EventInsert only.
type Event struct {
	Kind EventKind
	Text string
}

// Insert returns a printable-character event for text.
func Insert(text string) Event {
	return Event{Kind: EventInsert, Text: text}
}

// Key returns a non-printable event.
func Key(kind EventKind) Event {
	return Event{Kind: kind}
}

// Type returns one insert event per rune of text.
func Type(text string) []Event {
	events := make([]Event, 0, len(text))
	for _, r := range text {
		events = append(events, Insert(string(r)))
	}
	return events
}
