package session

import "github.com/AlexeyInc/Color-Lines/internal/game"

// Kind names a notification.
type Kind string

const (
	KindStateChanged      Kind = "state_changed"
	KindBoardReset        Kind = "board_reset"
	KindScoreChanged      Kind = "score_changed"
	KindNewRecord         Kind = "new_record"
	KindCellSelected      Kind = "cell_selected"
	KindCellUnselected    Kind = "cell_unselected"
	KindGameOver          Kind = "game_over"
	KindSettingsChanged   Kind = "settings_changed"
	KindPanelToggled      Kind = "panel_toggled"
	KindGameSaved         Kind = "game_saved"
	KindGameRestored      Kind = "game_restored"
	KindPersistenceFailed Kind = "persistence_failed"
)

// Notification is delivered to listeners. Only the fields relevant to Kind
// are set.
type Notification struct {
	Kind       Kind
	State      State
	BoardID    string
	BoardSize  int
	Cell       game.Point
	Delta      int
	Score      int
	Best       int
	Settings   game.Settings
	Panel      Panel
	Visibility Visibility
	Op         string
	Err        error
}

// Listener receives notifications synchronously, in the order they happen.
type Listener func(Notification)

type listenerEntry struct {
	id int
	fn Listener
}

// listeners keeps registration order so delivery order is stable.
type listeners struct {
	nextID  int
	entries []listenerEntry
}

func (l *listeners) add(fn Listener) int {
	l.nextID++
	l.entries = append(l.entries, listenerEntry{id: l.nextID, fn: fn})
	return l.nextID
}

func (l *listeners) remove(id int) {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners) publish(n Notification) {
	// A listener may unsubscribe while we iterate.
	snapshot := l.entries
	for _, e := range snapshot {
		e.fn(n)
	}
}
