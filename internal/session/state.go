// internal/session/state.go
//
// Session lifecycle states and the transition table.
//
//	Uninitialized --init------------------> Active
//	Active        --settings changed------> Active
//	Active        --game over-------------> AwaitingGameOverDecision
//	Awaiting      --restart confirmed-----> Active
//	Awaiting      --restart declined------> Awaiting
//	Awaiting      --settings changed------> Active
//	any           --new game / continue---> Active
//
// Every command resolves its event against the table before touching
// any state; an event missing from the table is a *TransitionError.

package session

// State is a session lifecycle state.
type State string

const (
	Uninitialized            State = "uninitialized"
	Active                   State = "active"
	AwaitingGameOverDecision State = "awaiting_game_over_decision"
)

// Event triggers a state transition.
type Event string

const (
	EventInit            Event = "init"
	EventSettingsChanged Event = "settings_changed"
	EventGameOver        Event = "game_over"
	EventRestart         Event = "restart"
	EventDecline         Event = "decline"
	EventNewGame         Event = "new_game"
	EventContinue        Event = "continue"
	EventSave            Event = "save"
	EventPlay            Event = "play"
)

var transitions = map[State]map[Event]State{
	Uninitialized: {
		EventInit:     Active,
		EventNewGame:  Active,
		EventContinue: Active,
	},
	Active: {
		EventSettingsChanged: Active,
		EventGameOver:        AwaitingGameOverDecision,
		EventNewGame:         Active,
		EventContinue:        Active,
		EventSave:            Active,
		EventPlay:            Active,
	},
	AwaitingGameOverDecision: {
		EventSettingsChanged: Active,
		EventRestart:         Active,
		EventDecline:         AwaitingGameOverDecision,
		EventNewGame:         Active,
		EventContinue:        Active,
	},
}

// next resolves ev from the given state.
func next(from State, ev Event) (State, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return from, &TransitionError{From: from, Event: ev}
	}
	return to, nil
}
