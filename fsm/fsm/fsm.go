package fsm

import (
	"fmt"
	"strings"
	"sync"
)

//
//  machine := fsm.MustNewFSM(name, initialState, events, callbacks)
//
//  resp, err := machine.Do(event, args...)
//

type State string

func (s State) String() string {
	return string(s)
}

type Event string

func (e Event) String() string {
	return string(e)
}

func (e Event) IsEmpty() bool {
	return e.String() == ""
}

// Response is the result of a processed event.
type Response struct {
	// State the machine ended up in.
	State State
	// Data is the callback's payload, cast by the caller according to the
	// event that produced it.
	Data interface{}
}

// Callback runs before the transition for its event is applied. A returned
// error aborts the transition and leaves the state unchanged.
type Callback func(event Event, args ...interface{}) (interface{}, error)

type Callbacks map[Event]Callback

// EventDesc declares one event with its allowed source states.
type EventDesc struct {
	Name Event

	SrcState []State

	// DstState is entered after the event's callback succeeds.
	DstState State
}

type FSM struct {
	name         string
	initialState State
	currentState State

	// transitions maps source state + event to the destination state.
	transitions map[trKey]State

	callbacks Callbacks

	// states holds every state reachable by the machine.
	states map[State]bool

	// finStates are states that are not a source of any transition.
	finStates map[State]bool

	// stateMu guards currentState.
	stateMu sync.RWMutex
	// eventMu serializes Do calls.
	eventMu sync.Mutex
}

type trKey struct {
	source State
	event  Event
}

// MustNewFSM builds a machine and panics on an inconsistent declaration.
// Machine wiring is static, so a bad declaration is a programming error.
func MustNewFSM(machineName string, initialState State, events []EventDesc, callbacks Callbacks) *FSM {
	machineName = strings.TrimSpace(machineName)
	initialState = State(strings.TrimSpace(initialState.String()))

	if machineName == "" {
		panic("machine name cannot be empty")
	}

	if initialState == "" {
		panic("initial state cannot be empty")
	}

	if len(events) == 0 {
		panic("cannot init fsm with empty events")
	}

	f := &FSM{
		name:         machineName,
		initialState: initialState,
		currentState: initialState,
		transitions:  make(map[trKey]State),
		states:       map[State]bool{initialState: true},
		finStates:    make(map[State]bool),
		callbacks:    make(Callbacks),
	}

	allEvents := make(map[Event]bool)
	allSources := make(map[State]bool)

	for _, event := range events {
		event.Name = Event(strings.TrimSpace(event.Name.String()))
		event.DstState = State(strings.TrimSpace(event.DstState.String()))

		if event.Name.IsEmpty() {
			panic("cannot init empty event")
		}

		if event.DstState == "" {
			panic(fmt.Sprintf("event \"%s\" has no dst state", event.Name))
		}

		if allEvents[event.Name] {
			panic(fmt.Sprintf("duplicate event \"%s\"", event.Name))
		}
		allEvents[event.Name] = true
		f.states[event.DstState] = true

		sources := 0
		for _, sourceState := range event.SrcState {
			sourceState = State(strings.TrimSpace(sourceState.String()))
			if sourceState == "" {
				continue
			}

			tKey := trKey{sourceState, event.Name}
			if _, ok := f.transitions[tKey]; ok {
				panic(fmt.Sprintf("duplicate dst for pair source \"%s\" + event \"%s\"", sourceState, event.Name))
			}

			f.transitions[tKey] = event.DstState
			f.states[sourceState] = true
			allSources[sourceState] = true
			sources++
		}

		if sources == 0 {
			panic(fmt.Sprintf("event \"%s\" must have minimum one source state", event.Name))
		}
	}

	if len(f.states) < 2 {
		panic("machine must contain at least two states")
	}

	for event := range callbacks {
		if !allEvents[event] {
			panic(fmt.Sprintf("callback for unknown event \"%s\"", event))
		}
		f.callbacks[event] = callbacks[event]
	}

	for state := range f.states {
		if !allSources[state] {
			f.finStates[state] = true
		}
	}

	return f
}

// Do processes an event against the current state. The callback for the
// event, if any, runs first; its error cancels the transition.
func (f *FSM) Do(event Event, args ...interface{}) (*Response, error) {
	f.eventMu.Lock()
	defer f.eventMu.Unlock()

	dstState, ok := f.transitions[trKey{f.State(), event}]
	if !ok {
		return nil, fmt.Errorf("cannot execute event \"%s\" for state \"%s\"", event, f.State())
	}

	resp := &Response{State: f.State()}

	if callback, ok := f.callbacks[event]; ok {
		data, err := callback(event, args...)
		if err != nil {
			// Do not change state on a callback error.
			return resp, err
		}
		resp.Data = data
	}

	f.setState(dstState)
	resp.State = dstState

	return resp, nil
}

// CanDo reports whether event is executable from the current state.
func (f *FSM) CanDo(event Event) bool {
	_, ok := f.transitions[trKey{f.State(), event}]
	return ok
}

// State returns the current state of the machine.
func (f *FSM) State() State {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.currentState
}

// SetState forces the machine into a known state without running callbacks.
// Used when restoring a machine from a dump.
func (f *FSM) SetState(state State) error {
	if !f.states[state] {
		return fmt.Errorf("unknown state \"%s\" for machine \"%s\"", state, f.name)
	}
	f.setState(state)
	return nil
}

func (f *FSM) setState(state State) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	f.currentState = state
}

func (f *FSM) Name() string {
	return f.name
}

func (f *FSM) InitialState() State {
	return f.initialState
}

func (f *FSM) IsFinState(state State) bool {
	return f.finStates[state]
}
