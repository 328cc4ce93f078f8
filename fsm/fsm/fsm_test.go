package fsm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lojascometa/contract-terminal/fsm/fsm"
)

const (
	testStateIdle    = fsm.State("state_idle")
	testStateRunning = fsm.State("state_running")
	testStateDone    = fsm.State("state_done")

	testEventStart  = fsm.Event("event_start")
	testEventFinish = fsm.Event("event_finish")
)

func newTestFSM(callbacks fsm.Callbacks) *fsm.FSM {
	return fsm.MustNewFSM(
		"test_fsm",
		testStateIdle,
		[]fsm.EventDesc{
			{Name: testEventStart, SrcState: []fsm.State{testStateIdle}, DstState: testStateRunning},
			{Name: testEventFinish, SrcState: []fsm.State{testStateRunning}, DstState: testStateDone},
		},
		callbacks,
	)
}

func TestFSM_Do(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)
	req.Equal(testStateIdle, machine.State())

	resp, err := machine.Do(testEventStart)
	req.NoError(err)
	req.Equal(testStateRunning, resp.State)
	req.Equal(testStateRunning, machine.State())

	resp, err = machine.Do(testEventFinish)
	req.NoError(err)
	req.Equal(testStateDone, resp.State)
}

func TestFSM_Do_InvalidTransition(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)

	_, err := machine.Do(testEventFinish)
	req.Error(err)
	req.Equal(testStateIdle, machine.State())
}

func TestFSM_CallbackErrorKeepsState(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(fsm.Callbacks{
		testEventStart: func(event fsm.Event, args ...interface{}) (interface{}, error) {
			return nil, errors.New("callback failed")
		},
	})

	_, err := machine.Do(testEventStart)
	req.Error(err)
	req.Equal(testStateIdle, machine.State())
}

func TestFSM_CallbackData(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(fsm.Callbacks{
		testEventStart: func(event fsm.Event, args ...interface{}) (interface{}, error) {
			req.Equal(testEventStart, event)
			req.Len(args, 1)
			return args[0], nil
		},
	})

	resp, err := machine.Do(testEventStart, "payload")
	req.NoError(err)
	req.Equal("payload", resp.Data)
}

func TestFSM_CanDo(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)
	req.True(machine.CanDo(testEventStart))
	req.False(machine.CanDo(testEventFinish))
}

func TestFSM_SetState(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)
	req.NoError(machine.SetState(testStateDone))
	req.Equal(testStateDone, machine.State())

	req.Error(machine.SetState(fsm.State("state_unknown")))
}

func TestFSM_FinStates(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)
	req.True(machine.IsFinState(testStateDone))
	req.False(machine.IsFinState(testStateRunning))
}

func TestMustNewFSM_PanicsOnBadDeclaration(t *testing.T) {
	req := require.New(t)

	req.Panics(func() {
		fsm.MustNewFSM("", testStateIdle, []fsm.EventDesc{
			{Name: testEventStart, SrcState: []fsm.State{testStateIdle}, DstState: testStateRunning},
		}, nil)
	})

	req.Panics(func() {
		fsm.MustNewFSM("machine", testStateIdle, nil, nil)
	})

	req.Panics(func() {
		fsm.MustNewFSM("machine", testStateIdle, []fsm.EventDesc{
			{Name: testEventStart, SrcState: []fsm.State{testStateIdle}, DstState: testStateRunning},
			{Name: testEventStart, SrcState: []fsm.State{testStateRunning}, DstState: testStateDone},
		}, nil)
	})
}
