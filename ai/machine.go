package ai

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// Machine guards a robot's behaviour state: every change Decide asks for must
// be a legal edge of the state graph.
type Machine struct {
	f *fsm.FSM
}

// NewMachine returns a machine in state initial.
func NewMachine(initial State) *Machine {
	return &Machine{
		f: fsm.NewFSM(
			string(initial),
			fsm.Events{
				{Name: string(Patrol), Src: []string{string(Idle)}, Dst: string(Patrol)},
				{Name: string(Engage), Src: []string{string(Idle), string(Patrol)}, Dst: string(Engage)},
				{Name: string(Flee), Src: []string{string(Idle), string(Patrol), string(Engage)}, Dst: string(Flee)},
				{Name: string(Idle), Src: []string{string(Patrol), string(Engage), string(Flee)}, Dst: string(Idle)},
			},
			fsm.Callbacks{},
		),
	}
}

func (m *Machine) Current() State {
	return State(m.f.Current())
}

// Can reports whether to is reachable from the current state in one step.
func (m *Machine) Can(to State) bool {
	return m.f.Can(string(to))
}

// Transition moves to state to. Staying in the current state is not a
// transition and always succeeds.
func (m *Machine) Transition(ctx context.Context, to State) error {
	if m.Current() == to {
		return nil
	}
	if !m.Can(to) {
		return fmt.Errorf("ai: illegal transition %s -> %s", m.Current(), to)
	}
	return m.f.Event(ctx, string(to))
}
