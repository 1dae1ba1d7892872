package query

import "time"

// Task is one scheduled debounce. The host runs it by waiting Delay and then
// handing it back to Controller.Fire; a canceled task fires as a no-op.
type Task struct {
	id       uint64
	text     string
	canceled bool
}

func (t *Task) ID() uint64 { return t.id }

// Text is the query the task was scheduled for.
func (t *Task) Text() string { return t.text }

func (t *Task) Cancel() {
	if t != nil {
		t.canceled = true
	}
}

func (t *Task) Canceled() bool {
	return t == nil || t.canceled
}

// Effect is work the controller asks its host to perform.
type Effect interface {
	effect()
}

// Fetch asks the host to run Request against the provider and report back
// through Controller.Complete.
type Fetch struct {
	Request Request
}

// Wait asks the host to call Controller.Fire(Task) after Delay.
type Wait struct {
	Task  *Task
	Delay time.Duration
}

func (Fetch) effect() {}
func (Wait) effect()  {}
