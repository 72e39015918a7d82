package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"agrimarket/internal/media"
)

type State int

const (
	Editing State = iota
	Submitting
	Completed
)

const (
	labelNext   = "Next Step"
	labelSubmit = "Submit Registration"
)

// SubmitFunc performs the terminal action with a snapshot of the values.
type SubmitFunc func(ctx context.Context, v Values) error

// Wizard drives a linear multi-step form. Steps are numbered from 1.
type Wizard struct {
	mu      sync.Mutex
	steps   []Step
	current int
	state   State
	values  Values
}

func New(steps ...Step) (*Wizard, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return &Wizard{steps: steps, current: 1, values: newValues()}, nil
}

func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Wizard) Total() int {
	return len(w.steps)
}

// Current returns the schema of the active step.
func (w *Wizard) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.current-1]
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard) IsFinal() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current == len(w.steps)
}

func (w *Wizard) CanPrev() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current > 1 && w.state == Editing
}

func (w *Wizard) NextLabel() string {
	if w.IsFinal() {
		return labelSubmit
	}
	return labelNext
}

// Percent is step/N × 100, rounded down.
func (w *Wizard) Percent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current * 100 / len(w.steps)
}

func (w *Wizard) Set(name, value string) {
	w.mu.Lock()
	w.values.Text[name] = value
	w.mu.Unlock()
}

func (w *Wizard) SetChecked(name string, checked bool) {
	w.mu.Lock()
	w.values.Checked[name] = checked
	w.mu.Unlock()
}

func (w *Wizard) SetList(name string, items []string) {
	w.mu.Lock()
	w.values.Lists[name] = append([]string(nil), items...)
	w.mu.Unlock()
}

// Attach stores a selected file. An empty file clears the selection.
func (w *Wizard) Attach(name string, f media.File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(f.Data) == 0 {
		delete(w.values.Files, name)
		return
	}
	w.values.Files[name] = f
}

// Values returns a copy of everything entered so far.
func (w *Wizard) Values() Values {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.values.clone()
}

// Validate checks the active step and reports only the first failing field.
func (w *Wizard) Validate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateLocked()
}

func (w *Wizard) validateLocked() error {
	final := w.current == len(w.steps)
	for _, f := range w.steps[w.current-1].Fields {
		if !f.Required {
			continue
		}
		if msg := w.checkField(f, final); msg != "" {
			return &ValidationError{Field: f.Name, Message: msg}
		}
	}
	return nil
}

func (w *Wizard) checkField(f Field, final bool) string {
	switch f.Kind {
	case File:
		if final && !w.values.HasFile(f.Name) {
			return fmt.Sprintf("Please upload the required document: %s.", f.Name)
		}
		return ""
	case Checkbox:
		if !w.values.Checked[f.Name] {
			return "Please check: " + f.Label
		}
		return ""
	case List:
		if len(w.values.Lists[f.Name]) == 0 {
			return "Please select at least one: " + f.Label
		}
		return ""
	}

	v := strings.TrimSpace(w.values.Text[f.Name])
	if v == "" {
		return fmt.Sprintf("Please fill out the %s field.", f.Label)
	}
	for _, rule := range f.Rules {
		if msg := rule(w.values.Text[f.Name]); msg != "" {
			return msg
		}
	}
	return ""
}

// Next validates the active step and advances. On the final step use Submit.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != Editing {
		return w.stateErr()
	}
	if w.current == len(w.steps) {
		return ErrAtFinalStep
	}
	if err := w.validateLocked(); err != nil {
		return err
	}
	w.current++
	return nil
}

// Prev goes back one step without validating. It is a no-op on step 1.
func (w *Wizard) Prev() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current <= 1 || w.state != Editing {
		return false
	}
	w.current--
	return true
}

// Submit validates the final step and runs fn without holding the lock.
// On failure the wizard returns to Editing with every value intact; on
// success it is Completed and accepts no further input.
func (w *Wizard) Submit(ctx context.Context, fn SubmitFunc) error {
	w.mu.Lock()
	if w.state != Editing {
		err := w.stateErr()
		w.mu.Unlock()
		return err
	}
	if w.current != len(w.steps) {
		w.mu.Unlock()
		return ErrNotFinalStep
	}
	if err := w.validateLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	w.state = Submitting
	snapshot := w.values.clone()
	w.mu.Unlock()

	err := fn(ctx, snapshot)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = Editing
		return err
	}
	w.state = Completed
	return nil
}

func (w *Wizard) stateErr() error {
	if w.state == Completed {
		return ErrCompleted
	}
	return ErrSubmitting
}
