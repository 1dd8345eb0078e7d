package linkage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/google/uuid"
)

// StepStatus is the final state of one saga step.
type StepStatus string

const (
	StepDone               StepStatus = "done"
	StepFailed             StepStatus = "failed"
	StepCompensated        StepStatus = "compensated"
	StepCompensationFailed StepStatus = "compensation_failed"
	StepSkipped            StepStatus = "skipped"
)

// Step is one write of a multi-step link operation.
type Step struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	Err    error      `json:"-"`

	undo func(ctx context.Context) error
}

// Saga records the steps of one link operation in execution order.
type Saga struct {
	OperationID   string `json:"operation_id"`
	Operation     string `json:"operation"`
	Transactional bool   `json:"transactional"`
	Steps         []Step `json:"steps"`
}

func newSaga(operation string) *Saga {
	return &Saga{OperationID: uuid.NewString(), Operation: operation}
}

// run executes do as step name. When do succeeds the step is recorded as done
// and undo (which may be nil) is kept for compensation.
func (s *Saga) run(ctx context.Context, name string, do, undo func(ctx context.Context) error) error {
	if err := do(ctx); err != nil {
		s.Steps = append(s.Steps, Step{Name: name, Status: StepFailed, Err: err})
		return err
	}
	s.Steps = append(s.Steps, Step{Name: name, Status: StepDone, undo: undo})
	return nil
}

func (s *Saga) skip(name string) {
	s.Steps = append(s.Steps, Step{Name: name, Status: StepSkipped})
}

// compensate undoes done steps in reverse order. It keeps going after an undo
// fails and returns every undo error joined.
func (s *Saga) compensate(ctx context.Context) error {
	// The request may already be canceled; the undo still has to run.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	var errs []error
	for i := len(s.Steps) - 1; i >= 0; i-- {
		st := &s.Steps[i]
		if st.Status != StepDone {
			continue
		}
		if st.undo == nil {
			st.Status = StepCompensated
			continue
		}
		if err := st.undo(ctx); err != nil {
			st.Status = StepCompensationFailed
			st.Err = err
			errs = append(errs, fmt.Errorf("undo %s: %w", st.Name, err))
			continue
		}
		st.Status = StepCompensated
	}
	return errors.Join(errs...)
}

// rolledBack marks done steps compensated after a transaction abort.
func (s *Saga) rolledBack() {
	for i := range s.Steps {
		if s.Steps[i].Status == StepDone {
			s.Steps[i].Status = StepCompensated
		}
	}
}

func (s *Saga) hasDone() bool {
	for _, st := range s.Steps {
		if st.Status == StepDone {
			return true
		}
	}
	return false
}

// Compensated reports whether any step was undone.
func (s *Saga) Compensated() bool { return s.has(StepCompensated) }

// Stuck reports whether an undo failed.
func (s *Saga) Stuck() bool { return s.has(StepCompensationFailed) }

func (s *Saga) has(status StepStatus) bool {
	if s == nil {
		return false
	}
	for _, st := range s.Steps {
		if st.Status == status {
			return true
		}
	}
	return false
}

// Summary renders the steps as name:status pairs for logging.
func (s *Saga) Summary() []string {
	out := make([]string, 0, len(s.Steps))
	for _, st := range s.Steps {
		out = append(out, st.Name+":"+string(st.Status))
	}
	return out
}
