package linkage

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when the referenced program or cohort does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyLinked matches every *AlreadyLinkedError via errors.Is.
	ErrAlreadyLinked = errors.New("program already linked to a cohort")

	// ErrImmutableLink is returned when an update tries to repoint a program
	// that already has a cohort.
	ErrImmutableLink = errors.New("a program's cohort cannot be changed once set")
)

// AlreadyLinkedError reports the program that already holds a link and the
// cohort it holds.
type AlreadyLinkedError struct {
	ProgramID primitive.ObjectID
	CohortID  primitive.ObjectID
}

func (e *AlreadyLinkedError) Error() string {
	if e.CohortID.IsZero() {
		return fmt.Sprintf("program %s is already linked to another cohort", e.ProgramID.Hex())
	}
	return fmt.Sprintf("program %s is already linked to cohort %s", e.ProgramID.Hex(), e.CohortID.Hex())
}

func (e *AlreadyLinkedError) Is(target error) bool { return target == ErrAlreadyLinked }

// StoreError wraps a gateway failure that has no domain meaning.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// CompensationError is returned when a step failed and undoing the completed
// steps failed too. The link may be inconsistent; Saga says which step is stuck.
type CompensationError struct {
	Err           error
	CompensateErr error
	Saga          *Saga
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("%v (compensation failed: %v)", e.Err, e.CompensateErr)
}

func (e *CompensationError) Unwrap() []error { return []error{e.Err, e.CompensateErr} }

func notFound(kind string, id primitive.ObjectID) error {
	return fmt.Errorf("%s %s: %w", kind, id.Hex(), ErrNotFound)
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
