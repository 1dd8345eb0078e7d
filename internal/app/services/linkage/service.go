// Package linkage keeps the one-to-one Program↔Cohort link consistent across
// the two documents that hold it: a program's cohort_id and a cohort's
// program_id.
//
// Every multi-step operation runs inside a multi-document transaction when the
// gateway supports one. Otherwise the steps run as a saga: each completed step
// registers an undo, and a failure undoes the completed steps in reverse
// order. Link writes are conditional in both modes, so a stale read can never
// overwrite a link written concurrently.
package linkage

import (
	"context"
	"errors"
	"sync/atomic"

	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/metrics"
	"github.com/dalemusser/programhub/internal/app/system/txn"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Operation names used in sagas, logs, audit events and metrics.
const (
	OpCreateCohort  = "create_cohort"
	OpUpdateCohort  = "update_cohort"
	OpUpdateProgram = "update_program"
)

// Options carries the optional collaborators of a Service.
type Options struct {
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	// Transactions enables multi-document transactions when the gateway
	// implements docstore.Transactor.
	Transactions bool
}

// Service is the only writer of cohort_id and program_id.
type Service struct {
	programs *programstore.Store
	cohorts  *cohortstore.Store

	tx      docstore.Transactor
	audit   *auditlog.Logger
	metrics *metrics.Metrics
	log     *zap.Logger

	// txnUnavailable latches once the deployment rejects a transaction.
	txnUnavailable atomic.Bool
}

// New builds a Service over g.
func New(g docstore.Gateway, opts Options) *Service {
	s := &Service{
		programs: programstore.New(g),
		cohorts:  cohortstore.New(g),
		audit:    opts.Audit,
		metrics:  opts.Metrics,
		log:      opts.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if tx, ok := g.(docstore.Transactor); ok && opts.Transactions {
		s.tx = tx
	}
	return s
}

// execute runs body either in a transaction or as a compensating saga.
func (s *Service) execute(ctx context.Context, operation string, body func(ctx context.Context, sg *Saga) error) (*Saga, error) {
	if s.tx != nil && !s.txnUnavailable.Load() {
		opID := ""
		var sg *Saga
		err := s.tx.WithTransaction(ctx, func(tctx context.Context) error {
			// The driver retries fn on transient errors; each attempt starts clean.
			sg = newSaga(operation)
			if opID == "" {
				opID = sg.OperationID
			}
			sg.OperationID = opID
			sg.Transactional = true
			return body(tctx, sg)
		})
		if err == nil {
			return sg, nil
		}
		if !txn.IsNotSupported(err) {
			if sg == nil {
				sg = newSaga(operation)
				sg.Transactional = true
			}
			sg.rolledBack()
			return sg, err
		}
		s.txnUnavailable.Store(true)
		s.log.Warn("transactions unavailable, falling back to compensating saga", zap.Error(err))
	}

	sg := newSaga(operation)
	err := body(ctx, sg)
	if err == nil || !sg.hasDone() {
		return sg, err
	}
	if cerr := sg.compensate(ctx); cerr != nil {
		return sg, &CompensationError{Err: err, CompensateErr: cerr, Saga: sg}
	}
	return sg, err
}

// linkFacts is what report needs to describe one link operation.
type linkFacts struct {
	cohortID  primitive.ObjectID
	programID primitive.ObjectID
	previous  *primitive.ObjectID
}

func (s *Service) report(ctx context.Context, sg *Saga, f linkFacts, err error) {
	outcome := metrics.OutcomeOK
	var cerr *CompensationError
	switch {
	case err == nil:
	case errors.As(err, &cerr):
		outcome = metrics.OutcomeCompensationFailed
	case sg.Compensated():
		outcome = metrics.OutcomeCompensated
	default:
		outcome = metrics.OutcomeRejected
	}

	s.metrics.ObserveLink(sg.Operation, outcome)
	for _, st := range sg.Steps {
		s.metrics.ObserveStep(st.Name, string(st.Status))
	}

	fields := []zap.Field{
		zap.String("operation", sg.Operation),
		zap.String("operation_id", sg.OperationID),
		zap.String("cohort_id", f.cohortID.Hex()),
		zap.String("program_id", f.programID.Hex()),
		zap.Bool("transactional", sg.Transactional),
		zap.Strings("steps", sg.Summary()),
	}
	switch outcome {
	case metrics.OutcomeOK:
		s.log.Info("cohort link updated", fields...)
	case metrics.OutcomeCompensationFailed:
		s.log.Error("cohort link compensation failed; link may be inconsistent", append(fields, zap.Error(err))...)
	case metrics.OutcomeCompensated:
		s.log.Warn("cohort link rolled back", append(fields, zap.Error(err))...)
	default:
		s.log.Info("cohort link rejected", append(fields, zap.Error(err))...)
	}

	// Validation rejections never touched the link and are not audited.
	if outcome == metrics.OutcomeRejected && len(sg.Steps) == 0 {
		return
	}
	if s.audit != nil {
		s.audit.Link(ctx, auditlog.LinkOutcome{
			OperationID: sg.OperationID,
			Operation:   sg.Operation,
			CohortID:    f.cohortID,
			ProgramID:   f.programID,
			Previous:    f.previous,
			Err:         err,
			Compensated: sg.Compensated(),
			Stuck:       sg.Stuck(),
		})
	}
}

// CreateCohort inserts c and links its program to it. The program must exist
// and must not already have a cohort.
func (s *Service) CreateCohort(ctx context.Context, c models.Cohort) (models.Cohort, *Saga, error) {
	var created models.Cohort
	sg, err := s.execute(ctx, OpCreateCohort, func(ctx context.Context, sg *Saga) error {
		p, err := s.program(ctx, c.ProgramID)
		if err != nil {
			return err
		}
		if p.Linked() {
			return &AlreadyLinkedError{ProgramID: p.ID, CohortID: *p.CohortID}
		}

		err = sg.run(ctx, "insert_cohort",
			func(ctx context.Context) error {
				var err error
				created, err = s.cohorts.Create(ctx, c)
				if err != nil {
					return storeErr("insert cohort", err)
				}
				return nil
			},
			func(ctx context.Context) error {
				err := s.cohorts.Delete(ctx, created.ID)
				if errors.Is(err, cohortstore.ErrNotFound) {
					return nil
				}
				return err
			})
		if err != nil {
			return err
		}

		return sg.run(ctx, "link_program",
			func(ctx context.Context) error {
				return s.link(ctx, p.ID, created.ID)
			},
			func(ctx context.Context) error {
				return s.programs.Unlink(ctx, p.ID, created.ID)
			})
	})
	s.report(ctx, sg, linkFacts{cohortID: created.ID, programID: c.ProgramID}, err)
	if err != nil {
		return models.Cohort{}, sg, err
	}
	return created, sg, nil
}

// UpdateCohort applies patch to the cohort. When the patch moves the cohort to
// another program, the old program is unlinked (if it still points here) and
// the new program is linked before the cohort itself is rewritten.
func (s *Service) UpdateCohort(ctx context.Context, id primitive.ObjectID, patch cohortstore.Patch) (*Saga, error) {
	var (
		facts  = linkFacts{cohortID: id}
		relink bool
	)
	sg, err := s.execute(ctx, OpUpdateCohort, func(ctx context.Context, sg *Saga) error {
		patch := patch
		c, err := s.cohorts.GetByID(ctx, id)
		if errors.Is(err, cohortstore.ErrNotFound) {
			return notFound("cohort", id)
		}
		if err != nil {
			return storeErr("load cohort", err)
		}
		facts.programID = c.ProgramID

		if patch.ProgramID == nil || *patch.ProgramID == c.ProgramID {
			patch.ProgramID = nil
			return sg.run(ctx, "update_cohort", func(ctx context.Context) error {
				return s.updateCohort(ctx, id, patch)
			}, nil)
		}

		relink = true
		oldID, newID := c.ProgramID, *patch.ProgramID
		facts.programID, facts.previous = newID, &oldID

		np, err := s.program(ctx, newID)
		if err != nil {
			return err
		}
		alreadyOurs := np.Linked() && *np.CohortID == id
		if np.Linked() && !alreadyOurs {
			return &AlreadyLinkedError{ProgramID: np.ID, CohortID: *np.CohortID}
		}

		err = s.programs.Unlink(ctx, oldID, id)
		switch {
		case err == nil:
			sg.Steps = append(sg.Steps, Step{Name: "unlink_old_program", Status: StepDone,
				undo: func(ctx context.Context) error { return s.programs.Link(ctx, oldID, id) }})
		case errors.Is(err, programstore.ErrNotLinked), errors.Is(err, programstore.ErrNotFound):
			sg.skip("unlink_old_program")
		default:
			sg.Steps = append(sg.Steps, Step{Name: "unlink_old_program", Status: StepFailed, Err: err})
			return storeErr("unlink old program", err)
		}

		var undoLink func(ctx context.Context) error
		if !alreadyOurs {
			undoLink = func(ctx context.Context) error { return s.programs.Unlink(ctx, newID, id) }
		}
		if err := sg.run(ctx, "link_new_program", func(ctx context.Context) error {
			return s.link(ctx, newID, id)
		}, undoLink); err != nil {
			return err
		}

		return sg.run(ctx, "update_cohort", func(ctx context.Context) error {
			return s.moveCohort(ctx, id, oldID, newID, patch)
		}, nil)
	})
	if relink {
		s.report(ctx, sg, facts, err)
	}
	return sg, err
}

func (s *Service) updateCohort(ctx context.Context, id primitive.ObjectID, patch cohortstore.Patch) error {
	err := s.cohorts.Update(ctx, id, patch)
	if errors.Is(err, cohortstore.ErrNotFound) {
		return notFound("cohort", id)
	}
	if err != nil {
		return storeErr("update cohort", err)
	}
	return nil
}

// moveCohort switches program_id from oldID to newID only if no other writer
// moved the cohort first, then writes the remaining fields. A failed field
// write puts program_id back so the step leaves nothing behind.
func (s *Service) moveCohort(ctx context.Context, id, oldID, newID primitive.ObjectID, patch cohortstore.Patch) error {
	err := s.cohorts.SetProgram(ctx, id, oldID, newID)
	if errors.Is(err, cohortstore.ErrNotFound) {
		return notFound("cohort", id)
	}
	if err != nil {
		return storeErr("move cohort", err)
	}

	patch.ProgramID = nil
	if err := s.updateCohort(ctx, id, patch); err != nil {
		if rerr := s.cohorts.SetProgram(ctx, id, newID, oldID); rerr != nil {
			s.log.Error("restore cohort program_id failed",
				zap.String("cohort_id", id.Hex()),
				zap.String("program_id", oldID.Hex()),
				zap.Error(rerr))
		}
		return err
	}
	return nil
}

// CreateProgram inserts p without a cohort; any CohortID on p is ignored.
func (s *Service) CreateProgram(ctx context.Context, p models.Program) (models.Program, error) {
	created, err := s.programs.Create(ctx, p)
	if err != nil {
		return models.Program{}, storeErr("create program", err)
	}
	return created, nil
}

// UpdateProgram applies patch. A program's cohort_id may be set once; setting
// it again to the same value is dropped from the patch, and setting a
// different value fails with ErrImmutableLink. It returns the stored fields
// actually written, which is empty when nothing changed.
func (s *Service) UpdateProgram(ctx context.Context, id primitive.ObjectID, patch programstore.Patch) ([]string, error) {
	p, err := s.program(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.CohortID != nil && patch.CohortID.IsZero() {
		patch.CohortID = nil
	}
	if patch.CohortID != nil && p.Linked() {
		if *patch.CohortID != *p.CohortID {
			return nil, ErrImmutableLink
		}
		patch.CohortID = nil
	}
	if patch.IsEmpty() {
		return nil, nil
	}

	if patch.CohortID == nil {
		if err := s.writeProgram(ctx, id, patch); err != nil {
			return nil, err
		}
		return patch.Fields(), nil
	}

	// Setting a cohort on an unlinked program is a one-step link.
	cohortID := *patch.CohortID
	sg := newSaga(OpUpdateProgram)
	err = func() error {
		claim, err := s.claimant(ctx, cohortID, id)
		if err != nil {
			return err
		}
		if claim != nil {
			return &AlreadyLinkedError{ProgramID: claim.ID, CohortID: cohortID}
		}
		return sg.run(ctx, "link_program", func(ctx context.Context) error {
			return s.writeProgram(ctx, id, patch)
		}, nil)
	}()
	s.report(ctx, sg, linkFacts{cohortID: cohortID, programID: id}, err)
	if err != nil {
		return nil, err
	}
	return patch.Fields(), nil
}

func (s *Service) writeProgram(ctx context.Context, id primitive.ObjectID, patch programstore.Patch) error {
	err := s.programs.Update(ctx, id, patch)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, programstore.ErrNotFound):
		return notFound("program", id)
	case errors.Is(err, programstore.ErrLinkConflict):
		return s.conflict(ctx, id)
	case errors.Is(err, programstore.ErrCohortClaimed):
		return s.claimed(ctx, *patch.CohortID, id)
	}
	return storeErr("update program", err)
}

// link points program programID at cohortID, translating a lost race into
// an AlreadyLinkedError.
func (s *Service) link(ctx context.Context, programID, cohortID primitive.ObjectID) error {
	err := s.programs.Link(ctx, programID, cohortID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, programstore.ErrNotFound):
		return notFound("program", programID)
	case errors.Is(err, programstore.ErrLinkConflict):
		return s.conflict(ctx, programID)
	case errors.Is(err, programstore.ErrCohortClaimed):
		return s.claimed(ctx, cohortID, programID)
	}
	return storeErr("link program", err)
}

// conflict builds the error for a program that gained a cohort after it was read.
func (s *Service) conflict(ctx context.Context, programID primitive.ObjectID) error {
	e := &AlreadyLinkedError{ProgramID: programID}
	if p, err := s.programs.GetByID(ctx, programID); err == nil && p.Linked() {
		e.CohortID = *p.CohortID
	}
	return e
}

// claimed builds the error for a cohort already held by another program.
func (s *Service) claimed(ctx context.Context, cohortID, self primitive.ObjectID) error {
	e := &AlreadyLinkedError{CohortID: cohortID}
	if other, err := s.claimant(ctx, cohortID, self); err == nil && other != nil {
		e.ProgramID = other.ID
	}
	return e
}

// claimant returns a program other than self that holds cohortID, if any.
func (s *Service) claimant(ctx context.Context, cohortID, self primitive.ObjectID) (*models.Program, error) {
	holders, err := s.programs.FindByCohort(ctx, cohortID)
	if err != nil {
		return nil, storeErr("find cohort holder", err)
	}
	for i := range holders {
		if holders[i].ID != self {
			return &holders[i], nil
		}
	}
	return nil, nil
}

func (s *Service) program(ctx context.Context, id primitive.ObjectID) (models.Program, error) {
	p, err := s.programs.GetByID(ctx, id)
	if errors.Is(err, programstore.ErrNotFound) {
		return models.Program{}, notFound("program", id)
	}
	if err != nil {
		return models.Program{}, storeErr("load program", err)
	}
	return p, nil
}

// LookupProgramByCohortID returns the program that links cohortID, or nil.
func (s *Service) LookupProgramByCohortID(ctx context.Context, cohortID primitive.ObjectID) (*models.Program, error) {
	holders, err := s.programs.FindByCohort(ctx, cohortID)
	if err != nil {
		return nil, storeErr("find program by cohort", err)
	}
	if len(holders) == 0 {
		return nil, nil
	}
	return &holders[0], nil
}

// LookupCohortsByProgramID returns the cohorts whose program_id is programID.
// The result is never nil.
func (s *Service) LookupCohortsByProgramID(ctx context.Context, programID primitive.ObjectID) ([]models.Cohort, error) {
	out, err := s.cohorts.ListByProgram(ctx, programID)
	if err != nil {
		return nil, storeErr("list cohorts by program", err)
	}
	if out == nil {
		out = []models.Cohort{}
	}
	return out, nil
}

// DeleteProgram removes a program. Its cohort keeps pointing at it.
func (s *Service) DeleteProgram(ctx context.Context, id primitive.ObjectID) error {
	err := s.programs.Delete(ctx, id)
	if errors.Is(err, programstore.ErrNotFound) {
		return notFound("program", id)
	}
	if err != nil {
		return storeErr("delete program", err)
	}
	return nil
}

// DeleteCohort removes a cohort. Its program keeps its cohort_id.
func (s *Service) DeleteCohort(ctx context.Context, id primitive.ObjectID) error {
	err := s.cohorts.Delete(ctx, id)
	if errors.Is(err, cohortstore.ErrNotFound) {
		return notFound("cohort", id)
	}
	if err != nil {
		return storeErr("delete cohort", err)
	}
	return nil
}
