package linkage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dalemusser/programhub/internal/app/services/linkage"
	"github.com/dalemusser/programhub/internal/app/store/audit"
	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/metrics"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// faultyGateway wraps Memory and fails writes chosen by fail.
type faultyGateway struct {
	*docstore.Memory

	mu   sync.Mutex
	fail func(op, coll string, p docstore.Patch) error
}

func (f *faultyGateway) check(op, coll string, p docstore.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		return nil
	}
	return f.fail(op, coll, p)
}

func (f *faultyGateway) Create(ctx context.Context, coll string, doc any) (docstore.Meta, error) {
	if err := f.check("create", coll, docstore.Patch{}); err != nil {
		return docstore.Meta{}, err
	}
	return f.Memory.Create(ctx, coll, doc)
}

func (f *faultyGateway) Update(ctx context.Context, coll string, id primitive.ObjectID, p docstore.Patch) error {
	return f.UpdateWhere(ctx, coll, id, nil, p)
}

func (f *faultyGateway) UpdateWhere(ctx context.Context, coll string, id primitive.ObjectID, cond docstore.Filter, p docstore.Patch) error {
	if err := f.check("update", coll, p); err != nil {
		return err
	}
	return f.Memory.UpdateWhere(ctx, coll, id, cond, p)
}

func (f *faultyGateway) Delete(ctx context.Context, coll string, id primitive.ObjectID) error {
	if err := f.check("delete", coll, docstore.Patch{}); err != nil {
		return err
	}
	return f.Memory.Delete(ctx, coll, id)
}

func (f *faultyGateway) setFail(fn func(op, coll string, p docstore.Patch) error) {
	f.mu.Lock()
	f.fail = fn
	f.mu.Unlock()
}

type env struct {
	t        *testing.T
	gw       *faultyGateway
	svc      *linkage.Service
	programs *programstore.Store
	cohorts  *cohortstore.Store
	audit    *audit.Store
	metrics  *metrics.Metrics
	ctx      context.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := docstore.NewMemory()
	mem.EnsureUnique(programstore.Collection, "cohort_id")
	gw := &faultyGateway{Memory: mem}

	auditStore := audit.New(mem)
	m := metrics.New()
	svc := linkage.New(gw, linkage.Options{
		Audit:   auditlog.New(auditStore, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "db"}),
		Metrics: m,
		Logger:  zap.NewNop(),
	})
	return &env{
		t:        t,
		gw:       gw,
		svc:      svc,
		programs: programstore.New(mem),
		cohorts:  cohortstore.New(mem),
		audit:    auditStore,
		metrics:  m,
		ctx:      context.Background(),
	}
}

func (e *env) program(name string) models.Program {
	e.t.Helper()
	p, err := e.svc.CreateProgram(e.ctx, models.Program{Name: name, DurationMonths: 3, StartDate: "2025-01-01"})
	if err != nil {
		e.t.Fatalf("CreateProgram(%s): %v", name, err)
	}
	return p
}

func (e *env) cohort(name string, programID primitive.ObjectID) models.Cohort {
	e.t.Helper()
	c, _, err := e.svc.CreateCohort(e.ctx, models.Cohort{Name: name, ProgramID: programID})
	if err != nil {
		e.t.Fatalf("CreateCohort(%s): %v", name, err)
	}
	return c
}

func (e *env) reloadProgram(id primitive.ObjectID) models.Program {
	e.t.Helper()
	p, err := e.programs.GetByID(e.ctx, id)
	if err != nil {
		e.t.Fatalf("reload program: %v", err)
	}
	return p
}

func (e *env) reloadCohort(id primitive.ObjectID) models.Cohort {
	e.t.Helper()
	c, err := e.cohorts.GetByID(e.ctx, id)
	if err != nil {
		e.t.Fatalf("reload cohort: %v", err)
	}
	return c
}

func (e *env) cohortCount() int64 {
	e.t.Helper()
	n, err := e.cohorts.Count(e.ctx)
	if err != nil {
		e.t.Fatalf("count cohorts: %v", err)
	}
	return n
}

func (e *env) assertConsistent() {
	e.t.Helper()
	issues, err := e.svc.CheckConsistency(e.ctx)
	if err != nil {
		e.t.Fatalf("CheckConsistency: %v", err)
	}
	if len(issues) != 0 {
		e.t.Errorf("expected consistent links, got %+v", issues)
	}
}

func linkedTo(p models.Program) primitive.ObjectID {
	if p.CohortID == nil {
		return primitive.NilObjectID
	}
	return *p.CohortID
}

func stepStatuses(sg *linkage.Saga) map[string]linkage.StepStatus {
	out := map[string]linkage.StepStatus{}
	for _, st := range sg.Steps {
		out[st.Name] = st.Status
	}
	return out
}
