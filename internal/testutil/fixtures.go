package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"

	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewMemoryGateway returns an in-memory gateway with the same unique
// constraints the database indexes enforce.
func NewMemoryGateway() *docstore.Memory {
	m := docstore.NewMemory()
	m.EnsureUnique(programstore.Collection, "cohort_id")
	m.EnsureUnique(userstore.Collection, "email_ci")
	return m
}

// Fixtures provides helper methods for creating test data. Records are
// written straight through the stores, so cohorts created here do not touch
// the program side of the link.
type Fixtures struct {
	g docstore.Gateway
	t *testing.T
}

// NewFixtures creates a new Fixtures instance over g.
func NewFixtures(t *testing.T, g docstore.Gateway) *Fixtures {
	t.Helper()
	return &Fixtures{g: g, t: t}
}

// Gateway returns the underlying gateway for direct access in tests.
func (f *Fixtures) Gateway() docstore.Gateway {
	return f.g
}

// CreateProgram creates an active, unlinked program.
func (f *Fixtures) CreateProgram(ctx context.Context, name string) models.Program {
	f.t.Helper()
	p, err := programstore.New(f.g).Create(ctx, models.Program{
		Name:           name,
		Description:    "Test program",
		StartDate:      "2025-01-01",
		EndDate:        "2025-10-31",
		DurationMonths: 10,
	})
	if err != nil {
		f.t.Fatalf("failed to create test program: %v", err)
	}
	return p
}

// LinkProgram sets cohort_id on a program.
func (f *Fixtures) LinkProgram(ctx context.Context, programID, cohortID primitive.ObjectID) {
	f.t.Helper()
	if err := programstore.New(f.g).Link(ctx, programID, cohortID); err != nil {
		f.t.Fatalf("failed to link test program: %v", err)
	}
}

// CreateCohort creates a cohort pointing at programID.
func (f *Fixtures) CreateCohort(ctx context.Context, name string, programID primitive.ObjectID) models.Cohort {
	f.t.Helper()
	c, err := cohortstore.New(f.g).Create(ctx, models.Cohort{
		Name:      name,
		ProgramID: programID,
		StartDate: "2025-01-01",
		EndDate:   "2025-10-31",
	})
	if err != nil {
		f.t.Fatalf("failed to create test cohort: %v", err)
	}
	return c
}

// CreateLinkedPair creates a program and a cohort linked in both directions.
func (f *Fixtures) CreateLinkedPair(ctx context.Context, name string) (models.Program, models.Cohort) {
	f.t.Helper()
	p := f.CreateProgram(ctx, name)
	c := f.CreateCohort(ctx, name+" cohort", p.ID)
	f.LinkProgram(ctx, p.ID, c.ID)
	p.CohortID = &c.ID
	return p, c
}

// CreateModule creates a module for programID in the given month.
func (f *Fixtures) CreateModule(ctx context.Context, programID primitive.ObjectID, month int) models.Module {
	f.t.Helper()
	m, err := modulestore.New(f.g).Create(ctx, models.Module{
		ProgramID:   programID,
		MonthNumber: month,
		Hours:       24,
		StartDate:   "2025-01-01",
		EndDate:     "2025-02-01",
	})
	if err != nil {
		f.t.Fatalf("failed to create test module: %v", err)
	}
	return m
}

// CreateStudent creates an active student in cohortID.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName string, cohortID primitive.ObjectID) models.Student {
	f.t.Helper()
	st, err := studentstore.New(f.g).Create(ctx, models.Student{
		CohortID: cohortID,
		FullName: fullName,
		Email:    emailFor(fullName),
	})
	if err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return st
}

// CreateInstructor creates an active instructor.
func (f *Fixtures) CreateInstructor(ctx context.Context, fullName string) models.Instructor {
	f.t.Helper()
	in, err := instructorstore.New(f.g).Create(ctx, models.Instructor{
		FullName: fullName,
		Email:    emailFor(fullName),
	})
	if err != nil {
		f.t.Fatalf("failed to create test instructor: %v", err)
	}
	return in
}

// CreateSubject creates an active subject.
func (f *Fixtures) CreateSubject(ctx context.Context, name, code string) models.Subject {
	f.t.Helper()
	sub, err := subjectstore.New(f.g).Create(ctx, models.Subject{
		Name:         name,
		Code:         code,
		Type:         "core",
		DefaultHours: 24,
	})
	if err != nil {
		f.t.Fatalf("failed to create test subject: %v", err)
	}
	return sub
}

// CreateUser creates an active user with a password.
func (f *Fixtures) CreateUser(ctx context.Context, email, role, password string) models.User {
	f.t.Helper()
	u, err := userstore.New(f.g).Create(ctx, userstore.NewUser{
		Email:       email,
		DisplayName: strings.Split(email, "@")[0],
		Role:        role,
		Password:    password,
	})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

func emailFor(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
}
