// Package curriculum covers the program-shaped views of modules: generating a
// program's monthly modules, listing its timeline, assigning subjects and
// instructors with display snapshots, and the dashboard totals.
package curriculum

import (
	"context"
	"errors"
	"fmt"
	"time"

	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	metricsstore "github.com/dalemusser/programhub/internal/app/store/metrics"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// DateLayout is the wire and storage format of every date field.
	DateLayout = "2006-01-02"
	// DefaultModuleHours is the hours value of a generated module.
	DefaultModuleHours = 24
)

// ErrNotFound is returned when a referenced program, module, subject or
// instructor does not exist.
var ErrNotFound = errors.New("not found")

type Service struct {
	g           docstore.Gateway
	programs    *programstore.Store
	modules     *modulestore.Store
	subjects    *subjectstore.Store
	instructors *instructorstore.Store
	log         *zap.Logger
}

func New(g docstore.Gateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		g:           g,
		programs:    programstore.New(g),
		modules:     modulestore.New(g),
		subjects:    subjectstore.New(g),
		instructors: instructorstore.New(g),
		log:         log,
	}
}

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the target month (Jan 31 + 1 month is Feb 28 or 29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// PlanModules lays out months one-month modules starting at start. Module i
// begins i months after start and ends one month after it begins.
func PlanModules(programID primitive.ObjectID, start string, months int) ([]models.Module, error) {
	if months <= 0 {
		return []models.Module{}, nil
	}
	t0, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	out := make([]models.Module, 0, months)
	for i := 0; i < months; i++ {
		ms := AddMonths(t0, i)
		out = append(out, models.Module{
			ProgramID:   programID,
			StartDate:   ms.Format(DateLayout),
			EndDate:     AddMonths(ms, 1).Format(DateLayout),
			Hours:       DefaultModuleHours,
			MonthNumber: i + 1,
		})
	}
	return out, nil
}

// GenerateModules creates one module per month of p's duration. Modules
// created before a failure are kept.
func (s *Service) GenerateModules(ctx context.Context, p models.Program) ([]models.Module, error) {
	plan, err := PlanModules(p.ID, p.StartDate, p.DurationMonths)
	if err != nil {
		return nil, err
	}
	out := make([]models.Module, 0, len(plan))
	for _, m := range plan {
		created, err := s.modules.Create(ctx, m)
		if err != nil {
			return out, fmt.Errorf("generate module %d: %w", m.MonthNumber, err)
		}
		out = append(out, created)
	}
	s.log.Info("generated program modules",
		zap.String("program_id", p.ID.Hex()),
		zap.Int("modules", len(out)))
	return out, nil
}

// Timeline returns the program's modules ordered by month.
func (s *Service) Timeline(ctx context.Context, programID primitive.ObjectID) ([]models.Module, error) {
	if _, err := s.programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, programstore.ErrNotFound) {
			return nil, fmt.Errorf("program %s: %w", programID.Hex(), ErrNotFound)
		}
		return nil, err
	}
	out, err := s.modules.ListByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Module{}
	}
	return out, nil
}

// Stats returns the dashboard totals.
func (s *Service) Stats(ctx context.Context) metricsstore.Counts {
	return metricsstore.FetchDashboardCounts(ctx, s.g)
}

// CreateModule inserts m after checking its program and filling the subject
// and instructor snapshots from the referenced records.
func (s *Service) CreateModule(ctx context.Context, m models.Module) (models.Module, error) {
	if _, err := s.programs.GetByID(ctx, m.ProgramID); err != nil {
		if errors.Is(err, programstore.ErrNotFound) {
			return models.Module{}, fmt.Errorf("program %s: %w", m.ProgramID.Hex(), ErrNotFound)
		}
		return models.Module{}, err
	}
	m.SubjectSnapshot, m.InstructorSnapshot = "", ""
	if m.SubjectID != nil {
		name, err := s.subjectName(ctx, *m.SubjectID)
		if err != nil {
			return models.Module{}, err
		}
		m.SubjectSnapshot = name
	}
	if m.InstructorID != nil {
		name, err := s.instructorName(ctx, *m.InstructorID)
		if err != nil {
			return models.Module{}, err
		}
		m.InstructorSnapshot = name
	}
	return s.modules.Create(ctx, m)
}

// UpdateModule applies patch, refreshing the snapshot of any newly assigned
// subject or instructor. Snapshots supplied by the caller are ignored.
func (s *Service) UpdateModule(ctx context.Context, id primitive.ObjectID, patch modulestore.Patch) error {
	patch.SubjectSnapshot, patch.InstructorSnapshot = nil, nil
	if patch.SubjectID != nil && !patch.ClearSubject {
		name, err := s.subjectName(ctx, *patch.SubjectID)
		if err != nil {
			return err
		}
		patch.SubjectSnapshot = &name
	}
	if patch.InstructorID != nil && !patch.ClearInstructor {
		name, err := s.instructorName(ctx, *patch.InstructorID)
		if err != nil {
			return err
		}
		patch.InstructorSnapshot = &name
	}
	err := s.modules.Update(ctx, id, patch)
	if errors.Is(err, modulestore.ErrNotFound) {
		return fmt.Errorf("module %s: %w", id.Hex(), ErrNotFound)
	}
	return err
}

func (s *Service) subjectName(ctx context.Context, id primitive.ObjectID) (string, error) {
	sub, err := s.subjects.GetByID(ctx, id)
	if errors.Is(err, subjectstore.ErrNotFound) {
		return "", fmt.Errorf("subject %s: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return sub.Name, nil
}

func (s *Service) instructorName(ctx context.Context, id primitive.ObjectID) (string, error) {
	in, err := s.instructors.GetByID(ctx, id)
	if errors.Is(err, instructorstore.ErrNotFound) {
		return "", fmt.Errorf("instructor %s: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return in.FullName, nil
}
