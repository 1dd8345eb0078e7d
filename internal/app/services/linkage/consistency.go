package linkage

import (
	"context"
	"sort"

	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InconsistencyKind names one way the two halves of a link can disagree.
type InconsistencyKind string

const (
	// KindDanglingCohortRef: a program's cohort_id names a missing cohort.
	KindDanglingCohortRef InconsistencyKind = "dangling_cohort_ref"
	// KindBackPointerMismatch: a program's cohort points at a different program.
	KindBackPointerMismatch InconsistencyKind = "back_pointer_mismatch"
	// KindDanglingProgramRef: a cohort's program_id names a missing program.
	KindDanglingProgramRef InconsistencyKind = "dangling_program_ref"
	// KindMissingForwardLink: a cohort's program does not point back at it.
	KindMissingForwardLink InconsistencyKind = "missing_forward_link"
	// KindDuplicateClaim: several programs hold the same cohort.
	KindDuplicateClaim InconsistencyKind = "duplicate_claim"
)

// Inconsistency is one broken link found by CheckConsistency.
type Inconsistency struct {
	Kind       InconsistencyKind    `json:"kind"`
	ProgramID  *primitive.ObjectID  `json:"program_id,omitempty"`
	CohortID   *primitive.ObjectID  `json:"cohort_id,omitempty"`
	ProgramIDs []primitive.ObjectID `json:"program_ids,omitempty"`
}

// CheckConsistency scans every program and cohort and reports links whose two
// halves disagree. It never writes. Results are ordered by kind, then ids.
func (s *Service) CheckConsistency(ctx context.Context) ([]Inconsistency, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, storeErr("list programs", err)
	}
	cohorts, err := s.cohorts.List(ctx)
	if err != nil {
		return nil, storeErr("list cohorts", err)
	}

	progByID := make(map[primitive.ObjectID]models.Program, len(programs))
	holders := make(map[primitive.ObjectID][]primitive.ObjectID)
	for _, p := range programs {
		progByID[p.ID] = p
		if p.Linked() {
			holders[*p.CohortID] = append(holders[*p.CohortID], p.ID)
		}
	}
	cohortByID := make(map[primitive.ObjectID]models.Cohort, len(cohorts))
	for _, c := range cohorts {
		cohortByID[c.ID] = c
	}

	out := []Inconsistency{}
	for _, p := range programs {
		if !p.Linked() {
			continue
		}
		pid, cid := p.ID, *p.CohortID
		c, ok := cohortByID[cid]
		switch {
		case !ok:
			out = append(out, Inconsistency{Kind: KindDanglingCohortRef, ProgramID: &pid, CohortID: &cid})
		case c.ProgramID != pid:
			out = append(out, Inconsistency{Kind: KindBackPointerMismatch, ProgramID: &pid, CohortID: &cid})
		}
	}
	for _, c := range cohorts {
		pid, cid := c.ProgramID, c.ID
		p, ok := progByID[pid]
		switch {
		case !ok:
			out = append(out, Inconsistency{Kind: KindDanglingProgramRef, ProgramID: &pid, CohortID: &cid})
		case !p.Linked() || *p.CohortID != cid:
			out = append(out, Inconsistency{Kind: KindMissingForwardLink, ProgramID: &pid, CohortID: &cid})
		}
	}
	for cid, ids := range holders {
		if len(ids) < 2 {
			continue
		}
		cid := cid
		sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
		out = append(out, Inconsistency{Kind: KindDuplicateClaim, CohortID: &cid, ProgramIDs: ids})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return key(out[i]) < key(out[j])
	})
	return out, nil
}

func key(in Inconsistency) string {
	var k string
	if in.ProgramID != nil {
		k += in.ProgramID.Hex()
	}
	if in.CohortID != nil {
		k += in.CohortID.Hex()
	}
	return k
}
