package txn_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/programhub/internal/app/services/linkage"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var standalone = mongo.CommandError{
	Code:    20,
	Name:    "IllegalOperation",
	Message: "Transaction numbers are only allowed on a replica set member or mongos",
}

func TestIsNotSupported_ServerCodes(t *testing.T) {
	for _, code := range []int32{20, 51, 263} {
		err := mongo.CommandError{Code: code, Message: "rejected"}
		if !txn.IsNotSupported(err) {
			t.Errorf("code %d: expected unsupported", code)
		}
	}
	if txn.IsNotSupported(mongo.CommandError{Code: 112, Name: "WriteConflict", Message: "write conflict"}) {
		t.Error("a write conflict is a failed transaction, not a missing feature")
	}
}

// The link service runs its body inside WithTransaction and gets back whatever
// the body returned, usually wrapped in a *linkage.StoreError. Only a refusal
// from the deployment may switch it to the compensating saga.
func TestIsNotSupported_LinkErrors(t *testing.T) {
	programID, cohortID := primitive.NewObjectID(), primitive.NewObjectID()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"standalone server", standalone, true},
		{"standalone inside store error", &linkage.StoreError{Op: "link program", Err: standalone}, true},
		{"standalone wrapped twice", fmt.Errorf("create cohort: %w", &linkage.StoreError{Op: "insert cohort", Err: standalone}), true},
		{"sessions unsupported", &linkage.StoreError{Op: "start session", Err: errors.New("sessions are not supported by this deployment")}, true},
		{"write conflict", &linkage.StoreError{Op: "link program", Err: mongo.CommandError{
			Code:    112,
			Name:    "WriteConflict",
			Message: "WriteConflict error: this operation conflicted with another operation. Please retry your transaction or operation.",
		}}, false},
		{"conditional write missed", &linkage.StoreError{Op: "move cohort", Err: docstore.ErrNoMatch}, false},
		{"already linked", &linkage.AlreadyLinkedError{ProgramID: programID, CohortID: cohortID}, false},
		{"program missing", fmt.Errorf("program %s: %w", programID.Hex(), linkage.ErrNotFound), false},
		{"immutable link", linkage.ErrImmutableLink, false},
		{"lone transaction keyword", errors.New("transaction aborted"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := txn.IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsNotSupported_MessageCase(t *testing.T) {
	if !txn.IsNotSupported(errors.New("Illegal Operation: TRANSACTION on standalone")) {
		t.Error("message matching should ignore case")
	}
}
