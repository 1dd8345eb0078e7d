// Package txn recognises the errors MongoDB returns when multi-document
// transactions are unavailable, such as on a standalone server.
package txn

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server codes that mean "transactions cannot run here".
const (
	codeIllegalOperation      = 20
	codeNoReplicationEnabled  = 51
	codeOperationNotSupported = 263
)

// IsNotSupported reports whether err indicates that the deployment cannot run
// a transaction, as opposed to the transaction itself failing.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeIllegalOperation, codeNoReplicationEnabled, codeOperationNotSupported:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }

	switch {
	case has("transaction") && (has("replica set") || has("session")):
		return true
	case has("session") && has("not supported"):
		return true
	case has("illegal operation"):
		return true
	}
	return false
}
