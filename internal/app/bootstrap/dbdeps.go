// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Gateway is what stores and services use. MongoClient and MongoDatabase are
// nil when the gateway is in-memory (tests), so everything that touches them
// directly checks first.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Gateway docstore.Gateway
	Storage storage.Store
}
