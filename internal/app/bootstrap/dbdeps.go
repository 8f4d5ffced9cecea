// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stratapulse/internal/app/store/batches"
	"github.com/dalemusser/stratapulse/internal/app/store/dailylog"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends created in ConnectDB and passed to the later
// lifecycle hooks. Shutdown closes them.
type DBDeps struct {
	// Single writer owning the daily log files
	LogWriter *dailylog.Writer

	// Optional batch ledger; all nil when mongo_uri is empty
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Batches       *batches.Store
}
