// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires stratapulse into the WAFFLE lifecycle. app.Run calls them in
// order, from configuration loading through graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "stratapulse",
	LoadConfig:     LoadConfig,     // core + app config
	ValidateConfig: ValidateConfig, // log settings, optional Mongo URI
	ConnectDB:      ConnectDB,      // log writer + optional batch ledger
	EnsureSchema:   EnsureSchema,   // ledger indexes
	Startup:        Startup,        // retention jobs
	BuildHandler:   BuildHandler,   // router + middleware
	Shutdown:       Shutdown,       // stop jobs, close writer, disconnect
}
