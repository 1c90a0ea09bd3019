// Package build binds all the routes into the specified app.
package build

import (
	"github.com/najmahf/spicelink/cmd/server/app/domain/checkapp"
	"github.com/najmahf/spicelink/cmd/server/app/domain/classifyapp"
	"github.com/najmahf/spicelink/cmd/server/app/domain/spiceapp"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/mux"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
)

// Routes constructs the all value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() all {
	return all{}
}

type all struct{}

// Add implements the RouterAdder interface.
func (all) Add(app *web.App, cfg mux.Config) {
	checkapp.Routes(app, checkapp.Config{
		Build:    cfg.Build,
		Log:      cfg.Log,
		Registry: cfg.Registry,
	})

	classifyapp.Routes(app, classifyapp.Config{
		Log:     cfg.Log,
		Cache:   cfg.Cache,
		Catalog: cfg.Catalog,
		Results: cfg.Results,
	})

	spiceapp.Routes(app, spiceapp.Config{
		Log:      cfg.Log,
		Registry: cfg.Registry,
		Catalog:  cfg.Catalog,
		Cache:    cfg.Cache,
	})
}
