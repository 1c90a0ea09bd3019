package spiceapp

import (
	"net/http"

	"github.com/najmahf/spicelink/cmd/server/app/sdk/cache"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
	"github.com/najmahf/spicelink/sdk/tools/registry"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log      *logger.Logger
	Registry *registry.Registry
	Catalog  *catalog.Catalog
	Cache    *cache.Cache
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	api := newApp(cfg)

	app.HandlerFunc(http.MethodGet, version, "/spices", api.listSpices)
	app.HandlerFunc(http.MethodGet, version, "/spices/{spice}", api.showSpice)
	app.HandlerFunc(http.MethodGet, version, "/models", api.listModels)
}
