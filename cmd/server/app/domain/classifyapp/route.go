package classifyapp

import (
	"net/http"

	"github.com/najmahf/spicelink/cmd/server/app/sdk/cache"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/results"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *logger.Logger
	Cache   *cache.Cache
	Catalog *catalog.Catalog
	Results *results.Store
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	api := newApp(cfg)

	app.HandlerFunc(http.MethodPost, version, "/classify/{model}", api.classify)
	app.HandlerFunc(http.MethodGet, version, "/classify/results/{id}", api.retrieveResult)
}
