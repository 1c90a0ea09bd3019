package checkapp

import (
	"net/http"

	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
	"github.com/najmahf/spicelink/sdk/tools/registry"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Build    string
	Log      *logger.Logger
	Registry *registry.Registry
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	api := newApp(cfg)

	app.HandlerFunc(http.MethodGet, version, "/liveness", api.liveness)
	app.HandlerFunc(http.MethodGet, version, "/readiness", api.readiness)
}
