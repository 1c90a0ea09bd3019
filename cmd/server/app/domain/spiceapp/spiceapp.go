// Package spiceapp provides the read-only endpoints for the spice
// catalog and the selectable models.
package spiceapp

import (
	"context"
	"net/http"
	"slices"

	"github.com/najmahf/spicelink/cmd/server/app/sdk/cache"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/errs"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
	"github.com/najmahf/spicelink/sdk/spice"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
	"github.com/najmahf/spicelink/sdk/tools/registry"
)

type app struct {
	log      *logger.Logger
	registry *registry.Registry
	catalog  *catalog.Catalog
	cache    *cache.Cache
}

func newApp(cfg Config) *app {
	return &app{
		log:      cfg.Log,
		registry: cfg.Registry,
		catalog:  cfg.Catalog,
		cache:    cfg.Cache,
	}
}

func (a *app) listSpices(ctx context.Context, r *http.Request) web.Encoder {
	return toAppSpices(a.catalog.List())
}

func (a *app) showSpice(ctx context.Context, r *http.Request) web.Encoder {
	class, err := spice.ParseClass(web.Param(r, "spice"))
	if err != nil {
		return errs.New(errs.NotFound, err)
	}

	info, exists := a.catalog.Info(class)
	if !exists {
		info = catalog.Info{Name: class.String(), Description: catalog.NoDescription}
	}

	return toAppSpice(info)
}

func (a *app) listModels(ctx context.Context, r *http.Request) web.Encoder {
	loaded := a.cache.Models()

	var models []appModel
	for _, d := range a.registry.List() {
		models = append(models, appModel{
			Name:        d.Name,
			ImageSize:   d.ImageSize,
			Description: d.Description,
			Accuracy:    d.Accuracy,
			Available:   a.registry.Available(d),
			Loaded:      slices.Contains(loaded, d.Name),
		})
	}

	return appModels{Models: models}
}
