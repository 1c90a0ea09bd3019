// Package checkapp provides the health check endpoints.
package checkapp

import (
	"context"
	"net/http"
	"os"
	"runtime"

	"github.com/najmahf/spicelink/cmd/server/app/sdk/errs"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
	"github.com/najmahf/spicelink/sdk/tools/registry"
)

type app struct {
	log      *logger.Logger
	build    string
	registry *registry.Registry
}

func newApp(cfg Config) *app {
	return &app{
		log:      cfg.Log,
		build:    cfg.Build,
		registry: cfg.Registry,
	}
}

// readiness checks at least one model artifact is present on disk. A
// node with no artifacts can serve the catalog but never classify, so
// it should not receive traffic.
func (a *app) readiness(ctx context.Context, r *http.Request) web.Encoder {
	var available int
	for _, d := range a.registry.List() {
		if a.registry.Available(d) {
			available++
		}
	}

	if available == 0 {
		a.log.Info(ctx, "readiness failure", "status", "no model artifacts available")
		return errs.Errorf(errs.Internal, "no model artifacts available")
	}

	return status{Status: "OK", Models: available}
}

// liveness returns simple status info if the service is alive. If the
// app is deployed to a Kubernetes cluster, it will also return pod,
// node, and namespace details via the Downward API.
func (a *app) liveness(ctx context.Context, r *http.Request) web.Encoder {
	host, err := os.Hostname()
	if err != nil {
		host = "unavailable"
	}

	info := liveInfo{
		Status:     "up",
		Build:      a.build,
		Host:       host,
		Name:       os.Getenv("KUBERNETES_NAME"),
		PodIP:      os.Getenv("KUBERNETES_POD_IP"),
		Node:       os.Getenv("KUBERNETES_NODE_NAME"),
		Namespace:  os.Getenv("KUBERNETES_NAMESPACE"),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}

	return info
}
