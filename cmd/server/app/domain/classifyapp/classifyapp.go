// Package classifyapp provides the endpoints for classifying uploaded
// rhizome photos.
package classifyapp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/cache"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/errs"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/results"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
	"github.com/najmahf/spicelink/sdk/spice/image"
	"github.com/najmahf/spicelink/sdk/spice/observ/otel"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
	"github.com/najmahf/spicelink/sdk/tools/registry"
	"go.opentelemetry.io/otel/attribute"
)

// Uploads beyond this size are rejected while parsing the form.
const maxUploadBytes = 10 << 20

type app struct {
	log     *logger.Logger
	cache   *cache.Cache
	catalog *catalog.Catalog
	results *results.Store
}

func newApp(cfg Config) *app {
	return &app{
		log:     cfg.Log,
		cache:   cfg.Cache,
		catalog: cfg.Catalog,
		results: cfg.Results,
	}
}

func (a *app) classify(ctx context.Context, r *http.Request) web.Encoder {
	modelName := web.Param(r, "model")

	ctx, span := otel.AddSpan(ctx, "app.classifyapp.classify", attribute.String("model", modelName))
	defer span.End()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return errs.Errorf(errs.InvalidArgument, "unable to parse form: %s", err)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return errs.Errorf(errs.InvalidArgument, "no image file provided, use \"image\" as the form field name")
	}
	defer file.Close()

	var opts image.Options
	if v := r.FormValue("target_kb"); v != "" {
		kb, err := strconv.Atoi(v)
		if err != nil || kb <= 0 {
			return errs.Errorf(errs.InvalidArgument, "invalid target_kb value: %q", v)
		}
		opts.TargetKB = kb
	}

	a.log.Info(ctx, "classify", "model", modelName, "file", header.Filename, "size", header.Size, "targetKB", opts.TargetKB)

	// Resolve and load the model before touching the pixels so an
	// unknown name fails without any image work.
	clf, err := a.cache.Acquire(ctx, modelName)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrUnknownModel):
			return errs.New(errs.InvalidArgument, err)

		case errors.Is(err, cache.ErrModelLoad):
			return errs.New(errs.Unavailable, err)

		default:
			return errs.New(errs.Internal, err)
		}
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return errs.Errorf(errs.Internal, "unable to read upload: %s", err)
	}

	tensor, err := image.Prepare(raw, opts)
	if err != nil {
		if errors.Is(err, image.ErrDecode) {
			return errs.Errorf(errs.InvalidArgument, "invalid image, supported formats are jpg/jpeg/png: %s", err)
		}

		return errs.New(errs.Internal, err)
	}

	prediction, err := clf.Classify(ctx, tensor)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	description := a.catalog.Description(prediction.Class)

	result := a.results.Add(modelName, prediction, description)

	a.log.Info(ctx, "classify", "model", modelName, "class", prediction.Class.String(), "confidence", prediction.Confidence)

	return toAppResult(result)
}

func (a *app) retrieveResult(ctx context.Context, r *http.Request) web.Encoder {
	id, err := uuid.Parse(web.Param(r, "id"))
	if err != nil {
		return errs.Errorf(errs.InvalidArgument, "invalid result id: %s", err)
	}

	result, err := a.results.Retrieve(id)
	if err != nil {
		return errs.New(errs.NotFound, err)
	}

	return toAppResult(result)
}
