package mid

import (
	"context"
	"net/http"

	"github.com/najmahf/spicelink/cmd/server/app/sdk/errs"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
)

// Errors handles errors coming out of the call chain. It detects normal
// application errors which are used to respond to the client in a
// uniform way. Unexpected errors (status >= 500) are logged.
func Errors(log *logger.Logger) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)

			err := checkIsError(resp)
			if err == nil {
				return resp
			}

			appErr := errs.NewError(err)

			log.Error(ctx, "handled error during request",
				"err", appErr.Message,
				"source_err_file", appErr.FileName,
				"source_err_func", appErr.FuncName)

			// Details of internal-only errors never reach the client.
			if appErr.Code == errs.InternalOnlyLog {
				appErr = errs.Errorf(errs.Internal, "internal server error")
			}

			return appErr
		}

		return h
	}

	return m
}
