// Package mid provides app level middleware support.
package mid

import (
	"github.com/najmahf/spicelink/cmd/server/foundation/web"
)

// checkIsError tests if the response value is an error.
func checkIsError(resp web.Encoder) error {
	if err, ok := resp.(error); ok {
		return err
	}

	return nil
}
