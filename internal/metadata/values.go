package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/hupe1980/helmlens/internal/logging"
)

// parseValues decodes the user-supplied values text into a helm values
// table. Malformed values are logged and treated as absent; they never
// fail resolution.
func parseValues(ctx context.Context, userValues string) chartutil.Values {
	if strings.TrimSpace(userValues) == "" {
		return nil
	}

	vals, err := chartutil.ReadValues([]byte(userValues))
	if err != nil {
		logging.FromContext(ctx).Warn("ignoring undecodable user-supplied values",
			slog.String("error", err.Error()))

		return nil
	}

	return vals
}

// stringFromValues looks up the first dotted path that answers with a
// scalar. Numeric scalars are formatted, so a values file carrying the
// account id as a number still resolves.
func stringFromValues(vals chartutil.Values, paths []string) string {
	if vals == nil {
		return ""
	}

	for _, path := range paths {
		v, err := vals.PathValue(path)
		if err != nil {
			continue
		}

		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			// Large integers such as account ids decode as float64 and
			// must not come out in scientific notation.
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int, int64, uint64:
			return fmt.Sprintf("%v", t)
		}
	}

	return ""
}
