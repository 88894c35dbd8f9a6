package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter, applying defaultVal
// when the parameter is absent and enforcing the [min, max] bounds.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be an integer", key)).
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s out of range", key)).
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}
