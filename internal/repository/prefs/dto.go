package prefs

import (
	"fmt"
	"strconv"

	"github.com/seoulbites/matzip/internal/domain"
)

func buildFields(prefs domain.StoredPreferences) map[string]string {
	fields := make(map[string]string, len(prefs))
	for a, v := range prefs {
		fields[string(a)] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fields
}

// parseFields hydrates stored preferences from hash fields. Fields that are
// not canonical aspect names are ignored.
func parseFields(fields map[string]string) (domain.StoredPreferences, error) {
	prefs := make(domain.StoredPreferences, len(fields))
	for name, raw := range fields {
		aspect, err := domain.ParseAspect(name)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("preference %s=%q: %w", name, raw, domain.ErrInvalidArgument)
		}
		prefs[aspect] = v
	}
	return prefs, nil
}
