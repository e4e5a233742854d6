package usecase

import (
	"encoding/json"
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/quimipool/quimipool/internal/domain"
)

// ChangedFields returns the sorted field names present in either snapshot
// whose values differ structurally. When either snapshot is nil (pure
// creation or deletion) there is no meaningful diff and the result is
// empty. Comparison is deep and independent of key insertion order.
func ChangedFields(oldValues, newValues domain.Record) []string {
	if oldValues == nil || newValues == nil {
		return []string{}
	}

	keys := make(map[string]struct{}, len(oldValues)+len(newValues))
	for k := range oldValues {
		keys[k] = struct{}{}
	}
	for k := range newValues {
		keys[k] = struct{}{}
	}

	changed := make([]string, 0, len(keys))
	for k := range keys {
		oldVal, oldOK := oldValues[k]
		newVal, newOK := newValues[k]
		if oldOK != newOK || !cmp.Equal(normalize(oldVal), normalize(newVal)) {
			changed = append(changed, k)
		}
	}

	sort.Strings(changed)
	return changed
}

// normalize round-trips a value through JSON so that numerically equal
// values of different Go types (int vs float64) and equivalent nested
// structures compare equal regardless of where they came from.
func normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
