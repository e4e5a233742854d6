package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quimipool/quimipool/internal/domain"
)

func TestChangedFields(t *testing.T) {
	tests := []struct {
		name      string
		oldValues domain.Record
		newValues domain.Record
		expected  []string
	}{
		{
			name:      "single changed field",
			oldValues: domain.Record{"a": 1, "b": 2},
			newValues: domain.Record{"a": 1, "b": 3},
			expected:  []string{"b"},
		},
		{
			name:      "no changes",
			oldValues: domain.Record{"a": 1},
			newValues: domain.Record{"a": 1},
			expected:  []string{},
		},
		{
			name:      "nil old snapshot",
			oldValues: nil,
			newValues: domain.Record{"a": 1},
			expected:  []string{},
		},
		{
			name:      "nil new snapshot",
			oldValues: domain.Record{"a": 1},
			newValues: nil,
			expected:  []string{},
		},
		{
			name:      "field added",
			oldValues: domain.Record{"a": 1},
			newValues: domain.Record{"a": 1, "b": 2},
			expected:  []string{"b"},
		},
		{
			name:      "field removed",
			oldValues: domain.Record{"a": 1, "b": 2},
			newValues: domain.Record{"a": 1},
			expected:  []string{"b"},
		},
		{
			name:      "numeric types compare structurally",
			oldValues: domain.Record{"total": 10},
			newValues: domain.Record{"total": float64(10)},
			expected:  []string{},
		},
		{
			name:      "nested maps compared deeply",
			oldValues: domain.Record{"items": map[string]interface{}{"cloro": 2, "ph": 1}},
			newValues: domain.Record{"items": map[string]interface{}{"ph": 1, "cloro": 2}},
			expected:  []string{},
		},
		{
			name:      "nested change detected",
			oldValues: domain.Record{"items": map[string]interface{}{"cloro": 2}},
			newValues: domain.Record{"items": map[string]interface{}{"cloro": 3}},
			expected:  []string{"items"},
		},
		{
			name:      "result is sorted",
			oldValues: domain.Record{"z": 1, "a": 1, "m": 1},
			newValues: domain.Record{"z": 2, "a": 2, "m": 2},
			expected:  []string{"a", "m", "z"},
		},
		{
			name:      "explicit nil differs from value",
			oldValues: domain.Record{"notes": "algo"},
			newValues: domain.Record{"notes": nil},
			expected:  []string{"notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChangedFields(tt.oldValues, tt.newValues))
		})
	}
}
