package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurantValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       Restaurant
		wantErr bool
	}{
		{name: "name present", r: Restaurant{"name": "Joe's"}},
		{name: "extra fields", r: Restaurant{"name": "Joe's", "cuisine": "pizza"}},
		{name: "missing name", r: Restaurant{"cuisine": "pizza"}, wantErr: true},
		{name: "null name", r: Restaurant{"name": nil}, wantErr: true},
		{name: "empty name", r: Restaurant{"name": ""}, wantErr: true},
		{name: "numeric name", r: Restaurant{"name": 42.0}, wantErr: true},
		{name: "nil record", r: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRestaurantValidateUpdate(t *testing.T) {
	assert.NoError(t, Restaurant{"rating": 4.0}.ValidateUpdate())
	assert.NoError(t, Restaurant{"name": "New"}.ValidateUpdate())
	assert.Error(t, Restaurant{"name": ""}.ValidateUpdate())
}

func TestRestaurantMerge(t *testing.T) {
	existing := Restaurant{
		"id":          "r1",
		"name":        "Joe's",
		"cuisine":     "pizza",
		"drawHistory": []any{"2024-01-01"},
	}

	t.Run("overwrites given fields and keeps the rest", func(t *testing.T) {
		merged := existing.Merge(Restaurant{"cuisine": "pasta", "rating": 5.0})

		assert.Equal(t, "r1", merged.ID())
		assert.Equal(t, "Joe's", merged.Name())
		assert.Equal(t, "pasta", merged["cuisine"])
		assert.Equal(t, 5.0, merged["rating"])
		assert.Equal(t, []any{"2024-01-01"}, merged["drawHistory"])
	})

	t.Run("id cannot be changed", func(t *testing.T) {
		merged := existing.Merge(Restaurant{"id": "other"})
		assert.Equal(t, "r1", merged.ID())
	})

	t.Run("update drawHistory wins", func(t *testing.T) {
		merged := existing.Merge(Restaurant{"drawHistory": []any{"a", "b"}})
		assert.Equal(t, []any{"a", "b"}, merged["drawHistory"])
	})

	t.Run("null drawHistory keeps existing", func(t *testing.T) {
		merged := existing.Merge(Restaurant{"drawHistory": nil})
		assert.Equal(t, []any{"2024-01-01"}, merged["drawHistory"])
	})

	t.Run("drawHistory defaults to empty list", func(t *testing.T) {
		merged := Restaurant{"id": "r2", "name": "Sam's"}.Merge(Restaurant{"name": "Sam's Diner"})
		assert.Equal(t, []any{}, merged["drawHistory"])
		assert.Equal(t, "Sam's Diner", merged.Name())
	})

	t.Run("does not modify the receiver", func(t *testing.T) {
		before := existing.Clone()
		_ = existing.Merge(Restaurant{"cuisine": "sushi"})
		require.Equal(t, before, existing)
	})
}
