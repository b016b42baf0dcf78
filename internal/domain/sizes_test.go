package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSizeLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   []string
	}{
		{
			name:   "standard sizes sort by reference order with custom labels last",
			labels: []string{"L", "Custom-B", "XS", "M", "Custom-A"},
			want:   []string{"XS", "M", "L", "Custom-A", "Custom-B"},
		},
		{
			name:   "duplicates are removed",
			labels: []string{"M", "M", "S", "M"},
			want:   []string{"S", "M"},
		},
		{
			name:   "extended sizes follow XL",
			labels: []string{"5XL", "XL", "2XL", "S"},
			want:   []string{"S", "XL", "2XL", "5XL"},
		},
		{
			name:   "only custom labels sort alphabetically",
			labels: []string{"Tall", "Petite", "Long"},
			want:   []string{"Long", "Petite", "Tall"},
		},
		{
			name:   "empty input",
			labels: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortSizeLabels(tt.labels))
		})
	}
}
