package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveBinStatus(t *testing.T) {
	tests := []struct {
		fill float64
		want BinStatus
	}{
		{0, BinStatusOK},
		{65, BinStatusOK},
		{74.9, BinStatusOK},
		{75, BinStatusWarning},
		{89.9, BinStatusWarning},
		{90, BinStatusFull},
		{100, BinStatusFull},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveBinStatus(tt.fill), "fill %.1f", tt.fill)
	}
}

func TestWasteCategoryValid(t *testing.T) {
	assert.True(t, CategoryOrganic.Valid())
	assert.True(t, CategoryInorganic.Valid())
	assert.True(t, CategoryHazardous.Valid())
	assert.False(t, WasteCategory("Plastic").Valid())
	assert.False(t, WasteCategory("").Valid())
}
