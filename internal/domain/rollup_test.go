package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCategoryStatus(t *testing.T) {
	assert.Equal(t, CategoryStatusDelayed, DeriveCategoryStatus(0))
	assert.Equal(t, CategoryStatusDelayed, DeriveCategoryStatus(50))
	assert.Equal(t, CategoryStatusWarning, DeriveCategoryStatus(51))
	assert.Equal(t, CategoryStatusWarning, DeriveCategoryStatus(75))
	assert.Equal(t, CategoryStatusInProgress, DeriveCategoryStatus(76))
	assert.Equal(t, CategoryStatusInProgress, DeriveCategoryStatus(99))
	assert.Equal(t, CategoryStatusOnSchedule, DeriveCategoryStatus(100))
}

func TestDeriveVillaStatus(t *testing.T) {
	assert.Equal(t, VillaStatusNotStarted, DeriveVillaStatus(VillaStatusNotStarted, 0))
	assert.Equal(t, VillaStatusInProgress, DeriveVillaStatus(VillaStatusNotStarted, 30))
	assert.Equal(t, VillaStatusCompleted, DeriveVillaStatus(VillaStatusInProgress, 100))
}

func TestDeriveVillaStatus_DelayedIsSticky(t *testing.T) {
	assert.Equal(t, VillaStatusDelayed, DeriveVillaStatus(VillaStatusDelayed, 0))
	assert.Equal(t, VillaStatusDelayed, DeriveVillaStatus(VillaStatusDelayed, 80))
	assert.Equal(t, VillaStatusCompleted, DeriveVillaStatus(VillaStatusDelayed, 100))
}
