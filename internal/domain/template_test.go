package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamBlueprintMatches(t *testing.T) {
	bp := TeamBlueprint{ID: "team-1", Name: "Maçonnerie"}

	assert.True(t, bp.Matches(""))
	assert.True(t, bp.Matches("all"))
	assert.True(t, bp.Matches("team-1"))
	assert.True(t, bp.Matches("maçonnerie"))
	assert.True(t, bp.Matches("MAÇONNERIE"))
	assert.False(t, bp.Matches("team-2"))
	assert.False(t, bp.Matches("Plomberie"))
}

func TestTaskBlueprintDurationDays(t *testing.T) {
	cases := []struct {
		name     string
		duration string
		want     int
	}{
		{"plain number", "14", 14},
		{"number with unit", "7 jours", 7},
		{"leading whitespace", "  3 jours ", 3},
		{"empty", "", 7},
		{"non-numeric", "deux semaines", 7},
		{"zero", "0 jours", 7},
		{"negative", "-5", 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bp := TaskBlueprint{Name: "Fondations", Duration: tc.duration}
			assert.Equal(t, tc.want, bp.DurationDays(7))
		})
	}
}

func TestTaskBlueprintAmountValue(t *testing.T) {
	cases := []struct {
		name    string
		amount  string
		want    float64
		wantNil bool
		wantErr bool
	}{
		{"decimal point", "1500.50", 1500.50, false, false},
		{"decimal comma", "2300,75", 2300.75, false, false},
		{"integer", "800", 800, false, false},
		{"whitespace", "  450 ", 450, false, false},
		{"empty means no amount", "", 0, true, false},
		{"non-numeric", "beaucoup", 0, false, true},
		{"negative", "-100", 0, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bp := TaskBlueprint{Name: "Fondations", Amount: tc.amount}
			got, err := bp.AmountValue()

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tc.wantNil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.InDelta(t, tc.want, *got, 0.001)
			}
		})
	}
}
