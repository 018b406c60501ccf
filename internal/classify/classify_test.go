package classify

import (
	"testing"

	"github.com/ppiankov/crisiswatch/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		title   string
		summary string
		want    model.EventType
	}{
		{"Warplanes carry out airstrike on depot", "", model.TypeAirstrike},
		{"Ballistic missile intercepted by Iron Dome", "", model.TypeMissile},
		{"Large blast heard across the city", "smoke rising", model.TypeExplosion},
		{"Sirens sound, residents told to take cover", "", model.TypeAlert},
		{"Carrier group deployed to the region", "", model.TypeMilitaryMovement},
		{"Hospitals overwhelmed, civilian toll grows", "", model.TypeHumanitarian},
		{"Security Council urges restraint", "", model.TypePolitical},
		{"Local elections scheduled for spring", "", model.TypeOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.title, tc.summary), "title: %s", tc.title)
	}
}

func TestCategorize_PriorityOrder(t *testing.T) {
	// Text matching several rules resolves to the earliest rule.
	got := Categorize("Airstrike follows missile launch, president condemns", "")
	assert.Equal(t, model.TypeAirstrike, got)

	got = Categorize("Missiles and explosions reported", "")
	assert.Equal(t, model.TypeMissile, got)

	// Humanitarian outranks political per the documented order.
	got = Categorize("Civilian casualties mount as ceasefire talks stall", "")
	assert.Equal(t, model.TypeHumanitarian, got)
}

func TestCategorize_SummaryConsidered(t *testing.T) {
	got := Categorize("Overnight developments", "drone strike hit a convoy")
	assert.Equal(t, model.TypeMissile, got)
}

func TestEstimateSeverity(t *testing.T) {
	cases := []struct {
		title string
		want  int
	}{
		{"Dozens killed in overnight raid", 5},
		{"Airstrike struck a military depot", 4},
		{"Sirens and intercepts over the capital", 4},
		{"Officials issue joint statement", 2},
		{"Dozens killed, diplomats condemn attack", 2}, // de-escalation caps
		{"Airlines suspend all flights to the region", 3},
		{"Weekly market report", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, EstimateSeverity(tc.title, ""), "title: %s", tc.title)
	}
}

func TestEstimateSeverity_AlwaysInRange(t *testing.T) {
	inputs := []string{
		"", "killed dead casualties mass catastrophe",
		"condemn urge statement negotiate diplomat",
		"airstrike struck explosion launch siren",
	}
	for _, in := range inputs {
		got := EstimateSeverity(in, in)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 5)
	}
}
