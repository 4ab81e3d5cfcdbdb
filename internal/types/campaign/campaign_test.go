package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, s := range []string{"QURAN", "YASIN", "FATIHA", "SALAVAT"} {
		parsed, err := ParseType(s)
		require.NoError(t, err)
		assert.Equal(t, Type(s), parsed)
	}

	_, err := ParseType("TESBIH")
	assert.Error(t, err)
}

func TestConfigs(t *testing.T) {
	assert.True(t, Configs[TypeQuran].SlotBased)
	assert.Equal(t, 30, Configs[TypeQuran].SlotTotal)
	assert.True(t, Configs[TypeYasin].SlotBased)
	assert.Equal(t, 41, Configs[TypeYasin].SlotTotal)
	assert.False(t, Configs[TypeFatiha].SlotBased)
	assert.False(t, Configs[TypeSalavat].SlotBased)
}

func TestProgressRatio(t *testing.T) {
	c := &Campaign{Type: TypeFatiha, TargetCount: 100, CurrentCount: 23}
	assert.InDelta(t, 0.23, c.ProgressRatio(), 1e-9)

	// Contributions may exceed the target; the ratio clamps at display.
	c.CurrentCount = 150
	assert.Equal(t, 1.0, c.ProgressRatio())

	empty := &Campaign{Type: TypeFatiha}
	assert.Zero(t, empty.ProgressRatio())
}

func TestTakenCountSlots(t *testing.T) {
	c := &Campaign{
		Type:      TypeQuran,
		SlotTotal: 3,
		Slots: []Slot{
			{Index: 1, TakenByName: "Ahmet", TakenAt: "2024-01-01T00:00:00Z"},
			{Index: 2},
			{Index: 3},
		},
	}
	assert.Equal(t, 1, c.TakenCount())
	assert.True(t, c.Slots[1].Open())
	assert.False(t, c.Slots[0].Open())
}
