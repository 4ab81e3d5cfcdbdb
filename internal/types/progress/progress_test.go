package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcLevel(t *testing.T) {
	assert.Equal(t, 1, CalcLevel(0))
	assert.Equal(t, 1, CalcLevel(150))
	assert.Equal(t, 1, CalcLevel(299))
	assert.Equal(t, 2, CalcLevel(300))
	assert.Equal(t, 5, CalcLevel(1200))
}

func TestActionXP(t *testing.T) {
	tests := []struct {
		name   string
		kind   ActionKind
		amount int
		want   int
	}{
		{"dua", ActionDua, 3, 15},
		{"nafile", ActionNafile, 2, 30},
		{"quran minutes", ActionQuran, 10, 20},
		{"salawat below threshold", ActionSalawat, 99, 0},
		{"salawat at threshold", ActionSalawat, 100, 10},
		{"salawat multiple", ActionSalawat, 250, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionXP(tt.kind, tt.amount))
		})
	}
}

func TestParsePrayerKey(t *testing.T) {
	for _, k := range PrayerKeys {
		parsed, err := ParsePrayerKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParsePrayerKey("tahajjud")
	assert.Error(t, err)
}

func TestNewDailyRecord(t *testing.T) {
	rec := NewDailyRecord("2024-01-01")

	require.Len(t, rec.Prayers, 5)
	require.Len(t, rec.Qadha, 5)
	for _, k := range PrayerKeys {
		assert.False(t, rec.Prayers[k])
		assert.Zero(t, rec.Qadha[k])
	}
	assert.Zero(t, rec.XPEarnedToday)
	assert.False(t, rec.AllComplete())
	assert.Zero(t, rec.CompletedCount())
}

func TestDefaultState(t *testing.T) {
	state := DefaultState()

	assert.Equal(t, 1, state.User.Level)
	assert.NotNil(t, state.User.Badges)
	assert.Empty(t, state.User.Badges)
	assert.Empty(t, state.DailyRecords)
	assert.Len(t, state.LeaderboardDemo, 2)
}
