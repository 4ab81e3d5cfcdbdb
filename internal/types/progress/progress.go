package progress

import "fmt"

type PrayerKey string

const (
	Fajr    PrayerKey = "fajr"
	Dhuhr   PrayerKey = "dhuhr"
	Asr     PrayerKey = "asr"
	Maghrib PrayerKey = "maghrib"
	Isha    PrayerKey = "isha"
)

// PrayerKeys lists the five daily prayers in canonical order.
var PrayerKeys = []PrayerKey{Fajr, Dhuhr, Asr, Maghrib, Isha}

func ParsePrayerKey(s string) (PrayerKey, error) {
	switch PrayerKey(s) {
	case Fajr, Dhuhr, Asr, Maghrib, Isha:
		return PrayerKey(s), nil
	}
	return "", fmt.Errorf("unknown prayer key %q", s)
}

type ActionKind string

const (
	ActionDua     ActionKind = "duaCount"
	ActionNafile  ActionKind = "nafileCount"
	ActionQuran   ActionKind = "quranMinutes"
	ActionSalawat ActionKind = "salawatCount"
)

func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionDua, ActionNafile, ActionQuran, ActionSalawat:
		return ActionKind(s), nil
	}
	return "", fmt.Errorf("unknown action kind %q", s)
}

const (
	XPPerPrayer     = 20
	PerfectDayBonus = 50
	XPPerLevel      = 300
)

// CalcLevel derives the level from total XP. Level is never stored on
// its own; recompute it whenever XP changes.
func CalcLevel(totalXP int) int {
	return totalXP/XPPerLevel + 1
}

// ActionXP returns the XP awarded for a single call logging `amount`
// of the given action. Salawat only pays out per multiple of 100
// within one call; the counter itself crossing 100 over several calls
// awards nothing.
func ActionXP(kind ActionKind, amount int) int {
	switch kind {
	case ActionDua:
		return 5 * amount
	case ActionNafile:
		return 15 * amount
	case ActionQuran:
		return 2 * amount
	case ActionSalawat:
		return (amount / 100) * 10
	}
	return 0
}

type Actions struct {
	DuaCount     int `json:"duaCount"`
	NafileCount  int `json:"nafileCount"`
	QuranMinutes int `json:"quranMinutes"`
	SalawatCount int `json:"salawatCount"`
}

// Add bumps the counter for the given kind.
func (a *Actions) Add(kind ActionKind, amount int) {
	switch kind {
	case ActionDua:
		a.DuaCount += amount
	case ActionNafile:
		a.NafileCount += amount
	case ActionQuran:
		a.QuranMinutes += amount
	case ActionSalawat:
		a.SalawatCount += amount
	}
}

// DailyRecord holds one day of tracked devotions, keyed by YYYY-MM-DD.
type DailyRecord struct {
	Date          string             `json:"date"`
	Prayers       map[PrayerKey]bool `json:"prayers"`
	Qadha         map[PrayerKey]int  `json:"qadha"`
	Actions       Actions            `json:"actions"`
	XPEarnedToday int                `json:"xpEarnedToday"`
}

func NewDailyRecord(date string) *DailyRecord {
	rec := &DailyRecord{
		Date:    date,
		Prayers: make(map[PrayerKey]bool, len(PrayerKeys)),
		Qadha:   make(map[PrayerKey]int, len(PrayerKeys)),
	}
	for _, k := range PrayerKeys {
		rec.Prayers[k] = false
		rec.Qadha[k] = 0
	}
	return rec
}

func (r *DailyRecord) CompletedCount() int {
	n := 0
	for _, done := range r.Prayers {
		if done {
			n++
		}
	}
	return n
}

func (r *DailyRecord) AllComplete() bool {
	return r.CompletedCount() == len(PrayerKeys)
}

type User struct {
	Name        string   `json:"name,omitempty"`
	Theme       string   `json:"theme,omitempty"`
	TotalXP     int      `json:"totalXP"`
	Level       int      `json:"level"`
	Streak      int      `json:"streak"`
	PerfectDays int      `json:"perfectDays"`
	Badges      []string `json:"badges"`
}

func DefaultUser() User {
	return User{
		Theme:  "light",
		Level:  1,
		Badges: []string{},
	}
}

type LeaderboardEntry struct {
	Name  string `json:"name"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
	Badge string `json:"badge,omitempty"`
}

// State is the full persisted progress ledger.
type State struct {
	User            User               `json:"user"`
	DailyRecords    []*DailyRecord     `json:"dailyRecords"`
	LeaderboardDemo []LeaderboardEntry `json:"leaderboardDemo"`
}

func DefaultState() State {
	return State{
		User:         DefaultUser(),
		DailyRecords: []*DailyRecord{},
		LeaderboardDemo: []LeaderboardEntry{
			{Name: "Ali", XP: 1200, Level: 5, Badge: "🌟"},
			{Name: "Fatma", XP: 900, Level: 4, Badge: "🏅"},
		},
	}
}
