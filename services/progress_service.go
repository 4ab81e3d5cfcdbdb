package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nege373/namazingo/internal/stats"
	"github.com/nege373/namazingo/internal/types/progress"
	"github.com/nege373/namazingo/storage"
)

const dateLayout = "2006-01-02"

// ProgressService owns the prayer-completion ledger: per-day records
// plus the derived user progression (XP, level, streak, perfect days).
// Every mutation runs a read-modify-write cycle under the mutex and
// rewrites the full state blob. Persist failures are logged and
// swallowed; the in-memory state stays authoritative.
type ProgressService struct {
	store storage.Store
	mu    sync.Mutex
	state progress.State
	now   func() time.Time
}

func NewProgressService(ctx context.Context, store storage.Store) *ProgressService {
	s := &ProgressService{
		store: store,
		state: progress.DefaultState(),
		now:   time.Now,
	}

	raw, ok, err := store.Get(ctx, storage.KeyProgress)
	if err != nil {
		log.Printf("ProgressService: failed to load state, starting fresh: %v", err)
		return s
	}
	if !ok {
		return s
	}

	var loaded progress.State
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		log.Printf("ProgressService: corrupt state, starting fresh: %v", err)
		return s
	}
	if loaded.DailyRecords == nil {
		loaded.DailyRecords = []*progress.DailyRecord{}
	}
	if loaded.LeaderboardDemo == nil {
		loaded.LeaderboardDemo = []progress.LeaderboardEntry{}
	}
	if loaded.User.Badges == nil {
		loaded.User.Badges = []string{}
	}
	if loaded.User.Level == 0 {
		loaded.User.Level = progress.CalcLevel(loaded.User.TotalXP)
	}
	s.state = loaded
	return s
}

// TogglePrayer marks a prayer complete for the date, awarding 20 XP.
// Completing the fifth prayer of a day awards a 50 XP bonus and bumps
// both streak and perfectDays. Calling it on an already-complete
// prayer changes nothing; use UndoPrayer to unmark.
func (s *ProgressService) TogglePrayer(ctx context.Context, date string, key string) (progress.State, error) {
	prayerKey, err := parseDateAndPrayer(date, key)
	if err != nil {
		return progress.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findOrCreateRecord(date)
	if rec.Prayers[prayerKey] {
		return s.snapshot(), nil
	}

	rec.Prayers[prayerKey] = true
	rec.XPEarnedToday += progress.XPPerPrayer
	s.state.User.TotalXP += progress.XPPerPrayer
	s.state.User.Level = progress.CalcLevel(s.state.User.TotalXP)

	if rec.AllComplete() {
		rec.XPEarnedToday += progress.PerfectDayBonus
		s.state.User.TotalXP += progress.PerfectDayBonus
		s.state.User.Level = progress.CalcLevel(s.state.User.TotalXP)
		s.state.User.Streak++
		s.state.User.PerfectDays++
	}

	s.persist(ctx)
	return s.snapshot(), nil
}

// UndoPrayer unmarks a completed prayer and takes back its 20 XP,
// floored at zero. The perfect-day bonus, streak, and perfectDays are
// deliberately left alone even when this breaks a perfect day.
func (s *ProgressService) UndoPrayer(ctx context.Context, date string, key string) (progress.State, error) {
	prayerKey, err := parseDateAndPrayer(date, key)
	if err != nil {
		return progress.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findRecord(date)
	if rec == nil || !rec.Prayers[prayerKey] {
		return s.snapshot(), nil
	}

	rec.Prayers[prayerKey] = false
	s.state.User.TotalXP -= progress.XPPerPrayer
	if s.state.User.TotalXP < 0 {
		s.state.User.TotalXP = 0
	}
	s.state.User.Level = progress.CalcLevel(s.state.User.TotalXP)

	s.persist(ctx)
	return s.snapshot(), nil
}

// AddQadha adds to the makeup counter for a prayer. No XP.
func (s *ProgressService) AddQadha(ctx context.Context, date string, key string, count int) (progress.State, error) {
	prayerKey, err := parseDateAndPrayer(date, key)
	if err != nil {
		return progress.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findOrCreateRecord(date)
	rec.Qadha[prayerKey] += count

	s.persist(ctx)
	return s.snapshot(), nil
}

// PerformAction logs a supplementary action and awards XP per the
// action's rule. The award is computed per call, not against the
// cumulative counter.
func (s *ProgressService) PerformAction(ctx context.Context, date string, kind string, amount int) (progress.State, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return progress.State{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	actionKind, err := progress.ParseActionKind(kind)
	if err != nil {
		return progress.State{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findOrCreateRecord(date)
	rec.Actions.Add(actionKind, amount)

	xpGain := progress.ActionXP(actionKind, amount)
	rec.XPEarnedToday += xpGain
	s.state.User.TotalXP += xpGain
	s.state.User.Level = progress.CalcLevel(s.state.User.TotalXP)

	s.persist(ctx)
	return s.snapshot(), nil
}

// DailyPercent returns the completion percentage for a date, 0 when no
// record exists.
func (s *ProgressService) DailyPercent(date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyPercentLocked(date)
}

// LastNPercents returns completion percentages for the n calendar days
// ending today, oldest first. Recomputed from the record collection on
// every call.
func (s *ProgressService) LastNPercents(n int) []stats.DailyPercent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]stats.DailyPercent, 0, n)
	today := s.now()
	for i := n - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		out = append(out, stats.DailyPercent{Date: date, Percent: s.dailyPercentLocked(date)})
	}
	return out
}

// WeeklyStats counts perfect days since Monday of the current week.
func (s *ProgressService) WeeklyStats() *stats.DaysStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	offset := (int(now.Weekday()) + 6) % 7
	weekStart := now.AddDate(0, 0, -offset).Format(dateLayout)
	today := now.Format(dateLayout)

	stat := &stats.DaysStat{Period: "week", TotalDays: 7}
	for _, rec := range s.state.DailyRecords {
		if rec.Date >= weekStart && rec.Date <= today && rec.AllComplete() {
			stat.PerfectDays++
		}
	}
	return stat
}

// MonthlyStats counts perfect days since the first of the current month.
func (s *ProgressService) MonthlyStats() *stats.DaysStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	today := now.Format(dateLayout)
	daysInMonth := now.AddDate(0, 1, -now.Day()).Day()

	stat := &stats.DaysStat{Period: "month", TotalDays: daysInMonth}
	for _, rec := range s.state.DailyRecords {
		if rec.Date >= monthStart && rec.Date <= today && rec.AllComplete() {
			stat.PerfectDays++
		}
	}
	return stat
}

func (s *ProgressService) Leaderboard() []progress.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]progress.LeaderboardEntry, len(s.state.LeaderboardDemo))
	copy(out, s.state.LeaderboardDemo)
	return out
}

// State returns a deep copy of the full ledger.
func (s *ProgressService) State() progress.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *ProgressService) dailyPercentLocked(date string) int {
	rec := s.findRecord(date)
	if rec == nil {
		return 0
	}
	return rec.CompletedCount() * 100 / len(progress.PrayerKeys)
}

func (s *ProgressService) findRecord(date string) *progress.DailyRecord {
	for _, rec := range s.state.DailyRecords {
		if rec.Date == date {
			return rec
		}
	}
	return nil
}

func (s *ProgressService) findOrCreateRecord(date string) *progress.DailyRecord {
	if rec := s.findRecord(date); rec != nil {
		return rec
	}
	rec := progress.NewDailyRecord(date)
	s.state.DailyRecords = append(s.state.DailyRecords, rec)
	return rec
}

func (s *ProgressService) persist(ctx context.Context) {
	data, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("ProgressService: failed to marshal state: %v", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyProgress, string(data)); err != nil {
		log.Printf("ProgressService: failed to persist state: %v", err)
	}
}

func (s *ProgressService) snapshot() progress.State {
	out := s.state
	out.DailyRecords = make([]*progress.DailyRecord, len(s.state.DailyRecords))
	for i, rec := range s.state.DailyRecords {
		cloned := *rec
		cloned.Prayers = make(map[progress.PrayerKey]bool, len(rec.Prayers))
		for k, v := range rec.Prayers {
			cloned.Prayers[k] = v
		}
		cloned.Qadha = make(map[progress.PrayerKey]int, len(rec.Qadha))
		for k, v := range rec.Qadha {
			cloned.Qadha[k] = v
		}
		out.DailyRecords[i] = &cloned
	}
	out.LeaderboardDemo = make([]progress.LeaderboardEntry, len(s.state.LeaderboardDemo))
	copy(out.LeaderboardDemo, s.state.LeaderboardDemo)
	out.User.Badges = make([]string, len(s.state.User.Badges))
	copy(out.User.Badges, s.state.User.Badges)
	return out
}

func parseDateAndPrayer(date string, key string) (progress.PrayerKey, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	prayerKey, err := progress.ParsePrayerKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return prayerKey, nil
}
