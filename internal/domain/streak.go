package domain

import "time"

// DateLayout is the storage and display layout for calendar dates.
const DateLayout = "2006-01-02"

// CalendarDate strips the clock from t, keeping the calendar day as seen in
// t's own location. The result is midnight UTC of that day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return CalendarDate(a).Equal(CalendarDate(b))
}

// DailyBonus is the result of evaluating a session start.
type DailyBonus struct {
	Granted       bool
	Streak        int
	LongestStreak int
	Delta         RewardDelta
}

// EvaluateDailyBonus applies the once-per-day login bonus to u for today.
// Same day as the last activity: nothing changes. Otherwise the streak grows
// by one when the last activity was yesterday and resets to one for any
// other date; either way the user earns DailyBonusXP.
func EvaluateDailyBonus(u User, today time.Time, now time.Time) (User, DailyBonus) {
	day := CalendarDate(today)
	if u.LastActivityDate != nil && SameDay(*u.LastActivityDate, day) {
		return u, DailyBonus{Streak: u.CurrentStreak, LongestStreak: u.LongestStreak}
	}

	streak := 1
	if u.LastActivityDate != nil && SameDay(*u.LastActivityDate, day.AddDate(0, 0, -1)) {
		streak = u.CurrentStreak + 1
	}

	u.CurrentStreak = streak
	u.LongestStreak = max(streak, u.LongestStreak)
	u.LastActivityDate = &day

	delta := RewardDelta{XP: DailyBonusXP}
	u = ApplyReward(u, delta, now)
	return u, DailyBonus{
		Granted:       true,
		Streak:        u.CurrentStreak,
		LongestStreak: u.LongestStreak,
		Delta:         delta,
	}
}
