package engine

import (
	"context"
	"testing"
)

// claimToTier claims enough distinct quests to reach the given tier with the
// default thresholds (bronze 1, silver 3, gold 5).
func claimToTier(t *testing.T, svc *Service, tier Tier) {
	t.Helper()
	counts := map[Tier]int{TierBronze: 1, TierSilver: 3, TierGold: 5}
	quests := []string{"water", "walk", "read", "cook", "tidy"}
	for i := 0; i < counts[tier]; i++ {
		mustClaim(t, svc, quests[i])
	}
	if got := svc.State().Daily.Tier; got != tier {
		t.Fatalf("daily tier = %s, want %s", got, tier)
	}
}

func TestStreakUpOnQualifyingTier(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")

	claimToTier(t, svc, TierSilver)
	advanceTo(t, svc, "2026-03-03")

	st := svc.State()
	if st.Progress.Streak != 1 {
		t.Fatalf("streak = %d, want 1", st.Progress.Streak)
	}
	if st.Progress.LastTier != TierSilver {
		t.Fatalf("last closed tier = %s, want silver", st.Progress.LastTier)
	}
	if st.Daily.ObjectivesCompleted != 0 || st.Daily.DateKey != "2026-03-03" {
		t.Fatalf("daily scope not reset: %+v", st.Daily)
	}
}

func TestBronzeDayDoesNotExtendStreak(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")

	claimToTier(t, svc, TierBronze)
	shieldBefore := svc.State().Progress.StreakShield
	advanceTo(t, svc, "2026-03-03")

	st := svc.State()
	if st.Progress.Streak != 0 {
		t.Fatalf("streak = %d, want 0 for a bronze day", st.Progress.Streak)
	}
	if st.Progress.StreakShield != shieldBefore-1 {
		t.Fatalf("shield = %d, want %d (consumed)", st.Progress.StreakShield, shieldBefore-1)
	}
}

func TestStreakProtectionLadder(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")
	ctx := context.Background()

	// Day 1 qualifies; the monthly refill armed the shield on first contact.
	claimToTier(t, svc, TierSilver)
	advanceTo(t, svc, "2026-03-03")
	if got := svc.State().Progress.Streak; got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}
	if got := svc.State().Progress.StreakShield; got != 1 {
		t.Fatalf("shield = %d, want 1", got)
	}

	// Empty day 2: shield absorbs it.
	advanceTo(t, svc, "2026-03-04")
	st := svc.State()
	if st.Progress.Streak != 1 || st.Progress.StreakShield != 0 {
		t.Fatalf("after shield day: streak=%d shield=%d", st.Progress.Streak, st.Progress.StreakShield)
	}

	// Empty day 3: weekly rest day absorbs it.
	advanceTo(t, svc, "2026-03-05")
	st = svc.State()
	if st.Progress.Streak != 1 {
		t.Fatalf("after rest day: streak=%d, want 1", st.Progress.Streak)
	}
	if got := st.Progress.RestDaysUsedByWeek[WeekKey("2026-03-04")]; got != 1 {
		t.Fatalf("rest days used = %d, want 1", got)
	}

	// Empty day 4: nothing left, streak resets.
	advanceTo(t, svc, "2026-03-06")
	if got := svc.State().Progress.Streak; got != 0 {
		t.Fatalf("after exhausted protections: streak=%d, want 0", got)
	}

	_ = ctx
}

func TestShieldRefillsOncePerMonth(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")

	// Burn the shield inside March on an empty day.
	advanceTo(t, svc, "2026-03-03")
	advanceTo(t, svc, "2026-03-04")
	if got := svc.State().Progress.StreakShield; got != 0 {
		t.Fatalf("shield = %d, want 0 after burn", got)
	}

	// Later in March: no refill, a qualifying day keeps it untouched.
	claimToTier(t, svc, TierSilver)
	advanceTo(t, svc, "2026-03-20")
	if got := svc.State().Progress.StreakShield; got != 0 {
		t.Fatalf("shield refilled within the same month")
	}

	// April: exactly one refill, and the qualifying March 20 close leaves it.
	claimToTier(t, svc, TierSilver)
	advanceTo(t, svc, "2026-04-01")
	if got := svc.State().Progress.StreakShield; got != 1 {
		t.Fatalf("shield = %d, want 1 after month change", got)
	}

	// Two empty closes in April: the shield absorbs one, the rest day the
	// other, and no second refill appears.
	claimToTier(t, svc, TierSilver)
	advanceTo(t, svc, "2026-04-02")
	advanceTo(t, svc, "2026-04-03")
	if got := svc.State().Progress.StreakShield; got != 0 {
		t.Fatalf("shield = %d, want 0 after April burn", got)
	}
	advanceTo(t, svc, "2026-04-10")
	if got := svc.State().Progress.StreakShield; got != 0 {
		t.Fatalf("shield = %d, want 0 (no second refill in April)", got)
	}
}

func TestVacationFreezesStreak(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")
	ctx := context.Background()

	claimToTier(t, svc, TierSilver)
	advanceTo(t, svc, "2026-03-03")
	if got := svc.State().Progress.Streak; got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}

	res, err := svc.SetVacationMode(ctx, true)
	if err != nil {
		t.Fatalf("set vacation: %v", err)
	}
	if !res.Applied || !res.VacationMode {
		t.Fatalf("vacation not armed: %+v", res)
	}
	if res.DaysRemaining != 14 {
		t.Fatalf("days remaining = %d, want 14", res.DaysRemaining)
	}

	advanceTo(t, svc, "2026-03-04")
	st := svc.State()
	if st.Progress.Streak != 1 {
		t.Fatalf("streak = %d, want 1 (frozen)", st.Progress.Streak)
	}
	if st.Progress.StreakShield != 1 {
		t.Fatalf("shield = %d, vacation must not consume the shield", st.Progress.StreakShield)
	}
	if st.Daily.VacationMode {
		t.Fatalf("vacation mode leaked into the new day")
	}
}

func TestVacationDisarmDoesNotRefund(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")
	ctx := context.Background()

	if _, err := svc.SetVacationMode(ctx, true); err != nil {
		t.Fatalf("arm: %v", err)
	}
	res, err := svc.SetVacationMode(ctx, false)
	if err != nil {
		t.Fatalf("disarm: %v", err)
	}
	if res.DaysRemaining != 14 {
		t.Fatalf("days remaining = %d, want 14 (no refund)", res.DaysRemaining)
	}
}

func TestVacationExhaustedBudget(t *testing.T) {
	cfg := testConfig()
	cfg.Progression.Streak.Vacation.MaxDaysPerYear = 1
	svc, _ := newTestService(t, cfg, "2026-03-02")
	ctx := context.Background()

	if _, err := svc.SetVacationMode(ctx, true); err != nil {
		t.Fatalf("arm: %v", err)
	}
	if _, err := svc.SetVacationMode(ctx, false); err != nil {
		t.Fatalf("disarm: %v", err)
	}
	res, err := svc.SetVacationMode(ctx, true)
	if err != nil {
		t.Fatalf("re-arm: %v", err)
	}
	if res.Applied && res.VacationMode {
		t.Fatalf("armed vacation with an empty budget")
	}
	if res.Reason != ReasonInvalidInput {
		t.Fatalf("reason = %s, want invalid_input", res.Reason)
	}
}

func TestVacationDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Progression.Streak.Vacation.Enabled = false
	svc, _ := newTestService(t, cfg, "2026-03-02")

	res, err := svc.SetVacationMode(context.Background(), true)
	if err != nil {
		t.Fatalf("set vacation: %v", err)
	}
	if res.Applied || res.Reason != ReasonInvalidInput {
		t.Fatalf("vacation disabled: applied=%v reason=%s", res.Applied, res.Reason)
	}
}

func TestResolveStreakOutcomePriority(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")
	weekKey := WeekKey("2026-03-02")

	svc.state.Progress.StreakShield = 1
	cases := []struct {
		name string
		prev DailyState
		want StreakOutcome
	}{
		{"vacation wins over tier", DailyState{Tier: TierGold, VacationMode: true}, OutcomeVacationFreeze},
		{"qualifying tier", DailyState{Tier: TierSilver}, OutcomeStreakUp},
		{"shield before rest day", DailyState{Tier: TierBronze}, OutcomeShieldUsed},
	}
	for _, tc := range cases {
		if got := svc.resolveStreakOutcome(tc.prev, weekKey); got != tc.want {
			t.Fatalf("%s: outcome = %s, want %s", tc.name, got, tc.want)
		}
	}

	svc.state.Progress.StreakShield = 0
	if got := svc.resolveStreakOutcome(DailyState{Tier: TierNone}, weekKey); got != OutcomeRestDayUsed {
		t.Fatalf("outcome = %s, want rest_day_used", got)
	}
	svc.state.Progress.RestDaysUsedByWeek[weekKey] = 1
	if got := svc.resolveStreakOutcome(DailyState{Tier: TierNone}, weekKey); got != OutcomeReset {
		t.Fatalf("outcome = %s, want reset", got)
	}
}
