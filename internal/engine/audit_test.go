package engine

import "testing"

func TestRecentXPAverageSkipsInactiveDays(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")

	mustClaim(t, svc, "water")
	mustClaim(t, svc, "walk")
	advanceTo(t, svc, "2026-03-03")
	// 03-03 stays empty.
	advanceTo(t, svc, "2026-03-04")
	mustClaim(t, svc, "water")

	avg := svc.RecentXPAverage(7)
	if avg.ActiveDays != 2 {
		t.Fatalf("active days = %d, want 2", avg.ActiveDays)
	}
	// 12 XP on 03-02 plus 6 on 03-04, averaged over active days only.
	if avg.AverageXP != 9 {
		t.Fatalf("average = %v, want 9", avg.AverageXP)
	}
}

func TestRecentXPAverageNoActivity(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")
	avg := svc.RecentXPAverage(7)
	if avg.ActiveDays != 0 || avg.AverageXP != 0 {
		t.Fatalf("idle average = %+v", avg)
	}
}

func TestEconomyAuditFallsBackToCap(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")

	audit := svc.ComputeEconomyAudit()
	if audit.BasedOnAverage {
		t.Fatalf("no activity must not report an average basis")
	}
	if audit.CapXPPerDay != 150 {
		t.Fatalf("cap = %d, want 150", audit.CapXPPerDay)
	}
	// 50 XP to level at a 150/day pace clears the level in under a day.
	if audit.Status != AuditTooFast {
		t.Fatalf("status = %s, want too_fast", audit.Status)
	}
	if audit.DaysToLevel <= 0 || audit.DaysToLevel >= 1 {
		t.Fatalf("days to level = %v", audit.DaysToLevel)
	}
}

func TestEconomyAuditTooSlow(t *testing.T) {
	cfg := testConfig()
	cfg.Economy.EffortXPTable = []int{2}
	svc, _ := newTestService(t, cfg, "2026-03-02")

	// One 2 XP day against 48 XP remaining: 24 days to level.
	mustClaim(t, svc, "water")
	advanceTo(t, svc, "2026-03-03")

	audit := svc.ComputeEconomyAudit()
	if !audit.BasedOnAverage {
		t.Fatalf("expected the recent average basis")
	}
	if audit.Status != AuditTooSlow {
		t.Fatalf("status = %s, want too_slow (days to level %v)", audit.Status, audit.DaysToLevel)
	}
	if audit.SuggestedCapXP%5 != 0 {
		t.Fatalf("suggestion %d not rounded to 5", audit.SuggestedCapXP)
	}
	if audit.SuggestedCapXP <= audit.CapXPPerDay {
		t.Fatalf("too_slow should raise the cap: %d vs %d", audit.SuggestedCapXP, audit.CapXPPerDay)
	}
}

func TestEconomyAuditPotentialXP(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")

	// Five catalog quests at effort 1, 6 XP each.
	audit := svc.ComputeEconomyAudit()
	if audit.PotentialXP != 30 {
		t.Fatalf("potential = %d, want 30", audit.PotentialXP)
	}
	if audit.MaxXPToday != 30 {
		t.Fatalf("max today = %d, want 30", audit.MaxXPToday)
	}

	mustClaim(t, svc, "water")
	audit = svc.ComputeEconomyAudit()
	if audit.MaxXPToday != 30 {
		t.Fatalf("headroom should still exceed the catalog: %d", audit.MaxXPToday)
	}
}

func TestDailyRewardTotals(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), "2026-03-02")

	mustClaim(t, svc, "water")
	mustClaim(t, svc, "walk")
	xp, gold := svc.DailyRewardTotals("")
	if xp != 12 || gold != 6 {
		t.Fatalf("totals = %d/%d, want 12/6", xp, gold)
	}
	xp, _ = svc.DailyRewardTotals("2026-03-01")
	if xp != 0 {
		t.Fatalf("other day xp = %d, want 0", xp)
	}
}
