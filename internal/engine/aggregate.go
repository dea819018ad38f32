package engine

// applyDelta is the single mutation point for XP, gold and level. Balances
// floor at zero, TotalXP is re-derived from the ledger, and the level is
// pinned to its running maximum so rollbacks never demote the player.
func (s *Service) applyDelta(xpDelta, goldDelta int) *LevelUpEvent {
	before := s.state.Progress.Level
	if before < 1 {
		before = 1
	}
	if !s.goldEnabled() {
		goldDelta = 0
	}

	s.state.Currencies.XP = nonNegative(s.state.Currencies.XP + xpDelta)
	s.state.Currencies.Gold = nonNegative(s.state.Currencies.Gold + goldDelta)
	s.state.Currencies.TotalXP = claimedXPTotal(s.state.Claims.RewardClaims)

	progress := ComputeLevelProgress(s.cfg.Leveling, s.state.Currencies.TotalXP)
	next := before
	if progress.Level > next {
		next = progress.Level
	}

	var levelUp *LevelUpEvent
	if next > before {
		bonus := 0
		if s.goldEnabled() {
			bonus = levelUpGold(s.cfg.Leveling, before, next)
		}
		s.state.Currencies.Gold += bonus
		levelUp = &LevelUpEvent{NewLevel: next, LevelsGained: next - before, GoldBonus: bonus}
	}
	s.state.Progress.Level = next
	return levelUp
}

func (s *Service) goldEnabled() bool {
	return s.cfg.Features.GoldEnabled
}
