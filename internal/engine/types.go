package engine

// Tier is the daily achievement band derived from distinct completions.
type Tier string

const (
	TierNone   Tier = "none"
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierNone, TierBronze, TierSilver, TierGold:
		return true
	default:
		return false
	}
}

func (t Tier) rank() int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether t meets the given minimum tier.
func (t Tier) AtLeast(min Tier) bool {
	return t.rank() >= min.rank()
}

// Reason codes every operation outcome. Guard reasons (already_claimed,
// missing_claim) are expected and recoverable; cap outcomes are policy, not
// errors.
type Reason string

const (
	ReasonClaimed        Reason = "claimed"
	ReasonClaimPartial   Reason = "claim_partial"
	ReasonCapReached     Reason = "cap_reached"
	ReasonAlreadyClaimed Reason = "already_claimed"
	ReasonMissingClaim   Reason = "missing_claim"
	ReasonRolledBack     Reason = "rolled_back"
	ReasonInvalidInput   Reason = "invalid_input"
	ReasonNoChest        Reason = "no_chest"
)

// LevelUpEvent is emitted when a currency delta crosses one or more level
// thresholds. Delivered as a return value, never as a UI call.
type LevelUpEvent struct {
	NewLevel     int
	LevelsGained int
	GoldBonus    int
}

// ClaimResult reports a claim or rollback outcome.
type ClaimResult struct {
	Applied   bool
	Reason    Reason
	XPDelta   int
	GoldDelta int
	LevelUp   *LevelUpEvent
}

// ChestResult reports a weekly chest claim.
type ChestResult struct {
	Applied   bool
	Reason    Reason
	ChestTier string
	XPDelta   int
	GoldDelta int
	LevelUp   *LevelUpEvent
}
