package decision

// Tier is a confidence band determining which actions are eligible.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
	TierCritical
)

// Tier thresholds. Boundaries are inclusive on the lower bound: a confidence
// of exactly 0.85 is CRITICAL.
const (
	CriticalThreshold = 0.85
	HighThreshold     = 0.65
	MediumThreshold   = 0.40
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "CRITICAL"
	case TierHigh:
		return "HIGH"
	case TierMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// TierFor maps a confidence score to its tier.
func TierFor(confidence float64) Tier {
	switch {
	case confidence >= CriticalThreshold:
		return TierCritical
	case confidence >= HighThreshold:
		return TierHigh
	case confidence >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// tierActions maps each tier to its eligible actions, ordered by urgency
// descending so the first horizon-qualifying entry wins.
var tierActions = map[Tier][]string{
	TierCritical: {ActionExpediteShipment, ActionActivateAlternative},
	TierHigh:     {ActionIncreaseSafetyStock, ActionNotifyStakeholders},
	TierMedium:   {ActionDiversifySuppliers, ActionNegotiateContractTerms},
	TierLow:      {ActionMonitorClosely},
}

// selectAction picks the highest-urgency action in the tier whose lead time
// fits inside the horizon, falling back to monitoring when nothing fits.
func selectAction(tier Tier, horizonDays int) CatalogEntry {
	best := CatalogEntry{}
	found := false
	for _, name := range tierActions[tier] {
		entry := entryByName[name]
		if entry.LeadTimeDays > horizonDays {
			continue
		}
		if !found || entry.Urgency > best.Urgency {
			best = entry
			found = true
		}
	}
	if !found {
		return entryByName[ActionMonitorClosely]
	}
	return best
}
