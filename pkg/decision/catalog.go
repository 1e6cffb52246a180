// Package decision turns risks, graph criticality and simulation results into
// confidence-scored, deduplicated mitigation actions.
package decision

// Catalog action names. The catalog is fixed: seven actions, each with a
// fixed urgency and lead time.
const (
	ActionExpediteShipment       = "expedite_shipment"
	ActionActivateAlternative    = "activate_alternative_source"
	ActionIncreaseSafetyStock    = "increase_safety_stock"
	ActionNotifyStakeholders     = "notify_stakeholders"
	ActionDiversifySuppliers     = "diversify_suppliers"
	ActionNegotiateContractTerms = "negotiate_contract_terms"
	ActionMonitorClosely         = "monitor_closely"
)

// CatalogEntry describes one mitigation action.
type CatalogEntry struct {
	Name         string
	Description  string
	Urgency      int // 1-5, higher is more urgent
	LeadTimeDays int // days until the action takes effect
}

// catalog is ordered by urgency descending so tier selection can scan it
// front to back.
var catalog = []CatalogEntry{
	{
		Name:         ActionExpediteShipment,
		Description:  "Expedite current shipments and negotiate priority delivery",
		Urgency:      5,
		LeadTimeDays: 0,
	},
	{
		Name:         ActionActivateAlternative,
		Description:  "Activate pre-qualified alternative supplier(s)",
		Urgency:      4,
		LeadTimeDays: 3,
	},
	{
		Name:         ActionIncreaseSafetyStock,
		Description:  "Immediately increase safety stock levels for affected materials",
		Urgency:      4,
		LeadTimeDays: 1,
	},
	{
		Name:         ActionNotifyStakeholders,
		Description:  "Notify procurement and planning stakeholders to review alternatives",
		Urgency:      3,
		LeadTimeDays: 2,
	},
	{
		Name:         ActionDiversifySuppliers,
		Description:  "Initiate long-term supplier diversification for this material/country",
		Urgency:      2,
		LeadTimeDays: 180,
	},
	{
		Name:         ActionNegotiateContractTerms,
		Description:  "Renegotiate contract terms to secure supply commitments",
		Urgency:      2,
		LeadTimeDays: 30,
	},
	{
		Name:         ActionMonitorClosely,
		Description:  "Increase monitoring frequency and alert thresholds for this supplier",
		Urgency:      1,
		LeadTimeDays: 0,
	},
}

// entryByName indexes the catalog for lookups.
var entryByName = func() map[string]CatalogEntry {
	m := make(map[string]CatalogEntry, len(catalog))
	for _, e := range catalog {
		m[e.Name] = e
	}
	return m
}()

// Entry returns the catalog entry for an action name.
func Entry(name string) (CatalogEntry, bool) {
	e, ok := entryByName[name]
	return e, ok
}
