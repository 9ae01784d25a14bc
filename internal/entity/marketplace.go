package entity

// MarketplaceItem is the UI-facing aggregate of a registry entry, a manager
// snapshot and resolved metadata. Items are rebuilt from scratch on every
// aggregation pass. Image is always a fetchable URL, never a raw ipfs:// URI.
type MarketplaceItem struct {
	Id              string `json:"id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	Manager         string `json:"manager"`
	TotalShares     uint64 `json:"totalShares"`
	AvailableShares uint64 `json:"availableShares"`
	PricePerShare   string `json:"pricePerShare"`
	Creator         string `json:"creator"`
}
