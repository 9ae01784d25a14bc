package event

type Type string

const (
	ListingProgressEvent      Type = "ListingProgressEvent"
	MarketplaceRefreshedEvent Type = "MarketplaceRefreshedEvent"
	SharesPurchasedEvent      Type = "SharesPurchasedEvent"
)
