package entity

// RegistryIndexEntry is one row of the on-chain registry index. Entries are
// owned by the Registry contract and are only ever re-fetched, never mutated
// here. ManagerContract uniquely identifies a listing.
type RegistryIndexEntry struct {
	NftContract     string `json:"nftContract"`
	TokenId         string `json:"tokenId"`
	ManagerContract string `json:"managerContract"`
	FirstOwner      string `json:"firstOwner"`
	IsActive        bool   `json:"isActive"`
	CreatedAt       uint64 `json:"createdAt"`
	MetadataURI     string `json:"metadataUri"`
}
