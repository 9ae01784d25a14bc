package entity

// UserNFT is an NFT owned by (or shared with) a wallet, as surfaced by the
// ownership lookups.
type UserNFT struct {
	ContractAddress string   `json:"contractAddress"`
	TokenId         string   `json:"tokenId"`
	TokenURI        string   `json:"tokenUri"`
	ManagerContract string   `json:"managerContract,omitempty"`
	Metadata        Metadata `json:"metadata"`
}
