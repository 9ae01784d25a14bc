package entity

import (
	"math/big"
)

// TotalShares is the fixed share supply per NFT. One share is one percentage
// point; this is a domain convention across all Manager instances, not a
// value read from the contract.
const TotalShares = 100

type ShareHolder struct {
	Address    string `json:"address"`
	Percentage uint64 `json:"percentage"`
}

// ManagerSnapshot is a point-in-time view of a single Manager contract,
// reconstructed on demand and never cached.
type ManagerSnapshot struct {
	Manager          string        `json:"manager"`
	NftContract      string        `json:"nftContract"`
	TokenId          string        `json:"tokenId"`
	FirstOwner       string        `json:"firstOwner"`
	PriceWei         *big.Int      `json:"priceWei"`
	MaxSellable      uint64        `json:"maxSellablePercentage"`
	TotalSold        uint64        `json:"totalSoldPercentage"`
	NftTransferred   bool          `json:"nftTransferred"`
	AvailableForSale uint64        `json:"availableForSale"`
	ShareHolders     []ShareHolder `json:"shareHolders"`
}

type SharesTokenInfo struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"totalSupply"`
}

// PurchaseResult reports the outcome of a buy attempt. A rejected or reverted
// purchase comes back with Success false and a classified message rather than
// an error value.
type PurchaseResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GasEstimate is advisory only. A failed estimation fills Error and must not
// block the purchase path.
type GasEstimate struct {
	GasEstimate uint64 `json:"gasEstimate"`
	GasCostEth  string `json:"gasCostEth"`
	Error       string `json:"error,omitempty"`
}
