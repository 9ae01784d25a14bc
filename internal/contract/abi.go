// Package contract holds the given ABIs of the external Manager and Registry
// contracts plus the minimal ERC-721/ERC-20 fragments the marketplace needs.
// The contracts themselves are deployed elsewhere; these definitions are an
// interface, not something this repository designs.
package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const ManagerABI = `[
	{"type":"constructor","stateMutability":"nonpayable","inputs":[
		{"name":"_nft","type":"address"},
		{"name":"_tokenId","type":"uint256"},
		{"name":"_nftPrice","type":"uint256"},
		{"name":"_maxSellablePercentage","type":"uint256"}]},
	{"type":"function","name":"getNFTInfo","stateMutability":"view","inputs":[],"outputs":[
		{"name":"nftContract","type":"address"},
		{"name":"id","type":"uint256"},
		{"name":"owner","type":"address"},
		{"name":"price","type":"uint256"},
		{"name":"maxSellable","type":"uint256"},
		{"name":"totalSold","type":"uint256"}]},
	{"type":"function","name":"getContractStatus","stateMutability":"view","inputs":[],"outputs":[
		{"name":"nftInContract","type":"bool"},
		{"name":"nftTransferredFlag","type":"bool"},
		{"name":"currentNFTOwner","type":"address"}]},
	{"type":"function","name":"isNFTTransferred","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getOwnershipPercentage","stateMutability":"view","inputs":[{"name":"_owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getRemainingOwnership","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getTotalSoldPercentage","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getAvailableForSale","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getOwnershipBreakdown","stateMutability":"view","inputs":[],"outputs":[
		{"name":"firstOwner","type":"address"},
		{"name":"firstOwnerPercentage","type":"uint256"},
		{"name":"totalSold","type":"uint256"},
		{"name":"remainingAvailable","type":"uint256"}]},
	{"type":"function","name":"getAllOwners","stateMutability":"view","inputs":[],"outputs":[
		{"name":"ownerAddresses","type":"address[]"},
		{"name":"percentages","type":"uint256[]"}]},
	{"type":"function","name":"getSharesTokenAddress","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getSharesBalance","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getSharesForPercentage","stateMutability":"view","inputs":[{"name":"percentage","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"calculateCost","stateMutability":"view","inputs":[{"name":"_percentage","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"canBuyPercentage","stateMutability":"view","inputs":[{"name":"_percentage","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isOwner","stateMutability":"view","inputs":[{"name":"_address","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getContractBalance","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"buyPercentage","stateMutability":"payable","inputs":[{"name":"_percentage","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"transferNFTToContract","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"updatePrice","stateMutability":"nonpayable","inputs":[{"name":"_newPrice","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"updateMaxSellablePercentage","stateMutability":"nonpayable","inputs":[{"name":"_newMaxPercentage","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"setNFTRegistry","stateMutability":"nonpayable","inputs":[{"name":"_registry","type":"address"}],"outputs":[]},
	{"type":"error","name":"InsufficientShares","inputs":[]},
	{"type":"error","name":"InvalidPercentage","inputs":[{"name":"percentage","type":"uint256"}]},
	{"type":"error","name":"NFTNotTransferred","inputs":[]},
	{"type":"error","name":"InsufficientPayment","inputs":[{"name":"required","type":"uint256"},{"name":"provided","type":"uint256"}]},
	{"type":"error","name":"MaxSellableExceeded","inputs":[]}
]`

const RegistryABI = `[
	{"type":"function","name":"registerSharedNFT","stateMutability":"nonpayable","inputs":[
		{"name":"_managerContract","type":"address"},
		{"name":"_metadataURI","type":"string"}],"outputs":[]},
	{"type":"function","name":"getTotalSharedNFTs","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getActiveNFTIndices","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"tuple[]","components":[
			{"name":"nftContract","type":"address"},
			{"name":"tokenId","type":"uint256"},
			{"name":"managerContract","type":"address"},
			{"name":"firstOwner","type":"address"},
			{"name":"isActive","type":"bool"},
			{"name":"createdAt","type":"uint256"},
			{"name":"metadataURI","type":"string"}]}]},
	{"type":"function","name":"getNFTIndicesByOwner","stateMutability":"view","inputs":[{"name":"_owner","type":"address"}],"outputs":[
		{"name":"","type":"tuple[]","components":[
			{"name":"nftContract","type":"address"},
			{"name":"tokenId","type":"uint256"},
			{"name":"managerContract","type":"address"},
			{"name":"firstOwner","type":"address"},
			{"name":"isActive","type":"bool"},
			{"name":"createdAt","type":"uint256"},
			{"name":"metadataURI","type":"string"}]}]},
	{"type":"function","name":"getNFTIndexByManager","stateMutability":"view","inputs":[{"name":"_managerContract","type":"address"}],"outputs":[
		{"name":"","type":"tuple","components":[
			{"name":"nftContract","type":"address"},
			{"name":"tokenId","type":"uint256"},
			{"name":"managerContract","type":"address"},
			{"name":"firstOwner","type":"address"},
			{"name":"isActive","type":"bool"},
			{"name":"createdAt","type":"uint256"},
			{"name":"metadataURI","type":"string"}]}]}
]`

const Erc721ABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view","inputs":[
		{"name":"owner","type":"address"},
		{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[
		{"name":"to","type":"address"},
		{"name":"tokenId","type":"uint256"}],"outputs":[]}
]`

const Erc20ABI = `[
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[
		{"name":"to","type":"address"},
		{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[
		{"name":"owner","type":"address"},
		{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[
		{"name":"spender","type":"address"},
		{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[
		{"name":"from","type":"address"},
		{"name":"to","type":"address"},
		{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	Manager  = mustParse(ManagerABI)
	Registry = mustParse(RegistryABI)
	Erc721   = mustParse(Erc721ABI)
	Erc20    = mustParse(Erc20ABI)
)

func mustParse(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}

	return parsed
}
