package token

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/chain"
	"github.com/fractionft/fraction-marketplace/internal/contract"
	"github.com/fractionft/fraction-marketplace/internal/entity"
	"github.com/fractionft/fraction-marketplace/internal/metadata"
	"github.com/fractionft/fraction-marketplace/internal/moralis"
	"github.com/fractionft/fraction-marketplace/internal/registry"
	"go.uber.org/zap"
)

// ownerScanLimit bounds the ownerOf sweep used when a collection does not
// implement the enumerable extension.
const ownerScanLimit = 100

// Service wraps the ERC-721 surface plus the ownership discovery paths used
// by the listing and portfolio views.
type Service interface {
	TokenURI(ctx context.Context, nftContract common.Address, tokenId *big.Int) (string, error)
	OwnerOf(ctx context.Context, nftContract common.Address, tokenId *big.Int) (common.Address, error)
	BalanceOf(ctx context.Context, nftContract, owner common.Address) (*big.Int, error)
	Approve(ctx context.Context, nftContract, spender common.Address, tokenId *big.Int) (common.Hash, error)
	FetchOwnedNFTs(ctx context.Context, owner common.Address) ([]entity.UserNFT, error)
	FetchSharedNFTs(ctx context.Context, owner common.Address) ([]entity.UserNFT, error)
}

type service struct {
	client       chain.Client
	registry     registry.Service
	metadata     metadata.Service
	moralis      moralis.Client
	nftContracts []string
}

func NewService(client chain.Client, registrySvc registry.Service, metadataSvc metadata.Service, moralisClient moralis.Client, nftContracts []string) Service {
	return service{client, registrySvc, metadataSvc, moralisClient, nftContracts}
}

func (s service) TokenURI(ctx context.Context, nftContract common.Address, tokenId *big.Int) (string, error) {
	values, err := s.client.Read(ctx, nftContract, contract.Erc721, "tokenURI", tokenId)
	if err != nil {
		return "", err
	}

	return values[0].(string), nil
}

func (s service) OwnerOf(ctx context.Context, nftContract common.Address, tokenId *big.Int) (common.Address, error) {
	values, err := s.client.Read(ctx, nftContract, contract.Erc721, "ownerOf", tokenId)
	if err != nil {
		return common.Address{}, err
	}

	return values[0].(common.Address), nil
}

func (s service) BalanceOf(ctx context.Context, nftContract, owner common.Address) (*big.Int, error) {
	values, err := s.client.Read(ctx, nftContract, contract.Erc721, "balanceOf", owner)
	if err != nil {
		return nil, err
	}

	return values[0].(*big.Int), nil
}

// Approve grants transfer rights on a single token and blocks until mined.
// The transfer step that follows relies on the approval being final.
func (s service) Approve(ctx context.Context, nftContract, spender common.Address, tokenId *big.Int) (common.Hash, error) {
	txHash, err := s.client.Write(ctx, nftContract, contract.Erc721, "approve", chain.WriteOpts{}, spender, tokenId)
	if err != nil {
		return common.Hash{}, err
	}

	if _, err := s.client.WaitForReceipt(ctx, txHash); err != nil {
		return txHash, err
	}

	return txHash, nil
}

// FetchOwnedNFTs discovers the wallet's NFTs. Moralis answers in one call
// when a key is configured; otherwise each known collection is scanned
// on-chain via the enumerable extension, with a bounded ownerOf sweep as the
// final fallback.
func (s service) FetchOwnedNFTs(ctx context.Context, owner common.Address) ([]entity.UserNFT, error) {
	if nfts, err := s.fetchViaMoralis(ctx, owner); err == nil {
		return nfts, nil
	} else if err != moralis.ErrNoCredentials {
		zap.L().With(zap.Error(err), zap.String("owner", owner.Hex())).Warn("Token: moralis lookup failed, scanning on-chain")
	}

	nfts := make([]entity.UserNFT, 0)
	for _, addr := range s.nftContracts {
		if !common.IsHexAddress(addr) {
			continue
		}
		nfts = append(nfts, s.scanContract(ctx, common.HexToAddress(addr), owner)...)
	}

	return nfts, nil
}

// FetchSharedNFTs lists the NFTs the wallet listed through the registry,
// metadata resolved per entry.
func (s service) FetchSharedNFTs(ctx context.Context, owner common.Address) ([]entity.UserNFT, error) {
	entries, err := s.registry.EntriesByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	nfts := make([]entity.UserNFT, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry entity.RegistryIndexEntry) {
			defer wg.Done()

			nft := entity.UserNFT{
				ContractAddress: entry.NftContract,
				TokenId:         entry.TokenId,
				TokenURI:        entry.MetadataURI,
				ManagerContract: entry.ManagerContract,
			}

			if md, err := s.metadata.Fetch(ctx, entry.MetadataURI); err == nil {
				nft.Metadata = *md
			} else {
				nft.Metadata = s.metadata.Placeholder(entry.TokenId)
			}

			nfts[i] = nft
		}(i, entry)
	}
	wg.Wait()

	return nfts, nil
}

func (s service) fetchViaMoralis(ctx context.Context, owner common.Address) ([]entity.UserNFT, error) {
	raw, err := s.moralis.NftsByOwner(ctx, owner.Hex())
	if err != nil {
		return nil, err
	}

	nfts := make([]entity.UserNFT, 0, len(raw))
	for _, n := range raw {
		nft := entity.UserNFT{
			ContractAddress: n.TokenAddress,
			TokenId:         n.TokenId,
			TokenURI:        n.TokenUri,
		}

		if n.Metadata != "" {
			var md entity.Metadata
			if err := json.Unmarshal([]byte(n.Metadata), &md); err == nil {
				nft.Metadata = md
			}
		}
		if nft.Metadata.Name == "" {
			if md, err := s.metadata.Fetch(ctx, n.TokenUri); err == nil {
				nft.Metadata = *md
			} else {
				nft.Metadata = s.metadata.Placeholder(n.TokenId)
			}
		}

		nfts = append(nfts, nft)
	}

	return nfts, nil
}

// scanContract enumerates a single collection for the owner. Collections
// without tokenOfOwnerByIndex fall back to probing token ids 1..100.
func (s service) scanContract(ctx context.Context, nftContract, owner common.Address) []entity.UserNFT {
	balance, err := s.BalanceOf(ctx, nftContract, owner)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("contract", nftContract.Hex())).Debug("Token: balanceOf failed")
		return nil
	}

	if balance.Sign() == 0 {
		return nil
	}

	nfts := make([]entity.UserNFT, 0, balance.Uint64())
	enumerable := true
	for i := int64(0); i < balance.Int64(); i++ {
		values, err := s.client.Read(ctx, nftContract, contract.Erc721, "tokenOfOwnerByIndex", owner, big.NewInt(i))
		if err != nil {
			enumerable = false
			break
		}
		nfts = append(nfts, s.describe(ctx, nftContract, values[0].(*big.Int)))
	}

	if enumerable {
		return nfts
	}

	nfts = nfts[:0]
	for id := int64(1); id <= ownerScanLimit; id++ {
		tokenId := big.NewInt(id)
		tokenOwner, err := s.OwnerOf(ctx, nftContract, tokenId)
		if err != nil {
			continue
		}
		if strings.EqualFold(tokenOwner.Hex(), owner.Hex()) {
			nfts = append(nfts, s.describe(ctx, nftContract, tokenId))
		}
	}

	return nfts
}

func (s service) describe(ctx context.Context, nftContract common.Address, tokenId *big.Int) entity.UserNFT {
	nft := entity.UserNFT{
		ContractAddress: nftContract.Hex(),
		TokenId:         tokenId.String(),
	}

	uri, err := s.TokenURI(ctx, nftContract, tokenId)
	if err != nil {
		nft.Metadata = s.metadata.Placeholder(nft.TokenId)
		return nft
	}
	nft.TokenURI = uri

	if md, err := s.metadata.Fetch(ctx, uri); err == nil {
		nft.Metadata = *md
	} else {
		nft.Metadata = s.metadata.Placeholder(nft.TokenId)
	}

	return nft
}
