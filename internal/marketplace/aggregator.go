package marketplace

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/entity"
	"github.com/fractionft/fraction-marketplace/internal/helper"
	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/fractionft/fraction-marketplace/internal/metadata"
	"github.com/fractionft/fraction-marketplace/internal/registry"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Aggregator assembles the marketplace view from the registry index. Entries
// whose manager or metadata cannot be resolved are skipped, not surfaced as
// partial items.
type Aggregator interface {
	Items(ctx context.Context) ([]entity.MarketplaceItem, error)
	Item(ctx context.Context, managerAddr common.Address) (*entity.MarketplaceItem, error)
}

type aggregator struct {
	registry registry.Service
	managers manager.Service
	metadata metadata.Service
}

func NewAggregator(registrySvc registry.Service, managers manager.Service, metadataSvc metadata.Service) Aggregator {
	return aggregator{registrySvc, managers, metadataSvc}
}

// Items rebuilds the full marketplace listing. Entries are resolved
// concurrently; the failure of one listing never empties the marketplace.
func (a aggregator) Items(ctx context.Context) ([]entity.MarketplaceItem, error) {
	entries, err := a.registry.ActiveEntries(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*entity.MarketplaceItem, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry entity.RegistryIndexEntry) {
			defer wg.Done()

			item, err := a.buildItem(ctx, entry)
			if err != nil {
				zap.L().With(
					zap.Error(err),
					zap.String("manager", entry.ManagerContract),
				).Warn("Marketplace: skipping unresolvable entry")
				return
			}

			results[i] = item
		}(i, entry)
	}
	wg.Wait()

	items := make([]entity.MarketplaceItem, 0, len(entries))
	for _, item := range results {
		if item != nil {
			items = append(items, *item)
		}
	}

	return items, nil
}

// Item resolves a single listing by its manager address.
func (a aggregator) Item(ctx context.Context, managerAddr common.Address) (*entity.MarketplaceItem, error) {
	entry, err := a.registry.EntryByManager(ctx, managerAddr)
	if err != nil {
		return nil, err
	}

	return a.buildItem(ctx, *entry)
}

func (a aggregator) buildItem(ctx context.Context, entry entity.RegistryIndexEntry) (*entity.MarketplaceItem, error) {
	snapshot, err := a.managers.Snapshot(ctx, common.HexToAddress(entry.ManagerContract))
	if err != nil {
		return nil, err
	}

	md, err := a.metadata.Fetch(ctx, entry.MetadataURI)
	if err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("manager", entry.ManagerContract),
			zap.String("uri", entry.MetadataURI),
		).Debug("Marketplace: metadata unresolvable, using placeholder")

		placeholder := a.metadata.Placeholder(entry.TokenId)
		md = &placeholder
	}

	name := md.Name
	if name == "" {
		name = "NFT #" + entry.TokenId
	}

	image := a.metadata.ResolveImageURL(md.Image)
	if image == "" {
		image = a.metadata.Placeholder(entry.TokenId).Image
	}

	return &entity.MarketplaceItem{
		Id:              fmt.Sprintf("%s-%s", entry.ManagerContract, entry.TokenId),
		Slug:            slug.Make(name),
		Name:            name,
		Image:           image,
		Manager:         entry.ManagerContract,
		TotalShares:     entity.TotalShares,
		AvailableShares: snapshot.AvailableForSale,
		PricePerShare:   helper.WeiToEth(snapshot.PriceWei),
		Creator:         entry.FirstOwner,
	}, nil
}
