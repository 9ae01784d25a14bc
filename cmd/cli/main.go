package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/config"
	"github.com/fractionft/fraction-marketplace/internal/config/di"
	"github.com/fractionft/fraction-marketplace/internal/helper"
	"github.com/fractionft/fraction-marketplace/internal/listing"
	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var container *di.Container

func main() {
	config.Init()

	var err error
	container, err = di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	app := &cli.App{
		Name:  "fraction",
		Usage: "fractional NFT marketplace operations",
		Commands: []*cli.Command{
			{
				Name:   "marketplace",
				Usage:  "Show all active marketplace listings",
				Action: showMarketplace,
			},
			{
				Name:   "snapshot",
				Usage:  "Show the full state of a manager contract",
				Action: showSnapshot,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "manager", Required: true, Usage: "Manager contract address"},
				},
			},
			{
				Name:   "cost",
				Usage:  "Calculate the cost of buying a percentage",
				Action: showCost,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "manager", Required: true, Usage: "Manager contract address"},
					&cli.Uint64Flag{Name: "percentage", Required: true, Usage: "Percentage to price (1-100)"},
				},
			},
			{
				Name:   "estimate-gas",
				Usage:  "Estimate gas for a share purchase",
				Action: estimateGas,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "manager", Required: true, Usage: "Manager contract address"},
					&cli.Uint64Flag{Name: "percentage", Required: true, Usage: "Percentage to buy (1-100)"},
				},
			},
			{
				Name:   "buy",
				Usage:  "Buy a percentage of an NFT",
				Action: buyShares,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "manager", Required: true, Usage: "Manager contract address"},
					&cli.Uint64Flag{Name: "percentage", Required: true, Usage: "Percentage to buy (1-100)"},
					&cli.Uint64Flag{Name: "gas-limit", Value: 0, Usage: "Gas limit override"},
				},
			},
			{
				Name:   "list",
				Usage:  "List an NFT for fractional sale",
				Action: listNft,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "nft", Required: true, Usage: "NFT contract address"},
					&cli.StringFlag{Name: "token-id", Required: true, Usage: "Token id"},
					&cli.StringFlag{Name: "price", Required: true, Usage: "Price per percentage point, in ETH"},
					&cli.Uint64Flag{Name: "max-sellable", Value: 100, Usage: "Maximum sellable percentage"},
				},
			},
			{
				Name:   "my-nfts",
				Usage:  "Show NFTs owned by an address",
				Action: showOwnedNfts,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true, Usage: "Owner address"},
				},
			},
			{
				Name:   "shared-nfts",
				Usage:  "Show NFTs an address has listed for fractional sale",
				Action: showSharedNfts,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true, Usage: "Owner address"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to run command")
	}
}

func showMarketplace(c *cli.Context) error {
	items, err := container.GetAggregator().Items(context.Background())
	if err != nil {
		return err
	}

	return printJson(items)
}

func showSnapshot(c *cli.Context) error {
	managerAddr, err := parseAddress(c.String("manager"))
	if err != nil {
		return err
	}

	snapshot, err := container.GetManagerService().Snapshot(context.Background(), managerAddr)
	if err != nil {
		return err
	}

	return printJson(snapshot)
}

func showCost(c *cli.Context) error {
	managerAddr, err := parseAddress(c.String("manager"))
	if err != nil {
		return err
	}

	cost, err := container.GetManagerService().CalculateCost(context.Background(), c.Uint64("percentage"), managerAddr)
	if err != nil {
		return err
	}

	fmt.Printf("%s ETH\n", cost)

	return nil
}

func estimateGas(c *cli.Context) error {
	managerAddr, err := parseAddress(c.String("manager"))
	if err != nil {
		return err
	}

	estimate := container.GetManagerService().EstimateGasForPurchase(context.Background(), c.Uint64("percentage"), managerAddr, nil)

	return printJson(estimate)
}

func buyShares(c *cli.Context) error {
	managerAddr, err := parseAddress(c.String("manager"))
	if err != nil {
		return err
	}

	var opts *manager.GasOptions
	if gasLimit := c.Uint64("gas-limit"); gasLimit != 0 {
		opts = &manager.GasOptions{GasLimit: gasLimit}
	}

	result := container.GetManagerService().BuyShares(context.Background(), c.Uint64("percentage"), managerAddr, opts)
	if err := printJson(result); err != nil {
		return err
	}

	if !result.Success {
		return cli.Exit("purchase failed", 1)
	}

	return nil
}

func listNft(c *cli.Context) error {
	nftContract, err := parseAddress(c.String("nft"))
	if err != nil {
		return err
	}

	tokenId, ok := new(big.Int).SetString(c.String("token-id"), 10)
	if !ok {
		return errors.New("invalid token id: " + c.String("token-id"))
	}

	priceWei, err := helper.EthToWei(c.String("price"))
	if err != nil {
		return err
	}

	result, err := container.GetListingService().List(context.Background(), listing.Params{
		NftContract:           nftContract,
		TokenId:               tokenId,
		PriceWei:              priceWei,
		MaxSellablePercentage: c.Uint64("max-sellable"),
	}, func(p listing.Progress) {
		fmt.Printf("[%s] %s", p.Step, p.Status)
		if p.TxHash != "" {
			fmt.Printf(" tx=%s", p.TxHash)
		}
		if p.Message != "" {
			fmt.Printf(" %s", p.Message)
		}
		fmt.Println()
	})
	if err != nil {
		return err
	}

	fmt.Printf("Listed. Manager contract: %s\n", result.Manager.Hex())

	return nil
}

func showOwnedNfts(c *cli.Context) error {
	owner, err := parseAddress(c.String("owner"))
	if err != nil {
		return err
	}

	nfts, err := container.GetTokenService().FetchOwnedNFTs(context.Background(), owner)
	if err != nil {
		return err
	}

	return printJson(nfts)
}

func showSharedNfts(c *cli.Context) error {
	owner, err := parseAddress(c.String("owner"))
	if err != nil {
		return err
	}

	nfts, err := container.GetTokenService().FetchSharedNFTs(context.Background(), owner)
	if err != nil {
		return err
	}

	return printJson(nfts)
}

func parseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, errors.New("invalid address: " + raw)
	}

	return common.HexToAddress(raw), nil
}

func printJson(payload interface{}) error {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(encoded))

	return nil
}
