package manager

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/chain"
	"github.com/fractionft/fraction-marketplace/internal/contract"
	"github.com/fractionft/fraction-marketplace/internal/entity"
	"github.com/fractionft/fraction-marketplace/internal/event"
	"github.com/fractionft/fraction-marketplace/internal/helper"
	"go.uber.org/zap"
)

// BuyShares re-validates purchasability and recomputes the exact wei cost
// immediately before submitting, narrowing the window in which another buyer
// can take the supply out from under us. Failures are classified into a
// result, never raised; a reverted purchase is the caller's to resubmit.
func (s service) BuyShares(ctx context.Context, percentage uint64, manager common.Address, opts *GasOptions) entity.PurchaseResult {
	canBuy, err := s.CanBuyPercentage(ctx, percentage, manager)
	if err != nil {
		return entity.PurchaseResult{Success: false, Error: classifyPurchaseError(err)}
	}
	if !canBuy {
		return entity.PurchaseResult{Success: false, Error: "cannot buy this percentage"}
	}

	costWei, err := s.CalculateCostWei(ctx, percentage, manager)
	if err != nil {
		return entity.PurchaseResult{Success: false, Error: "could not calculate cost"}
	}

	writeOpts := chain.WriteOpts{Value: costWei, GasLimit: s.gasCeiling}
	if opts != nil {
		if opts.GasLimit != 0 {
			writeOpts.GasLimit = opts.GasLimit
		}
		writeOpts.MaxFeePerGas = opts.MaxFeePerGas
		writeOpts.MaxPriorityFeePerGas = opts.MaxPriorityFeePerGas
	}

	txHash, err := s.client.Write(ctx, manager, contract.Manager, "buyPercentage", writeOpts, new(big.Int).SetUint64(percentage))
	if err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("manager", manager.Hex()),
			zap.Uint64("percentage", percentage),
		).Warn("Manager: purchase failed")

		return entity.PurchaseResult{Success: false, Error: classifyPurchaseError(err)}
	}

	zap.L().With(
		zap.String("manager", manager.Hex()),
		zap.Uint64("percentage", percentage),
		zap.String("cost", helper.WeiToEth(costWei)),
		zap.String("txHash", txHash.Hex()),
	).Info("Manager: shares purchased")

	event.EmitEvent(event.SharesPurchasedEvent, entity.PurchaseResult{Success: true, TxHash: txHash.Hex()})

	return entity.PurchaseResult{Success: true, TxHash: txHash.Hex()}
}

// EstimateGasForPurchase is advisory. When estimation fails the purchase
// path stays open; only the gas-cost hint is lost.
func (s service) EstimateGasForPurchase(ctx context.Context, percentage uint64, manager common.Address, from *common.Address) entity.GasEstimate {
	costWei, err := s.CalculateCostWei(ctx, percentage, manager)
	if err != nil {
		return entity.GasEstimate{GasCostEth: "0", Error: "could not calculate purchase cost"}
	}

	gas, err := s.client.EstimateContractGas(ctx, from, manager, contract.Manager, "buyPercentage", costWei, new(big.Int).SetUint64(percentage))
	if err != nil {
		return entity.GasEstimate{GasCostEth: "0", Error: err.Error()}
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return entity.GasEstimate{GasEstimate: gas, GasCostEth: "0", Error: err.Error()}
	}

	gasCost := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)

	return entity.GasEstimate{GasEstimate: gas, GasCostEth: helper.WeiToEth(gasCost)}
}

// classifyPurchaseError maps the error text onto an actionable message.
// Known substrings come from node and wallet implementations in the wild.
func classifyPurchaseError(err error) string {
	if errors.Is(err, chain.ErrWalletNotConnected) {
		return "wallet not connected"
	}

	message := err.Error()
	switch {
	case strings.Contains(message, "insufficient funds"):
		return "insufficient funds for transaction + gas fees"
	case strings.Contains(message, "execution reverted"):
		return "transaction would fail - contract rejected the purchase"
	case strings.Contains(message, "gas"):
		return "gas-related error: " + message
	default:
		return message
	}
}
