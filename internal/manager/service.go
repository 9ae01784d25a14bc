package manager

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/chain"
	"github.com/fractionft/fraction-marketplace/internal/contract"
	"github.com/fractionft/fraction-marketplace/internal/entity"
	"github.com/fractionft/fraction-marketplace/internal/helper"
	"go.uber.org/zap"
)

// ErrUnavailable marks a snapshot that could not be assembled because an
// essential read failed. Callers must treat it as "unknown", never as zero
// values.
var ErrUnavailable = errors.New("manager state unavailable")

type GasOptions struct {
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

type DeployParams struct {
	NftContract           common.Address
	TokenId               *big.Int
	PriceWei              *big.Int
	MaxSellablePercentage uint64
}

// Service is the typed facade over the Manager contract ABI: one function
// per on-chain operation, unit conversion included.
type Service interface {
	Snapshot(ctx context.Context, manager common.Address) (*entity.ManagerSnapshot, error)
	CalculateCost(ctx context.Context, percentage uint64, manager common.Address) (string, error)
	CalculateCostWei(ctx context.Context, percentage uint64, manager common.Address) (*big.Int, error)
	CanBuyPercentage(ctx context.Context, percentage uint64, manager common.Address) (bool, error)
	BuyShares(ctx context.Context, percentage uint64, manager common.Address, opts *GasOptions) entity.PurchaseResult
	EstimateGasForPurchase(ctx context.Context, percentage uint64, manager common.Address, from *common.Address) entity.GasEstimate
	OwnershipPercentage(ctx context.Context, owner, manager common.Address) (uint64, error)
	SharesBalance(ctx context.Context, account, manager common.Address) (*big.Int, error)
	SharesForPercentage(ctx context.Context, percentage uint64, manager common.Address) (*big.Int, error)
	ContractBalance(ctx context.Context, manager common.Address) (*big.Int, error)
	SharesTokenInfo(ctx context.Context, manager common.Address) (*entity.SharesTokenInfo, error)
	IsOwner(ctx context.Context, account, manager common.Address) (bool, error)
	Deploy(ctx context.Context, params DeployParams) (common.Address, common.Hash, error)
	TransferNFTToContract(ctx context.Context, manager common.Address) (common.Hash, error)
	SetRegistry(ctx context.Context, manager, registry common.Address) (common.Hash, error)
	UpdatePrice(ctx context.Context, manager common.Address, newPriceWei *big.Int) (common.Hash, error)
	UpdateMaxSellablePercentage(ctx context.Context, manager common.Address, percentage uint64) (common.Hash, error)
}

type service struct {
	client     chain.Client
	bytecode   BytecodeSource
	gasCeiling uint64
}

func NewService(client chain.Client, bytecode BytecodeSource, gasCeiling uint64) Service {
	return service{client, bytecode, gasCeiling}
}

// Snapshot issues the essential reads concurrently and assembles a
// point-in-time view. The owners list is optional; everything else failing
// makes the whole snapshot unavailable.
func (s service) Snapshot(ctx context.Context, manager common.Address) (*entity.ManagerSnapshot, error) {
	var (
		wg sync.WaitGroup

		info        []interface{}
		transferred []interface{}
		available   []interface{}
		owners      []interface{}

		infoErr, transferredErr, availableErr, ownersErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		info, infoErr = s.client.Read(ctx, manager, contract.Manager, "getNFTInfo")
	}()
	go func() {
		defer wg.Done()
		transferred, transferredErr = s.client.Read(ctx, manager, contract.Manager, "isNFTTransferred")
	}()
	go func() {
		defer wg.Done()
		available, availableErr = s.client.Read(ctx, manager, contract.Manager, "getAvailableForSale")
	}()
	go func() {
		defer wg.Done()
		owners, ownersErr = s.client.Read(ctx, manager, contract.Manager, "getAllOwners")
	}()
	wg.Wait()

	if infoErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, infoErr)
	}
	if transferredErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, transferredErr)
	}
	if availableErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, availableErr)
	}

	snapshot := &entity.ManagerSnapshot{
		Manager:          manager.Hex(),
		NftContract:      info[0].(common.Address).Hex(),
		TokenId:          info[1].(*big.Int).String(),
		FirstOwner:       info[2].(common.Address).Hex(),
		PriceWei:         info[3].(*big.Int),
		MaxSellable:      info[4].(*big.Int).Uint64(),
		TotalSold:        info[5].(*big.Int).Uint64(),
		NftTransferred:   transferred[0].(bool),
		AvailableForSale: available[0].(*big.Int).Uint64(),
		ShareHolders:     make([]entity.ShareHolder, 0),
	}

	if ownersErr != nil {
		zap.L().With(zap.Error(ownersErr), zap.String("manager", manager.Hex())).Debug("Manager: owners list unavailable")
		return snapshot, nil
	}

	addresses := owners[0].([]common.Address)
	percentages := owners[1].([]*big.Int)
	for i, addr := range addresses {
		if i >= len(percentages) {
			break
		}
		snapshot.ShareHolders = append(snapshot.ShareHolders, entity.ShareHolder{
			Address:    addr.Hex(),
			Percentage: percentages[i].Uint64(),
		})
	}

	return snapshot, nil
}

// CalculateCost delegates pricing entirely to the contract so the client can
// never disagree with what the chain will actually charge.
func (s service) CalculateCost(ctx context.Context, percentage uint64, manager common.Address) (string, error) {
	wei, err := s.CalculateCostWei(ctx, percentage, manager)
	if err != nil {
		return "", err
	}

	return helper.WeiToEth(wei), nil
}

func (s service) CalculateCostWei(ctx context.Context, percentage uint64, manager common.Address) (*big.Int, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "calculateCost", new(big.Int).SetUint64(percentage))
	if err != nil {
		return nil, err
	}

	return values[0].(*big.Int), nil
}

// CanBuyPercentage is a read-only dry run. The answer can go stale between
// the check and the purchase (other buyers race for the same supply), which
// is why BuyShares re-checks immediately before submitting.
func (s service) CanBuyPercentage(ctx context.Context, percentage uint64, manager common.Address) (bool, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "canBuyPercentage", new(big.Int).SetUint64(percentage))
	if err != nil {
		return false, err
	}

	return values[0].(bool), nil
}

func (s service) OwnershipPercentage(ctx context.Context, owner, manager common.Address) (uint64, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "getOwnershipPercentage", owner)
	if err != nil {
		return 0, err
	}

	return values[0].(*big.Int).Uint64(), nil
}

func (s service) SharesBalance(ctx context.Context, account, manager common.Address) (*big.Int, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "getSharesBalance", account)
	if err != nil {
		return nil, err
	}

	return values[0].(*big.Int), nil
}

func (s service) SharesForPercentage(ctx context.Context, percentage uint64, manager common.Address) (*big.Int, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "getSharesForPercentage", new(big.Int).SetUint64(percentage))
	if err != nil {
		return nil, err
	}

	return values[0].(*big.Int), nil
}

func (s service) ContractBalance(ctx context.Context, manager common.Address) (*big.Int, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "getContractBalance")
	if err != nil {
		return nil, err
	}

	return values[0].(*big.Int), nil
}

func (s service) IsOwner(ctx context.Context, account, manager common.Address) (bool, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "isOwner", account)
	if err != nil {
		return false, err
	}

	return values[0].(bool), nil
}

// SharesTokenInfo resolves the ERC-20 shares token behind a manager. Token
// detail reads are best-effort; a token that will not answer still yields
// its address.
func (s service) SharesTokenInfo(ctx context.Context, manager common.Address) (*entity.SharesTokenInfo, error) {
	values, err := s.client.Read(ctx, manager, contract.Manager, "getSharesTokenAddress")
	if err != nil {
		return nil, err
	}

	token := values[0].(common.Address)
	info := &entity.SharesTokenInfo{
		Address:     token.Hex(),
		Name:        "Unknown",
		Symbol:      "Unknown",
		Decimals:    18,
		TotalSupply: "0",
	}

	if name, err := s.client.Read(ctx, token, contract.Erc20, "name"); err == nil {
		info.Name = name[0].(string)
	}
	if symbol, err := s.client.Read(ctx, token, contract.Erc20, "symbol"); err == nil {
		info.Symbol = symbol[0].(string)
	}
	if decimals, err := s.client.Read(ctx, token, contract.Erc20, "decimals"); err == nil {
		info.Decimals = decimals[0].(uint8)
	}
	if supply, err := s.client.Read(ctx, token, contract.Erc20, "totalSupply"); err == nil {
		info.TotalSupply = helper.WeiToEth(supply[0].(*big.Int))
	}

	return info, nil
}

// Deploy submits the Manager creation transaction and blocks until the
// contract address is known from the receipt.
func (s service) Deploy(ctx context.Context, params DeployParams) (common.Address, common.Hash, error) {
	bytecode, err := s.bytecode.Creation(ctx)
	if err != nil {
		return common.Address{}, common.Hash{}, err
	}

	txHash, err := s.client.Deploy(ctx, contract.Manager, bytecode, chain.WriteOpts{},
		params.NftContract,
		params.TokenId,
		params.PriceWei,
		new(big.Int).SetUint64(params.MaxSellablePercentage),
	)
	if err != nil {
		return common.Address{}, common.Hash{}, err
	}

	receipt, err := s.client.WaitForReceipt(ctx, txHash)
	if err != nil {
		return common.Address{}, txHash, err
	}

	if receipt.ContractAddress == (common.Address{}) {
		return common.Address{}, txHash, errors.New("no contract address in receipt")
	}

	zap.L().With(
		zap.String("manager", receipt.ContractAddress.Hex()),
		zap.String("txHash", txHash.Hex()),
	).Info("Manager: deployed")

	return receipt.ContractAddress, txHash, nil
}

func (s service) TransferNFTToContract(ctx context.Context, manager common.Address) (common.Hash, error) {
	return s.writeAndWait(ctx, manager, "transferNFTToContract")
}

func (s service) SetRegistry(ctx context.Context, manager, registry common.Address) (common.Hash, error) {
	return s.writeAndWait(ctx, manager, "setNFTRegistry", registry)
}

func (s service) UpdatePrice(ctx context.Context, manager common.Address, newPriceWei *big.Int) (common.Hash, error) {
	return s.writeAndWait(ctx, manager, "updatePrice", newPriceWei)
}

func (s service) UpdateMaxSellablePercentage(ctx context.Context, manager common.Address, percentage uint64) (common.Hash, error) {
	return s.writeAndWait(ctx, manager, "updateMaxSellablePercentage", new(big.Int).SetUint64(percentage))
}

func (s service) writeAndWait(ctx context.Context, manager common.Address, method string, args ...interface{}) (common.Hash, error) {
	txHash, err := s.client.Write(ctx, manager, contract.Manager, method, chain.WriteOpts{}, args...)
	if err != nil {
		return common.Hash{}, err
	}

	if _, err := s.client.WaitForReceipt(ctx, txHash); err != nil {
		return txHash, err
	}

	return txHash, nil
}
