package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Backend is the subset of the Ethereum RPC surface the marketplace uses.
// *ethclient.Client satisfies it; tests provide doubles.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// WriteOpts carries the optional gas overrides a caller may supply with a
// write. A zero GasLimit means "estimate first", which doubles as the
// simulate-then-send dry run.
type WriteOpts struct {
	Value                *big.Int
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

type Client interface {
	Read(ctx context.Context, contract common.Address, cabi abi.ABI, method string, args ...interface{}) ([]interface{}, error)
	Write(ctx context.Context, contract common.Address, cabi abi.ABI, method string, opts WriteOpts, args ...interface{}) (common.Hash, error)
	Deploy(ctx context.Context, cabi abi.ABI, bytecode []byte, opts WriteOpts, args ...interface{}) (common.Hash, error)
	EstimateContractGas(ctx context.Context, from *common.Address, contract common.Address, cabi abi.ABI, method string, value *big.Int, args ...interface{}) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Account() (common.Address, bool)
}

type client struct {
	backend        Backend
	wallet         *Wallet
	chainID        *big.Int
	receiptTimeout time.Duration
	pollInterval   time.Duration
}

func NewClient(backend Backend, wallet *Wallet, chainID *big.Int, receiptTimeout, pollInterval time.Duration) Client {
	return client{backend, wallet, chainID, receiptTimeout, pollInterval}
}

// Dial initialises an EVM RPC client for the provided endpoint.
func Dial(endpoint string) (*ethclient.Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errors.New("eth endpoint required")
	}

	return ethclient.Dial(trimmed)
}

func (c client) Account() (common.Address, bool) {
	if c.wallet == nil {
		return common.Address{}, false
	}

	return c.wallet.Address(), true
}

func (c client) Read(ctx context.Context, contract common.Address, cabi abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := cabi.Pack(method, args...)
	if err != nil {
		return nil, ReadError{Contract: contract, Method: method, Err: err}
	}

	zap.L().With(zap.String("contract", contract.Hex()), zap.String("method", method)).Debug("Eth: contract read")

	output, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, ReadError{Contract: contract, Method: method, Err: err}
	}

	if len(output) == 0 {
		code, codeErr := c.backend.CodeAt(ctx, contract, nil)
		if codeErr == nil && len(code) == 0 {
			return nil, ReadError{Contract: contract, Method: method, Err: errors.New("no contract code at address")}
		}

		return nil, ReadError{Contract: contract, Method: method, Err: errors.New("empty call result")}
	}

	values, err := cabi.Unpack(method, output)
	if err != nil {
		return nil, ReadError{Contract: contract, Method: method, Err: err}
	}

	return values, nil
}

func (c client) Write(ctx context.Context, contract common.Address, cabi abi.ABI, method string, opts WriteOpts, args ...interface{}) (common.Hash, error) {
	data, err := cabi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, WriteError{Contract: contract, Method: method, Err: err}
	}

	txHash, err := c.submit(ctx, &contract, data, opts)
	if err != nil {
		return common.Hash{}, WriteError{Contract: contract, Method: method, Err: err}
	}

	zap.L().With(
		zap.String("contract", contract.Hex()),
		zap.String("method", method),
		zap.String("txHash", txHash.Hex()),
	).Info("Eth: transaction submitted")

	return txHash, nil
}

func (c client) Deploy(ctx context.Context, cabi abi.ABI, bytecode []byte, opts WriteOpts, args ...interface{}) (common.Hash, error) {
	ctorArgs, err := cabi.Pack("", args...)
	if err != nil {
		return common.Hash{}, WriteError{Method: "deploy", Err: err}
	}

	data := append(append([]byte{}, bytecode...), ctorArgs...)

	txHash, err := c.submit(ctx, nil, data, opts)
	if err != nil {
		return common.Hash{}, WriteError{Method: "deploy", Err: err}
	}

	zap.L().With(zap.String("txHash", txHash.Hex())).Info("Eth: deployment submitted")

	return txHash, nil
}

func (c client) EstimateContractGas(ctx context.Context, from *common.Address, contract common.Address, cabi abi.ABI, method string, value *big.Int, args ...interface{}) (uint64, error) {
	data, err := cabi.Pack(method, args...)
	if err != nil {
		return 0, ReadError{Contract: contract, Method: method, Err: err}
	}

	msg := ethereum.CallMsg{To: &contract, Data: data, Value: value}
	if from != nil {
		msg.From = *from
	} else if c.wallet != nil {
		msg.From = c.wallet.Address()
	}

	gas, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return 0, ReadError{Contract: contract, Method: method, Err: err}
	}

	return gas, nil
}

func (c client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.backend.SuggestGasPrice(ctx)
}

func (c client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	started := time.Now()
	deadline := started.Add(c.receiptTimeout)

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return nil, RevertedError{TxHash: txHash}
			}

			return receipt, nil
		}

		if err != nil && !errors.Is(err, ethereum.NotFound) {
			zap.L().With(zap.Error(err), zap.String("txHash", txHash.Hex())).Debug("Eth: receipt poll failure")
		}

		if time.Now().After(deadline) {
			return nil, TimeoutError{TxHash: txHash, Waited: time.Since(started)}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt of %s: %w", txHash.Hex(), ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

// submit signs and sends an EIP-1559 transaction. Estimation happens here
// when no gas limit was supplied, so a reverting call fails before any gas
// is spent.
func (c client) submit(ctx context.Context, to *common.Address, data []byte, opts WriteOpts) (common.Hash, error) {
	if c.wallet == nil {
		return common.Hash{}, ErrWalletNotConnected
	}

	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		msg := ethereum.CallMsg{From: c.wallet.Address(), To: to, Data: data, Value: opts.Value}
		estimated, err := c.backend.EstimateGas(ctx, msg)
		if err != nil {
			return common.Hash{}, err
		}
		gasLimit = estimated
	}

	tipCap := opts.MaxPriorityFeePerGas
	if tipCap == nil {
		suggested, err := c.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return common.Hash{}, err
		}
		tipCap = suggested
	}

	feeCap := opts.MaxFeePerGas
	if feeCap == nil {
		gasPrice, err := c.backend.SuggestGasPrice(ctx)
		if err != nil {
			return common.Hash{}, err
		}
		feeCap = new(big.Int).Add(new(big.Int).Mul(gasPrice, big.NewInt(2)), tipCap)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.wallet.Address())
	if err != nil {
		return common.Hash{}, err
	}

	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        to,
		Value:     value,
		Data:      data,
	})

	signed, err := c.wallet.SignTx(tx, c.chainID)
	if err != nil {
		return common.Hash{}, err
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}

	return signed.Hash(), nil
}
