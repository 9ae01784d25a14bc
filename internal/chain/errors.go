package chain

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var ErrWalletNotConnected = errors.New("wallet not connected")

// ReadError covers a reverted call, an address with no code, and transport
// failure. Reads are never retried here; the caller decides.
type ReadError struct {
	Contract common.Address
	Method   string
	Err      error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("contract read %s on %s: %s", e.Method, e.Contract.Hex(), e.Err)
}

func (e ReadError) Unwrap() error {
	return e.Err
}

type WriteError struct {
	Contract common.Address
	Method   string
	Err      error
}

func (e WriteError) Error() string {
	return fmt.Sprintf("contract write %s on %s: %s", e.Method, e.Contract.Hex(), e.Err)
}

func (e WriteError) Unwrap() error {
	return e.Err
}

// TimeoutError means the transaction was not seen mined within the bounded
// wait. It is distinct from RevertedError: the transaction may still land.
type TimeoutError struct {
	TxHash common.Hash
	Waited time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for receipt of %s", e.Waited, e.TxHash.Hex())
}

// RevertedError means the transaction was mined and failed.
type RevertedError struct {
	TxHash common.Hash
}

func (e RevertedError) Error() string {
	return fmt.Sprintf("transaction %s reverted", e.TxHash.Hex())
}
