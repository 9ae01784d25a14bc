package helper

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// FormatEthAmount renders an ETH amount with precision scaling by magnitude
// so tiny per-share prices stay distinguishable from zero. Thresholds:
// >=1e-4 four decimals, >=1e-6 six, >=1e-9 nine, anything smaller in
// exponential notation. Zero is a distinguished case.
func FormatEthAmount(amount float64) string {
	switch {
	case amount == 0:
		return "0"
	case amount >= 1e-4:
		return strconv.FormatFloat(amount, 'f', 4, 64)
	case amount >= 1e-6:
		return strconv.FormatFloat(amount, 'f', 6, 64)
	case amount >= 1e-9:
		return strconv.FormatFloat(amount, 'f', 9, 64)
	default:
		return strconv.FormatFloat(amount, 'e', 6, 64)
	}
}

// WeiToEth converts a wei amount to a full-precision decimal ETH string with
// trailing zeros stripped.
func WeiToEth(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}

	s := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).FloatString(18)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")

	return s
}

// WeiToEthFloat is a lossy conversion for display-side formatting.
func WeiToEthFloat(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}

	f, _ := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).Float64()
	return f
}

// EthToWei parses a decimal ETH string into wei. Amounts with more than 18
// decimal places are rejected rather than silently truncated.
func EthToWei(amount string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, errors.New("invalid eth amount: " + amount)
	}

	r.Mul(r, new(big.Rat).SetInt64(params.Ether))
	if !r.IsInt() {
		return nil, errors.New("eth amount exceeds 18 decimal places: " + amount)
	}

	return new(big.Int).Set(r.Num()), nil
}

func FormatAddress(address string) string {
	if len(address) < 10 {
		return address
	}

	return address[:6] + "..." + address[len(address)-4:]
}
