package helper_test

import (
	"math/big"
	"testing"

	"github.com/fractionft/fraction-marketplace/internal/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEthAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"zero", 0, "0"},
		{"whole", 1.5, "1.5000"},
		{"four decimals", 0.0001, "0.0001"},
		{"six decimals", 0.00005, "0.000050"},
		{"nine decimals", 0.0000005, "0.000000500"},
		{"exponential", 0.0000000001, "1.000000e-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, helper.FormatEthAmount(tt.amount))
		})
	}
}

func TestWeiToEth(t *testing.T) {
	assert.Equal(t, "0", helper.WeiToEth(nil))
	assert.Equal(t, "0", helper.WeiToEth(big.NewInt(0)))
	assert.Equal(t, "1", helper.WeiToEth(big.NewInt(1e18)))
	assert.Equal(t, "0.5", helper.WeiToEth(big.NewInt(5e17)))
	assert.Equal(t, "0.000000000000000001", helper.WeiToEth(big.NewInt(1)))

	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1.5", helper.WeiToEth(wei))
}

func TestEthToWei(t *testing.T) {
	wei, err := helper.EthToWei("1")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", wei.String())

	wei, err = helper.EthToWei("0.5")
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", wei.String())

	_, err = helper.EthToWei("not-a-number")
	assert.Error(t, err)

	_, err = helper.EthToWei("0.0000000000000000001")
	assert.Error(t, err)
}

func TestEthToWeiRoundTrip(t *testing.T) {
	for _, amount := range []string{"1", "0.25", "0.000001", "123.456789"} {
		wei, err := helper.EthToWei(amount)
		require.NoError(t, err)
		assert.Equal(t, amount, helper.WeiToEth(wei))
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "0x1234...cdef", helper.FormatAddress("0x1234567890abcdef1234567890abcdef1234cdef"))
	assert.Equal(t, "0x12", helper.FormatAddress("0x12"))
}
