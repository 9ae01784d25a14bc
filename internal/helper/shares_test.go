package helper_test

import (
	"testing"

	"github.com/fractionft/fraction-marketplace/internal/helper"
	"github.com/stretchr/testify/assert"
)

func TestSharesPercentageIdentity(t *testing.T) {
	for _, p := range []uint64{1, 25, 50, 100} {
		assert.Equal(t, p, helper.PercentageFromShares(helper.SharesFromPercentage(p)))
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "25%", helper.FormatPercentage(25))
	assert.Equal(t, "100%", helper.FormatPercentage(100))
}
