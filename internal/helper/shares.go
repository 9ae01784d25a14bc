package helper

import (
	"fmt"

	"github.com/fractionft/fraction-marketplace/internal/entity"
)

func FormatPercentage(percentage uint64) string {
	return fmt.Sprintf("%d%%", percentage)
}

// SharesFromPercentage and PercentageFromShares map between the two unit
// names. With the share supply fixed at 100 they are the identity, kept as
// functions so the convention lives in one place.
func SharesFromPercentage(percentage uint64) uint64 {
	return percentage * entity.TotalShares / 100
}

func PercentageFromShares(shares uint64) uint64 {
	return shares * 100 / entity.TotalShares
}
