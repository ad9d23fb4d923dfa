// Package marketing prices grain production: contracted bushels at
// their locked prices, the balance at the sensitized futures price
// plus the assumed basis.
package marketing

import (
	"time"

	"farmbudget/pkg/core/utils"
	"farmbudget/pkg/models"
)

// ContractedFutures sums futures-contract bushels dated on or before
// the model run date.
func ContractedFutures(mc *models.MarketCrop, runDate time.Time) float64 {
	total := 0.0
	for _, c := range mc.Contracts {
		if !c.IsBasis && !c.ContractDate.After(runDate) {
			total += c.Bushels
		}
	}
	return total
}

// ContractedBasis sums basis-contract bushels dated on or before the
// model run date.
func ContractedBasis(mc *models.MarketCrop, runDate time.Time) float64 {
	total := 0.0
	for _, c := range mc.Contracts {
		if c.IsBasis && !c.ContractDate.After(runDate) {
			total += c.Bushels
		}
	}
	return total
}

// AvgFuturesContractPrice is the bushel-weighted average locked futures
// price over contracts in effect at the run date, zero if none.
func AvgFuturesContractPrice(mc *models.MarketCrop, runDate time.Time) float64 {
	bushels, dollars := 0.0, 0.0
	for _, c := range mc.Contracts {
		if !c.IsBasis && !c.ContractDate.After(runDate) {
			bushels += c.Bushels
			dollars += c.Bushels * c.Price
		}
	}
	return utils.SafeDiv(dollars, bushels)
}

// AvgBasisContractPrice is the bushel-weighted average locked basis
// over basis contracts in effect at the run date, zero if none.
func AvgBasisContractPrice(mc *models.MarketCrop, runDate time.Time) float64 {
	bushels, dollars := 0.0, 0.0
	for _, c := range mc.Contracts {
		if c.IsBasis && !c.ContractDate.After(runDate) {
			bushels += c.Bushels
			dollars += c.Bushels * c.Price
		}
	}
	return utils.SafeDiv(dollars, bushels)
}

// ExpectedTotalBushels is the market crop's production at the given
// yield factor, summed over its farm crops.
func ExpectedTotalBushels(mc *models.MarketCrop, yf float64) float64 {
	total := 0.0
	for _, fc := range mc.FarmCrops {
		total += fc.PlantedAcres * fc.SensFarmExpectedYield(yf)
	}
	return total
}

// ProductionFrac is the farm crop's share of its market crop's
// production at the given yield factor.
func ProductionFrac(mc *models.MarketCrop, fc *models.FarmCrop, yf float64) float64 {
	return utils.SafeDiv(fc.PlantedAcres*fc.SensFarmExpectedYield(yf),
		ExpectedTotalBushels(mc, yf))
}

// acresShare is the farm crop's share of its market crop's planted
// acres, the basis for apportioning market-level contracts.
func acresShare(mc *models.MarketCrop, fc *models.FarmCrop) float64 {
	total := 0.0
	for _, c := range mc.FarmCrops {
		total += c.PlantedAcres
	}
	return utils.SafeDiv(fc.PlantedAcres, total)
}

// SensHarvestPrice is the cash price applied to uncontracted bushels:
// sensitized harvest futures plus the assumed basis.
func SensHarvestPrice(mc *models.MarketCrop, pf float64) float64 {
	return mc.HarvestFuturesPrice*pf + mc.AssumedBasisForNew
}

// NonContractRevenue values the crop's uncontracted balance at the
// sensitivity point: the futures balance at the sensitized futures
// price, the basis balance at the assumed basis. A balance goes
// negative when contracts exceed production; the over-sold bushels are
// then bought back at the market level.
func NonContractRevenue(mc *models.MarketCrop, fc *models.FarmCrop, runDate time.Time, pf, yf float64) float64 {
	production := fc.PlantedAcres * fc.SensFarmExpectedYield(yf)
	share := acresShare(mc, fc)
	futBu := production - ContractedFutures(mc, runDate)*share
	basisBu := production - ContractedBasis(mc, runDate)*share
	return futBu*mc.HarvestFuturesPrice*pf + basisBu*mc.AssumedBasisForNew
}

// GrainRevenue values one farm crop's production at the run date and
// sensitivity point. The futures and basis legs are priced separately:
// each leg pays the locked contract average on contracted bushels and
// the market level (sensitized futures, assumed basis) on the balance.
func GrainRevenue(mc *models.MarketCrop, fc *models.FarmCrop, runDate time.Time, pf, yf float64) float64 {
	share := acresShare(mc, fc)
	return ContractedFutures(mc, runDate)*share*AvgFuturesContractPrice(mc, runDate) +
		ContractedBasis(mc, runDate)*share*AvgBasisContractPrice(mc, runDate) +
		NonContractRevenue(mc, fc, runDate, pf, yf)
}

// FuturesPctOfExpected reports the fraction of expected production
// already priced with futures contracts, a marketing dashboard figure.
func FuturesPctOfExpected(mc *models.MarketCrop, runDate time.Time, yf float64) float64 {
	return utils.SafeDiv(ContractedFutures(mc, runDate), ExpectedTotalBushels(mc, yf))
}
