package pipeline

import "wrangle/pkg/data"

// Columns of the mall_customers dataset.
const (
	ColGender        = "gender"
	ColAge           = "age"
	ColAnnualIncome  = "annual_income"
	ColSpendingScore = "spending_score"
	ColMale          = "Male"
)

// ColLandUseType is the zillow property-type identifier.
const ColLandUseType = "propertylandusetypeid"

// MallSchema lists the mall columns the pipeline reads.
var MallSchema = data.Schema{
	{Name: ColGender, Kind: data.Categorical},
	{Name: ColAge, Kind: data.Numeric},
	{Name: ColAnnualIncome, Kind: data.Numeric},
	{Name: ColSpendingScore, Kind: data.Numeric},
}

// ZillowSchema lists the zillow columns the pipeline reads.
var ZillowSchema = data.Schema{
	{Name: ColLandUseType, Kind: data.Numeric},
}

// SingleUnitLandUseTypes are the property-type ids treated as single-unit
// properties.
var SingleUnitLandUseTypes = []int{260, 261, 263, 273, 275, 276, 279}

// Hints pin column kinds that inference could get wrong when reading either
// dataset back from a cache.
var Hints = map[string]data.Kind{
	ColGender:      data.Categorical,
	ColLandUseType: data.Numeric,
}
