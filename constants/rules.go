package constants

// Rule names reported in a points breakdown.
const (
	RuleRetailerAlphanumeric = "retailer_alphanumeric"
	RuleRoundDollarTotal     = "round_dollar_total"
	RuleQuarterMultiple      = "quarter_multiple_total"
	RuleItemPairs            = "item_pairs"
	RuleDescriptionLength    = "description_length"
	RuleOddPurchaseDay       = "odd_purchase_day"
	RuleAfternoonPurchase    = "afternoon_purchase"
)

// Point values.
const (
	RoundDollarPoints     = 50
	QuarterMultiplePoints = 25
	ItemPairPoints        = 5
	OddDayPoints          = 6
	AfternoonPoints       = 10
)

// Afternoon window, minutes since midnight, both bounds exclusive.
const (
	AfternoonStartMinute = 14 * 60
	AfternoonEndMinute   = 16 * 60
)

// DescriptionLengthDivisor and DescriptionPriceMultiplier drive the
// per-item description bonus.
const (
	DescriptionLengthDivisor   = 3
	DescriptionPriceMultiplier = "0.2"
)
