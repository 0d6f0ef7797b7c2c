// Package points scores accepted receipts. Scoring is a pure function of
// the receipt: no clock, no store, no randomness.
package points

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/entity"
)

var (
	one          = decimal.NewFromInt(1)
	quarter      = decimal.RequireFromString("0.25")
	descriptionX = decimal.RequireFromString(constants.DescriptionPriceMultiplier)
)

// RuleResult is one rule's contribution to a score.
type RuleResult struct {
	Rule   string `json:"rule"`
	Points int64  `json:"points"`
}

// Breakdown lists every rule in evaluation order together with their sum.
type Breakdown struct {
	Rules []RuleResult `json:"rules"`
	Total int64        `json:"points"`
}

type rule struct {
	name  string
	score func(entity.Receipt) int64
}

var rules = []rule{
	{constants.RuleRetailerAlphanumeric, retailerAlphanumeric},
	{constants.RuleRoundDollarTotal, roundDollarTotal},
	{constants.RuleQuarterMultiple, quarterMultipleTotal},
	{constants.RuleItemPairs, itemPairs},
	{constants.RuleDescriptionLength, descriptionLength},
	{constants.RuleOddPurchaseDay, oddPurchaseDay},
	{constants.RuleAfternoonPurchase, afternoonPurchase},
}

// Calculate returns the total points for r.
func Calculate(r entity.Receipt) int64 {
	return Explain(r).Total
}

// Explain evaluates each rule independently and reports its contribution.
func Explain(r entity.Receipt) Breakdown {
	out := Breakdown{Rules: make([]RuleResult, 0, len(rules))}
	for _, rl := range rules {
		p := rl.score(r)
		out.Rules = append(out.Rules, RuleResult{Rule: rl.name, Points: p})
		out.Total += p
	}
	return out
}

func retailerAlphanumeric(r entity.Receipt) int64 {
	var n int64
	for i := 0; i < len(r.Retailer); i++ {
		c := r.Retailer[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			n++
		}
	}
	return n
}

func roundDollarTotal(r entity.Receipt) int64 {
	total, ok := parseAmount(r.Total)
	if !ok || !total.Mod(one).IsZero() {
		return 0
	}
	return constants.RoundDollarPoints
}

func quarterMultipleTotal(r entity.Receipt) int64 {
	total, ok := parseAmount(r.Total)
	if !ok || !total.Mod(quarter).IsZero() {
		return 0
	}
	return constants.QuarterMultiplePoints
}

func itemPairs(r entity.Receipt) int64 {
	return int64(len(r.Items)/2) * constants.ItemPairPoints
}

func descriptionLength(r entity.Receipt) int64 {
	var sum int64
	for _, item := range r.Items {
		n := utf8.RuneCountInString(strings.TrimSpace(item.ShortDescription))
		if n%constants.DescriptionLengthDivisor != 0 {
			continue
		}
		price, ok := parseAmount(item.Price)
		if !ok {
			continue
		}
		sum += price.Mul(descriptionX).Ceil().IntPart()
	}
	return sum
}

func oddPurchaseDay(r entity.Receipt) int64 {
	if r.PurchaseDate.IsZero() || r.PurchaseDate.Day()%2 == 0 {
		return 0
	}
	return constants.OddDayPoints
}

func afternoonPurchase(r entity.Receipt) int64 {
	if r.PurchaseTime.IsZero() {
		return 0
	}
	m := r.PurchaseTime.Minutes()
	if m > constants.AfternoonStartMinute && m < constants.AfternoonEndMinute {
		return constants.AfternoonPoints
	}
	return 0
}

// parseAmount reads a money string. Anything decimal cannot parse, or a
// negative amount, is treated as absent.
func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
