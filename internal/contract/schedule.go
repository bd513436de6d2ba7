package contract

import (
	"github.com/shopspring/decimal"
)

// Installment is one payment in the contract schedule. Amount is nil when
// the quote has no price.
type Installment struct {
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Percentage  string           `json:"percentage"`
	Amount      *decimal.Decimal `json:"amount"`
}

type installmentPlan struct {
	label       string
	share       decimal.Decimal
	description string
}

var paymentPlan = []installmentPlan{
	{"งวดที่ 1", decimal.RequireFromString("0.30"), "ชำระ 30% เมื่อเซ็นสัญญาก่อสร้าง"},
	{"งวดที่ 2", decimal.RequireFromString("0.40"), "ชำระ 40% เมื่อก่อสร้างโครงสร้างแล้วเสร็จ"},
	{"งวดที่ 3", decimal.RequireFromString("0.30"), "ชำระ 30% ก่อนส่งมอบงานก่อสร้าง"},
}

var hundred = decimal.NewFromInt(100)

// HasPrice treats zero like a missing price.
func HasPrice(price *decimal.Decimal) bool {
	return price != nil && !price.IsZero()
}

// BuildSchedule splits price 30/40/30. Amounts round half up to cents and
// percentage labels to whole numbers.
func BuildSchedule(price *decimal.Decimal) []Installment {
	schedule := make([]Installment, 0, len(paymentPlan))
	for _, plan := range paymentPlan {
		installment := Installment{
			Label:       plan.label,
			Description: plan.description,
			Percentage:  plan.share.Mul(hundred).Round(0).String() + "%",
		}
		if HasPrice(price) {
			amount := price.Mul(plan.share).Round(2)
			installment.Amount = &amount
		}
		schedule = append(schedule, installment)
	}
	return schedule
}
