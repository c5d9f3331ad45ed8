package catalog

import "strings"

const (
	CitizenshipID = 1
	IncomeTypeID  = 2
	LoanAmountID  = 3
)

const (
	VariantFull  = "full"
	VariantBasic = "basic"
)

func citizenship() Definition {
	return Definition{
		Kind: KindChoice,
		ID:   CitizenshipID,
		Name: "Citizenship",
		Options: []Option{
			{ID: 1, Label: "US Citizen / Permanent Resident"},
			{ID: 2, Label: "Non-Permanent Resident"},
			{ID: 3, Label: "Foreign national"},
			{ID: 727, Label: "ITIN"},
		},
	}
}

func incomeType() Definition {
	return Definition{
		Kind: KindChoice,
		ID:   IncomeTypeID,
		Name: "Income Type",
		Options: []Option{
			{ID: 4, Label: "Asset Utilization"},
			{ID: 5, Label: "12 Months Bank Statement"},
			{ID: 6, Label: "24 Months Bank Statement"},
			{ID: 7, Label: "1Y P&L"},
			{ID: 8, Label: "2Y P&L"},
			{ID: 9, Label: "1Y Full Doc"},
			{ID: 10, Label: "2Y Full Doc"},
			{ID: 11, Label: "WVOE"},
			{ID: 12, Label: "DSCR 1.00 - 1.24"},
			{ID: 167, Label: "1099"},
			{ID: 502, Label: "DSCR 0.75-0.99"},
			{ID: 503, Label: "DSCR < 0.75"},
			{ID: 857, Label: "DSCR >= 1.25"},
		},
	}
}

func loanAmount() Definition {
	return Definition{
		Kind:    KindRange,
		ID:      LoanAmountID,
		Name:    "Loan Amount",
		Min:     SliderMin,
		Max:     SliderMax,
		Step:    SliderStep,
		Default: Ptr("500000"),
	}
}

// Full is the mortgage filter catalog: two choice filters and the loan amount range.
func Full() Catalog {
	return New(citizenship(), incomeType(), loanAmount())
}

// Basic is the choice-only catalog without the loan amount slider.
func Basic() Catalog {
	return New(citizenship(), incomeType())
}

// ForVariant maps a config value to a catalog, falling back to Full.
func ForVariant(name string) Catalog {
	if strings.EqualFold(strings.TrimSpace(name), VariantBasic) {
		return Basic()
	}
	return Full()
}
