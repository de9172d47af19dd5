package rates

import "fmt"

// Warnings reports values that are accepted but unlikely to be intended, such
// as percentages outside 0–100. They never block a calculation.
func Warnings(c Configuration) []string {
	var warnings []string

	for _, state := range c.States {
		if outOfPercentRange(state.ChurchTaxRate) {
			warnings = append(warnings, fmt.Sprintf("State '%s' church tax rate %.2f%% is outside 0-100", state.Key, state.ChurchTaxRate))
		}
	}

	for _, tc := range c.TaxClasses {
		if outOfPercentRange(tc.ExtraDeductionPercent) {
			warnings = append(warnings, fmt.Sprintf("Tax class '%s' extra deduction %.2f%% is outside 0-100", tc.Key, tc.ExtraDeductionPercent))
		}
		if tc.AllowanceAmount < 0 {
			warnings = append(warnings, fmt.Sprintf("Tax class '%s' allowance %.2f is negative and raises taxable income", tc.Key, tc.AllowanceAmount))
		}
	}

	for _, t := range InsuranceTypes {
		entry, _ := c.SocialInsurance.Entry(t)
		if outOfPercentRange(entry.EmployeeRate) {
			warnings = append(warnings, fmt.Sprintf("Social insurance '%s' employee rate %.3f%% is outside 0-100", t, entry.EmployeeRate))
		}
	}

	settings := c.TaxSettings
	if settings.BasicAllowance < 0 {
		warnings = append(warnings, fmt.Sprintf("Basic allowance %.2f is negative", settings.BasicAllowance))
	}
	if settings.SingleParentAllowance < 0 {
		warnings = append(warnings, fmt.Sprintf("Single parent allowance %.2f is negative", settings.SingleParentAllowance))
	}
	if settings.MarriedAllowanceMultiplier < 0 {
		warnings = append(warnings, fmt.Sprintf("Married allowance multiplier %.2f is negative", settings.MarriedAllowanceMultiplier))
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}

func outOfPercentRange(v float64) bool {
	return v < 0 || v > 100
}
