// Package calculator derives net salary from gross salary using a resolved
// rate configuration.
package calculator

import (
	"fmt"

	"github.com/nettorechner/nettorechner/internal/rates"
	"github.com/nettorechner/nettorechner/pkg/constants"
	"github.com/nettorechner/nettorechner/pkg/incometax"
	"github.com/nettorechner/nettorechner/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Standard tax class keys with a base allowance rule.
const (
	ClassSingle       = "1"
	ClassSingleParent = "2"
	ClassMarriedHigh  = "3"
	ClassMarriedEqual = "4"
	ClassMarriedLow   = "5"
	ClassSecondJob    = "6"
)

var (
	monthsPerYear = decimal.NewFromInt(constants.MonthsPerYear)
	weeksPerYear  = decimal.NewFromInt(constants.WeeksPerYear)
)

// Input is one calculation request.
type Input struct {
	GrossMonthlySalary float64
	StateKey           string
	TaxClassKey        string
	ChurchTaxLiable    bool
	// ChildAllowanceCount is validated and echoed but does not change the tax.
	// Allowances come in halves, so 0.5 is a valid count.
	ChildAllowanceCount float64
	Pension             bool
	Health              bool
	Care                bool
	Unemployment        bool
	// WeeklyHours of zero means constants.DefaultWeeklyHours.
	WeeklyHours int
}

// SocialInsurance is the employee share of each insurance.
type SocialInsurance struct {
	Pension      float64 `json:"pension"`
	Health       float64 `json:"health"`
	Care         float64 `json:"care"`
	Unemployment float64 `json:"unemployment"`
	Total        float64 `json:"total"`
}

// Hourly holds the per-hour projection.
type Hourly struct {
	Gross       float64 `json:"gross"`
	Net         float64 `json:"net"`
	WeeklyHours int     `json:"weeklyHours"`
}

// Yearly holds every monthly figure times twelve.
type Yearly struct {
	GrossSalary     float64         `json:"grossSalary"`
	IncomeTax       float64         `json:"incomeTax"`
	ChurchTax       float64         `json:"churchTax"`
	SolidarityTax   float64         `json:"solidarityTax"`
	SocialInsurance SocialInsurance `json:"socialInsurance"`
	NetSalary       float64         `json:"netSalary"`
	TotalDeductions float64         `json:"totalDeductions"`
}

// Details explains how the income tax was derived.
type Details struct {
	AnnualGross         float64 `json:"annualGross"`
	Allowance           float64 `json:"allowance"`
	TaxableIncome       float64 `json:"taxableIncome"`
	AnnualIncomeTax     float64 `json:"annualIncomeTax"`
	TaxZone             string  `json:"taxZone"`
	ChurchTaxRate       float64 `json:"churchTaxRate"`
	StateFound          bool    `json:"stateFound"`
	TaxClassFound       bool    `json:"taxClassFound"`
	ChildAllowanceCount float64 `json:"childAllowanceCount"`
}

// Result is the monthly breakdown with hourly and yearly projections. All
// monetary figures are rounded to cents.
type Result struct {
	GrossSalary     float64         `json:"grossSalary"`
	IncomeTax       float64         `json:"incomeTax"`
	ChurchTax       float64         `json:"churchTax"`
	SolidarityTax   float64         `json:"solidarityTax"`
	SocialInsurance SocialInsurance `json:"socialInsurance"`
	NetSalary       float64         `json:"netSalary"`
	TotalDeductions float64         `json:"totalDeductions"`
	Hourly          Hourly          `json:"hourly"`
	Yearly          Yearly          `json:"yearly"`
	Details         Details         `json:"details"`
}

// ValidationError reports unusable calculation input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the input without calculating.
func (in Input) Validate() error {
	if !mathutil.IsFinite(in.GrossMonthlySalary) || in.GrossMonthlySalary <= 0 {
		return &ValidationError{Field: "gross salary", Reason: "must be a positive number"}
	}
	if !mathutil.IsFinite(in.ChildAllowanceCount) || in.ChildAllowanceCount < 0 {
		return &ValidationError{Field: "child allowance count", Reason: "must not be negative"}
	}
	if in.WeeklyHours < 0 || in.WeeklyHours > constants.MaxWeeklyHours {
		return &ValidationError{Field: "weekly hours", Reason: fmt.Sprintf("must be between 0 and %d (0 means %d)", constants.MaxWeeklyHours, constants.DefaultWeeklyHours)}
	}
	return nil
}

// BaseAllowance returns the annual allowance a tax class receives before any
// configured per-class allowance. Unknown classes receive none, like class 6.
func BaseAllowance(taxClassKey string, settings rates.TaxSettings) float64 {
	switch taxClassKey {
	case ClassSingle, ClassMarriedEqual, ClassMarriedLow:
		return settings.BasicAllowance
	case ClassSingleParent:
		return settings.BasicAllowance + settings.SingleParentAllowance
	case ClassMarriedHigh:
		return settings.BasicAllowance * settings.MarriedAllowanceMultiplier
	default:
		return 0
	}
}

// Calculate computes the salary breakdown. It has no side effects; the same
// input and configuration always give the same result.
func Calculate(in Input, cfg rates.Configuration) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	weeklyHours := in.WeeklyHours
	if weeklyHours == 0 {
		weeklyHours = constants.DefaultWeeklyHours
	}

	state, stateFound := cfg.State(in.StateKey)
	taxClass, taxClassFound := cfg.TaxClass(in.TaxClassKey)

	annualGross := in.GrossMonthlySalary * constants.MonthsPerYear
	allowance := BaseAllowance(in.TaxClassKey, cfg.TaxSettings) + taxClass.AllowanceAmount
	taxableIncome := annualGross - allowance

	annualTax, zone := incometax.Annual(taxableIncome)
	monthlyTax := annualTax / constants.MonthsPerYear
	monthlyTax *= 1 - taxClass.ExtraDeductionPercent/constants.PercentageMultiplier
	monthlyTax = mathutil.Max(monthlyTax, 0)

	gross := mathutil.Cents(in.GrossMonthlySalary)
	incomeTax := mathutil.Cents(monthlyTax)

	churchTax := decimal.Zero
	if in.ChurchTaxLiable {
		churchTax = mathutil.RoundDecimal(mathutil.ApplyPercentageDecimal(incomeTax, state.ChurchTaxRate))
	}
	solidarityTax := mathutil.RoundDecimal(mathutil.ApplyPercentageDecimal(incomeTax, cfg.SocialInsurance.Solidarity.EmployeeRate))

	insurance := contributions(in, gross, cfg.SocialInsurance)

	deductions := incomeTax.Add(churchTax).Add(solidarityTax).Add(insurance.total)
	net := gross.Sub(deductions)

	// Hourly figures use value * 12 / (hours * 52), which equals
	// value / (hours * 52 / 12) without a repeating divisor.
	yearlyHours := decimal.NewFromInt(int64(weeklyHours)).Mul(weeksPerYear)

	return Result{
		GrossSalary:     gross.InexactFloat64(),
		IncomeTax:       incomeTax.InexactFloat64(),
		ChurchTax:       churchTax.InexactFloat64(),
		SolidarityTax:   solidarityTax.InexactFloat64(),
		SocialInsurance: insurance.monthly(),
		NetSalary:       net.InexactFloat64(),
		TotalDeductions: deductions.InexactFloat64(),
		Hourly: Hourly{
			Gross:       mathutil.RoundDecimal(gross.Mul(monthsPerYear).Div(yearlyHours)).InexactFloat64(),
			Net:         mathutil.RoundDecimal(net.Mul(monthsPerYear).Div(yearlyHours)).InexactFloat64(),
			WeeklyHours: weeklyHours,
		},
		Yearly: Yearly{
			GrossSalary:     yearly(gross),
			IncomeTax:       yearly(incomeTax),
			ChurchTax:       yearly(churchTax),
			SolidarityTax:   yearly(solidarityTax),
			SocialInsurance: insurance.yearly(),
			NetSalary:       yearly(net),
			TotalDeductions: yearly(deductions),
		},
		Details: Details{
			AnnualGross:         mathutil.Round(annualGross),
			Allowance:           mathutil.Round(allowance),
			TaxableIncome:       mathutil.Round(taxableIncome),
			AnnualIncomeTax:     mathutil.Round(annualTax),
			TaxZone:             zone.String(),
			ChurchTaxRate:       state.ChurchTaxRate,
			StateFound:          stateFound,
			TaxClassFound:       taxClassFound,
			ChildAllowanceCount: in.ChildAllowanceCount,
		},
	}, nil
}

type insuranceAmounts struct {
	pension, health, care, unemployment, total decimal.Decimal
}

func contributions(in Input, gross decimal.Decimal, si rates.SocialInsurance) insuranceAmounts {
	share := func(enabled bool, entry rates.InsuranceEntry) decimal.Decimal {
		if !enabled {
			return decimal.Zero
		}
		return mathutil.RoundDecimal(mathutil.ApplyPercentageDecimal(gross, entry.EmployeeRate))
	}

	out := insuranceAmounts{
		pension:      share(in.Pension, si.Pension),
		health:       share(in.Health, si.Health),
		care:         share(in.Care, si.Care),
		unemployment: share(in.Unemployment, si.Unemployment),
	}
	out.total = out.pension.Add(out.health).Add(out.care).Add(out.unemployment)
	return out
}

func (a insuranceAmounts) monthly() SocialInsurance {
	return SocialInsurance{
		Pension:      a.pension.InexactFloat64(),
		Health:       a.health.InexactFloat64(),
		Care:         a.care.InexactFloat64(),
		Unemployment: a.unemployment.InexactFloat64(),
		Total:        a.total.InexactFloat64(),
	}
}

func (a insuranceAmounts) yearly() SocialInsurance {
	return SocialInsurance{
		Pension:      yearly(a.pension),
		Health:       yearly(a.health),
		Care:         yearly(a.care),
		Unemployment: yearly(a.unemployment),
		Total:        yearly(a.total),
	}
}

func yearly(monthly decimal.Decimal) float64 {
	return monthly.Mul(monthsPerYear).InexactFloat64()
}
