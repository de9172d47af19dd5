// Package rates defines the rate tables that drive the salary calculation and
// resolves them from built-in defaults plus per-section overrides.
package rates

import (
	"errors"
	"fmt"
)

// Section names one independently replaceable part of the configuration.
type Section string

// The five configuration sections. The string values double as storage keys.
const (
	SectionStates          Section = "states"
	SectionTaxClasses      Section = "taxClasses"
	SectionSocialInsurance Section = "socialInsurance"
	SectionInfoSections    Section = "infoSections"
	SectionTaxSettings     Section = "taxSettings"
)

// Sections lists every section in storage order.
var Sections = []Section{
	SectionStates,
	SectionTaxClasses,
	SectionSocialInsurance,
	SectionInfoSections,
	SectionTaxSettings,
}

// ErrUnknownSection is returned for a key that is not one of Sections.
var ErrUnknownSection = errors.New("invalid configuration key")

// ParseSection validates a storage key.
func ParseSection(key string) (Section, error) {
	for _, s := range Sections {
		if string(s) == key {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, key)
}

// Keys returns the section names as plain strings.
func Keys() []string {
	keys := make([]string, len(Sections))
	for i, s := range Sections {
		keys[i] = string(s)
	}
	return keys
}

// InsuranceType names one social-insurance component.
type InsuranceType string

// Social-insurance components.
const (
	Pension      InsuranceType = "pension"
	Health       InsuranceType = "health"
	Care         InsuranceType = "care"
	Unemployment InsuranceType = "unemployment"
	Solidarity   InsuranceType = "solidarity"
)

// InsuranceTypes lists every component in display order.
var InsuranceTypes = []InsuranceType{Pension, Health, Care, Unemployment, Solidarity}

// State is a federal state with its church-tax rate in percent.
type State struct {
	Key           string  `json:"value" yaml:"value"`
	Label         string  `json:"label" yaml:"label"`
	ChurchTaxRate float64 `json:"churchTaxRate" yaml:"churchTaxRate"`
}

// TaxClass is one Steuerklasse with its configurable adjustments.
type TaxClass struct {
	Key                   string  `json:"value" yaml:"value"`
	Label                 string  `json:"label" yaml:"label"`
	Description           string  `json:"description" yaml:"description"`
	ExtraDeductionPercent float64 `json:"extraDeductionPercent" yaml:"extraDeductionPercent"`
	AllowanceAmount       float64 `json:"allowanceAmount" yaml:"allowanceAmount"`
}

// InsuranceEntry holds the employee share of one insurance in percent.
type InsuranceEntry struct {
	Label        string  `json:"label" yaml:"label"`
	EmployeeRate float64 `json:"employeeRate" yaml:"employeeRate"`
}

// SocialInsurance holds all insurance components.
type SocialInsurance struct {
	Pension      InsuranceEntry `json:"pension" yaml:"pension"`
	Health       InsuranceEntry `json:"health" yaml:"health"`
	Care         InsuranceEntry `json:"care" yaml:"care"`
	Unemployment InsuranceEntry `json:"unemployment" yaml:"unemployment"`
	Solidarity   InsuranceEntry `json:"solidarity" yaml:"solidarity"`
}

// Entry returns the entry for an insurance type.
func (s SocialInsurance) Entry(t InsuranceType) (InsuranceEntry, bool) {
	switch t {
	case Pension:
		return s.Pension, true
	case Health:
		return s.Health, true
	case Care:
		return s.Care, true
	case Unemployment:
		return s.Unemployment, true
	case Solidarity:
		return s.Solidarity, true
	}
	return InsuranceEntry{}, false
}

func (s *SocialInsurance) set(t InsuranceType, e InsuranceEntry) {
	switch t {
	case Pension:
		s.Pension = e
	case Health:
		s.Health = e
	case Care:
		s.Care = e
	case Unemployment:
		s.Unemployment = e
	case Solidarity:
		s.Solidarity = e
	}
}

// TaxSettings are the base allowances of the income tax.
type TaxSettings struct {
	BasicAllowance             float64 `json:"basicAllowance" yaml:"basicAllowance"`
	SingleParentAllowance      float64 `json:"singleParentAllowance" yaml:"singleParentAllowance"`
	MarriedAllowanceMultiplier float64 `json:"marriedAllowanceMultiplier" yaml:"marriedAllowanceMultiplier"`
}

// InfoSection is a block of explanatory text shown next to the calculator.
type InfoSection struct {
	ID    string   `json:"id" yaml:"id"`
	Title string   `json:"title" yaml:"title"`
	Items []string `json:"items" yaml:"items"`
}

// Configuration is the fully resolved rate table set.
type Configuration struct {
	States          []State         `json:"states" yaml:"states"`
	TaxClasses      []TaxClass      `json:"taxClasses" yaml:"taxClasses"`
	SocialInsurance SocialInsurance `json:"socialInsurance" yaml:"socialInsurance"`
	InfoSections    []InfoSection   `json:"infoSections" yaml:"infoSections"`
	TaxSettings     TaxSettings     `json:"taxSettings" yaml:"taxSettings"`
}

// State looks up a state by key.
func (c Configuration) State(key string) (State, bool) {
	for _, s := range c.States {
		if s.Key == key {
			return s, true
		}
	}
	return State{}, false
}

// TaxClass looks up a tax class by key.
func (c Configuration) TaxClass(key string) (TaxClass, bool) {
	for _, tc := range c.TaxClasses {
		if tc.Key == key {
			return tc, true
		}
	}
	return TaxClass{}, false
}

// Clone returns a deep copy so callers can never mutate shared tables.
func (c Configuration) Clone() Configuration {
	out := c
	out.States = append([]State(nil), c.States...)
	out.TaxClasses = append([]TaxClass(nil), c.TaxClasses...)
	out.InfoSections = make([]InfoSection, len(c.InfoSections))
	for i, section := range c.InfoSections {
		section.Items = append([]string(nil), section.Items...)
		out.InfoSections[i] = section
	}
	return out
}

// SectionValue returns the part of the configuration stored under a section.
func (c Configuration) SectionValue(s Section) any {
	switch s {
	case SectionStates:
		return c.States
	case SectionTaxClasses:
		return c.TaxClasses
	case SectionSocialInsurance:
		return c.SocialInsurance
	case SectionInfoSections:
		return c.InfoSections
	case SectionTaxSettings:
		return c.TaxSettings
	}
	return nil
}
