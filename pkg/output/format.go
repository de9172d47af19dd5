// Package output provides utilities for formatting and displaying salary
// calculations and rate tables.
package output

import (
	"fmt"
	"io"

	"github.com/nettorechner/nettorechner/internal/calculator"
	"github.com/nettorechner/nettorechner/internal/rates"
	"github.com/nettorechner/nettorechner/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

type line struct {
	label   string
	monthly float64
	yearly  float64
}

func breakdown(r calculator.Result) []line {
	return []line{
		{"Bruttogehalt", r.GrossSalary, r.Yearly.GrossSalary},
		{"Lohnsteuer", r.IncomeTax, r.Yearly.IncomeTax},
		{"Kirchensteuer", r.ChurchTax, r.Yearly.ChurchTax},
		{"Solidaritätszuschlag", r.SolidarityTax, r.Yearly.SolidarityTax},
		{"Rentenversicherung", r.SocialInsurance.Pension, r.Yearly.SocialInsurance.Pension},
		{"Krankenversicherung", r.SocialInsurance.Health, r.Yearly.SocialInsurance.Health},
		{"Pflegeversicherung", r.SocialInsurance.Care, r.Yearly.SocialInsurance.Care},
		{"Arbeitslosenversicherung", r.SocialInsurance.Unemployment, r.Yearly.SocialInsurance.Unemployment},
		{"Sozialabgaben gesamt", r.SocialInsurance.Total, r.Yearly.SocialInsurance.Total},
		{"Abzüge gesamt", r.TotalDeductions, r.Yearly.TotalDeductions},
		{"Nettogehalt", r.NetSalary, r.Yearly.NetSalary},
	}
}

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, r calculator.Result) error {
	p := message.NewPrinter(language.German)

	if _, err := fmt.Fprintf(w, "%-26s | %14s | %14s\n", "Position", "Monat", "Jahr"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-26s | %14s | %14s\n", "________", "_____", "____"); err != nil {
		return err
	}
	for _, l := range breakdown(r) {
		if _, err := fmt.Fprintf(w, "%-26s | %14s | %14s\n", l.label, format.Currency(l.monthly), format.Currency(l.yearly)); err != nil {
			return err
		}
	}

	_, err := p.Fprintf(w, "\nStundenlohn bei %d Wochenstunden: %s brutto, %s netto\n",
		r.Hourly.WeeklyHours, format.Currency(r.Hourly.Gross), format.Currency(r.Hourly.Net))
	if err != nil {
		return err
	}
	_, err = p.Fprintf(w, "Zu versteuerndes Einkommen: %s (Zone %s)\n",
		format.Currency(r.Details.TaxableIncome), r.Details.TaxZone)
	return err
}

// CsvFormat writes the breakdown in comma-separated value format.
func CsvFormat(w io.Writer, r calculator.Result) error {
	if _, err := fmt.Fprintf(w, `"component","monthly","yearly"`+"\n"); err != nil {
		return err
	}
	for _, l := range breakdown(r) {
		if _, err := fmt.Fprintf(w, `"%s","%.2f","%.2f"`+"\n", l.label, l.monthly, l.yearly); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `"Stundenlohn brutto","%.2f",""`+"\n"+`"Stundenlohn netto","%.2f",""`+"\n",
		r.Hourly.Gross, r.Hourly.Net)
	return err
}

// RatesPretty writes the resolved rate tables.
func RatesPretty(w io.Writer, cfg rates.Configuration) error {
	p := message.NewPrinter(language.German)

	fmt.Fprintf(w, "--- Bundesländer ---\n")
	for _, s := range cfg.States {
		fmt.Fprintf(w, "%-24s %-26s Kirchensteuer %s\n", s.Key, s.Label, format.Percent(s.ChurchTaxRate))
	}

	fmt.Fprintf(w, "\n--- Steuerklassen ---\n")
	for _, c := range cfg.TaxClasses {
		fmt.Fprintf(w, "%-4s %-16s Abschlag %s  Freibetrag %s\n",
			c.Key, c.Label, format.Percent(c.ExtraDeductionPercent), format.Currency(c.AllowanceAmount))
	}

	fmt.Fprintf(w, "\n--- Sozialversicherung (Arbeitnehmeranteil) ---\n")
	for _, t := range rates.InsuranceTypes {
		entry, _ := cfg.SocialInsurance.Entry(t)
		fmt.Fprintf(w, "%-14s %-30s %s\n", t, entry.Label, format.Percent(entry.EmployeeRate))
	}

	fmt.Fprintf(w, "\n--- Steuereinstellungen ---\n")
	_, err := p.Fprintf(w, "Grundfreibetrag %s, Entlastungsbetrag Alleinerziehende %s, Faktor Steuerklasse 3 %v\n",
		format.Currency(cfg.TaxSettings.BasicAllowance),
		format.Currency(cfg.TaxSettings.SingleParentAllowance),
		cfg.TaxSettings.MarriedAllowanceMultiplier)
	return err
}

// RatesYAML writes the resolved rate tables as YAML, one key per section.
func RatesYAML(w io.Writer, cfg rates.Configuration) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	return enc.Close()
}
