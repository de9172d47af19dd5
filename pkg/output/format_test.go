package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nettorechner/nettorechner/internal/calculator"
	"github.com/nettorechner/nettorechner/internal/rates"
	"gopkg.in/yaml.v3"
)

func sampleResult(t *testing.T) calculator.Result {
	t.Helper()
	result, err := calculator.Calculate(calculator.Input{
		GrossMonthlySalary: 4000,
		StateKey:           "bayern",
		TaxClassKey:        "1",
		ChurchTaxLiable:    true,
		Pension:            true,
		Health:             true,
		Care:               true,
		Unemployment:       true,
	}, rates.Default())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	return result
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleResult(t)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Position",
		"Bruttogehalt",
		"4.000,00 €",
		"48.000,00 €",
		"530,96 €",
		"2.585,56 €",
		"31.026,72 €",
		"40 Wochenstunden",
		"23,08 €",
		"14,92 €",
		"36.396,00 €",
		"progression",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleResult(t)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	if lines[0] != `"component","monthly","yearly"` {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 14 {
		t.Fatalf("expected 14 lines, got %d", len(lines))
	}
	if lines[2] != `"Lohnsteuer","530.96","6371.52"` {
		t.Errorf("unexpected income tax line %q", lines[2])
	}
	if lines[11] != `"Nettogehalt","2585.56","31026.72"` {
		t.Errorf("unexpected net line %q", lines[11])
	}
	if lines[13] != `"Stundenlohn netto","14.92",""` {
		t.Errorf("unexpected hourly line %q", lines[13])
	}
}

func TestRatesPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := RatesPretty(&buf, rates.Default()); err != nil {
		t.Fatalf("RatesPretty() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{"bayern", "8 %", "schleswig-holstein", "9 %", "1,875 %", "11.604,00 €", "solidarity"} {
		if !strings.Contains(output, want) {
			t.Errorf("RatesPretty output missing %q", want)
		}
	}
}

func TestRatesYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := RatesYAML(&buf, rates.Default()); err != nil {
		t.Fatalf("RatesYAML() error = %v", err)
	}

	var decoded rates.Configuration
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded.States) != 16 {
		t.Errorf("expected 16 states, got %d", len(decoded.States))
	}
	if decoded.SocialInsurance.Care.EmployeeRate != 1.875 {
		t.Errorf("expected care rate 1.875, got %v", decoded.SocialInsurance.Care.EmployeeRate)
	}
	if !strings.Contains(buf.String(), "churchTaxRate:") {
		t.Error("expected camelCase keys in YAML output")
	}
}
