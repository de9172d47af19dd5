package rates

// Default tax settings for 2025.
const (
	DefaultBasicAllowance             = 11604.0
	DefaultSingleParentAllowance      = 1308.0
	DefaultMarriedAllowanceMultiplier = 2.0
)

// defaultConfiguration is built once and only ever handed out as a clone.
var defaultConfiguration = Configuration{
	States: []State{
		{Key: "baden-wuerttemberg", Label: "Baden-Württemberg", ChurchTaxRate: 8},
		{Key: "bayern", Label: "Bayern", ChurchTaxRate: 8},
		{Key: "berlin", Label: "Berlin", ChurchTaxRate: 9},
		{Key: "brandenburg", Label: "Brandenburg", ChurchTaxRate: 9},
		{Key: "bremen", Label: "Bremen", ChurchTaxRate: 9},
		{Key: "hamburg", Label: "Hamburg", ChurchTaxRate: 9},
		{Key: "hessen", Label: "Hessen", ChurchTaxRate: 9},
		{Key: "mecklenburg-vorpommern", Label: "Mecklenburg-Vorpommern", ChurchTaxRate: 9},
		{Key: "niedersachsen", Label: "Niedersachsen", ChurchTaxRate: 9},
		{Key: "nordrhein-westfalen", Label: "Nordrhein-Westfalen", ChurchTaxRate: 9},
		{Key: "rheinland-pfalz", Label: "Rheinland-Pfalz", ChurchTaxRate: 9},
		{Key: "saarland", Label: "Saarland", ChurchTaxRate: 9},
		{Key: "sachsen", Label: "Sachsen", ChurchTaxRate: 9},
		{Key: "sachsen-anhalt", Label: "Sachsen-Anhalt", ChurchTaxRate: 9},
		{Key: "schleswig-holstein", Label: "Schleswig-Holstein", ChurchTaxRate: 9},
		{Key: "thueringen", Label: "Thüringen", ChurchTaxRate: 9},
	},
	TaxClasses: []TaxClass{
		{Key: "1", Label: "Steuerklasse 1", Description: "Grundfreibetrag 11.604 € / Jahr"},
		{Key: "2", Label: "Steuerklasse 2", Description: "Zusätzliche Entlastung 1.308 € / Jahr"},
		{Key: "3", Label: "Steuerklasse 3", Description: "Doppelter Grundfreibetrag für Verheiratete"},
		{Key: "4", Label: "Steuerklasse 4", Description: "Einzelveranlagung für Verheiratete"},
		{Key: "5", Label: "Steuerklasse 5", Description: "Niedrigeres Einkommen in der Ehe"},
		{Key: "6", Label: "Steuerklasse 6", Description: "Zweitjob oder Nebentätigkeit"},
	},
	SocialInsurance: SocialInsurance{
		Pension:      InsuranceEntry{Label: "Rentenversicherung", EmployeeRate: 9.3},
		Health:       InsuranceEntry{Label: "Krankenversicherung", EmployeeRate: 8.55},
		Care:         InsuranceEntry{Label: "Pflegeversicherung", EmployeeRate: 1.875},
		Unemployment: InsuranceEntry{Label: "Arbeitslosenversicherung", EmployeeRate: 1.3},
		Solidarity:   InsuranceEntry{Label: "Solidaritätszuschlag", EmployeeRate: 0},
	},
	InfoSections: []InfoSection{
		{
			ID:    "allowances",
			Title: "Vergünstigungen (Steuerklassen)",
			Items: []string{
				"Klasse 1: Grundfreibetrag 11.604 € / Jahr",
				"Klasse 2: Zusätzliche Entlastung 1.308 € / Jahr",
				"Klasse 3: Doppelter Grundfreibetrag für Verheiratete",
				"Klasse 4: Einzelveranlagung für Verheiratete",
			},
		},
		{
			ID:    "rates",
			Title: "Sozialversicherungsraten 2025",
			Items: []string{
				"Rentenversicherung: 18,6 % gesamt (9,3 % Arbeitnehmer)",
				"Krankenversicherung: 8,55 % Arbeitnehmeranteil",
				"Pflegeversicherung: 1,875 % (kinderlos)",
				"Arbeitslosenversicherung: 2,6 % gesamt (1,3 % Arbeitnehmer)",
				"Solidaritätszuschlag: 0 % (aufgehoben)",
			},
		},
	},
	TaxSettings: TaxSettings{
		BasicAllowance:             DefaultBasicAllowance,
		SingleParentAllowance:      DefaultSingleParentAllowance,
		MarriedAllowanceMultiplier: DefaultMarriedAllowanceMultiplier,
	},
}

// Default returns a fresh copy of the built-in configuration.
func Default() Configuration {
	return defaultConfiguration.Clone()
}
