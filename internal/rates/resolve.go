package rates

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Outcome describes how a section of the resolved configuration was obtained.
type Outcome string

// Section outcomes.
const (
	// OutcomeDefault means no override was stored for the section.
	OutcomeDefault Outcome = "default"
	// OutcomeOverride means the stored override was valid and adopted.
	OutcomeOverride Outcome = "override"
	// OutcomeRejected means an override was stored but failed validation,
	// so the built-in default was used instead.
	OutcomeRejected Outcome = "rejected"
)

// SectionResult reports the resolution of one section.
type SectionResult struct {
	Section Section `json:"section"`
	Outcome Outcome `json:"outcome"`
	Dropped int     `json:"dropped,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// InvalidSectionError is returned when an override does not have the shape
// its section requires.
type InvalidSectionError struct {
	Section Section
	Reason  string
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %s", e.Section, e.Reason)
}

// Resolve merges overrides into the defaults section by section. Each section
// is adopted whole or not at all, and a bad section never affects the others.
func Resolve(overrides map[Section][]byte) (Configuration, []SectionResult) {
	cfg := Default()
	results := make([]SectionResult, 0, len(Sections))

	for _, section := range Sections {
		raw, ok := overrides[section]
		if !ok || isNull(raw) {
			results = append(results, SectionResult{Section: section, Outcome: OutcomeDefault})
			continue
		}

		value, dropped, err := ParseSectionValue(section, raw)
		if err != nil {
			results = append(results, SectionResult{
				Section: section,
				Outcome: OutcomeRejected,
				Dropped: dropped,
				Reason:  err.Error(),
			})
			continue
		}

		cfg.apply(value)
		results = append(results, SectionResult{Section: section, Outcome: OutcomeOverride, Dropped: dropped})
	}

	return cfg, results
}

// ParseSectionValue decodes and validates a raw JSON override for a section.
// It returns the typed section value, the number of list elements dropped as
// invalid, and an *InvalidSectionError when nothing usable remains.
func ParseSectionValue(section Section, raw []byte) (any, int, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, 0, &InvalidSectionError{Section: section, Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	var (
		value   any
		dropped int
		reason  string
	)
	switch section {
	case SectionStates:
		value, dropped, reason = parseList(decoded, parseState, func(s State) string { return s.Key })
	case SectionTaxClasses:
		value, dropped, reason = parseList(decoded, parseTaxClass, func(tc TaxClass) string { return tc.Key })
	case SectionInfoSections:
		value, dropped, reason = parseList(decoded, parseInfoSection, func(is InfoSection) string { return is.ID })
	case SectionSocialInsurance:
		value, reason = parseSocialInsurance(decoded)
	case SectionTaxSettings:
		value, reason = parseTaxSettings(decoded)
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	if reason != "" {
		return nil, dropped, &InvalidSectionError{Section: section, Reason: reason}
	}
	return value, dropped, nil
}

func (c *Configuration) apply(value any) {
	switch v := value.(type) {
	case []State:
		c.States = v
	case []TaxClass:
		c.TaxClasses = v
	case []InfoSection:
		c.InfoSections = v
	case SocialInsurance:
		c.SocialInsurance = v
	case TaxSettings:
		c.TaxSettings = v
	}
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseList validates each element independently, drops invalid ones and
// later duplicates of a key, and fails only when nothing valid remains.
func parseList[T any](decoded any, parse func(map[string]any) (T, bool), keyOf func(T) string) ([]T, int, string) {
	items, ok := decoded.([]any)
	if !ok {
		return nil, 0, "expected an array"
	}

	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	dropped := 0
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		entry, ok := parse(obj)
		if !ok {
			dropped++
			continue
		}
		key := keyOf(entry)
		if strings.TrimSpace(key) == "" {
			dropped++
			continue
		}
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}

	if len(out) == 0 {
		return nil, dropped, "no valid entries"
	}
	return out, dropped, ""
}

func parseState(obj map[string]any) (State, bool) {
	key, okKey := stringField(obj, "value")
	label, okLabel := stringField(obj, "label")
	rate, okRate := numberField(obj, "churchTaxRate")
	if !okKey || !okLabel || !okRate {
		return State{}, false
	}
	return State{Key: key, Label: label, ChurchTaxRate: rate}, true
}

func parseTaxClass(obj map[string]any) (TaxClass, bool) {
	key, okKey := stringField(obj, "value")
	label, okLabel := stringField(obj, "label")
	description, okDescription := stringField(obj, "description")
	if !okKey || !okLabel || !okDescription {
		return TaxClass{}, false
	}
	// Optional numbers fall back to zero.
	extra, _ := numberField(obj, "extraDeductionPercent")
	allowance, _ := numberField(obj, "allowanceAmount")
	return TaxClass{
		Key:                   key,
		Label:                 label,
		Description:           description,
		ExtraDeductionPercent: extra,
		AllowanceAmount:       allowance,
	}, true
}

func parseInfoSection(obj map[string]any) (InfoSection, bool) {
	id, okID := stringField(obj, "id")
	title, okTitle := stringField(obj, "title")
	rawItems, okItems := obj["items"].([]any)
	if !okID || !okTitle || !okItems {
		return InfoSection{}, false
	}
	items := make([]string, 0, len(rawItems))
	for _, item := range rawItems {
		if text, ok := item.(string); ok {
			items = append(items, text)
		}
	}
	return InfoSection{ID: id, Title: title, Items: items}, true
}

func parseSocialInsurance(decoded any) (SocialInsurance, string) {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return SocialInsurance{}, "expected an object"
	}

	var out SocialInsurance
	for _, t := range InsuranceTypes {
		entry, ok := obj[string(t)].(map[string]any)
		if !ok {
			return SocialInsurance{}, fmt.Sprintf("missing entry %q", t)
		}
		label, okLabel := stringField(entry, "label")
		rate, okRate := numberField(entry, "employeeRate")
		if !okLabel || !okRate {
			return SocialInsurance{}, fmt.Sprintf("entry %q needs a label and a numeric employeeRate", t)
		}
		out.set(t, InsuranceEntry{Label: label, EmployeeRate: rate})
	}
	return out, ""
}

func parseTaxSettings(decoded any) (TaxSettings, string) {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return TaxSettings{}, "expected an object"
	}
	basic, okBasic := numberField(obj, "basicAllowance")
	single, okSingle := numberField(obj, "singleParentAllowance")
	multiplier, okMultiplier := numberField(obj, "marriedAllowanceMultiplier")
	if !okBasic || !okSingle || !okMultiplier {
		return TaxSettings{}, "basicAllowance, singleParentAllowance and marriedAllowanceMultiplier must be numbers"
	}
	return TaxSettings{
		BasicAllowance:             basic,
		SingleParentAllowance:      single,
		MarriedAllowanceMultiplier: multiplier,
	}, ""
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key].(string)
	return v, ok
}

func numberField(obj map[string]any, key string) (float64, bool) {
	v, ok := obj[key].(float64)
	return v, ok
}
