// Package incometax evaluates the 2025 German progressive income tax schedule
// on an annual taxable income.
package incometax

// Zone identifies the segment of the schedule a taxable income falls into.
type Zone int

// Zones of the schedule in ascending order of income.
const (
	ZoneExempt Zone = iota
	ZoneEntry
	ZoneProgression
	ZoneProportional
	ZoneTop
)

// Zone boundaries on annual taxable income (inclusive upper bounds).
const (
	ExemptLimit       = 11604.0
	EntryLimit        = 17005.0
	ProgressionLimit  = 66760.0
	ProportionalLimit = 277825.0
)

// Formula coefficients. These must stay bit-for-bit identical to the
// published schedule.
const (
	entryQuadratic       = 995.21
	entryLinear          = 1400.0
	progressionQuadratic = 208.85
	progressionLinear    = 2397.0
	progressionOffset    = 938.24
	proportionalRate     = 0.42
	proportionalOffset   = 9972.98
	topRate              = 0.45
	topOffset            = 18295.73
	zoneScale            = 10000.0
)

// String returns a short name for the zone.
func (z Zone) String() string {
	switch z {
	case ZoneExempt:
		return "exempt"
	case ZoneEntry:
		return "entry"
	case ZoneProgression:
		return "progression"
	case ZoneProportional:
		return "proportional"
	case ZoneTop:
		return "top"
	}
	return "unknown"
}

// ZoneFor returns the zone for an annual taxable income.
func ZoneFor(taxableIncome float64) Zone {
	switch {
	case taxableIncome <= ExemptLimit:
		return ZoneExempt
	case taxableIncome <= EntryLimit:
		return ZoneEntry
	case taxableIncome <= ProgressionLimit:
		return ZoneProgression
	case taxableIncome <= ProportionalLimit:
		return ZoneProportional
	default:
		return ZoneTop
	}
}

// Annual returns the unrounded annual income tax and the zone used for a
// taxable income. Non-positive income is untaxed.
func Annual(taxableIncome float64) (float64, Zone) {
	if taxableIncome <= 0 {
		return 0, ZoneExempt
	}

	// The float64 conversions stop the compiler from fusing multiply-add,
	// which would change the last bits of the result on some architectures.
	zone := ZoneFor(taxableIncome)
	switch zone {
	case ZoneEntry:
		y := (taxableIncome - ExemptLimit) / zoneScale
		return float64(float64(entryQuadratic*y)+entryLinear) * y, zone
	case ZoneProgression:
		y := (taxableIncome - EntryLimit) / zoneScale
		return float64(float64(float64(progressionQuadratic*y)+progressionLinear)*y) + progressionOffset, zone
	case ZoneProportional:
		return float64(proportionalRate*taxableIncome) - proportionalOffset, zone
	case ZoneTop:
		return float64(topRate*taxableIncome) - topOffset, zone
	}
	return 0, ZoneExempt
}
