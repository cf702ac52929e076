package value

// unitDef normalizes a recognized unit token to a base unit and multiplier
type unitDef struct {
	base       string  // canonical base unit after conversion
	multiplier float64 // token value * multiplier = normalized value
}

// unitTable maps recognized unit tokens (lower-case) to their base unit.
// Time converts to seconds, storage to bytes, currency stays in its own
// base so cross-currency values never accidentally compare.
var unitTable = map[string]unitDef{
	// time
	"ms":           {"s", 0.001},
	"millisecond":  {"s", 0.001},
	"milliseconds": {"s", 0.001},
	"s":            {"s", 1},
	"sec":          {"s", 1},
	"second":       {"s", 1},
	"seconds":      {"s", 1},
	"min":          {"s", 60},
	"minute":       {"s", 60},
	"minutes":      {"s", 60},
	"h":            {"s", 3600},
	"hour":         {"s", 3600},
	"hours":        {"s", 3600},
	"day":          {"s", 86400},
	"days":         {"s", 86400},
	"week":         {"s", 604800},
	"weeks":        {"s", 604800},
	"month":        {"s", 2592000}, // 30-day month
	"months":       {"s", 2592000},
	"year":         {"s", 31536000}, // 365-day year
	"years":        {"s", 31536000},

	// storage
	"kb":  {"byte", 1e3},
	"mb":  {"byte", 1e6},
	"gb":  {"byte", 1e9},
	"tb":  {"byte", 1e12},
	"kib": {"byte", 1024},
	"mib": {"byte", 1024 * 1024},
	"gib": {"byte", 1024 * 1024 * 1024},

	// currency-like
	"eur":  {"eur", 1},
	"€":    {"eur", 1},
	"usd":  {"usd", 1},
	"$":    {"usd", 1},
	"gbp":  {"gbp", 1},
	"£":    {"gbp", 1},
	"cent": {"eur", 0.01},
}

// enumVocabularies are the closed word lists the enum extractor recognizes,
// in fixed priority order. Each entry maps surface tokens to the canonical
// lower-case token.
var enumVocabularies = []struct {
	name   string
	tokens map[string]string
}{
	{"frequency", map[string]string{
		"hourly": "hourly", "daily": "daily", "weekly": "weekly",
		"monthly": "monthly", "quarterly": "quarterly",
		"annually": "annually", "yearly": "annually",
		"täglich": "daily", "wöchentlich": "weekly",
		"monatlich": "monthly", "jährlich": "annually",
	}},
	{"responsibility", map[string]string{
		"provider": "provider", "customer": "customer", "vendor": "vendor",
		"operator": "operator", "subcontractor": "subcontractor",
		"anbieter": "provider", "kunde": "customer", "betreiber": "operator",
	}},
	{"severity", map[string]string{
		"critical": "critical", "high": "high", "medium": "medium", "low": "low",
		"kritisch": "critical", "hoch": "high", "mittel": "medium", "niedrig": "low",
	}},
	{"edition", map[string]string{
		"basic": "basic", "standard": "standard", "professional": "professional",
		"premium": "premium", "enterprise": "enterprise",
	}},
	{"environment", map[string]string{
		"production": "production", "staging": "staging",
		"development": "development", "produktion": "production",
		"testumgebung": "test", "entwicklung": "development",
	}},
}
