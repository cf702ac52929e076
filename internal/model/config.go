package model

import "time"

// Config is the complete Factline configuration. It is constructed once
// (defaults, then config file, then env, then flags) and passed by
// reference; nothing mutates it after startup.
type Config struct {
	Language    string            `yaml:"language,omitempty" json:"language,omitempty"` // document language hint ("en", "de")
	Anchor      AnchorConfig      `yaml:"anchor" json:"anchor"`
	Filter      FilterConfig      `yaml:"filter" json:"filter"`
	Policy      PolicyConfig      `yaml:"policy" json:"policy"`
	ClaimKeys   ClaimKeyConfig    `yaml:"claimkeys" json:"claimkeys"`
	Fingerprint FingerprintConfig `yaml:"fingerprint" json:"fingerprint"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Chunking    ChunkingConfig    `yaml:"chunking" json:"chunking"`
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// AnchorConfig controls the span resolver's fuzzy matching bands
type AnchorConfig struct {
	AcceptRatio  float64 `yaml:"accept_ratio" json:"accept_ratio"`   // similarity >= this accepts an approximate span
	AmbiguousLow float64 `yaml:"ambiguous_low" json:"ambiguous_low"` // [low, accept) classifies as cross-docitem
}

// FilterConfig controls the meta-pattern and fragment pre-filter
type FilterConfig struct {
	MinAssertionLength int    `yaml:"min_assertion_length" json:"min_assertion_length"`
	MetaCatalogPath    string `yaml:"meta_catalog_path,omitempty" json:"meta_catalog_path,omitempty"` // empty: built-in catalog
}

// PolicyConfig holds the AssertionType -> Tier map and per-tier thresholds.
// Tiers must be total: every assertion type has exactly one tier.
type PolicyConfig struct {
	Tiers                map[string]string `yaml:"tiers" json:"tiers"`
	ConditionalThreshold float64           `yaml:"conditional_threshold" json:"conditional_threshold"`
	RarelyThreshold      float64           `yaml:"rarely_threshold" json:"rarely_threshold"`
}

// ClaimKeyConfig points at the canonical-key pattern catalog
type ClaimKeyConfig struct {
	CatalogPath string `yaml:"catalog_path,omitempty" json:"catalog_path,omitempty"` // empty: built-in catalog
}

// FingerprintConfig controls fingerprint truncation
type FingerprintConfig struct {
	Width int `yaml:"width" json:"width"` // hex characters kept
}

// ConcurrencyConfig bounds the per-batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// ChunkingConfig sizes the extraction windows built over source items
type ChunkingConfig struct {
	TargetChars int `yaml:"target_chars" json:"target_chars"`
	MaxChars    int `yaml:"max_chars" json:"max_chars"`
	MinChars    int `yaml:"min_chars" json:"min_chars"`
}

// HTTPConfig configures the document fetcher
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
	RatePerHost  float64       `yaml:"rate_per_host" json:"rate_per_host"` // requests per second per host
}

// CacheConfig configures the fetch cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir,omitempty" json:"dir,omitempty"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// LLMConfig configures the upstream extractor collaborator
type LLMConfig struct {
	Provider      string  `yaml:"provider,omitempty" json:"provider,omitempty"` // "" disables extraction
	Model         string  `yaml:"model,omitempty" json:"model,omitempty"`
	APIKey        string  `yaml:"-" json:"-"` // environment only, never persisted
	BaseURL       string  `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	TimeoutSec    int     `yaml:"timeout_sec" json:"timeout_sec"`
	MaxAssertions int     `yaml:"max_assertions" json:"max_assertions"` // per chunk
	RatePerSec    float64 `yaml:"rate_per_sec" json:"rate_per_sec"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Anchor: AnchorConfig{
			AcceptRatio:  0.85,
			AmbiguousLow: 0.30,
		},
		Filter: FilterConfig{
			MinAssertionLength: 25,
		},
		Policy: PolicyConfig{
			Tiers:                DefaultTierMap(),
			ConditionalThreshold: 0.70,
			RarelyThreshold:      0.90,
		},
		Fingerprint: FingerprintConfig{
			Width: 20,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 8,
		},
		Chunking: ChunkingConfig{
			TargetChars: 4000,
			MaxChars:    6000,
			MinChars:    800,
		},
		HTTP: HTTPConfig{
			Timeout:      2 * time.Minute,
			UserAgent:    "Factline/0.1 (+https://github.com/factline/factline)",
			MaxBodyBytes: 2_000_000,
			RatePerHost:  1.0,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		LLM: LLMConfig{
			TimeoutSec:    60,
			MaxAssertions: 20,
			RatePerSec:    1.0,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// DefaultTierMap returns the built-in AssertionType -> Tier mapping.
// Keys are assertion type strings so the map round-trips through YAML.
func DefaultTierMap() map[string]string {
	return map[string]string{
		string(AssertionDefinitional): string(TierAlways),
		string(AssertionPrescriptive): string(TierAlways),
		string(AssertionFactual):      string(TierConditional),
		string(AssertionPermissive):   string(TierConditional),
		string(AssertionConditional):  string(TierConditional),
		string(AssertionCausal):       string(TierRarely),
		string(AssertionComparative):  string(TierRarely),
		string(AssertionProcedural):   string(TierNever),
	}
}
