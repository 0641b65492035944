package config

// Config represents the full tenderctl run configuration document.
type Config struct {
	Server Server `yaml:"server" validate:"required"`
	Scan   Scan   `yaml:"scan" validate:"required"`
	Run    Run    `yaml:"run" validate:"required"`
}

// Server describes how to reach the TenderFit job server.
type Server struct {
	URL            string `yaml:"url" validate:"required,http_url"`
	RequestTimeout int    `yaml:"request_timeout,omitempty" validate:"omitempty,min=1,max=600"`
}

// Scan holds discovery-phase parameters passed through to the scan job.
type Scan struct {
	Keywords         string `yaml:"keywords" validate:"required,min=1"`
	Days             int    `yaml:"days,omitempty" validate:"omitempty,min=1,max=365"`
	Top              int    `yaml:"top,omitempty" validate:"omitempty,min=1,max=500"`
	MaxPages         int    `yaml:"max_pages,omitempty" validate:"omitempty,min=1,max=50"`
	LLMFilter        bool   `yaml:"llm_filter,omitempty"`
	LLMMaxCandidates int    `yaml:"llm_max_candidates,omitempty" validate:"omitempty,min=1,max=1000"`
	LLMBatchSize     int    `yaml:"llm_batch_size,omitempty" validate:"omitempty,min=1,max=50"`
	ForceRefresh     bool   `yaml:"force_refresh,omitempty"`
}

// Run holds pipeline-wide settings: fan-out width, the company profile the
// evaluators score against, and shortlist ranking size.
type Run struct {
	CompanyProfile string `yaml:"company_profile" validate:"required,min=1"`
	FanOut         int    `yaml:"fan_out,omitempty" validate:"omitempty,min=1,max=3"`
	CacheDir       string `yaml:"cache_dir,omitempty"`
	ShortlistTop   int    `yaml:"shortlist_top,omitempty" validate:"omitempty,min=1,max=100"`
}

// Defaults mirroring the job server's own parameter defaults.
const (
	DefaultDays             = 14
	DefaultTop              = 30
	DefaultMaxPages         = 5
	DefaultLLMMaxCandidates = 100
	DefaultLLMBatchSize     = 5
	DefaultFanOut           = 3
	DefaultShortlistTop     = 10
	DefaultRequestTimeout   = 30
)

// ApplyDefaults fills zero-valued optional fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}
	if c.Scan.Days == 0 {
		c.Scan.Days = DefaultDays
	}
	if c.Scan.Top == 0 {
		c.Scan.Top = DefaultTop
	}
	if c.Scan.MaxPages == 0 {
		c.Scan.MaxPages = DefaultMaxPages
	}
	if c.Scan.LLMMaxCandidates == 0 {
		c.Scan.LLMMaxCandidates = DefaultLLMMaxCandidates
	}
	if c.Scan.LLMBatchSize == 0 {
		c.Scan.LLMBatchSize = DefaultLLMBatchSize
	}
	if c.Run.FanOut == 0 {
		c.Run.FanOut = DefaultFanOut
	}
	if c.Run.ShortlistTop == 0 {
		c.Run.ShortlistTop = DefaultShortlistTop
	}
}
