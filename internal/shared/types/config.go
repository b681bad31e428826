package types

import "time"

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	PageSize   int      `json:"page_size" yaml:"page_size" toml:"page_size"`

	RetryAttempts int      `json:"retry_attempts" yaml:"retry_attempts" toml:"retry_attempts"`
	RetryDelay    Duration `json:"retry_delay" yaml:"retry_delay" toml:"retry_delay"`
	HTTPTimeout   Duration `json:"http_timeout" yaml:"http_timeout" toml:"http_timeout"`

	RegionCodeFile string `json:"region_code_file" yaml:"region_code_file" toml:"region_code_file"`
	PriceCodeFile  string `json:"price_code_file" yaml:"price_code_file" toml:"price_code_file"`
	PDFFont        string `json:"pdf_font" yaml:"pdf_font" toml:"pdf_font"`

	Endpoints Endpoints `json:"endpoints" yaml:"endpoints" toml:"endpoints"`

	S3URI      string `json:"s3_uri" yaml:"s3_uri" toml:"s3_uri"`
	AWSProfile string `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`

	Credentials Credentials `json:"-" yaml:"-" toml:"-"`
}

// Endpoints holds the upstream base URLs. Empty values fall back to the public ones.
type Endpoints struct {
	AptTrade   string `json:"apt_trade" yaml:"apt_trade" toml:"apt_trade"`
	Population string `json:"population" yaml:"population" toml:"population"`
	MolitStats string `json:"molit_stats" yaml:"molit_stats" toml:"molit_stats"`
	PriceIndex string `json:"price_index" yaml:"price_index" toml:"price_index"`
}

// Credentials are read from the environment only.
type Credentials struct {
	PublicDataKey string
	MolitStatsKey string
	PopulationKey string
	REBKey        string
}

// Environment variables holding the API keys.
const (
	EnvPublicDataKey = "PUBLIC_DATA_API_KEY"
	EnvMolitStatsKey = "MOLIT_STATS_KEY"
	EnvPopulationKey = "POP_KEY"
	EnvREBKey        = "REB_API_KEY"
)

// Public upstream endpoints.
const (
	DefaultAptTradeURL   = "https://apis.data.go.kr/1613000/RTMSDataSvcAptTrade/getRTMSDataSvcAptTrade"
	DefaultPopulationURL = "http://apis.data.go.kr/1741000/admmPpltnHhStus/selectAdmmPpltnHhStus"
	DefaultMolitStatsURL = "http://stat.molit.go.kr/portal/openapi/service/rest/getList.do"
	DefaultPriceIndexURL = "https://kosis.kr/openapi/statisticsData.do"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportType:     []string{"xlsx"},
		PageSize:       1000,
		RetryAttempts:  3,
		RetryDelay:     Duration(time.Second),
		HTTPTimeout:    Duration(30 * time.Second),
		RegionCodeFile: "code_raw.csv",
		PriceCodeFile:  "code_forprice.csv",
		Endpoints: Endpoints{
			AptTrade:   DefaultAptTradeURL,
			Population: DefaultPopulationURL,
			MolitStats: DefaultMolitStatsURL,
			PriceIndex: DefaultPriceIndexURL,
		},
	}
}

// Duration is a time.Duration that decodes from strings like "1500ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
