package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/internal/report"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Configuration keys.
const (
	KeyDebug           = "debug"
	KeyNoDebug         = "no_debug"
	KeyTimeout         = "timeout"
	KeyPort            = "port"
	KeyBaseURL         = "base_url"
	KeyOutput          = "output"
	KeyLogLevel        = "log_level"
	KeySkipTLSVerify   = "tls.skip_verify"
	KeyUserAgent       = "user_agent"
	KeyCacheType       = "cache.type"
	KeyCacheNATSURL    = "cache.nats.url"
	KeyCacheNATSBucket = "cache.nats.bucket"
	KeyMetricsAddr     = "metrics_addr"
)

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Debug         bool          `json:"debug"           yaml:"debug"`
	Timeout       swapi.Timeout `json:"timeout"         yaml:"-"`
	TimeoutRaw    string        `json:"-"               yaml:"timeout"`
	Port          int           `json:"port"            yaml:"port"`
	BaseURL       string        `json:"base_url"        yaml:"base_url"`
	Output        report.Format `json:"output"          yaml:"output"`
	LogLevel      string        `json:"log_level"       yaml:"log_level,omitempty"`
	SkipTLSVerify bool          `json:"tls_skip_verify" yaml:"tls_skip_verify"`
	UserAgent     string        `json:"user_agent"      yaml:"user_agent"`
	CacheType     string        `json:"cache_type"      yaml:"cache_type"`
	NATSURL       string        `json:"nats_url"        yaml:"nats_url,omitempty"`
	NATSBucket    string        `json:"nats_bucket"     yaml:"nats_bucket,omitempty"`
	MetricsAddr   string        `json:"metrics_addr"    yaml:"metrics_addr,omitempty"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDebug, true)
	v.SetDefault(KeyNoDebug, false)
	v.SetDefault(KeyTimeout, fmt.Sprint(constants.DefaultTimeoutMillis))
	v.SetDefault(KeyPort, constants.DefaultPort)
	v.SetDefault(KeyBaseURL, swapi.DefaultBaseURL)
	v.SetDefault(KeyOutput, constants.FormatText)
	v.SetDefault(KeySkipTLSVerify, true)
	v.SetDefault(KeyUserAgent, constants.DefaultUserAgent)
	v.SetDefault(KeyCacheType, string(swapi.CacheTypeMemory))
	v.SetDefault(KeyCacheNATSBucket, swapi.DefaultNATSBucket)
}

// LoadSettings reads and validates the settings held by v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	output, err := report.ParseFormat(v.GetString(KeyOutput))
	if err != nil {
		return nil, err
	}

	port := v.GetInt(KeyPort)
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("%w: %d", constants.ErrInvalidPort, port)
	}

	cacheType := strings.ToLower(strings.TrimSpace(v.GetString(KeyCacheType)))
	switch swapi.CacheType(cacheType) {
	case swapi.CacheTypeMemory, swapi.CacheTypeNATS:
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidCacheType, cacheType)
	}

	settings := &Settings{
		Debug:         v.GetBool(KeyDebug) && !v.GetBool(KeyNoDebug),
		TimeoutRaw:    v.GetString(KeyTimeout),
		Port:          port,
		BaseURL:       v.GetString(KeyBaseURL),
		Output:        output,
		LogLevel:      v.GetString(KeyLogLevel),
		SkipTLSVerify: v.GetBool(KeySkipTLSVerify),
		UserAgent:     v.GetString(KeyUserAgent),
		CacheType:     cacheType,
		NATSURL:       v.GetString(KeyCacheNATSURL),
		NATSBucket:    v.GetString(KeyCacheNATSBucket),
		MetricsAddr:   v.GetString(KeyMetricsAddr),
	}
	settings.Timeout = swapi.ParseTimeout(settings.TimeoutRaw)

	if settings.CacheType == string(swapi.CacheTypeNATS) && settings.NATSURL == "" {
		return nil, constants.ErrNATSURLRequired
	}

	return settings, nil
}

// ClientConfig builds the API client configuration.
func (s *Settings) ClientConfig(logger swapi.Logger, recorder swapi.Recorder) *swapi.Config {
	config := &swapi.Config{
		BaseURL:       s.BaseURL,
		Timeout:       s.Timeout,
		Debug:         s.Debug,
		Logger:        logger,
		Recorder:      recorder,
		SkipTLSVerify: s.SkipTLSVerify,
		UserAgent:     s.UserAgent,
		Cache:         &swapi.CacheConfig{Type: swapi.CacheType(s.CacheType)},
	}

	if config.Cache.Type == swapi.CacheTypeNATS {
		config.Cache.NATS = &swapi.NATSKVConfig{
			URL:            s.NATSURL,
			Bucket:         s.NATSBucket,
			ConnectTimeout: swapi.DefaultNATSConnectTimeout,
		}
	}

	return config
}

// TimeoutWarning describes a timeout that will not abort requests, or
// returns "" when the timeout is in effect.
func (s *Settings) TimeoutWarning() string {
	switch {
	case s.Timeout.NaN:
		return fmt.Sprintf("timeout %q is not a number; requests will not time out", s.TimeoutRaw)
	case s.Timeout.Duration() <= 0:
		return fmt.Sprintf("timeout %s ms disables the request timeout", s.Timeout)
	case s.Timeout.Duration() < 10*time.Millisecond:
		return fmt.Sprintf("timeout %s ms is very short; most requests will fail", s.Timeout)
	default:
		return ""
	}
}
