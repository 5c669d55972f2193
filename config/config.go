package config

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/go-homedir"
)

const (
	AuthMethodBasic    = "basic"
	AuthMethodInstance = "instance"
	AuthMethodProfile  = "profile"
)

const (
	DefaultAuthMethod = AuthMethodInstance
	DefaultRegion     = "ap-northeast-1"
	DefaultTimeZone   = "Asia/Tokyo"
	DefaultLimit      = 10000

	// MaxLimit is the largest page size GetLogEvents accepts
	MaxLimit = 10000
)

// Config is the fully resolved configuration of a CloudWatch Logs input job.
// It is decoded from HCL at job setup and travels to every task as JSON inside the task source.
type Config struct {
	// one of basic, instance or profile
	AuthMethod   string `hcl:"auth_method,optional" json:"auth_method"`
	AccessKey    string `hcl:"access_key,optional" json:"access_key,omitempty"`
	SecretKey    string `hcl:"secret_key,optional" json:"secret_key,omitempty"`
	SessionToken string `hcl:"session_token,optional" json:"session_token,omitempty"`
	ProfileName  string `hcl:"profile_name,optional" json:"profile_name,omitempty"`
	// the shared credentials file to read profiles from - may start with ~
	SharedCredentialsFile string `hcl:"shared_credentials_file,optional" json:"shared_credentials_file,omitempty"`

	Region string `hcl:"region,optional" json:"region"`

	// the log group to collect
	LogGroupName string `hcl:"log_group_name" json:"log_group_name"`
	// only collect log streams with this prefix
	LogStreamPrefix string `hcl:"log_stream_prefix,optional" json:"log_stream_prefix,omitempty"`

	// the time range to collect for, interpreted in TimeZone
	StartTime string `hcl:"start_time" json:"start_time"`
	EndTime   string `hcl:"end_time" json:"end_time"`
	TimeZone  string `hcl:"timezone,optional" json:"timezone"`

	// max number of events returned by each GetLogEvents call - nil until defaults are applied
	Limit *int `hcl:"limit" json:"limit,omitempty"`

	EndpointUrl           *string `hcl:"endpoint_url" json:"endpoint_url,omitempty"`
	MaxErrorRetryAttempts *int    `hcl:"max_error_retry_attempts" json:"max_error_retry_attempts,omitempty"`
	MinErrorRetryDelay    *int    `hcl:"min_error_retry_delay" json:"min_error_retry_delay,omitempty"`

	// HTTP transport tuning, each falling back to an environment variable when unset
	DnsLookupMaxParallel        *int `hcl:"dns_lookup_max_parallel" json:"dns_lookup_max_parallel,omitempty"`
	DnsCacheRefreshIntervalSecs *int `hcl:"dns_cache_refresh_interval_secs" json:"dns_cache_refresh_interval_secs,omitempty"`
	HttpMaxConnsPerHost         *int `hcl:"http_max_conns_per_host" json:"http_max_conns_per_host,omitempty"`
}

// Load decodes the JSON form of the config (as carried in a task source), applies defaults and validates it
func Load(configRaw []byte) (*Config, error) {
	if len(configRaw) == 0 {
		return nil, NewError("", "empty config")
	}
	c := &Config{}
	if err := json.Unmarshal(configRaw, c); err != nil {
		return nil, NewError("", "failed to decode config: %s", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDefaults populates any unset optional properties
func (c *Config) SetDefaults() {
	if c.AuthMethod == "" {
		c.AuthMethod = DefaultAuthMethod
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.TimeZone == "" {
		c.TimeZone = DefaultTimeZone
	}
	if c.Limit == nil {
		limit := DefaultLimit
		c.Limit = &limit
	}
}

func (c *Config) Validate() error {
	switch c.AuthMethod {
	case AuthMethodBasic:
		if c.AccessKey == "" {
			return NewError("access_key", "required when auth_method is %q", AuthMethodBasic)
		}
		if c.SecretKey == "" {
			return NewError("secret_key", "required when auth_method is %q", AuthMethodBasic)
		}
	case AuthMethodInstance:
	case AuthMethodProfile:
		if c.ProfileName == "" {
			return NewError("profile_name", "required when auth_method is %q", AuthMethodProfile)
		}
		if _, err := c.CredentialsFile(); err != nil {
			return err
		}
	default:
		return NewError("auth_method", "unknown auth_method: %s", c.AuthMethod)
	}

	if c.LogGroupName == "" {
		return NewError("log_group_name", "required")
	}
	if c.StartTime == "" {
		return NewError("start_time", "required")
	}
	if c.EndTime == "" {
		return NewError("end_time", "required")
	}
	if c.Limit != nil && (*c.Limit < 1 || *c.Limit > MaxLimit) {
		return NewError("limit", "must be between 1 and %d, got %d", MaxLimit, *c.Limit)
	}
	if c.MaxErrorRetryAttempts != nil && *c.MaxErrorRetryAttempts < 1 {
		return NewError("max_error_retry_attempts", "must be greater than or equal to 1")
	}
	if c.MinErrorRetryDelay != nil && *c.MinErrorRetryDelay < 1 {
		return NewError("min_error_retry_delay", "must be greater than or equal to 1")
	}
	if c.DnsLookupMaxParallel != nil && *c.DnsLookupMaxParallel < 1 {
		return NewError("dns_lookup_max_parallel", "must be greater than or equal to 1")
	}
	if c.DnsCacheRefreshIntervalSecs != nil && *c.DnsCacheRefreshIntervalSecs < -1 {
		return NewError("dns_cache_refresh_interval_secs", "must be -1 (no cache), 0 (no refresh) or a number of seconds")
	}
	if c.HttpMaxConnsPerHost != nil && *c.HttpMaxConnsPerHost < 0 {
		return NewError("http_max_conns_per_host", "must not be negative")
	}
	return nil
}

// EventLimit returns the GetLogEvents page size, DefaultLimit if unset
func (c *Config) EventLimit() int32 {
	if c.Limit == nil {
		return DefaultLimit
	}
	return int32(*c.Limit)
}

// CredentialsFile returns the shared credentials file with any leading ~ expanded,
// or an empty string if the SDK default should be used
func (c *Config) CredentialsFile() (string, error) {
	if c.SharedCredentialsFile == "" {
		return "", nil
	}
	path, err := homedir.Expand(c.SharedCredentialsFile)
	if err != nil {
		return "", NewError("shared_credentials_file", "%s", err)
	}
	return path, nil
}

// String returns a description of the config which is safe to log
func (c *Config) String() string {
	return fmt.Sprintf("auth_method=%s region=%s log_group_name=%s start_time=%q end_time=%q timezone=%s limit=%d",
		c.AuthMethod, c.Region, c.LogGroupName, c.StartTime, c.EndTime, c.TimeZone, c.EventLimit())
}
