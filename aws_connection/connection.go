package aws_connection

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/turbot/cloudwatch-logs-input/config"
)

const (
	defaultMaxRetries    = 9
	defaultMinRetryDelay = 25 * time.Millisecond
	maxRetryBackoff      = 5 * time.Minute
)

// Connection holds everything needed to build an AWS client for a job
type Connection struct {
	Region                string
	Auth                  AuthMethod
	EndpointUrl           *string
	MaxErrorRetryAttempts *int
	MinErrorRetryDelay    *int

	DnsLookupMaxParallel        *int
	DnsCacheRefreshIntervalSecs *int
	HttpMaxConnsPerHost         *int
}

// NewConnection resolves the auth method and client settings of the config
func NewConnection(c *config.Config) (*Connection, error) {
	auth, err := AuthMethodFromConfig(c)
	if err != nil {
		return nil, err
	}
	return &Connection{
		Region:                c.Region,
		Auth:                  auth,
		EndpointUrl:           c.EndpointUrl,
		MaxErrorRetryAttempts: c.MaxErrorRetryAttempts,
		MinErrorRetryDelay:    c.MinErrorRetryDelay,

		DnsLookupMaxParallel:        c.DnsLookupMaxParallel,
		DnsCacheRefreshIntervalSecs: c.DnsCacheRefreshIntervalSecs,
		HttpMaxConnsPerHost:         c.HttpMaxConnsPerHost,
	}, nil
}

// NewLogsClient builds a CloudWatch Logs client for the config
func NewLogsClient(ctx context.Context, c *config.Config) (*cloudwatchlogs.Client, error) {
	conn, err := NewConnection(c)
	if err != nil {
		return nil, err
	}
	return conn.NewLogsClient(ctx)
}

func (c *Connection) NewLogsClient(ctx context.Context) (*cloudwatchlogs.Client, error) {
	cfg, err := c.ClientConfig(ctx)
	if err != nil {
		return nil, err
	}
	endpointUrl := getConfigOrEnv(c.EndpointUrl, "AWS_ENDPOINT_URL")

	return cloudwatchlogs.NewFromConfig(cfg, func(o *cloudwatchlogs.Options) {
		if endpointUrl != "" {
			o.BaseEndpoint = aws.String(endpointUrl)
		}
	}), nil
}

func (c *Connection) ClientConfig(ctx context.Context) (aws.Config, error) {
	provider := c.Auth.CredentialsProvider()

	configOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(provider),
		awsconfig.WithHTTPClient(sharedHTTPClient(c.httpClientOptions())),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config: %w", err)
	}
	// LoadDefaultConfig wraps the provider in a credentials cache - credentials are re-resolved on every retrieve
	cfg.Credentials = provider

	maxRetries := getConfigOrEnvInt(c.MaxErrorRetryAttempts, "AWS_MAX_ATTEMPTS", defaultMaxRetries)
	minRetryDelay := defaultMinRetryDelay
	if c.MinErrorRetryDelay != nil {
		minRetryDelay = time.Duration(*c.MinErrorRetryDelay) * time.Millisecond
	}

	retryer := retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = maxRetries
		o.MaxBackoff = maxRetryBackoff
		o.RateLimiter = NoOpRateLimit{}
		o.Backoff = NewExponentialJitterBackoff(minRetryDelay, maxRetries)
	})
	cfg.Retryer = func() aws.Retryer {
		// UnknownError is the code returned for a 408 from the aws go sdk
		return retry.AddWithErrorCodes(retryer, "UnknownError")
	}

	slog.Debug("ClientConfig", "auth_method", c.Auth.Name(), "region", cfg.Region, "max_retries", maxRetries)
	return cfg, nil
}

func getConfigOrEnv(configValue *string, env string) string {
	if configValue != nil {
		return *configValue
	}
	return os.Getenv(env)
}

func getConfigOrEnvInt(configValue *int, env string, defaultValue int) int {
	if configValue != nil {
		return *configValue
	}
	return readEnvVarToInt(env, defaultValue)
}

func readEnvVarToInt(name string, defaultVal int) int {
	val := defaultVal
	if envValue := os.Getenv(name); envValue != "" {
		if i, err := strconv.Atoi(envValue); err == nil {
			val = i
		}
	}
	return val
}

// NoOpRateLimit disables the client side retry token bucket https://github.com/aws/aws-sdk-go-v2/issues/543
type NoOpRateLimit struct{}

func (NoOpRateLimit) AddTokens(uint) error { return nil }
func (NoOpRateLimit) GetToken(context.Context, uint) (func() error, error) {
	return noOpToken, nil
}
func noOpToken() error { return nil }

// ExponentialJitterBackoff provides backoff delays with jitter based on the number of attempts
type ExponentialJitterBackoff struct {
	minDelay           time.Duration
	maxBackoffAttempts int
}

func NewExponentialJitterBackoff(minDelay time.Duration, maxAttempts int) *ExponentialJitterBackoff {
	return &ExponentialJitterBackoff{minDelay, maxAttempts}
}

// BackoffDelay returns minDelay * 3^attempt, with a jitter factor in [0.8, 1.2), capped at 5 minutes
func (j *ExponentialJitterBackoff) BackoffDelay(attempt int, err error) (time.Duration, error) {
	jitter := float64(rand.Intn(120-80)+80) / 100

	retryTime := maxRetryBackoff
	if nanos := float64(j.minDelay.Nanoseconds()) * math.Pow(3, float64(attempt)) * jitter; nanos < float64(maxRetryBackoff) {
		retryTime = time.Duration(nanos)
	}

	slog.Info("BackoffDelay", "attempt", attempt, "retry_time", retryTime.String(), "error", err)
	return retryTime, nil
}
