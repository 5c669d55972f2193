package aws_connection

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/turbot/cloudwatch-logs-input/config"
)

// AuthMethod is the resolved credential source of a job: one of [Basic], [Instance] or [Profile]
type AuthMethod interface {
	// Name returns the auth_method value this method was resolved from
	Name() string
	// CredentialsProvider returns a provider which resolves credentials from scratch on every Retrieve
	CredentialsProvider() aws.CredentialsProvider
}

// Basic uses the static key pair from the config
type Basic struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
}

func (Basic) Name() string { return config.AuthMethodBasic }

func (b Basic) CredentialsProvider() aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(b.AccessKey, b.SecretKey, b.SessionToken)
}

// Instance reads credentials from the AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN
// environment variables.
// NOTE: no instance metadata lookup is performed, despite the name
type Instance struct{}

func (Instance) Name() string { return config.AuthMethodInstance }

func (Instance) CredentialsProvider() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		envConfig, err := awsconfig.NewEnvConfig()
		if err != nil {
			return aws.Credentials{}, fmt.Errorf("failed to read environment credentials: %w", err)
		}
		if !envConfig.Credentials.HasKeys() {
			return aws.Credentials{}, fmt.Errorf("auth_method %q: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set", config.AuthMethodInstance)
		}
		return envConfig.Credentials, nil
	})
}

// Profile reads the static credentials of a named shared config profile
type Profile struct {
	ProfileName string
	// optional override of the shared credentials file
	CredentialsFile string
}

func (Profile) Name() string { return config.AuthMethodProfile }

func (p Profile) CredentialsProvider() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		sharedConfig, err := awsconfig.LoadSharedConfigProfile(ctx, p.ProfileName, func(o *awsconfig.LoadSharedConfigOptions) {
			if p.CredentialsFile != "" {
				o.CredentialsFiles = []string{p.CredentialsFile}
			}
		})
		if err != nil {
			return aws.Credentials{}, fmt.Errorf("failed to load profile %q: %w", p.ProfileName, err)
		}
		if !sharedConfig.Credentials.HasKeys() {
			return aws.Credentials{}, fmt.Errorf("profile %q does not contain aws_access_key_id and aws_secret_access_key", p.ProfileName)
		}
		return sharedConfig.Credentials, nil
	})
}

// AuthMethodFromConfig resolves the auth method of the config.
// Unknown methods and missing credential fields are configuration errors.
func AuthMethodFromConfig(c *config.Config) (AuthMethod, error) {
	switch c.AuthMethod {
	case config.AuthMethodBasic:
		if c.AccessKey == "" || c.SecretKey == "" {
			return nil, config.NewError("auth_method", "access_key and secret_key are required when auth_method is %q", config.AuthMethodBasic)
		}
		return Basic{
			AccessKey:    c.AccessKey,
			SecretKey:    c.SecretKey,
			SessionToken: c.SessionToken,
		}, nil
	case config.AuthMethodInstance:
		return Instance{}, nil
	case config.AuthMethodProfile:
		if c.ProfileName == "" {
			return nil, config.NewError("profile_name", "required when auth_method is %q", config.AuthMethodProfile)
		}
		credentialsFile, err := c.CredentialsFile()
		if err != nil {
			return nil, err
		}
		return Profile{
			ProfileName:     c.ProfileName,
			CredentialsFile: credentialsFile,
		}, nil
	default:
		return nil, config.NewError("auth_method", "unknown auth_method: %s", c.AuthMethod)
	}
}
