package config

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		hcl       string
		want      *Config
		wantField string
		wantErr   bool
	}{
		{
			name: "defaults applied",
			hcl: `
log_group_name = "/aws/lambda/foo"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
`,
			want: &Config{
				AuthMethod:   AuthMethodInstance,
				Region:       DefaultRegion,
				LogGroupName: "/aws/lambda/foo",
				StartTime:    "2024-01-01 00:00:00",
				EndTime:      "2024-01-02 00:00:00",
				TimeZone:     DefaultTimeZone,
				Limit:        aws.Int(DefaultLimit),
			},
		},
		{
			name: "basic auth",
			hcl: `
auth_method    = "basic"
access_key     = "AKIAEXAMPLE"
secret_key     = "secret"
region         = "us-east-1"
log_group_name = "app"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
timezone       = "UTC"
limit          = 500
`,
			want: &Config{
				AuthMethod:   AuthMethodBasic,
				AccessKey:    "AKIAEXAMPLE",
				SecretKey:    "secret",
				Region:       "us-east-1",
				LogGroupName: "app",
				StartTime:    "2024-01-01 00:00:00",
				EndTime:      "2024-01-02 00:00:00",
				TimeZone:     "UTC",
				Limit:        aws.Int(500),
			},
		},
		{
			name: "basic auth missing secret",
			hcl: `
auth_method    = "basic"
access_key     = "AKIAEXAMPLE"
log_group_name = "app"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
`,
			wantErr:   true,
			wantField: "secret_key",
		},
		{
			name: "profile auth missing profile",
			hcl: `
auth_method    = "profile"
log_group_name = "app"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
`,
			wantErr:   true,
			wantField: "profile_name",
		},
		{
			name: "unknown auth method",
			hcl: `
auth_method    = "sso"
log_group_name = "app"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
`,
			wantErr:   true,
			wantField: "auth_method",
		},
		{
			name: "limit too large",
			hcl: `
log_group_name = "app"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
limit          = 10001
`,
			wantErr:   true,
			wantField: "limit",
		},
		{
			name: "explicit zero limit",
			hcl: `
log_group_name = "app"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
limit          = 0
`,
			wantErr:   true,
			wantField: "limit",
		},
		{
			name: "negative max conns per host",
			hcl: `
log_group_name          = "app"
start_time              = "2024-01-01 00:00:00"
end_time                = "2024-01-02 00:00:00"
http_max_conns_per_host = -1
`,
			wantErr:   true,
			wantField: "http_max_conns_per_host",
		},
		{
			name:    "missing log group",
			hcl:     `start_time = "2024-01-01 00:00:00"`,
			wantErr: true,
		},
		{
			name:    "invalid hcl",
			hcl:     `log_group_name = `,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.hcl), "test.hcl")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				if tt.wantField != "" {
					var configErr *Error
					require.ErrorAs(t, err, &configErr)
					assert.Equal(t, tt.wantField, configErr.Field)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_DiagnosticsMessage(t *testing.T) {
	tests := []struct {
		name string
		hcl  string
		want string
	}{
		{
			name: "missing required attribute",
			hcl:  `start_time = "2024-01-01 00:00:00"`,
			want: `"log_group_name" is required`,
		},
		{
			name: "unsupported attribute",
			hcl: `
log_group_name = "app"
start_time     = "2024-01-01 00:00:00"
end_time       = "2024-01-02 00:00:00"
log_group      = "typo"
`,
			want: "Unsupported argument",
		},
		{
			name: "syntax error",
			hcl:  `log_group_name = `,
			want: "failed to parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.hcl), "test.hcl")
			require.Error(t, err)
			var configErr *Error
			require.ErrorAs(t, err, &configErr)
			assert.NotNil(t, configErr.Err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	got, err := Load([]byte(`{"auth_method":"profile","profile_name":"dev","log_group_name":"app","start_time":"a","end_time":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, "dev", got.ProfileName)
	assert.Equal(t, DefaultRegion, got.Region)
	assert.Equal(t, int32(DefaultLimit), got.EventLimit())

	_, err = Load([]byte(`{"log_group_name":"app","start_time":"a","end_time":"b","limit":0}`))
	assert.True(t, IsConfigError(err))

	_, err = Load(nil)
	assert.True(t, IsConfigError(err))

	_, err = Load([]byte(`{`))
	assert.True(t, IsConfigError(err))
}

func TestConfig_CredentialsFile(t *testing.T) {
	c := &Config{}
	path, err := c.CredentialsFile()
	require.NoError(t, err)
	assert.Empty(t, path)

	c.SharedCredentialsFile = "/etc/aws/credentials"
	path, err = c.CredentialsFile()
	require.NoError(t, err)
	assert.Equal(t, "/etc/aws/credentials", path)

	c.SharedCredentialsFile = "~/.aws/credentials"
	path, err = c.CredentialsFile()
	require.NoError(t, err)
	assert.NotContains(t, path, "~")
}

func TestConfig_StringOmitsSecrets(t *testing.T) {
	c := &Config{AuthMethod: AuthMethodBasic, AccessKey: "AKIAEXAMPLE", SecretKey: "topsecret"}
	assert.NotContains(t, c.String(), "topsecret")
	assert.NotContains(t, c.String(), "AKIAEXAMPLE")
}
