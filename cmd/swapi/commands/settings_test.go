package commands_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/swapi/cmd/swapi/commands"
	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/internal/report"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

func newSettingsViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	commands.SetDefaults(v)

	for key, value := range values {
		v.Set(key, value)
	}

	return v
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Parallel()

	settings, err := commands.LoadSettings(newSettingsViper(nil))
	require.NoError(t, err)

	assert.True(t, settings.Debug)
	assert.Equal(t, 5*time.Second, settings.Timeout.Duration())
	assert.Equal(t, constants.DefaultPort, settings.Port)
	assert.Equal(t, swapi.DefaultBaseURL, settings.BaseURL)
	assert.Equal(t, report.FormatText, settings.Output)
	assert.True(t, settings.SkipTLSVerify)
	assert.Equal(t, string(swapi.CacheTypeMemory), settings.CacheType)
	assert.Empty(t, settings.TimeoutWarning())
}

func TestLoadSettings_NoDebug(t *testing.T) {
	t.Parallel()

	settings, err := commands.LoadSettings(newSettingsViper(map[string]interface{}{
		commands.KeyNoDebug: true,
	}))
	require.NoError(t, err)
	assert.False(t, settings.Debug)
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  map[string]interface{}
		wantErr error
	}{
		{
			name:    "output format",
			values:  map[string]interface{}{commands.KeyOutput: "xml"},
			wantErr: swapi.ErrInvalidOutputFormat,
		},
		{
			name:    "port out of range",
			values:  map[string]interface{}{commands.KeyPort: 70000},
			wantErr: constants.ErrInvalidPort,
		},
		{
			name:    "cache type",
			values:  map[string]interface{}{commands.KeyCacheType: "redis"},
			wantErr: constants.ErrInvalidCacheType,
		},
		{
			name:    "nats without url",
			values:  map[string]interface{}{commands.KeyCacheType: "nats"},
			wantErr: constants.ErrNATSURLRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := commands.LoadSettings(newSettingsViper(tt.values))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSettings_TimeoutWarning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		timeout string
		want    string
	}{
		{timeout: "5000", want: ""},
		{timeout: "abc", want: "not a number"},
		{timeout: "0", want: "disables"},
		{timeout: "-1", want: "disables"},
		{timeout: "1", want: "very short"},
		{timeout: "2500ms", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			t.Parallel()

			settings, err := commands.LoadSettings(newSettingsViper(map[string]interface{}{
				commands.KeyTimeout: tt.timeout,
			}))
			require.NoError(t, err)

			if tt.want == "" {
				assert.Empty(t, settings.TimeoutWarning())
			} else {
				assert.Contains(t, settings.TimeoutWarning(), tt.want)
			}
		})
	}
}

func TestSettings_ClientConfig(t *testing.T) {
	t.Parallel()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		settings, err := commands.LoadSettings(newSettingsViper(map[string]interface{}{
			commands.KeyTimeout: "NaN",
		}))
		require.NoError(t, err)

		config := settings.ClientConfig(swapi.NopLogger{}, nil)
		assert.Equal(t, swapi.CacheTypeMemory, config.Cache.Type)
		assert.Nil(t, config.Cache.NATS)
		assert.True(t, config.Timeout.NaN)
		assert.True(t, config.Debug)
	})

	t.Run("nats", func(t *testing.T) {
		t.Parallel()

		settings, err := commands.LoadSettings(newSettingsViper(map[string]interface{}{
			commands.KeyCacheType:    "NATS",
			commands.KeyCacheNATSURL: "nats://127.0.0.1:4222",
		}))
		require.NoError(t, err)

		config := settings.ClientConfig(swapi.NopLogger{}, nil)
		assert.Equal(t, swapi.CacheTypeNATS, config.Cache.Type)
		require.NotNil(t, config.Cache.NATS)
		assert.Equal(t, "nats://127.0.0.1:4222", config.Cache.NATS.URL)
		assert.Equal(t, swapi.DefaultNATSBucket, config.Cache.NATS.Bucket)
	})
}
