package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper() *viper.Viper {
	v := viper.New()
	v.Set(keyShellyEndpoint, "https://shelly-1-eu.shelly.cloud/")
	v.Set(keyShellyAuthKey, "auth")
	v.Set(keyShellyDeviceID, "dev-1")
	v.Set(keyBrevoAPIKey, "brevo-key")
	v.Set(keySenderEmail, "garage@example.com")
	v.Set(keyRecipients, `["a@x.com","b@x.com"]`)
	v.Set(keyIntervalMinutes, "15")
	v.Set(keyAwakeHours, "[6,22]")
	return v
}

func TestFromViper_DefaultsAndParsing(t *testing.T) {
	t.Parallel()

	s, err := FromViper(baseViper())
	require.NoError(t, err)

	assert.Equal(t, "https://shelly-1-eu.shelly.cloud", s.Device.EndpointURI)
	assert.Equal(t, "dev-1", s.Device.DeviceID)
	assert.Equal(t, defaultShellyTimeout, s.Device.Timeout)
	assert.Equal(t, ProviderEmail, s.Notifier.Provider)
	assert.Equal(t, defaultBrevoURL, s.Notifier.Email.URL)
	assert.Equal(t, defaultSenderName, s.Notifier.Email.SenderName)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, s.Recipients)
	assert.Equal(t, 15*time.Minute, s.Interval)
	assert.Equal(t, Window{Start: 6, End: 22}, s.Window)
	assert.Equal(t, defaultDBPath, s.DBPath)
	assert.Equal(t, defaultLogLevel, s.LogLevel)
	assert.Empty(t, s.HTTP.Port)
}

func TestFromViper_NativeListsFromConfigFile(t *testing.T) {
	t.Parallel()

	v := baseViper()
	v.Set(keyRecipients, nil)
	v.Set("recipient_phone_numbers", []any{"+15550001", "+15550002"})
	v.Set(keyAwakeHours, []any{7, 23})
	v.Set(keyIntervalMinutes, 5)
	v.Set(keyProvider, "SMS")
	v.Set(keyTwilioSID, "AC123")
	v.Set(keyTwilioToken, "token")
	v.Set(keyTwilioFrom, "+15559999")

	s, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"+15550001", "+15550002"}, s.Recipients)
	assert.Equal(t, Window{Start: 7, End: 23}, s.Window)
	assert.Equal(t, 5*time.Minute, s.Interval)
	assert.Equal(t, ProviderSMS, s.Notifier.Provider)
	assert.Equal(t, defaultTwilioURL, s.Notifier.SMS.BaseURL)
}

func TestFromViper_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(v *viper.Viper)
		wantErr error
		msg     string
	}{
		{
			name:    "missing endpoint",
			mutate:  func(v *viper.Viper) { v.Set(keyShellyEndpoint, "") },
			wantErr: ErrMissing,
			msg:     keyShellyEndpoint,
		},
		{
			name:    "missing recipients",
			mutate:  func(v *viper.Viper) { v.Set(keyRecipients, "") },
			wantErr: ErrMissing,
			msg:     keyRecipients,
		},
		{
			name:    "recipients not json",
			mutate:  func(v *viper.Viper) { v.Set(keyRecipients, "a@x.com,b@x.com") },
			wantErr: ErrInvalid,
			msg:     keyRecipients,
		},
		{
			name:    "empty recipient list",
			mutate:  func(v *viper.Viper) { v.Set(keyRecipients, "[]") },
			wantErr: ErrInvalid,
			msg:     keyRecipients,
		},
		{
			name:    "blank recipient entry",
			mutate:  func(v *viper.Viper) { v.Set(keyRecipients, `["a@x.com"," "]`) },
			wantErr: ErrInvalid,
			msg:     "recipients[1]",
		},
		{
			name:    "interval not a number",
			mutate:  func(v *viper.Viper) { v.Set(keyIntervalMinutes, "soon") },
			wantErr: ErrInvalid,
			msg:     keyIntervalMinutes,
		},
		{
			name:    "interval zero",
			mutate:  func(v *viper.Viper) { v.Set(keyIntervalMinutes, "0") },
			wantErr: ErrInvalid,
			msg:     keyIntervalMinutes,
		},
		{
			name:    "missing interval",
			mutate:  func(v *viper.Viper) { v.Set(keyIntervalMinutes, nil) },
			wantErr: ErrMissing,
			msg:     keyIntervalMinutes,
		},
		{
			name:    "window with one hour",
			mutate:  func(v *viper.Viper) { v.Set(keyAwakeHours, "[6]") },
			wantErr: ErrInvalid,
			msg:     keyAwakeHours,
		},
		{
			name:    "window start equals end",
			mutate:  func(v *viper.Viper) { v.Set(keyAwakeHours, "[8,8]") },
			wantErr: ErrInvalid,
			msg:     "start must be before end",
		},
		{
			name:    "window wraps midnight",
			mutate:  func(v *viper.Viper) { v.Set(keyAwakeHours, "[22,6]") },
			wantErr: ErrInvalid,
			msg:     "start must be before end",
		},
		{
			name:    "window hour out of range",
			mutate:  func(v *viper.Viper) { v.Set(keyAwakeHours, "[6,25]") },
			wantErr: ErrInvalid,
			msg:     "[0,24]",
		},
		{
			name:    "unknown provider",
			mutate:  func(v *viper.Viper) { v.Set(keyProvider, "pager") },
			wantErr: ErrInvalid,
			msg:     keyProvider,
		},
		{
			name:    "email provider without api key",
			mutate:  func(v *viper.Viper) { v.Set(keyBrevoAPIKey, "") },
			wantErr: ErrMissing,
			msg:     keyBrevoAPIKey,
		},
		{
			name:    "discord provider without token",
			mutate:  func(v *viper.Viper) { v.Set(keyProvider, ProviderDiscord) },
			wantErr: ErrMissing,
			msg:     keyDiscordToken,
		},
		{
			name:    "bad log level",
			mutate:  func(v *viper.Viper) { v.Set(keyLogLevel, "verbose") },
			wantErr: ErrInvalid,
			msg:     keyLogLevel,
		},
		{
			name:    "bad timeout",
			mutate:  func(v *viper.Viper) { v.Set(keyShellyTimeout, "-1s") },
			wantErr: ErrInvalid,
			msg:     keyShellyTimeout,
		},
		{
			name:    "timeout without unit",
			mutate:  func(v *viper.Viper) { v.Set(keyShellyTimeout, "15") },
			wantErr: ErrInvalid,
			msg:     keyShellyTimeout,
		},
		{
			name:    "timeout as yaml number",
			mutate:  func(v *viper.Viper) { v.Set(keyShellyTimeout, 15) },
			wantErr: ErrInvalid,
			msg:     keyShellyTimeout,
		},
		{
			name:    "interval hex",
			mutate:  func(v *viper.Viper) { v.Set(keyIntervalMinutes, "0x10") },
			wantErr: ErrInvalid,
			msg:     keyIntervalMinutes,
		},
		{
			name:    "interval fractional",
			mutate:  func(v *viper.Viper) { v.Set(keyIntervalMinutes, 15.5) },
			wantErr: ErrInvalid,
			msg:     keyIntervalMinutes,
		},
		{
			name:    "window never observes",
			mutate:  func(v *viper.Viper) { v.Set(keyAwakeHours, "[0,24]") },
			wantErr: ErrInvalid,
			msg:     keyAwakeHours,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := baseViper()
			tc.mutate(v)

			_, err := FromViper(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestFromViper_NumbersAndDurations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		interval     any
		timeout      any
		wantInterval time.Duration
		wantTimeout  time.Duration
	}{
		{name: "leading zero is decimal", interval: "010", timeout: "15s", wantInterval: 10 * time.Minute, wantTimeout: 15 * time.Second},
		{name: "padded string", interval: " 15 ", timeout: " 2m ", wantInterval: 15 * time.Minute, wantTimeout: 2 * time.Minute},
		{name: "yaml float without fraction", interval: 20.0, timeout: "500ms", wantInterval: 20 * time.Minute, wantTimeout: 500 * time.Millisecond},
		{name: "native duration", interval: 1, timeout: 3 * time.Second, wantInterval: time.Minute, wantTimeout: 3 * time.Second},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := baseViper()
			v.Set(keyIntervalMinutes, tc.interval)
			v.Set(keyShellyTimeout, tc.timeout)

			s, err := FromViper(v)
			require.NoError(t, err)
			assert.Equal(t, tc.wantInterval, s.Interval)
			assert.Equal(t, tc.wantTimeout, s.Device.Timeout)
		})
	}
}

func TestFromViper_ReadsHistoricalEnvNames(t *testing.T) {
	t.Setenv("shelly_endpoint_uri", "https://device.example")
	t.Setenv("shelly_auth_key", "k")
	t.Setenv("shelly_device_id", "d")
	t.Setenv("brevo_api_key", "b")
	t.Setenv("sender_email", "s@example.com")
	t.Setenv("recipient_email_addresses", `["a@x.com","b@x.com"]`)
	t.Setenv("notification_interval_minutes", "10")
	t.Setenv("awake_start_end_hours", "[6,22]")
	t.Setenv("HTTP_PORT", "9090")

	s, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://device.example", s.Device.EndpointURI)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, s.Recipients)
	assert.Equal(t, 10*time.Minute, s.Interval)
	assert.Equal(t, Window{Start: 6, End: 22}, s.Window)
	assert.Equal(t, "9090", s.HTTP.Port)
}
