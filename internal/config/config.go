package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Notification providers. Exactly one is wired per deployment.
const (
	ProviderEmail   = "email"
	ProviderSMS     = "sms"
	ProviderDiscord = "discord"
)

var (
	ErrMissing = errors.New("missing required setting")
	ErrInvalid = errors.New("invalid setting")
)

// Settings is loaded once at startup and never mutated afterwards.
type Settings struct {
	Device     DeviceSettings
	Notifier   NotifierSettings
	Recipients []string
	Interval   time.Duration
	Window     Window
	HTTP       HTTPSettings
	DBPath     string
	LogLevel   string
}

// DeviceSettings addresses the switch status endpoint.
type DeviceSettings struct {
	EndpointURI string
	DeviceID    string
	AuthKey     string
	Timeout     time.Duration
}

type NotifierSettings struct {
	Provider string
	Email    EmailSettings
	SMS      SMSSettings
	Discord  DiscordSettings
}

type EmailSettings struct {
	URL         string
	APIKey      string
	SenderEmail string
	SenderName  string
}

type SMSSettings struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
}

type DiscordSettings struct {
	BotToken string
}

// Window holds the awake hours [Start, End). Hours outside it are observed.
type Window struct {
	Start int
	End   int
}

type HTTPSettings struct {
	Port   string
	APIKey string
}

// Setting keys; they double as the lowercase env var names.
const (
	keyShellyEndpoint  = "shelly_endpoint_uri"
	keyShellyAuthKey   = "shelly_auth_key"
	keyShellyDeviceID  = "shelly_device_id"
	keyShellyTimeout   = "shelly_timeout"
	keyProvider        = "notification_provider"
	keyBrevoURL        = "brevo_url"
	keyBrevoAPIKey     = "brevo_api_key"
	keySenderEmail     = "sender_email"
	keySenderName      = "sender_name"
	keyTwilioURL       = "twilio_url"
	keyTwilioSID       = "twilio_account_sid"
	keyTwilioToken     = "twilio_auth_token"
	keyTwilioFrom      = "twilio_from_number"
	keyDiscordToken    = "discord_bot_token"
	keyRecipients      = "recipients"
	keyIntervalMinutes = "notification_interval_minutes"
	keyAwakeHours      = "awake_start_end_hours"
	keyHTTPPort        = "http_port"
	keyHTTPAPIKey      = "http_api_key"
	keyDBPath          = "db_path"
	keyLogLevel        = "log_level"
)

const (
	defaultShellyTimeout = 15 * time.Second
	defaultBrevoURL      = "https://api.brevo.com/v3/smtp/email"
	defaultTwilioURL     = "https://api.twilio.com"
	defaultSenderName    = "Open Garage Checker"
	defaultDBPath        = "garage_monitor.db"
	defaultLogLevel      = "info"
)

// recipientAliases are the list names used by earlier deployments.
var recipientAliases = []string{"recipient_email_addresses", "recipient_phone_numbers"}

// Load reads configs/config.yml when present and lets the environment override it.
func Load() (Settings, error) {
	v := viper.New()
	v.AddConfigPath("configs")
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds Settings from an already populated viper instance.
func FromViper(v *viper.Viper) (Settings, error) {
	bindEnv(v)
	setDefaults(v)

	var (
		s   Settings
		err error
	)

	if s.Device, err = deviceSettings(v); err != nil {
		return Settings{}, err
	}
	if s.Notifier, err = notifierSettings(v); err != nil {
		return Settings{}, err
	}
	if s.Recipients, err = stringList(v, keyRecipients); err != nil {
		return Settings{}, err
	}
	if s.Interval, err = interval(v); err != nil {
		return Settings{}, err
	}
	if s.Window, err = window(v); err != nil {
		return Settings{}, err
	}

	s.HTTP = HTTPSettings{
		Port:   strings.TrimSpace(v.GetString(keyHTTPPort)),
		APIKey: strings.TrimSpace(v.GetString(keyHTTPAPIKey)),
	}
	s.DBPath = strings.TrimSpace(v.GetString(keyDBPath))
	s.LogLevel = strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel)))

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		keyShellyEndpoint, keyShellyAuthKey, keyShellyDeviceID, keyShellyTimeout,
		keyProvider,
		keyBrevoURL, keyBrevoAPIKey, keySenderEmail, keySenderName,
		keyTwilioURL, keyTwilioSID, keyTwilioToken, keyTwilioFrom,
		keyDiscordToken,
		keyIntervalMinutes, keyAwakeHours,
		keyHTTPPort, keyHTTPAPIKey, keyDBPath, keyLogLevel,
	} {
		_ = v.BindEnv(key, key, strings.ToUpper(key))
	}

	names := []string{keyRecipients, keyRecipients, strings.ToUpper(keyRecipients)}
	for _, alias := range recipientAliases {
		names = append(names, alias, strings.ToUpper(alias))
	}
	_ = v.BindEnv(names...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyShellyTimeout, defaultShellyTimeout)
	v.SetDefault(keyProvider, ProviderEmail)
	v.SetDefault(keyBrevoURL, defaultBrevoURL)
	v.SetDefault(keySenderName, defaultSenderName)
	v.SetDefault(keyTwilioURL, defaultTwilioURL)
	v.SetDefault(keyDBPath, defaultDBPath)
	v.SetDefault(keyLogLevel, defaultLogLevel)

	// Config files may still use one of the historical list names.
	if !v.IsSet(keyRecipients) {
		for _, alias := range recipientAliases {
			if v.IsSet(alias) {
				v.SetDefault(keyRecipients, v.Get(alias))
				break
			}
		}
	}
}

func deviceSettings(v *viper.Viper) (DeviceSettings, error) {
	var (
		d   DeviceSettings
		err error
	)
	if d.EndpointURI, err = requiredString(v, keyShellyEndpoint); err != nil {
		return d, err
	}
	d.EndpointURI = strings.TrimRight(d.EndpointURI, "/")
	if d.DeviceID, err = requiredString(v, keyShellyDeviceID); err != nil {
		return d, err
	}
	if d.AuthKey, err = requiredString(v, keyShellyAuthKey); err != nil {
		return d, err
	}
	if d.Timeout, err = duration(v.Get(keyShellyTimeout)); err != nil || d.Timeout <= 0 {
		return d, fmt.Errorf("%w: %s must be a positive duration with a unit, e.g. 15s", ErrInvalid, keyShellyTimeout)
	}
	return d, nil
}

// duration requires an explicit unit. cast would read a bare 15 as nanoseconds.
func duration(raw any) (time.Duration, error) {
	switch x := raw.(type) {
	case time.Duration:
		return x, nil
	case string:
		return time.ParseDuration(strings.TrimSpace(x))
	}
	return 0, fmt.Errorf("unit-less duration %v", raw)
}

func notifierSettings(v *viper.Viper) (NotifierSettings, error) {
	n := NotifierSettings{
		Provider: strings.ToLower(strings.TrimSpace(v.GetString(keyProvider))),
		Email: EmailSettings{
			URL:         strings.TrimSpace(v.GetString(keyBrevoURL)),
			APIKey:      strings.TrimSpace(v.GetString(keyBrevoAPIKey)),
			SenderEmail: strings.TrimSpace(v.GetString(keySenderEmail)),
			SenderName:  strings.TrimSpace(v.GetString(keySenderName)),
		},
		SMS: SMSSettings{
			BaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString(keyTwilioURL)), "/"),
			AccountSID: strings.TrimSpace(v.GetString(keyTwilioSID)),
			AuthToken:  strings.TrimSpace(v.GetString(keyTwilioToken)),
			FromNumber: strings.TrimSpace(v.GetString(keyTwilioFrom)),
		},
		Discord: DiscordSettings{
			BotToken: strings.TrimSpace(v.GetString(keyDiscordToken)),
		},
	}

	var required map[string]string
	switch n.Provider {
	case ProviderEmail:
		required = map[string]string{
			keyBrevoURL:    n.Email.URL,
			keyBrevoAPIKey: n.Email.APIKey,
			keySenderEmail: n.Email.SenderEmail,
		}
	case ProviderSMS:
		required = map[string]string{
			keyTwilioURL:   n.SMS.BaseURL,
			keyTwilioSID:   n.SMS.AccountSID,
			keyTwilioToken: n.SMS.AuthToken,
			keyTwilioFrom:  n.SMS.FromNumber,
		}
	case ProviderDiscord:
		required = map[string]string{
			keyDiscordToken: n.Discord.BotToken,
		}
	default:
		return n, fmt.Errorf("%w: %s must be one of %s, %s, %s (got %q)",
			ErrInvalid, keyProvider, ProviderEmail, ProviderSMS, ProviderDiscord, n.Provider)
	}

	for _, key := range sortedKeys(required) {
		if required[key] == "" {
			return n, fmt.Errorf("%w: %s (required by provider %q)", ErrMissing, key, n.Provider)
		}
	}
	return n, nil
}

func interval(v *viper.Viper) (time.Duration, error) {
	raw := v.Get(keyIntervalMinutes)
	if isBlank(raw) {
		return 0, fmt.Errorf("%w: %s", ErrMissing, keyIntervalMinutes)
	}
	minutes, err := wholeNumber(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, keyIntervalMinutes, err)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %s must be > 0 (got %d)", ErrInvalid, keyIntervalMinutes, minutes)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// wholeNumber parses decimal strings and integral numbers only; cast alone would
// read "010" as octal and truncate 15.5.
func wholeNumber(raw any) (int, error) {
	switch x := raw.(type) {
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	case float32, float64:
		f := cast.ToFloat64(x)
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%v is not a whole number", x)
		}
		return int(f), nil
	}
	return cast.ToIntE(raw)
}

func window(v *viper.Viper) (Window, error) {
	hours, err := intList(v, keyAwakeHours)
	if err != nil {
		return Window{}, err
	}
	if len(hours) != 2 {
		return Window{}, fmt.Errorf("%w: %s must hold exactly two hours (got %d)", ErrInvalid, keyAwakeHours, len(hours))
	}
	return Window{Start: hours[0], End: hours[1]}, nil
}

func requiredString(v *viper.Viper, key string) (string, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissing, key)
	}
	return s, nil
}

// stringList accepts a JSON array string (env) or a native list (config file).
func stringList(v *viper.Viper, key string) ([]string, error) {
	raw := v.Get(key)
	if isBlank(raw) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, key)
	}

	var out []string
	if s, ok := raw.(string); ok {
		if err := sonic.UnmarshalString(strings.TrimSpace(s), &out); err != nil {
			return nil, fmt.Errorf("%w: %s must be a JSON array of strings: %v", ErrInvalid, key, err)
		}
	} else {
		list, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		out = list
	}

	for i, item := range out {
		out[i] = strings.TrimSpace(item)
		if out[i] == "" {
			return nil, fmt.Errorf("%w: %s[%d] is empty", ErrInvalid, key, i)
		}
	}
	return out, nil
}

func intList(v *viper.Viper, key string) ([]int, error) {
	raw := v.Get(key)
	if isBlank(raw) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, key)
	}

	if s, ok := raw.(string); ok {
		var out []int
		if err := sonic.UnmarshalString(strings.TrimSpace(s), &out); err != nil {
			return nil, fmt.Errorf("%w: %s must be a JSON array of integers: %v", ErrInvalid, key, err)
		}
		return out, nil
	}

	out, err := cast.ToIntSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return out, nil
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}
