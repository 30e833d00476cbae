package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"garage_monitor/internal/config"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alertAt = time.Date(2026, 10, 18, 23, 15, 0, 0, time.Local)

func TestEmailNotifier_PostsBrevoPayload(t *testing.T) {
	t.Parallel()

	var (
		gotHeaders http.Header
		gotBody    emailRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"messageId":"<1@smtp-relay>"}`)
	}))
	defer srv.Close()

	n := NewEmail(config.EmailSettings{
		URL:         srv.URL,
		APIKey:      "xkeysib-123",
		SenderEmail: "garage@example.com",
		SenderName:  "Open Garage Checker",
	})

	require.NoError(t, n.Notify(context.Background(), "a@x.com", alertAt))

	assert.Equal(t, "xkeysib-123", gotHeaders.Get("api-key"))
	assert.Equal(t, "application/json", gotHeaders.Get("content-type"))
	assert.Equal(t, "garage@example.com", gotBody.Sender.Email)
	assert.Equal(t, "Open Garage Checker", gotBody.Sender.Name)
	require.Len(t, gotBody.To, 1)
	assert.Equal(t, "a@x.com", gotBody.To[0].Email)
	assert.Equal(t, alertSubject, gotBody.Subject)
	assert.Contains(t, gotBody.HTMLContent, "2026-10-18 23:15:00")
	assert.Equal(t, config.ProviderEmail, n.Name())
}

func TestEmailNotifier_NonSuccessIsStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"unauthorized","message":"Key not found"}`)
	}))
	defer srv.Close()

	n := NewEmail(config.EmailSettings{URL: srv.URL, APIKey: "bad", SenderEmail: "g@example.com"})

	err := n.Notify(context.Background(), "a@x.com", alertAt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "Key not found")
}

func TestSMSNotifier_PostsTwilioForm(t *testing.T) {
	t.Parallel()

	var (
		gotPath          string
		gotUser, gotPass string
		gotForm          url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		raw, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(raw))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewSMS(config.SMSSettings{
		BaseURL:    srv.URL + "/",
		AccountSID: "AC123",
		AuthToken:  "tok",
		FromNumber: "+15550000",
	})

	require.NoError(t, n.Notify(context.Background(), "+15551111", alertAt))

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "tok", gotPass)
	assert.Equal(t, "+15550000", gotForm.Get("From"))
	assert.Equal(t, "+15551111", gotForm.Get("To"))
	assert.Equal(t, alertText, gotForm.Get("Body"))
	assert.Equal(t, config.ProviderSMS, n.Name())
}

func TestSMSNotifier_Failures(t *testing.T) {
	t.Parallel()

	t.Run("provider rejects", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"code":21211,"message":"Invalid 'To' Phone Number"}`)
		}))
		defer srv.Close()

		err := NewSMS(config.SMSSettings{BaseURL: srv.URL, AccountSID: "AC1"}).
			Notify(context.Background(), "nope", alertAt)
		assert.ErrorIs(t, err, ErrStatus)
		assert.Contains(t, err.Error(), "21211")
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		err := NewSMS(config.SMSSettings{BaseURL: base, AccountSID: "AC1"}).
			Notify(context.Background(), "+1", alertAt)
		assert.ErrorIs(t, err, ErrTransport)
	})
}

type fakeChannelSender struct {
	channels []string
	contents []string
	err      error
}

func (f *fakeChannelSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channels = append(f.channels, channelID)
	f.contents = append(f.contents, content)
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func TestDiscordNotifier_SendsToChannel(t *testing.T) {
	t.Parallel()

	fake := &fakeChannelSender{}
	n := &DiscordNotifier{session: fake}

	require.NoError(t, n.Notify(context.Background(), "123456", alertAt))
	assert.Equal(t, []string{"123456"}, fake.channels)
	assert.Equal(t, []string{alertText}, fake.contents)
	assert.Equal(t, config.ProviderDiscord, n.Name())
}

func TestDiscordNotifier_ErrorMapping(t *testing.T) {
	t.Parallel()

	restErr := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"}}
	n := &DiscordNotifier{session: &fakeChannelSender{err: restErr}}
	assert.ErrorIs(t, n.Notify(context.Background(), "1", alertAt), ErrStatus)

	n = &DiscordNotifier{session: &fakeChannelSender{err: errors.New("dial tcp: timeout")}}
	assert.ErrorIs(t, n.Notify(context.Background(), "1", alertAt), ErrTransport)
}

func TestNew_SelectsProvider(t *testing.T) {
	t.Parallel()

	n, err := New(config.NotifierSettings{Provider: config.ProviderEmail})
	require.NoError(t, err)
	assert.IsType(t, &EmailNotifier{}, n)

	n, err = New(config.NotifierSettings{Provider: config.ProviderSMS})
	require.NoError(t, err)
	assert.IsType(t, &SMSNotifier{}, n)

	n, err = New(config.NotifierSettings{Provider: config.ProviderDiscord, Discord: config.DiscordSettings{BotToken: "t"}})
	require.NoError(t, err)
	assert.IsType(t, &DiscordNotifier{}, n)

	_, err = New(config.NotifierSettings{Provider: "pager"})
	assert.Error(t, err)
}
