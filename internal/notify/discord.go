package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garage_monitor/internal/config"

	"github.com/bwmarrin/discordgo"
)

// channelSender is the part of *discordgo.Session used here.
type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts the alert to Discord channels; recipients are channel IDs.
// Only the REST API is used, so the gateway connection is never opened.
type DiscordNotifier struct {
	session channelSender
}

func NewDiscord(cfg config.DiscordSettings) (*DiscordNotifier, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	dg.Client.Timeout = defaultTimeout
	return &DiscordNotifier{session: dg}, nil
}

func (n *DiscordNotifier) Name() string { return config.ProviderDiscord }

// Notify posts the SMS text unchanged; Discord stamps each message itself.
func (n *DiscordNotifier) Notify(ctx context.Context, recipient string, _ time.Time) error {
	_, err := n.session.ChannelMessageSend(recipient, alertText, discordgo.WithContext(ctx))
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return fmt.Errorf("%w: %s: %v", ErrStatus, restErr.Response.Status, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
