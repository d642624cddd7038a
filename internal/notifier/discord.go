package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
)

// CommandHandler is called when a user command is received on the bound
// channel. An empty reply posts nothing.
type CommandHandler func(command string) string

// DiscordNotifier posts messages to a single Discord text channel and
// dispatches "!" commands from that channel.
type DiscordNotifier struct {
	ChannelID string

	session *discordgo.Session
	handler CommandHandler
	log     zerolog.Logger

	// backoff bounds; zero values fall back to 1s/30s
	backoffMin time.Duration
	backoffMax time.Duration
}

// NewDiscordNotifier creates a notifier. The gateway is not opened until
// Start is called.
func NewDiscordNotifier(botToken, channelID string, log zerolog.Logger) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	return &DiscordNotifier{
		ChannelID: channelID,
		session:   session,
		log:       log,
	}, nil
}

// SetCommandHandler registers the handler invoked for "!" commands.
func (d *DiscordNotifier) SetCommandHandler(handler CommandHandler) {
	d.handler = handler
}

// Start opens the Discord gateway and registers the message handler.
func (d *DiscordNotifier) Start() error {
	d.session.AddHandler(d.onMessage)
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	d.log.Info().Str("channel_id", d.ChannelID).Msg("discord gateway connected")
	return nil
}

// Close shuts the gateway connection down.
func (d *DiscordNotifier) Close() error {
	return d.session.Close()
}

func (d *DiscordNotifier) onMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.ChannelID != d.ChannelID {
		return
	}
	text := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(text, "!") || d.handler == nil {
		return
	}

	d.log.Info().Str("command", text).Str("user", m.Author.Username).Msg("received command")
	if reply := d.handler(text); reply != "" {
		if err := d.SendText(reply); err != nil {
			d.log.Error().Err(err).Msg("send command reply")
		}
	}
}

// SendText posts a plain message to the bound channel.
func (d *DiscordNotifier) SendText(text string) error {
	if _, err := d.session.ChannelMessageSend(d.ChannelID, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendEmbed posts an embed to the bound channel.
func (d *DiscordNotifier) SendEmbed(embed *discordgo.MessageEmbed) error {
	if _, err := d.session.ChannelMessageSendEmbed(d.ChannelID, embed); err != nil {
		return fmt.Errorf("send embed: %w", err)
	}
	return nil
}

// SendTextWithRetry sends a message with exponential backoff retry.
func (d *DiscordNotifier) SendTextWithRetry(ctx context.Context, text string, maxRetries int) error {
	return d.sendWithRetry(ctx, maxRetries, func() error { return d.SendText(text) })
}

// SendEmbedWithRetry sends an embed with exponential backoff retry.
func (d *DiscordNotifier) SendEmbedWithRetry(ctx context.Context, embed *discordgo.MessageEmbed, maxRetries int) error {
	return d.sendWithRetry(ctx, maxRetries, func() error { return d.SendEmbed(embed) })
}

func (d *DiscordNotifier) sendWithRetry(ctx context.Context, maxRetries int, send func() error) error {
	min, max := d.backoffMin, d.backoffMax
	if min == 0 {
		min = time.Second
	}
	if max == 0 {
		max = 30 * time.Second
	}
	b := &backoff.Backoff{
		Min:    min,
		Max:    max,
		Factor: 2,
		Jitter: true,
	}

	for i := 0; ; i++ {
		err := send()
		if err == nil {
			return nil
		}
		if i == maxRetries {
			return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, err)
		}
		wait := b.Duration()
		d.log.Warn().Err(err).Int("attempt", i+1).Dur("backoff", wait).Msg("discord send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
