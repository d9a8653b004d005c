// Package discord posts finished tournament rounds to each guild's notify
// channel. It is the presentation side of the pipeline's Notifier contract;
// nothing in here feeds back into ingestion.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TmRxJD/tower-tracker/controller"
	"github.com/TmRxJD/tower-tracker/model"
	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2

type Notifier struct {
	session *discordgo.Session
}

func NewNotifier(token string) (*Notifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening discord session: %w", err)
	}
	return &Notifier{session: session}, nil
}

func (n *Notifier) Close() error {
	return n.session.Close()
}

func (n *Notifier) RoundFinished(ctx context.Context, guild *model.GuildSyncState, report *controller.SyncReport) error {
	embed := buildRoundEmbed(report)
	_, err := n.session.ChannelMessageSendEmbed(guild.NotifyChannelID, embed)
	if err != nil {
		return fmt.Errorf("error sending round notification to channel %s: %w", guild.NotifyChannelID, err)
	}
	return nil
}

func buildRoundEmbed(report *controller.SyncReport) *discordgo.MessageEmbed {
	var sb strings.Builder
	for i, r := range report.Results {
		if i >= 25 {
			fmt.Fprintf(&sb, "...and %d more\n", len(report.Results)-i)
			break
		}
		name := r.DisplayName
		if r.DiscordID != "" {
			name = fmt.Sprintf("<@%s>", r.DiscordID)
		}
		if r.WatchOnly {
			name += " (watch)"
		}
		fmt.Fprintf(&sb, "`#%-4d` %s — wave %d (%s)\n", r.Rank, name, r.Wave, r.League)
	}
	if sb.Len() == 0 {
		sb.WriteString("No tracked players placed this round.")
	}

	footer := fmt.Sprintf("patch %s", report.Patch)
	if report.Patch == "" {
		footer = "patch unknown"
	}
	if len(report.Conditions) > 0 {
		footer += " • " + strings.Join(report.Conditions, ", ")
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Tournament results — %s", report.RoundDate.Format("Mon Jan 2, 2006")),
		Description: sb.String(),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp:   report.RoundDate.Format(time.RFC3339),
	}
}
