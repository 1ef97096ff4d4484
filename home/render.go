package home

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

const (
	maxEmbedTitle       = 256
	maxEmbedDescription = 4096
	maxEmbedFieldValue  = 1024
)

// embedRenderer posts channel notifications as embeds.
type embedRenderer struct {
	client     *bot.Client
	footer     string
	footerIcon string
}

func (r *embedRenderer) Render(ctx context.Context, resp proc.Response) error {
	_, err := r.client.Rest.CreateMessage(resp.ChannelID, discord.MessageCreate{
		Embeds: []discord.Embed{buildEmbed(resp, r.footer, r.footerIcon)},
	}, rest.WithCtx(ctx))
	return err
}

// buildEmbed converts resp into an embed, dropping empty fields.
func buildEmbed(resp proc.Response, footer, footerIcon string) discord.Embed {
	now := time.Now()
	e := discord.Embed{
		Title:       sys.TruncateRunes(resp.Title, maxEmbedTitle),
		Description: sys.TruncateRunes(resp.Description, maxEmbedDescription),
		URL:         resp.URL,
		Color:       resp.Color,
		Timestamp:   &now,
	}
	if resp.Thumbnail != "" {
		e.Thumbnail = &discord.EmbedResource{URL: resp.Thumbnail}
	}
	if footer != "" {
		e.Footer = &discord.EmbedFooter{Text: footer, IconURL: footerIcon}
	}
	for _, f := range resp.Fields {
		if f.Name == "" || f.Value == "" {
			continue
		}
		inline := f.Inline
		e.Fields = append(e.Fields, discord.EmbedField{
			Name:   f.Name,
			Value:  sys.TruncateRunes(f.Value, maxEmbedFieldValue),
			Inline: &inline,
		})
	}
	return e
}
