package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "pause",
		Description: "Pause or resume the current song",
		Contexts:    guildOnly,
	}, playerCommand("pause", func(event *events.ApplicationCommandInteractionCreate, p *proc.Orchestrator, req proc.Request) {
		respond(event, p.Pause(req), false)
	}))
}
