package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "stop",
		Description: "Stop the current song and delete the queue",
		Contexts:    guildOnly,
	}, playerCommand("stop", func(event *events.ApplicationCommandInteractionCreate, p *proc.Orchestrator, req proc.Request) {
		respond(event, p.Stop(req), false)
	}))
}
