package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "skip",
		Description: "Skip to the next song",
		Contexts:    guildOnly,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionInt{
				Name:        "skips",
				Description: "How many songs do you want to skip?",
				Required:    false,
			},
		},
	}, playerCommand("skip", handleSkip))
}

func handleSkip(event *events.ApplicationCommandInteractionCreate, p *proc.Orchestrator, req proc.Request) {
	var count *int
	if n, ok := event.SlashCommandInteractionData().OptInt("skips"); ok {
		count = &n
	}
	respond(event, p.Skip(req, count), false)
}
