package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "loop",
		Description: "Loop the queue in different modes",
		Contexts:    guildOnly,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionInt{
				Name:        "mode",
				Description: "The loop mode",
				Required:    true,
				Choices: []discord.ApplicationCommandOptionChoiceInt{
					{Name: proc.RepeatOff.String(), Value: int(proc.RepeatOff)},
					{Name: proc.RepeatTrack.String(), Value: int(proc.RepeatTrack)},
					{Name: proc.RepeatQueue.String(), Value: int(proc.RepeatQueue)},
					{Name: proc.RepeatAutoplay.String(), Value: int(proc.RepeatAutoplay)},
				},
			},
		},
	}, playerCommand("loop", func(event *events.ApplicationCommandInteractionCreate, p *proc.Orchestrator, req proc.Request) {
		mode, _ := event.SlashCommandInteractionData().OptInt("mode")
		respond(event, p.Loop(req, mode), false)
	}))
}
