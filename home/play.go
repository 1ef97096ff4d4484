package home

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "play",
		Description: "Play a song in a voice channel",
		Contexts:    guildOnly,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:         "song",
				Description:  "The song to play",
				Required:     true,
				Autocomplete: true,
			},
		},
	}, playerCommand("play", handlePlay))

	sys.RegisterAutocompleteHandler("play", handlePlayAutocomplete)
}

func handlePlay(event *events.ApplicationCommandInteractionCreate, p *proc.Orchestrator, req proc.Request) {
	query, _ := event.SlashCommandInteractionData().OptString("song")

	deferred := false
	resp := p.Play(sys.AppContext, req, query, func() {
		deferred = event.DeferCreateMessage(false) == nil
	})
	respond(event, resp, deferred)
}

func handlePlayAutocomplete(event *events.AutocompleteInteractionCreate) {
	p := currentPlayer()
	focused := event.Data.Focused()
	if p == nil || focused.Name != "song" {
		_ = event.AutocompleteResult(nil)
		return
	}

	candidates := p.Resolver().Autocomplete(context.Background(), focused.String())
	choices := make([]discord.AutocompleteChoice, 0, len(candidates))
	for _, c := range candidates {
		choices = append(choices, discord.AutocompleteChoiceString{Name: c.Name, Value: c.Value})
	}
	_ = event.AutocompleteResult(choices)
}
