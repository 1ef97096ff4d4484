package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

const maxAutocompleteChoices = 25

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "filters",
		Description: "Set filters",
		Contexts:    guildOnly,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:         "filter1",
				Description:  "First filter",
				Required:     true,
				Autocomplete: true,
			},
			discord.ApplicationCommandOptionString{
				Name:         "filter2",
				Description:  "Second filter",
				Required:     false,
				Autocomplete: true,
			},
		},
	}, playerCommand("filters", func(event *events.ApplicationCommandInteractionCreate, p *proc.Orchestrator, req proc.Request) {
		data := event.SlashCommandInteractionData()
		f1, _ := data.OptString("filter1")
		f2, _ := data.OptString("filter2")
		respond(event, p.Filters(req, f1, f2), false)
	}))

	sys.RegisterAutocompleteHandler("filters", handleFiltersAutocomplete)
}

func handleFiltersAutocomplete(event *events.AutocompleteInteractionCreate) {
	names := proc.MatchFilters(event.Data.Focused().String(), maxAutocompleteChoices)
	choices := make([]discord.AutocompleteChoice, 0, len(names))
	for _, n := range names {
		choices = append(choices, discord.AutocompleteChoiceString{Name: n, Value: n})
	}
	_ = event.AutocompleteResult(choices)
}
