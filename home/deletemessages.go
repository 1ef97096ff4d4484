package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

func init() {
	managePerm := discord.PermissionManageMessages

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "delete-messages",
		Description:              "Delete the bot's recent messages in this channel",
		DefaultMemberPermissions: omit.New(&managePerm),
		Contexts:                 guildOnly,
	}, handleDeleteMessages)
}

func handleDeleteMessages(event *events.ApplicationCommandInteractionCreate) {
	p := currentPlayer()
	if p == nil || event.GuildID() == nil {
		respond(event, proc.Response{Title: sys.ErrGuildOnly, Ephemeral: true}, false)
		return
	}
	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogDebug(sys.MsgVoiceRespondFail, event.Data.CommandName(), err)
		return
	}
	req := proc.Request{
		GuildID:       *event.GuildID(),
		TextChannelID: event.Channel().ID(),
		UserID:        event.User().ID,
		UserName:      event.User().Username,
	}
	respond(event, p.DeleteMessages(sys.AppContext, req), true)
}
