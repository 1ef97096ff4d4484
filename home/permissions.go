package home

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

// checkVoiceAccess verifies that the caller sits in a voice channel the bot
// may join and speak in. It returns the user-facing failure, or "".
func checkVoiceAccess(client *bot.Client, guildID, userID snowflake.ID) (proc.Request, string) {
	req := proc.Request{GuildID: guildID, UserID: userID}

	state, ok := client.Caches.VoiceState(guildID, userID)
	if !ok || state.ChannelID == nil {
		return req, sys.ErrVoiceNotInChannel
	}
	req.VoiceChannelID = *state.ChannelID

	if self, ok := client.Caches.VoiceState(guildID, client.ID()); ok && self.ChannelID != nil && *self.ChannelID != req.VoiceChannelID {
		return req, sys.ErrVoiceDifferentChannel
	}

	ch, ok := client.Caches.Channel(req.VoiceChannelID)
	if !ok {
		return req, ""
	}
	gc, ok := ch.(discord.GuildChannel)
	if !ok {
		return req, ""
	}
	member, ok := client.Caches.Member(guildID, client.ID())
	if !ok {
		return req, ""
	}

	perms := memberPermissionsInChannel(client, gc, member)
	return req, voicePermissionFailure(perms)
}

func voicePermissionFailure(perms discord.Permissions) string {
	if !perms.Has(discord.PermissionConnect) {
		return sys.ErrVoiceNoConnect
	}
	if !perms.Has(discord.PermissionSpeak) {
		return sys.ErrVoiceNoSpeak
	}
	return ""
}

// memberPermissionsInChannel resolves member's effective permissions in
// channel from the cached roles and overwrites.
func memberPermissionsInChannel(client *bot.Client, channel discord.GuildChannel, member discord.Member) discord.Permissions {
	guild, ok := client.Caches.Guild(channel.GuildID())
	if !ok {
		return 0
	}
	if guild.OwnerID == member.User.ID {
		return discord.PermissionsAll
	}

	var perms discord.Permissions
	if everyone, ok := client.Caches.Role(guild.ID, snowflake.ID(guild.ID)); ok {
		perms |= everyone.Permissions
	}
	for _, roleID := range member.RoleIDs {
		if role, ok := client.Caches.Role(guild.ID, roleID); ok {
			perms |= role.Permissions
		}
	}
	if perms.Has(discord.PermissionAdministrator) {
		return discord.PermissionsAll
	}

	return applyOverwrites(perms, channel.PermissionOverwrites(), guild.ID, member)
}

// applyOverwrites layers @everyone, role and member overwrites onto base.
func applyOverwrites(base discord.Permissions, overwrites discord.PermissionOverwrites, guildID snowflake.ID, member discord.Member) discord.Permissions {
	perms := base
	for _, o := range overwrites {
		if o.ID() == guildID {
			if ro, ok := o.(discord.RolePermissionOverwrite); ok {
				perms &^= ro.Deny
				perms |= ro.Allow
			}
			break
		}
	}

	var roleAllow, roleDeny discord.Permissions
	for _, o := range overwrites {
		for _, roleID := range member.RoleIDs {
			if o.ID() == roleID {
				if ro, ok := o.(discord.RolePermissionOverwrite); ok {
					roleDeny |= ro.Deny
					roleAllow |= ro.Allow
				}
				break
			}
		}
	}
	perms &^= roleDeny
	perms |= roleAllow

	for _, o := range overwrites {
		if o.ID() == member.User.ID {
			if mo, ok := o.(discord.MemberPermissionOverwrite); ok {
				perms &^= mo.Deny
				perms |= mo.Allow
			}
			break
		}
	}
	return perms
}
