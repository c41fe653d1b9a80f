package lockdown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warden/bot/common"
	"warden/config"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleLock handles the /lockdown lock command
func (f *Feature) handleLock(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	lockedBy, err := common.ParseSnowflake(i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	channelID, ok := f.channelOption(s, i)
	if !ok {
		return
	}

	var duration time.Duration
	var reason string
	for _, option := range i.ApplicationCommandData().Options[0].Options {
		switch option.Name {
		case "minutes":
			duration = time.Duration(option.IntValue()) * time.Minute
		case "reason":
			reason = option.StringValue()
		}
	}

	maxDuration := time.Duration(config.Get().MaxLockHours) * time.Hour
	if duration > maxDuration {
		common.RespondWithError(s, i, fmt.Sprintf("Lock duration cannot exceed %d hours", config.Get().MaxLockHours))
		return
	}

	ctx := context.Background()

	lock, err := f.scheduler.Lock(ctx, guildID, channelID, lockedBy, reason, duration)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Errorf("Failed to lock channel: %v", err)
		common.RespondWithError(s, i, common.UserErrorMessage(err, "Failed to lock channel"))
		return
	}

	message := fmt.Sprintf("🔒 <#%d> locked until further notice", channelID)
	if lock != nil {
		message = fmt.Sprintf("🔒 <#%d> locked until <t:%d:f>", channelID, lock.UnlockAt.Unix())
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleUnlock handles the /lockdown unlock command
func (f *Feature) handleUnlock(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	channelID, ok := f.channelOption(s, i)
	if !ok {
		return
	}

	reason := "unlocked by moderator"
	for _, option := range i.ApplicationCommandData().Options[0].Options {
		if option.Name == "reason" {
			reason = option.StringValue()
		}
	}

	ctx := context.Background()

	if err := f.scheduler.Unlock(ctx, guildID, channelID, reason); err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Errorf("Failed to unlock channel: %v", err)
		common.RespondWithError(s, i, common.UserErrorMessage(err, "Failed to unlock channel"))
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🔓 <#%d> unlocked", channelID),
		},
	})
	if err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleStatus handles the /lockdown status command
func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	channelID, ok := f.channelOption(s, i)
	if !ok {
		return
	}

	ctx := context.Background()

	lock, err := f.scheduler.GetLock(ctx, guildID, channelID)
	if err != nil {
		if errors.Is(err, entities.ErrLockNotFound) {
			common.RespondEphemeral(s, i, fmt.Sprintf("<#%d> has no timed lock", channelID))
			return
		}
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Errorf("Failed to get channel lock: %v", err)
		common.RespondWithError(s, i, "Failed to check lock status")
		return
	}

	message := fmt.Sprintf("🔒 <#%d> is locked until <t:%d:f> (by <@%d>)", channelID, lock.UnlockAt.Unix(), lock.LockedBy)
	if lock.Reason != "" {
		message = fmt.Sprintf("%s\nReason: %s", message, lock.Reason)
	}
	common.RespondEphemeral(s, i, message)
}

// channelOption extracts the target channel, defaulting to the channel the
// command was invoked in
func (f *Feature) channelOption(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	for _, option := range i.ApplicationCommandData().Options[0].Options {
		if option.Name == "channel" {
			channelID, err := common.ParseSnowflake(option.ChannelValue(s).ID)
			if err != nil {
				log.Errorf("Failed to parse channel ID: %v", err)
				common.RespondWithError(s, i, "Invalid channel selected")
				return 0, false
			}
			return channelID, true
		}
	}

	channelID, err := common.ParseSnowflake(i.ChannelID)
	if err != nil {
		log.Errorf("Failed to parse channel ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return 0, false
	}
	return channelID, true
}
