package rolemenus

import (
	"context"
	"fmt"
	"strconv"

	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/domain/services"
	"warden/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// roleOptionNames are the slash command option names that can each carry one
// role for /rolemenu create
var roleOptionNames = []string{"role", "role2", "role3", "role4", "role5"}

// handleCreate handles the /rolemenu create command
func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	createdBy, err := common.ParseSnowflake(i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	options := subcommandOptions(i)

	channelOption, ok := options["channel"]
	if !ok {
		common.RespondWithError(s, i, "Channel is required")
		return
	}
	channelID, err := common.ParseSnowflake(channelOption.ChannelValue(s).ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID: %v", err)
		common.RespondWithError(s, i, "Invalid channel selected")
		return
	}

	titleOption, ok := options["title"]
	if !ok {
		common.RespondWithError(s, i, "Title is required")
		return
	}
	title := titleOption.StringValue()

	var description string
	if option, ok := options["description"]; ok {
		description = option.StringValue()
	}

	maxSelections := 0
	if option, ok := options["max-selections"]; ok {
		maxSelections = int(option.IntValue())
	}

	var roles []entities.RoleOption
	for _, name := range roleOptionNames {
		option, ok := options[name]
		if !ok {
			continue
		}
		role := option.RoleValue(s, i.GuildID)
		roleID, err := common.ParseSnowflake(role.ID)
		if err != nil {
			log.Errorf("Failed to parse role ID: %v", err)
			common.RespondWithError(s, i, "Invalid role selected")
			return
		}
		roles = append(roles, entities.RoleOption{RoleID: roleID, Label: role.Name})
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to create role menu")
		return
	}
	defer uow.Rollback()

	menuService := services.NewRoleMenuService(uow.RoleMenuRepository(), f.platform, uow.EventBus())

	menu, err := menuService.CreateMenu(ctx, guildID, channelID, createdBy, title, description, roles, maxSelections)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Errorf("Failed to create role menu: %v", err)
		common.RespondWithError(s, i, common.UserErrorMessage(err, "Failed to create role menu"))
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to create role menu")
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("✅ Role menu **%s** created in <#%d> (message ID `%d`)", menu.Title, menu.ChannelID, menu.MessageID))
}

// handleList handles the /rolemenu list command
func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to list role menus")
		return
	}
	defer uow.Rollback()

	menus, err := uow.RoleMenuRepository().List(ctx)
	if err != nil {
		log.Errorf("Failed to list role menus: %v", err)
		common.RespondWithError(s, i, "Failed to list role menus")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{CreateMenuListEmbed(menus)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleEdit handles the /rolemenu edit command
func (f *Feature) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	options := subcommandOptions(i)

	var patch entities.RoleMenuPatch
	if option, ok := options["title"]; ok {
		title := option.StringValue()
		patch.Title = &title
	}
	if option, ok := options["description"]; ok {
		description := option.StringValue()
		patch.Description = &description
	}
	if option, ok := options["max-selections"]; ok {
		maxSelections := int(option.IntValue())
		patch.MaxSelections = &maxSelections
	}

	f.applyPatch(s, i, guildID, patch, "Menu updated")
}

// handleAddRole handles the /rolemenu add-role command
func (f *Feature) handleAddRole(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	options := subcommandOptions(i)

	option, ok := options["role"]
	if !ok {
		common.RespondWithError(s, i, "Role is required")
		return
	}
	role := option.RoleValue(s, i.GuildID)
	roleID, err := common.ParseSnowflake(role.ID)
	if err != nil {
		log.Errorf("Failed to parse role ID: %v", err)
		common.RespondWithError(s, i, "Invalid role selected")
		return
	}

	addRole := entities.RoleOption{RoleID: roleID, Label: role.Name}
	if emojiOption, ok := options["emoji"]; ok {
		addRole.Emoji = emojiOption.StringValue()
	}

	f.applyPatch(s, i, guildID, entities.RoleMenuPatch{AddRole: &addRole},
		fmt.Sprintf("Added <@&%d> to the menu", roleID))
}

// handleRemoveRole handles the /rolemenu remove-role command
func (f *Feature) handleRemoveRole(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	options := subcommandOptions(i)

	option, ok := options["role"]
	if !ok {
		common.RespondWithError(s, i, "Role is required")
		return
	}
	roleID, err := common.ParseSnowflake(option.RoleValue(s, i.GuildID).ID)
	if err != nil {
		log.Errorf("Failed to parse role ID: %v", err)
		common.RespondWithError(s, i, "Invalid role selected")
		return
	}

	f.applyPatch(s, i, guildID, entities.RoleMenuPatch{RemoveRoleIDs: []int64{roleID}},
		fmt.Sprintf("Removed <@&%d> from the menu", roleID))
}

// handleEmoji handles the /rolemenu emoji command. Omitting the emoji option
// clears the role's emoji.
func (f *Feature) handleEmoji(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	options := subcommandOptions(i)

	option, ok := options["role"]
	if !ok {
		common.RespondWithError(s, i, "Role is required")
		return
	}
	roleID, err := common.ParseSnowflake(option.RoleValue(s, i.GuildID).ID)
	if err != nil {
		log.Errorf("Failed to parse role ID: %v", err)
		common.RespondWithError(s, i, "Invalid role selected")
		return
	}

	var emoji string
	if emojiOption, ok := options["emoji"]; ok {
		emoji = emojiOption.StringValue()
	}

	f.applyPatch(s, i, guildID, entities.RoleMenuPatch{
		EmojiUpdate: &entities.RoleEmojiUpdate{RoleID: roleID, Emoji: emoji},
	}, fmt.Sprintf("Updated emoji for <@&%d>", roleID))
}

// applyPatch runs the shared admin-check/parse/edit/respond flow for every
// command that reduces to an EditMenu call
func (f *Feature) applyPatch(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, patch entities.RoleMenuPatch, successMessage string) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	messageID, ok := f.messageIDOption(s, i)
	if !ok {
		return
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update role menu")
		return
	}
	defer uow.Rollback()

	menuService := services.NewRoleMenuService(uow.RoleMenuRepository(), f.platform, uow.EventBus())

	menu, err := menuService.EditMenu(ctx, messageID, patch)
	if err != nil && menu == nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"message_id": messageID,
		}).Errorf("Failed to edit role menu: %v", err)
		common.RespondWithError(s, i, common.UserErrorMessage(err, "Failed to update role menu"))
		return
	}

	// The persisted change stands even when the live message re-render failed
	if commitErr := uow.Commit(); commitErr != nil {
		log.Errorf("Error committing transaction: %v", commitErr)
		common.RespondWithError(s, i, "Failed to update role menu")
		return
	}

	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"message_id": messageID,
		}).Warnf("Menu updated but re-render failed: %v", err)
		common.RespondEphemeral(s, i, fmt.Sprintf("⚠️ %s, but the menu message could not be refreshed", successMessage))
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("✅ %s", successMessage))
}

// handleSetActive handles the /rolemenu pause and /rolemenu resume commands
func (f *Feature) handleSetActive(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, active bool) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	messageID, ok := f.messageIDOption(s, i)
	if !ok {
		return
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update role menu")
		return
	}
	defer uow.Rollback()

	menuService := services.NewRoleMenuService(uow.RoleMenuRepository(), f.platform, uow.EventBus())

	var menu *entities.RoleMenu
	var err error
	if active {
		menu, err = menuService.ResumeMenu(ctx, messageID)
	} else {
		menu, err = menuService.PauseMenu(ctx, messageID)
	}
	if err != nil && menu == nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"message_id": messageID,
		}).Errorf("Failed to update menu state: %v", err)
		common.RespondWithError(s, i, common.UserErrorMessage(err, "Failed to update role menu"))
		return
	}

	if commitErr := uow.Commit(); commitErr != nil {
		log.Errorf("Error committing transaction: %v", commitErr)
		common.RespondWithError(s, i, "Failed to update role menu")
		return
	}

	verb := "paused"
	if active {
		verb = "resumed"
	}
	if err != nil {
		common.RespondEphemeral(s, i, fmt.Sprintf("⚠️ Menu **%s** %s, but the menu message could not be refreshed", menu.Title, verb))
		return
	}
	common.RespondEphemeral(s, i, fmt.Sprintf("✅ Menu **%s** %s", menu.Title, verb))
}

// handleSetActiveAll handles the /rolemenu pause-all and /rolemenu resume-all commands
func (f *Feature) handleSetActiveAll(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, active bool) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update role menus")
		return
	}
	defer uow.Rollback()

	menuService := services.NewRoleMenuService(uow.RoleMenuRepository(), f.platform, uow.EventBus())

	var result *interfaces.BulkUpdateResult
	var err error
	if active {
		result, err = menuService.ResumeAll(ctx)
	} else {
		result, err = menuService.PauseAll(ctx)
	}
	if err != nil {
		log.Errorf("Failed to update menu states: %v", err)
		common.RespondWithError(s, i, "Failed to update role menus")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update role menus")
		return
	}

	verb := "paused"
	if active {
		verb = "resumed"
	}
	message := fmt.Sprintf("✅ %d menu(s) %s", len(result.Updated), verb)
	if len(result.RenderFailures) > 0 {
		message = fmt.Sprintf("⚠️ %d menu(s) %s, %d menu message(s) could not be refreshed", len(result.Updated), verb, len(result.RenderFailures))
	}
	common.RespondEphemeral(s, i, message)
}

// handleDelete handles the /rolemenu delete command
func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	messageID, ok := f.messageIDOption(s, i)
	if !ok {
		return
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to delete role menu")
		return
	}
	defer uow.Rollback()

	menuService := services.NewRoleMenuService(uow.RoleMenuRepository(), f.platform, uow.EventBus())

	if err := menuService.DeleteMenu(ctx, messageID); err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"message_id": messageID,
		}).Errorf("Failed to delete role menu: %v", err)
		common.RespondWithError(s, i, common.UserErrorMessage(err, "Failed to delete role menu"))
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to delete role menu")
		return
	}

	common.RespondEphemeral(s, i, "✅ Role menu deleted")
}

// handleSelection handles a member submitting the select component on a menu
// message
func (f *Feature) handleSelection(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process selection")
		return
	}

	if !f.moduleEnabled(guildID) {
		common.RespondWithError(s, i, "The rolemenus module is disabled in this server")
		return
	}

	messageID, err := common.ParseSnowflake(i.Message.ID)
	if err != nil {
		log.Errorf("Failed to parse message ID: %v", err)
		common.RespondWithError(s, i, "Failed to process selection")
		return
	}

	userID, err := common.ParseSnowflake(i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID: %v", err)
		common.RespondWithError(s, i, "Failed to process selection")
		return
	}

	values := i.MessageComponentData().Values
	selectedRoleIDs := make([]int64, 0, len(values))
	for _, value := range values {
		roleID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			log.Errorf("Failed to parse selected role ID %q: %v", value, err)
			common.RespondWithError(s, i, "Failed to process selection")
			return
		}
		selectedRoleIDs = append(selectedRoleIDs, roleID)
	}

	// Role changes involve one API call per role; defer so the interaction
	// doesn't time out
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Failed to defer interaction: %v", err)
		return
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.FollowUpWithError(s, i, "Failed to update your roles")
		return
	}
	defer uow.Rollback()

	menuService := services.NewRoleMenuService(uow.RoleMenuRepository(), f.platform, uow.EventBus())

	result, err := menuService.HandleSelection(ctx, messageID, userID, selectedRoleIDs)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"message_id": messageID,
			"user_id":    userID,
		}).Errorf("Failed to handle selection: %v", err)
		common.FollowUpWithError(s, i, common.UserErrorMessage(err, "Failed to update your roles"))
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.FollowUpWithError(s, i, "Failed to update your roles")
		return
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordRoleChanges(observability.RoleChangeAdded, int64(len(result.Added)))
		metrics.RecordRoleChanges(observability.RoleChangeRemoved, int64(len(result.Removed)))
		metrics.RecordRoleChanges(observability.RoleChangeFailed, int64(len(result.Failed)))
	}

	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{CreateSelectionResultEmbed(result)},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Failed to send selection follow-up: %v", err)
	}
}

// messageIDOption extracts and parses the message-id option, responding with
// an error when it is missing or malformed
func (f *Feature) messageIDOption(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	option, ok := subcommandOptions(i)["message-id"]
	if !ok {
		common.RespondWithError(s, i, "Message ID is required")
		return 0, false
	}
	messageID, err := strconv.ParseInt(option.StringValue(), 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Message ID must be a number")
		return 0, false
	}
	return messageID, true
}

// subcommandOptions indexes the invoked subcommand's options by name
func subcommandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, option := range i.ApplicationCommandData().Options[0].Options {
		options[option.Name] = option
	}
	return options
}
