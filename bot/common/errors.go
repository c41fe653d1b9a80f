package common

import (
	"errors"
	"fmt"

	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// RespondWithError sends an error message as an ephemeral interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// RespondEphemeral sends a plain ephemeral message as an interaction response
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// UserErrorMessage maps a domain error to a message safe to show the invoking
// user. Validation and permission errors carry their own wording; anything else
// collapses to a generic failure so internals never leak into Discord.
func UserErrorMessage(err error, fallback string) string {
	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var permissionErr *entities.PermissionError
	if errors.As(err, &permissionErr) {
		return permissionErr.Message
	}
	switch {
	case errors.Is(err, entities.ErrMenuNotFound):
		return "No role menu found for that message"
	case errors.Is(err, entities.ErrMenuPaused):
		return "This menu is currently paused"
	case errors.Is(err, entities.ErrLockNotFound):
		return "That channel is not locked"
	case errors.Is(err, entities.ErrUnknownModule):
		return "Unknown module"
	case errors.Is(err, entities.ErrForbidden):
		return "The bot is missing permissions for that"
	}
	return fallback
}
