package rolemenus

import (
	"strconv"
	"strings"

	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// SelectCustomID identifies the role select component on menu messages. The
// message ID, not the custom ID, ties an interaction back to its menu record.
const SelectCustomID = "rolemenu_select"

// CreateMenuComponents creates the select component for a menu message
func CreateMenuComponents(view interfaces.MenuView) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(view.Options))
	for _, option := range view.Options {
		selectOption := discordgo.SelectMenuOption{
			Label: option.Label,
			Value: strconv.FormatInt(option.RoleID, 10),
		}
		if emoji := parseComponentEmoji(option.Emoji); emoji != nil {
			selectOption.Emoji = emoji
		}
		options = append(options, selectOption)
	}

	// Min selectable is always zero so members can clear their choices
	minValues := 0

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    SelectCustomID,
					Placeholder: view.Placeholder,
					MinValues:   &minValues,
					MaxValues:   view.MaxSelections,
					Disabled:    view.Disabled,
					Options:     options,
				},
			},
		},
	}
}

// parseComponentEmoji turns a stored emoji string into a component emoji.
// Custom emoji arrive as <:name:id> or <a:name:id>; anything else is treated
// as a unicode emoji.
func parseComponentEmoji(emoji string) *discordgo.ComponentEmoji {
	if emoji == "" {
		return nil
	}
	if strings.HasPrefix(emoji, "<") && strings.HasSuffix(emoji, ">") {
		parts := strings.Split(strings.Trim(emoji, "<>"), ":")
		if len(parts) == 3 {
			return &discordgo.ComponentEmoji{
				Name:     parts[1],
				ID:       parts[2],
				Animated: parts[0] == "a",
			}
		}
		return nil
	}
	return &discordgo.ComponentEmoji{Name: emoji}
}
