package settings

import (
	"warden/application"

	"github.com/bwmarrin/discordgo"
)

// Feature handles guild configuration settings
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new settings feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes settings commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "prefix":
		f.handlePrefix(s, i)
	case "log-channel":
		f.handleLogChannel(s, i)
	case "mute-role":
		f.handleMuteRole(s, i)
	case "show":
		f.handleShow(s, i)
	}
}
