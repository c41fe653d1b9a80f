package modules

import (
	"warden/application"

	"github.com/bwmarrin/discordgo"
)

// Feature handles module enablement management
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new modules feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes module commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "list":
		f.handleList(s, i)
	case "enable":
		f.handleToggle(s, i, true)
	case "disable":
		f.handleToggle(s, i, false)
	}
}
