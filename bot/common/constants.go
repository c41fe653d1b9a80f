package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorError   = 0xED4245 // Red (alias for ColorDanger)
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
)

// UI constants
const (
	// MaxSelectOptions is Discord's hard cap on options in one select menu,
	// which bounds how many roles a single menu can offer
	MaxSelectOptions = 25

	MaxActionRows = 5
)
