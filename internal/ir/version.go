package ir

// Version constants stamped on stored games.
const (
	// FormatVersion is the stored event payload format.
	FormatVersion = "1"

	// EngineVersion is the deduction engine version.
	EngineVersion = "0.1.0"
)
