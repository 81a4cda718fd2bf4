package domain

// LaunchConfig is the application shell configuration.
// It is parsed once at process start from the bundled resource and handed to
// the shell unmodified; the sequencer never looks inside it.
type LaunchConfig struct {
	// Raw is the resource text as read.
	Raw []byte

	// Values is the decoded document.
	Values map[string]any
}

// Empty reports whether no configuration was loaded.
func (c LaunchConfig) Empty() bool {
	return len(c.Raw) == 0 && len(c.Values) == 0
}
