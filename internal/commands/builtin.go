package commands

// LoadBuiltIn registers the commands every installation has.
func (r *Registry) LoadBuiltIn() error {
	builtins := []Command{
		{
			Name:        "Terminal",
			Description: "Open a terminal",
			Icon:        "utilities-terminal",
			Exec:        "foot",
			Source:      "builtin",
		},
		{
			Name:        "Browser",
			Description: "Open the default browser",
			Icon:        "web-browser",
			Exec:        "xdg-open https://",
			Source:      "builtin",
		},
		{
			Name:        "Files",
			Description: "Open the file manager",
			Icon:        "system-file-manager",
			Exec:        "xdg-open .",
			Source:      "builtin",
		},
		{
			Name:        "Lock Screen",
			Description: "Lock the session",
			Icon:        "system-lock-screen",
			Exec:        "swaylock",
			Source:      "builtin",
		},
	}

	for _, cmd := range builtins {
		if err := r.Register(cmd); err != nil {
			registryLogger.Printf("failed to register builtin %s: %v", cmd.Name, err)
		}
	}
	return nil
}
