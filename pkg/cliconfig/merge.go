package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	strs := []struct {
		key    string
		from   string
		target *string
	}{
		{"specDir", source.SpecDir, &target.SpecDir},
		{"pattern", source.Pattern, &target.Pattern},
		{"glob", source.Glob, &target.Glob},
		{"version", source.Version, &target.Version},
		{"logLevel", source.LogLevel, &target.LogLevel},
		{"logFormat", source.LogFormat, &target.LogFormat},
		{"logFile", source.LogFile, &target.LogFile},
	}
	for _, s := range strs {
		if s.from != "" {
			*s.target = s.from
			target.Sources[s.key] = sourceType
		}
	}

	// For booleans, checking `if source.X` cannot detect an explicit false.
	// SetFields (populated during file loading) records whether the key was
	// present; without it only true values are merged.
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config.
func boolIsSet(cfg *CLIConfig, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "json":
		return cfg.JSON
	}
	return false
}
