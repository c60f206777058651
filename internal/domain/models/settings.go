package models

// SettingSeeded marks that the baseline catalog has been loaded.
const SettingSeeded = "seeded"

// Setting is a process-wide flag or value.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Enabled reports whether the setting holds a true value.
func (s Setting) Enabled() bool { return s.Value == "true" }
