package config

// Config is the top-level YAML structure.
type Config struct {
	Version string     `yaml:"version"`
	Corpus  CorpusConf `yaml:"corpus"`
	Filter  string     `yaml:"filter"` // optional edge-selection expression
	Report  ReportConf `yaml:"report"`
	Log     LogConf    `yaml:"log"`
	Server  ServerConf `yaml:"server"`
}

// CorpusConf locates the mail files and says which headers make edges.
type CorpusConf struct {
	Root             string   `yaml:"root"`
	SenderHeader     string   `yaml:"sender_header"`
	RecipientHeaders []string `yaml:"recipient_headers"`
	// Lowercase is a pointer so an explicit false survives defaulting.
	Lowercase *bool `yaml:"lowercase"`
}

// LowercaseAddresses reports the effective normalization setting.
func (c CorpusConf) LowercaseAddresses() bool {
	return c.Lowercase == nil || *c.Lowercase
}

// ReportConf controls where the connector list goes. An empty path or "-"
// means the caller's display stream.
type ReportConf struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // "text" | "json"
}

// LogConf selects the slog handler.
type LogConf struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConf holds HTTP settings for cmd/server.
type ServerConf struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
	ReloadOnChange bool   `yaml:"reload_on_change"`
}
