package inbox

import (
	"path/filepath"
	"strings"
	"time"
)

// Options configures the inbox watcher.
type Options struct {
	// Extensions accepted, lower-case with dot. Defaults to .json.
	Extensions []string
	// IgnorePatterns are matched against the file's base name.
	IgnorePatterns []string
	// SettleDelay is how long a file must stay unchanged before it is handed over.
	SettleDelay time.Duration
	// MaxFileSize rejects larger files without reading them.
	MaxFileSize int64
}

const (
	defaultSettleDelay = 500 * time.Millisecond
	defaultMaxFileSize = 20 << 20
)

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = defaultSettleDelay
	}
	if o.MaxFileSize == 0 {
		o.MaxFileSize = defaultMaxFileSize
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".json"}
	}
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{
			".DS_Store",
			"*.tmp",
			"*.part",
			"*.errors.txt",
		}
	}
}

// accepts reports whether a path is an import candidate.
func (o *Options) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, pattern := range o.IgnorePatterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return false
		}
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, want := range o.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
