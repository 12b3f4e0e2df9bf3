// Package localization loads notification message templates per language.
// Citizens chat with the bot in their own language, so every outbound
// WhatsApp message is rendered from a per-language JSON template file
// (e.g. "en.json", "hi.json") keyed like "grievance.status.RESOLVED".
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fallbackLang = "en"

// Localizer holds the loaded template tables, one map per language code.
type Localizer struct {
	templates map[string]map[string]string
	mu        sync.RWMutex
}

// NewLocalizer loads every "<lang>.json" file in dir. Each file is a flat
// map of template key to template string.
func NewLocalizer(dir string) (*Localizer, error) {
	l := &Localizer{templates: make(map[string]map[string]string)}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}
		l.templates[lang] = table
	}

	return l, nil
}

// GetString returns the raw template for a key in the given language,
// falling back to English and finally to the key itself so a missing
// translation never blocks a notification.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if table, ok := l.templates[lang]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if lang != fallbackLang {
		if table, ok := l.templates[fallbackLang]; ok {
			if value, ok := table[key]; ok {
				return value
			}
		}
	}
	return key
}

// Format renders a template, substituting every "{{name}}" placeholder from
// vars. Unknown placeholders are left in place so template mistakes are
// visible rather than silently blank.
func (l *Localizer) Format(lang, key string, vars map[string]string) string {
	text := l.GetString(lang, key)
	for name, value := range vars {
		text = strings.ReplaceAll(text, "{{"+name+"}}", value)
	}
	return text
}
