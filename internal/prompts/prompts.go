package prompts

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config carries the instruction templates for the language backend.
// The fields can be customized via a YAML file; anything left empty
// falls back to the baked-in default.
type Config struct {
	Preamble        string   `yaml:"preamble"`
	Rules           []string `yaml:"rules"`
	LanguageEnglish string   `yaml:"language_english"`
	LanguageHindi   string   `yaml:"language_hindi"`
	TranslatePrompt string   `yaml:"translate_prompt"`
}

// Default returns the baked-in instruction templates.
func Default() Config {
	return Config{
		Preamble: "You are an agricultural assistant for farmers.",
		Rules: []string{
			"Give only necessary information",
			"Keep answer medium length",
			"Use simple words",
			"Do NOT greet the user",
		},
		LanguageEnglish: "Respond in simple English using farmer-friendly language.",
		LanguageHindi:   "Respond in simple Hindi using farmer-friendly language.",
		TranslatePrompt: "Translate the following farmer question to simple English.\nOnly return the translated text.",
	}
}

// Load reads templates from path, overlaying the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, err
	}
	cfg.merge(overlay)
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.Preamble != "" {
		c.Preamble = o.Preamble
	}
	if len(o.Rules) > 0 {
		c.Rules = o.Rules
	}
	if o.LanguageEnglish != "" {
		c.LanguageEnglish = o.LanguageEnglish
	}
	if o.LanguageHindi != "" {
		c.LanguageHindi = o.LanguageHindi
	}
	if o.TranslatePrompt != "" {
		c.TranslatePrompt = o.TranslatePrompt
	}
}

// Manager hot-reloads instruction templates without requiring process
// restarts. Without a path it serves the defaults forever.
type Manager struct {
	path string
	mu   sync.RWMutex
	cfg  Config
}

// NewManager seeds a manager from path. A missing or unreadable file is
// not fatal; the defaults apply until the file appears.
func NewManager(path string) *Manager {
	m := &Manager{path: path, cfg: Default()}
	if path != "" {
		if cfg, err := Load(path); err == nil {
			m.cfg = cfg
		} else if !os.IsNotExist(err) {
			log.Printf("prompts: load %s: %v", path, err)
		}
	}
	return m
}

// Current returns the latest templates.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Watch reloads the templates whenever the file changes, until ctx is
// cancelled. It returns immediately when no path is configured.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					m.reload()
				}
			case err := <-watcher.Errors:
				log.Printf("prompts: watch error: %v", err)
			}
		}
	}()
	return watcher.Add(m.path)
}

func (m *Manager) reload() {
	cfg, err := Load(m.path)
	if err != nil {
		log.Printf("prompts: reload %s: %v", m.path, err)
		return
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	log.Printf("prompts: reloaded templates from %s", m.path)
}
