package site

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/artmann/folio/article"
	"github.com/artmann/folio/markdown"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the name of the site configuration at the root of the site.
const ConfigFile = "folio.cfg"

// Config contains configuration data from the folio.cfg file.
type Config struct {
	Hostname        string            `toml:"hostname"`        // Scheme and host used in the sitemap
	Title           string            `toml:"title"`           // Site title
	Author          string            `toml:"author"`          // Site author
	Articles        string            `toml:"articles"`        // Folder holding the articles
	CodeStyle       string            `toml:"codestyle"`       // chroma style name
	DefaultLanguage string            `toml:"defaultlanguage"` // Language for untagged code fences
	Expires         Duration          `toml:"expires"`         // Expires header for pages
	StaticExpires   Duration          `toml:"staticexpires"`   // Expires header for static files
	Headers         map[string]string `toml:"headers"`         // Extra response headers
	Projects        []Project         `toml:"projects"`        // Entries of the projects page
}

// Project is an entry on the projects page.
type Project struct {
	Name        string `toml:"name"`
	GitHub      string `toml:"github"` // owner/repository
	Description string `toml:"description"`
	Homepage    string `toml:"homepage"`
	Icon        string `toml:"icon"`
}

// GitHubURL returns the repository URL.
func (p Project) GitHubURL() string {
	if p.GitHub == "" {
		return ""
	}
	return "https://github.com/" + p.GitHub
}

// defaultConfig is used for anything folio.cfg leaves out.
func defaultConfig() Config {
	return Config{
		Hostname:        "http://localhost",
		Title:           "folio",
		Articles:        article.DefaultDir,
		CodeStyle:       markdown.DefaultStyle,
		DefaultLanguage: markdown.DefaultLanguage,
	}
}

// LoadConfig reads folio.cfg from the root of fsys.
// It is not an error if the file does not exist.
func LoadConfig(fsys fs.FS) (Config, error) {
	cfg := defaultConfig()
	b, err := fs.ReadFile(fsys, ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("Cannot read config file: %w", err)
	}
	if err = toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("Cannot parse config file: %w", err)
	}
	return cfg, nil
}

// Duration is a time.Duration written as text, like "10m".
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	p, err := time.ParseDuration(string(text))
	*d = Duration(p)
	return err
}
