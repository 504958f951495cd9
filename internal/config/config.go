package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/hotweb/internal/errors"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "hotweb.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "hotweb.yaml"

	// DefaultPort is the default development server port.
	DefaultPort = 8080

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultContainer is the id of the element the page mounts into.
	DefaultContainer = "app"

	// DefaultPagePath is the URL path the page is served at.
	DefaultPagePath = "/"

	// DefaultStaticDir is the directory static files are served from.
	DefaultStaticDir = "public"

	// DefaultOutput is the default static export directory.
	DefaultOutput = "dist"

	// DefaultInterval is the default watcher polling interval.
	DefaultInterval = 100 * time.Millisecond
)

// fileNames are the config file names probed by Load, in order.
var fileNames = []string{JSONFileName, YAMLFileName, "hotweb.yml"}

// Config represents the complete hotweb configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev" yaml:"dev"`

	// Site contains page mounting configuration.
	Site SiteConfig `json:"site" yaml:"site"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static" yaml:"static"`

	// Publish contains static export and upload configuration.
	Publish PublishConfig `json:"publish" yaml:"publish"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// OpenBrowser opens the browser automatically on start.
	OpenBrowser bool `json:"openBrowser,omitempty" yaml:"openBrowser,omitempty"`

	// HotReload enables the reload WebSocket and file watcher.
	HotReload bool `json:"hotReload" yaml:"hotReload"`

	// Watch contains paths to watch for changes, relative to the project.
	// Defaults to the static directory.
	Watch []string `json:"watch,omitempty" yaml:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Interval is the watcher polling interval (e.g., "100ms").
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// SiteConfig contains page mounting settings.
type SiteConfig struct {
	// Container is the id of the element the page mounts into.
	Container string `json:"container,omitempty" yaml:"container,omitempty"`

	// PagePath is the URL path the page is served at and watched under.
	PagePath string `json:"pagePath,omitempty" yaml:"pagePath,omitempty"`

	// Title overrides the document title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// PublishConfig contains static export and upload settings.
type PublishConfig struct {
	// Output is the directory the static export is written to.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Bucket is the S3 bucket to upload to.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region overrides the AWS region from the environment.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Dev: DevConfig{
			Port:      DefaultPort,
			Host:      DefaultHost,
			HotReload: true,
			Interval:  DefaultInterval.String(),
		},
		Site: SiteConfig{
			Container: DefaultContainer,
			PagePath:  DefaultPagePath,
		},
		Static: StaticConfig{
			Dir: DefaultStaticDir,
		},
		Publish: PublishConfig{
			Output: DefaultOutput,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for hotweb.json, then hotweb.yaml, then hotweb.yml.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E101").
		WithDetail("No hotweb.json or hotweb.yaml found in " + dir).
		WithSuggestion("Create hotweb.json or run without a config to use defaults")
}

// LoadFile reads configuration from the specified file path.
// The format follows the file extension.
func LoadFile(path string) (*Config, error) {
	unmarshal, err := unmarshalerFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	if err := unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func unmarshalerFor(path string) (func([]byte, any) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	default:
		return nil, errors.New("E105").WithDetailf("%s is neither JSON nor YAML", path)
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path in the format
// given by its extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return errors.New("E105").WithDetailf("%s is neither JSON nor YAML", path)
	}
	if err != nil {
		return errors.New("E102").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// SetDir roots relative paths at dir for configs that were not loaded
// from a file.
func (c *Config) SetDir(dir string) {
	c.configPath = filepath.Join(dir, JSONFileName)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Interval == "" {
		c.Dev.Interval = DefaultInterval.String()
	}

	if c.Site.Container == "" {
		c.Site.Container = DefaultContainer
	}
	if c.Site.PagePath == "" {
		c.Site.PagePath = DefaultPagePath
	}

	if c.Static.Dir == "" {
		c.Static.Dir = DefaultStaticDir
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{c.Static.Dir}
	}

	if c.Publish.Output == "" {
		c.Publish.Output = DefaultOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E103").
			WithDetailf("Port %d is out of range", c.Dev.Port)
	}

	if c.Site.Container == "" || strings.ContainsAny(c.Site.Container, " \t\r\n") {
		return errors.New("E104").
			WithDetailf("Container %q is not a valid element id", c.Site.Container)
	}

	if !strings.HasPrefix(c.Site.PagePath, "/") {
		return errors.New("E102").
			WithDetailf("site.pagePath %q must start with /", c.Site.PagePath)
	}

	if _, err := c.WatchInterval(); err != nil {
		return errors.New("E102").
			WithDetailf("dev.interval %q is not a duration", c.Dev.Interval).
			WithSuggestion(`Use a Go duration such as "100ms" or "1s"`)
	}

	return nil
}

// WatchInterval returns the parsed watcher polling interval.
func (c *Config) WatchInterval() (time.Duration, error) {
	if c.Dev.Interval == "" {
		return DefaultInterval, nil
	}
	d, err := time.ParseDuration(c.Dev.Interval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.Newf(errors.CategoryConfig, "interval must be positive")
	}
	return d, nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// resolve returns path rooted at the config directory unless it is absolute.
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// PublicPath returns the absolute path to the static directory.
func (c *Config) PublicPath() string {
	dir := c.Static.Dir
	if dir == "" {
		dir = DefaultStaticDir
	}
	return c.resolve(dir)
}

// OutputPath returns the absolute path to the static export directory.
func (c *Config) OutputPath() string {
	out := c.Publish.Output
	if out == "" {
		out = DefaultOutput
	}
	return c.resolve(out)
}

// WatchPaths returns the absolute paths the dev watcher polls.
func (c *Config) WatchPaths() []string {
	watch := c.Dev.Watch
	if watch == nil {
		watch = []string{c.Static.Dir}
	}
	paths := make([]string, 0, len(watch))
	for _, p := range watch {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, c.resolve(p))
		}
	}
	return paths
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range fileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a hotweb config, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E101").
				WithDetail("No hotweb config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest project root
// above the working directory. When no config exists it returns defaults
// rooted at the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.Code(err) == "E101" {
			cfg := New()
			cfg.SetDir(wd)
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}

	return Load(root)
}
