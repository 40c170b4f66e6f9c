// Package config loads the pdf2docx command configuration from flags and
// PDF2DOCX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tsawler/pdf2docx"
	"github.com/tsawler/pdf2docx/format"
	"github.com/tsawler/pdf2docx/ir"
)

const (
	// Mode constants
	ModeCLI = "cli"
	ModeMCP = "mcp"

	// Default values
	DefaultLogLevel    = "warn"
	DefaultOCRLanguage = "eng"

	// EnvPrefix prefixes every environment variable, as in PDF2DOCX_PAGES
	EnvPrefix = "PDF2DOCX"
)

// ErrMissingInput is returned in CLI mode when no input file is given
var ErrMissingInput = errors.New("missing input file")

// Config holds all configuration for the pdf2docx command
type Config struct {
	Mode string // "cli" or "mcp"

	// Files (CLI mode)
	Input  string
	Output string

	// Conversion
	Pages           string // 1-based list such as "1-3,7"
	Password        string
	StripWhitespace bool
	Outline         bool
	TOC             bool
	Endnotes        bool
	EquationImages  bool
	NoTables        bool
	OCR             bool
	OCRLanguage     string

	// Metadata overrides
	Title    string
	Author   string
	Subject  string
	Keywords string
	Language string

	// Application configuration
	LogLevel    string
	ShowVersion bool
	Version     string
	ServerName  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeCLI,
		OCRLanguage: DefaultOCRLanguage,
		LogLevel:    DefaultLogLevel,
		Version:     "dev",
		ServerName:  "pdf2docx",
	}
}

// LoadFromFlags parses args (without the program name) and returns the
// configuration. Flags win over environment variables, which win over
// defaults. In CLI mode the positional arguments are the input file and
// an optional output file.
func LoadFromFlags(args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	fs := pflag.NewFlagSet("pdf2docx", pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(fs, cfg)
	fs.SetOutput(io.Discard)
	if err := bindFlagsToViper(v, fs); err != nil {
		return nil, err
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	populateConfigFromViper(v, cfg)
	cfg.ShowVersion, _ = fs.GetBool("version")
	if cfg.ShowVersion {
		return cfg, nil
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Input = rest[0]
	}
	if len(rest) > 1 {
		cfg.Output = rest[1]
	}
	if len(rest) > 2 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest[2:], " "))
	}
	if cfg.Input != "" && cfg.Output == "" {
		cfg.Output = OutputFor(cfg.Input)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("pages", cfg.Pages)
	v.SetDefault("password", cfg.Password)
	v.SetDefault("strip-whitespace", cfg.StripWhitespace)
	v.SetDefault("outline", cfg.Outline)
	v.SetDefault("toc", cfg.TOC)
	v.SetDefault("endnotes", cfg.Endnotes)
	v.SetDefault("equation-images", cfg.EquationImages)
	v.SetDefault("no-tables", cfg.NoTables)
	v.SetDefault("ocr", cfg.OCR)
	v.SetDefault("ocr-language", cfg.OCRLanguage)
	v.SetDefault("title", cfg.Title)
	v.SetDefault("author", cfg.Author)
	v.SetDefault("subject", cfg.Subject)
	v.SetDefault("keywords", cfg.Keywords)
	v.SetDefault("language", cfg.Language)
	v.SetDefault("log-level", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Run mode: 'cli' converts one file, 'mcp' serves MCP over standard I/O")
	fs.String("pages", cfg.Pages, "Pages to convert, 1-based, such as 1-3,7 (default all)")
	fs.String("password", cfg.Password, "Password of an encrypted PDF")
	fs.Bool("strip-whitespace", cfg.StripWhitespace, "Collapse runs of whitespace inside paragraphs")
	fs.Bool("outline", cfg.Outline, "Derive an outline from headings when the PDF has none")
	fs.Bool("toc", cfg.TOC, "Insert a table of contents")
	fs.Bool("endnotes", cfg.Endnotes, "Write notes as endnotes instead of footnotes")
	fs.Bool("equation-images", cfg.EquationImages, "Render equations as pictures instead of editable math")
	fs.Bool("no-tables", cfg.NoTables, "Disable table detection")
	fs.Bool("ocr", cfg.OCR, "Recognize the text of scanned pages (needs a build with -tags ocr)")
	fs.String("ocr-language", cfg.OCRLanguage, "Tesseract language for OCR, such as eng or eng+deu")
	fs.String("title", cfg.Title, "Document title")
	fs.String("author", cfg.Author, "Document author")
	fs.String("subject", cfg.Subject, "Document subject")
	fs.String("keywords", cfg.Keywords, "Comma separated document keywords")
	fs.String("language", cfg.Language, "Document language tag, such as en-US")
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolP("version", "v", false, "Print the version and exit")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "version" || err != nil {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	return err
}

// Usage returns the help text
func Usage() string {
	fs := pflag.NewFlagSet("pdf2docx", pflag.ContinueOnError)
	defineCommandLineFlags(fs, DefaultConfig())
	var sb strings.Builder
	sb.WriteString("Usage: pdf2docx [flags] input.pdf [output.docx]\n\n")
	sb.WriteString("Converts a PDF document to an editable Word document.\n\n")
	sb.WriteString("Options:\n")
	sb.WriteString(fs.FlagUsages())
	sb.WriteString("\nEvery option can also be set through an environment variable named\n")
	sb.WriteString("PDF2DOCX_ followed by the option in upper case, such as PDF2DOCX_PAGES\n")
	sb.WriteString("or PDF2DOCX_LOG_LEVEL.\n")
	return sb.String()
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Pages = v.GetString("pages")
	cfg.Password = v.GetString("password")
	cfg.StripWhitespace = v.GetBool("strip-whitespace")
	cfg.Outline = v.GetBool("outline")
	cfg.TOC = v.GetBool("toc")
	cfg.Endnotes = v.GetBool("endnotes")
	cfg.EquationImages = v.GetBool("equation-images")
	cfg.NoTables = v.GetBool("no-tables")
	cfg.OCR = v.GetBool("ocr")
	cfg.OCRLanguage = v.GetString("ocr-language")
	cfg.Title = v.GetString("title")
	cfg.Author = v.GetString("author")
	cfg.Subject = v.GetString("subject")
	cfg.Keywords = v.GetString("keywords")
	cfg.Language = v.GetString("language")
	cfg.LogLevel = strings.ToLower(v.GetString("log-level"))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeMCP {
		return errors.New("mode must be either 'cli' or 'mcp'")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if _, err := ParsePages(c.Pages); err != nil {
		return err
	}

	if c.Mode == ModeCLI && c.Input == "" {
		return ErrMissingInput
	}
	if c.Input != "" && format.Detect(c.Input) == format.DOCX {
		return fmt.Errorf("input %s is already a Word document", c.Input)
	}
	if c.Output != "" && format.Detect(c.Output) != format.DOCX {
		return fmt.Errorf("output %s must have a %s extension", c.Output, format.DOCX.Extension())
	}
	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsMCPMode returns true when serving MCP over standard I/O
func (c *Config) IsMCPMode() bool {
	return c.Mode == ModeMCP
}

// String returns a string representation of the configuration. The
// password is never included.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, Output: %s, Pages: %q, LogLevel: %s, OCR: %t}",
		c.Mode, c.Input, c.Output, c.Pages, c.LogLevel, c.OCR)
}

// Metadata returns the metadata overrides
func (c *Config) Metadata() ir.Metadata {
	m := ir.Metadata{
		Title:    c.Title,
		Author:   c.Author,
		Subject:  c.Subject,
		Language: c.Language,
	}
	for _, k := range strings.Split(c.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			m.Keywords = append(m.Keywords, k)
		}
	}
	return m
}

// Apply configures conv with the conversion settings. The page list must
// have passed Validate.
func (c *Config) Apply(conv *pdf2docx.Converter) *pdf2docx.Converter {
	if pages, _ := ParsePages(c.Pages); pages != nil {
		conv = conv.Pages(pages...)
	}
	if c.Password != "" {
		conv = conv.Password(c.Password)
	}
	if c.StripWhitespace {
		conv = conv.StripWhitespace()
	}
	if c.Outline {
		conv = conv.Outline()
	}
	if c.TOC {
		conv = conv.TOC()
	}
	if c.Endnotes {
		conv = conv.Endnotes()
	}
	if c.EquationImages {
		conv = conv.EquationImages()
	}
	if c.NoTables {
		conv = conv.NoTables()
	}
	if c.OCR {
		conv = conv.OCR(c.OCRLanguage)
	}
	return conv.Metadata(c.Metadata())
}

// Converter returns a converter for the configured input
func (c *Config) Converter() *pdf2docx.Converter {
	return c.Apply(pdf2docx.Open(c.Input))
}

// ParsePages parses a 1-based page list such as "1-3,7" into sorted
// zero-based indices. An empty list selects every page and returns nil.
func ParsePages(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || start < 1 {
			return nil, fmt.Errorf("invalid page %q: pages are numbered from 1", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < start {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		for p := start; p <= end; p++ {
			if !seen[p-1] {
				seen[p-1] = true
				out = append(out, p-1)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("invalid page list %q", s)
	}
	sort.Ints(out)
	return out, nil
}

// OutputFor returns the default output path for input: the same name with
// a .docx extension
func OutputFor(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".docx"
}
