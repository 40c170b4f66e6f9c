package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ModeCLI, cfg.Mode)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "eng", cfg.OCRLanguage)
	assert.Equal(t, "pdf2docx", cfg.ServerName)
	assert.False(t, cfg.IsDebug())
	assert.False(t, cfg.IsMCPMode())
}

func TestLoadFromFlags(t *testing.T) {
	cfg, err := LoadFromFlags([]string{
		"--pages=1-3,7",
		"--outline",
		"--toc",
		"--endnotes",
		"--strip-whitespace",
		"--title", "Annual Report",
		"--keywords", "finance, 2024",
		"--log-level=DEBUG",
		"report.pdf", "out/report.docx",
	})
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", cfg.Input)
	assert.Equal(t, "out/report.docx", cfg.Output)
	assert.Equal(t, "1-3,7", cfg.Pages)
	assert.True(t, cfg.Outline)
	assert.True(t, cfg.TOC)
	assert.True(t, cfg.Endnotes)
	assert.True(t, cfg.StripWhitespace)
	assert.True(t, cfg.IsDebug())

	m := cfg.Metadata()
	assert.Equal(t, "Annual Report", m.Title)
	assert.Equal(t, []string{"finance", "2024"}, m.Keywords)
}

func TestLoadFromFlags_DefaultOutput(t *testing.T) {
	cfg, err := LoadFromFlags([]string{"scans/input.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "scans/input.docx", cfg.Output)
}

func TestLoadFromFlags_Environment(t *testing.T) {
	t.Setenv("PDF2DOCX_PAGES", "2")
	t.Setenv("PDF2DOCX_STRIP_WHITESPACE", "true")
	t.Setenv("PDF2DOCX_LOG_LEVEL", "error")
	t.Setenv("PDF2DOCX_MODE", "mcp")

	cfg, err := LoadFromFlags(nil)
	require.NoError(t, err, "mcp mode needs no input")
	assert.Equal(t, "2", cfg.Pages)
	assert.True(t, cfg.StripWhitespace)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, cfg.IsMCPMode())

	cfg, err = LoadFromFlags([]string{"--pages=4", "--mode=cli", "in.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "4", cfg.Pages, "flags win over the environment")
	assert.Equal(t, ModeCLI, cfg.Mode)
}

func TestLoadFromFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing input", nil},
		{"bad mode", []string{"--mode=server", "in.pdf"}},
		{"bad log level", []string{"--log-level=loud", "in.pdf"}},
		{"bad pages", []string{"--pages=0", "in.pdf"}},
		{"too many arguments", []string{"a.pdf", "b.docx", "c"}},
		{"unknown flag", []string{"--frobnicate", "in.pdf"}},
		{"word input", []string{"report.docx"}},
		{"wrong output extension", []string{"in.pdf", "out.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFlags(tt.args)
			assert.Error(t, err)
		})
	}

	_, err := LoadFromFlags(nil)
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = LoadFromFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestLoadFromFlags_Version(t *testing.T) {
	cfg, err := LoadFromFlags([]string{"--version"})
	require.NoError(t, err, "version skips validation")
	assert.True(t, cfg.ShowVersion)

	cfg, err = LoadFromFlags([]string{"-v"})
	require.NoError(t, err)
	assert.True(t, cfg.ShowVersion)
}

func TestParsePages(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1", []int{0}, false},
		{"3,1", []int{0, 2}, false},
		{"1-3, 7", []int{0, 1, 2, 6}, false},
		{"2-2,2", []int{1}, false},
		{"0", nil, true},
		{"3-1", nil, true},
		{"a", nil, true},
		{"1-b", nil, true},
		{",", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePages(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputFor(t *testing.T) {
	assert.Equal(t, "a/report.docx", OutputFor("a/report.pdf"))
	assert.Equal(t, "noext.docx", OutputFor("noext"))
}

func TestUsage(t *testing.T) {
	u := Usage()
	assert.Contains(t, u, "--pages")
	assert.Contains(t, u, "PDF2DOCX_")
}

func TestString_OmitsPassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "hunter2"
	assert.NotContains(t, cfg.String(), "hunter2")
}
