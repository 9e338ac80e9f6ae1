package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/wudi/docsmith/actions"
	"github.com/wudi/docsmith/builder"
	"github.com/wudi/docsmith/config"
	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/integrations/bitly"
	"github.com/wudi/docsmith/integrations/dropboxfs"
	"github.com/wudi/docsmith/integrations/gsheets"
	"github.com/wudi/docsmith/integrations/serpapi"
	"github.com/wudi/docsmith/integrations/zoom"
	"github.com/wudi/docsmith/observability"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "docsmith",
	Short:        "Generate decks and documents with auto-fitted text",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "docsmith.toml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func logger() observability.Logger {
	if verbose {
		return stderrLogger{}
	}
	return observability.NopLogger{}
}

// newService wires a full action service from the config: fonts,
// then whichever remote providers have credentials.
func newService(ctx context.Context, cfg config.Config) (*actions.Service, error) {
	reg, err := cfg.Fonts.FontRegistry()
	if err != nil {
		return nil, err
	}
	providers, err := buildProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return actions.NewService(reg, providers, logger()), nil
}

func buildProviders(ctx context.Context, cfg config.Config) (actions.Providers, error) {
	var p actions.Providers
	if cfg.Bitly.Token != "" {
		p.Links = bitly.New(cfg.Bitly.Token, "")
	}
	if cfg.SerpAPI.APIKey != "" {
		p.Search = serpapi.New(cfg.SerpAPI.APIKey, "")
	}
	if cfg.Sheets.CredentialsFile != "" {
		svc, err := gsheets.New(ctx, nil,
			option.WithCredentialsFile(cfg.Sheets.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope))
		if err != nil {
			return p, err
		}
		p.Sheets = actions.SheetsFromService(svc)
	}
	if cfg.Dropbox.Token != "" {
		p.Storage = dropboxfs.New(cfg.Dropbox.Token)
	}
	if cfg.Zoom.AccountID != "" && cfg.Zoom.ClientID != "" && cfg.Zoom.ClientSecret != "" {
		p.Meetings = zoom.New(zoom.Config{
			AccountID:    cfg.Zoom.AccountID,
			ClientID:     cfg.Zoom.ClientID,
			ClientSecret: cfg.Zoom.ClientSecret,
		})
	}
	return p, nil
}

// themeFromConfig translates the config theme into document terms.
func themeFromConfig(t config.ThemeConfig) (doc.Theme, error) {
	theme := doc.Theme{Font: t.Font, MonoFont: t.MonoFont}
	if t.Font == builder.DefaultFont {
		theme.Font = "" // keep documents free of redundant defaults
	}
	if t.MonoFont == builder.DefaultMonoFont {
		theme.MonoFont = ""
	}
	if t.Color != "" {
		c, err := doc.ParseHex(t.Color)
		if err != nil {
			return theme, fmt.Errorf("theme color: %w", err)
		}
		theme.Color = &c
	}
	if t.Accent != "" {
		c, err := doc.ParseHex(t.Accent)
		if err != nil {
			return theme, fmt.Errorf("theme accent: %w", err)
		}
		theme.Accent = &c
	}
	return theme, nil
}

// stderrLogger is the --verbose logger. The library's observability
// interface stays in charge of what gets logged.
type stderrLogger struct {
	fields []observability.Field
}

func (l stderrLogger) log(level, msg string, fields []observability.Field) {
	fmt.Fprintf(os.Stderr, "%s %s", level, msg)
	for _, f := range append(l.fields, fields...) {
		fmt.Fprintf(os.Stderr, " %s=%v", f.Key(), f.Value())
	}
	fmt.Fprintln(os.Stderr)
}

func (l stderrLogger) Debug(msg string, fields ...observability.Field) { l.log("DBG", msg, fields) }
func (l stderrLogger) Info(msg string, fields ...observability.Field)  { l.log("INF", msg, fields) }
func (l stderrLogger) Warn(msg string, fields ...observability.Field)  { l.log("WRN", msg, fields) }
func (l stderrLogger) Error(msg string, fields ...observability.Field) { l.log("ERR", msg, fields) }
func (l stderrLogger) With(fields ...observability.Field) observability.Logger {
	return stderrLogger{fields: append(l.fields, fields...)}
}
