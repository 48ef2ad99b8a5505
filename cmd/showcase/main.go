// cmd/showcase/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"showcase/internal/builder"
	"showcase/internal/config"
	"showcase/internal/scaffold"
	"showcase/internal/server"
)

// appConfig holds process settings. Environment variables (optionally from
// a .env file) set the defaults; flags override them.
type appConfig struct {
	Debug      bool   `env:"SHOWCASE_DEBUG" envDefault:"false"`
	Port       int    `env:"SHOWCASE_PORT" envDefault:"1313"`
	Unsafe     bool   `env:"SHOWCASE_UNSAFE" envDefault:"false"`
	ConfigFile string `env:"SHOWCASE_CONFIG" envDefault:"site.yaml"`
}

const (
	templateDir = "templates"
	staticDir   = "static"
	outputDir   = "public"
	exportFile  = "site.json"
)

func main() {
	appCfg, err := loadAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid environment: %v\n", err)
		os.Exit(1)
	}
	flag.BoolVar(&appCfg.Debug, "debug", appCfg.Debug, "Enable debug mode for verbose output.")
	flag.IntVar(&appCfg.Port, "port", appCfg.Port, "Port for the local development server.")
	flag.BoolVar(&appCfg.Unsafe, "unsafe", appCfg.Unsafe, "Disable HTML sanitization of descriptions and info paragraphs.")
	flag.StringVar(&appCfg.ConfigFile, "config", appCfg.ConfigFile, "Path to the site configuration file.")
	flag.Usage = printHelp
	flag.Parse()

	if err := run(appCfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func loadAppConfig() (appConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return appConfig{}, fmt.Errorf("could not load .env: %w", err)
	}
	cfg := appConfig{}
	if err := env.Parse(&cfg); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func run(appCfg appConfig, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return nil
	}

	opts := builder.BuildOptions{
		Unsafe: appCfg.Unsafe,
		Debug:  appCfg.Debug,
	}

	switch args[0] {
	case "gen":
		opts.CleanDestination = true
		fmt.Println("--- Generating site ---")
		pageCount, err := build(appCfg.ConfigFile, opts)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Success! Generated %d pages.\n", pageCount)
		return nil

	case "serve":
		buildFunc := func(buildOpts builder.BuildOptions) error {
			fmt.Println("--- Building site ---")
			pageCount, err := build(appCfg.ConfigFile, buildOpts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "\n❌ Build failed:\n   %v\n\n", err)
				return err
			}
			fmt.Printf("📄 Site: %d pages generated.\n", pageCount)
			return nil
		}
		return server.Run(appCfg.Port, outputDir, []string{appCfg.ConfigFile}, buildFunc, opts)

	case "export":
		exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
		out := exportCmd.String("o", exportFile, "Output file for the JSON configuration. Use - for stdout.")
		exportCmd.Usage = func() {
			fmt.Println("Usage: showcase export [options]")
			fmt.Println("\nWrite the site configuration as JSON for other renderers.")
			fmt.Println("\nOptions:")
			exportCmd.PrintDefaults()
		}
		exportCmd.Parse(args[1:])
		return handleExport(appCfg.ConfigFile, *out)

	case "new":
		if len(args) < 3 || args[1] != "site" {
			flag.Usage()
			return nil
		}
		return scaffold.CreateNewSite(args[2])

	default:
		flag.Usage()
	}

	return nil
}

// build loads the configuration and theme fresh on every call so the dev
// server picks up edits to either.
func build(configPath string, opts builder.BuildOptions) (int, error) {
	siteCfg, err := config.LoadSiteConfig(configPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load site config: %w", err)
	}

	tmpl, err := builder.LoadTemplates(templateDir, siteCfg.Template)
	if err != nil {
		return 0, fmt.Errorf("failed to load templates: %w", err)
	}

	pageCount, err := builder.BuildSite(outputDir, staticDir, siteCfg, tmpl, opts)
	if err != nil {
		return 0, fmt.Errorf("site generation failed: %w", err)
	}
	return pageCount, nil
}

func handleExport(configPath, out string) error {
	siteCfg, err := config.LoadSiteConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}

	if out == "-" {
		return config.EncodeJSON(os.Stdout, siteCfg)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", out, err)
	}
	defer f.Close()
	if err := config.EncodeJSON(f, siteCfg); err != nil {
		return err
	}
	fmt.Printf("✅ Exported %d projects to %s.\n", len(siteCfg.Projects), out)
	return nil
}

func printHelp() {
	fmt.Println("showcase - a static page for the projects you want to show off")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  showcase [global-flags] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  gen                Generate the site into ./public")
	fmt.Println("  serve              Run a local dev server with auto-rebuild")
	fmt.Println("  export [-o file]   Write the site configuration as JSON")
	fmt.Println("  new site <name>    Create a new site scaffold")
	fmt.Println()
	fmt.Println("Global Flags:")
	flag.PrintDefaults()
}
