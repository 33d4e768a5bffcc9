package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/partsgpt/internal/cache"
	"github.com/briangreenhill/partsgpt/internal/config"
	"github.com/briangreenhill/partsgpt/internal/genai"
	"github.com/briangreenhill/partsgpt/internal/parts"
	"github.com/briangreenhill/partsgpt/internal/prompt"
	"github.com/briangreenhill/partsgpt/internal/ratelimit"
	"github.com/briangreenhill/partsgpt/internal/search"
)

const version = "0.1.0"

// cliUser is the rate-limit identity for local searches.
const cliUser = "cli"

func main() {
	if err := runCLI(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCLI(args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return errors.New("missing command")
	}

	switch args[0] {
	case "help", "--help", "-h":
		printUsage(out)
		return nil
	case "version", "--version", "-v":
		fmt.Fprintf(out, "partsgpt v%s\n", version)
		return nil
	case "prompt":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		car := strings.TrimSpace(strings.Join(args[1:], " "))
		if car == "" {
			return errors.New("usage: partsgpt prompt <car>")
		}
		p, err := prompt.Load(cfg.Search.PromptPath)
		if err != nil {
			return err
		}
		text, err := p.Generate(car)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	case "search":
		asJSON := false
		rest := args[1:]
		if len(rest) > 0 && rest[0] == "--json" {
			asJSON = true
			rest = rest[1:]
		}
		return runSearch(strings.Join(rest, " "), asJSON, out)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: partsgpt <command> [args]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  search [--json] <car>  Ask the model for replacement parts")
	fmt.Fprintln(out, "  prompt <car>           Print the prompt that would be sent")
	fmt.Fprintln(out, "  version                Print the version")
	fmt.Fprintln(out, "Environment:")
	fmt.Fprintln(out, "  GOOGLE_API_KEY         Gemini API key (required for search)")
	fmt.Fprintln(out, "  GEMINI_MODEL           Model name (default gemini-2.0-flash)")
	fmt.Fprintln(out, "  SEARCH_PROMPT_PATH     Custom prompt template (optional)")
}

func runSearch(query string, asJSON bool, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// stdout carries the result; logs go to stderr and stay quiet by default
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	svc := search.New(search.Options{
		Generator: genai.New(cfg.Gemini.APIKey,
			genai.WithBaseURL(cfg.Gemini.BaseURL),
			genai.WithModel(cfg.Gemini.Model),
			genai.WithTimeout(cfg.Gemini.Timeout),
		),
		Prompter: prompt.LoadWithFallback(cfg.Search.PromptPath, logger),
		Cache:    cache.NewResultCache(cache.WithTTL(cfg.Search.CacheTTL)),
		Limiter:  ratelimit.New(cfg.Search.RateLimit, cfg.Search.RateWindow),
	})

	res, err := svc.Search(logger.WithContext(context.Background()), cliUser, query)
	if err != nil {
		var se *search.Error
		if !errors.As(err, &se) {
			return err
		}
		if se.Hint != "" {
			return fmt.Errorf("%s (%s)", se.Message, se.Hint)
		}
		return errors.New(se.Message)
	}

	numbered := parts.Number(res.Parts)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(numbered)
	}

	fmt.Fprintf(out, "Peças para %s:\n", res.Car)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPEÇA\tPREÇO MÉDIO\tDESCRIÇÃO")
	for _, p := range numbered {
		fmt.Fprintf(tw, "%d\t%s\tR$ %.2f\t%s\n", p.ID, p.Name, p.AveragePrice, p.Description)
	}
	return tw.Flush()
}
