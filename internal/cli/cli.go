// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command routing, global flags and help text for bex.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHelp Command = iota
	CmdVersion
	CmdDiff
	CmdCheck
	CmdRecord
	CmdParse
	CmdHistory
	CmdProfile
	CmdStorage
	CmdConfig
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Backend    string
	JSON       bool
	Quiet      bool
	Verbose    bool
	NoColor    bool

	// Name is the command word as typed
	Name string

	// Raw holds the arguments after the command word
	Raw []string
}

const usageText = `bex - grammar checking with word-level diffs

Usage:
  bex <command> [arguments] [flags]

Commands:
  diff <original> <corrected>    Show a word diff between two texts
    --markdown                     Emit Markdown (~~removed~~ **added**)
    --original-file, --corrected-file FILE
  check <text>                   Check text with the configured check command
    --file FILE                    Read the text from FILE ("-" for stdin)
    --provider, --model NAME       Override the recorded provider and model
  record                         Record model output obtained elsewhere
    --original TEXT | --original-file FILE
    --raw-file FILE                Model output (default: stdin)
  parse [text]                   Parse model output into a result
    --raw-file FILE                Read the output from FILE (default: stdin)

  history [list]                 List past corrections, newest first
    --limit N                      Show at most N entries
  history show <id>              Show one correction with its diff
  history search <query>         Search original, corrected and explanation
  history delete <id>            Delete one correction
  history clear [--yes]          Delete every correction
  history export                 Export history
    --format markdown|json         Export format (default: markdown)
    --output FILE                  Write to FILE instead of stdout

  profile [list]                 List profiles (* default, > active)
  profile add                    Create a profile (prompts when flags are missing)
    --name NAME --prompt TEXT --default
  profile edit <id>              Change a profile's name, prompt or default flag
  profile remove <id> [--yes]    Delete a profile
  profile default <id>           Make a profile the default
  profile use <id|none>          Select the active profile
  profile active                 Show the active profile
  profile export <file|->        Write profiles as YAML
  profile import <file|->        Read profiles from YAML
    --replace                      Replace the list instead of appending
  profile prompt                 Draft a profile prompt from a description
    --role --audience --tone --formality --domain --notes TEXT
    --save NAME                    Save the draft as a new profile

  storage keys                   List stored keys
  storage get <key>              Print a stored value
  storage migrate --from B --to B
                                 Copy every key between backends
                                 (file, keystore, mirror)

  config show                    Show the effective configuration
  config path                    Show the config file location
  config init [--force]          Write a default config file
  config get <key>               Show one setting (e.g. check.provider)
  config set <key> <value>       Change one setting in the config file
  config keys                    List every setting

  version                        Show version information
  help                           Show this help

Global Flags:
  --config FILE                  Config file (default: ~/.bex/config.toml)
  --backend NAME                 Storage backend for this run
  --json                         Machine-readable output
  -q, --quiet                    Only print results
  -v, --verbose                  Debug logging on stderr
  --no-color                     Disable colors

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "bex version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// Parse splits argv (without the program name) into a command and its args.
func Parse(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdHelp, parsed
	}

	parsed.Name = strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]

	switch parsed.Name {
	case "diff":
		return CmdDiff, parsed
	case "check", "c":
		return CmdCheck, parsed
	case "record":
		return CmdRecord, parsed
	case "parse":
		return CmdParse, parsed
	case "history", "h":
		return CmdHistory, parsed
	case "profile", "profiles":
		return CmdProfile, parsed
	case "storage", "store":
		return CmdStorage, parsed
	case "config":
		return CmdConfig, parsed
	case "version", "--version":
		return CmdVersion, parsed
	case "help", "-h", "--help":
		return CmdHelp, parsed
	default:
		return CmdUnknown, parsed
	}
}

// parseGlobalFlags extracts global flags from anywhere before "--" and
// returns the remaining args in order.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			return remaining, parsed
		case arg == "-q" || arg == "--quiet":
			parsed.Quiet = true
		case arg == "-v" || arg == "--verbose":
			parsed.Verbose = true
		case arg == "--json":
			parsed.JSON = true
		case arg == "--no-color":
			parsed.NoColor = true
		case arg == "--config" && i+1 < len(args):
			i++
			parsed.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--backend" && i+1 < len(args):
			i++
			parsed.Backend = args[i]
		case strings.HasPrefix(arg, "--backend="):
			parsed.Backend = strings.TrimPrefix(arg, "--backend=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}

// HandleVersion prints version information.
func (a *App) HandleVersion() error {
	data := VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	return a.emit(data, func(w io.Writer) error {
		PrintVersion(w)
		return nil
	})
}
