package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
)

// Usage is printed to stderr when the arguments are wrong.
const Usage = "usage: gateway [flags] <target-uri>"

// ErrUsage is returned by ParseCLI for a missing, extra or unknown argument.
var ErrUsage = errors.New("invalid arguments")

// CLI holds command-line arguments parsed by Kong.
type CLI struct {
	Target    string           `kong:"arg,name='target-uri',help='Upstream URI every inbound request is forwarded to.'"`
	Config    string           `kong:"short='c',help='Path to TOML or YAML config file.',env='CONFIG_PATH'"`
	LogLevel  string           `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
	LogFormat string           `kong:"help='Log format: json|text (overrides config).',env='LOG_FORMAT'"`
	Version   kong.VersionFlag `kong:"help='Print version and exit.'"`
}

// ParseCLI parses the gateway arguments. Exactly one positional argument is accepted.
// exit is called by Kong for --help and --version.
func ParseCLI(args []string, version string, stdout, stderr io.Writer, exit func(int)) (*CLI, error) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("gateway"),
		kong.Description("Forwards every inbound request as a GET to a single upstream URI."),
		kong.Vars{"version": version},
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		return nil, fmt.Errorf("build cli parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return &cli, nil
}

// PrintUsage writes the parse error and the usage line.
func PrintUsage(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "gateway: %v\n%s\n", err, Usage)
}
