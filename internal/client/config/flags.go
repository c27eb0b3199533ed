package config

import (
	"flag"
	"os"
	"time"

	"github.com/open436/forumctl/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend gateway
//	-t int      request timeout in seconds
//	-m          use the in-memory mock backends
//	-d string   state directory override
//
// Args are filtered through flagx.FilterArgs so flags owned by other layers
// (like -config) do not trip this parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-m", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend gateway")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.UseMock, "m", cfg.UseMock, "use in-memory mock backends")
	fs.StringVar(&cfg.StateDir, "d", cfg.StateDir, "state directory override")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
