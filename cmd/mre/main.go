package main

import (
	"os"

	"github.com/lthibault/log"
	"github.com/urfave/cli/v2"

	"github.com/muldis/mre"
	"github.com/muldis/mre/internal/cmd/eval"
	"github.com/muldis/mre/internal/cmd/types"
	"github.com/muldis/mre/pkg/mem"
)

var flags = []cli.Flag{
	// Logging
	&cli.StringFlag{
		Name:    "logfmt",
		Aliases: []string{"f"},
		Usage:   "`format` logs as text, json or none",
		Value:   "text",
		EnvVars: []string{"MRE_LOGFMT"},
	},
	&cli.StringFlag{
		Name:    "loglvl",
		Usage:   "set logging `level` to trace, debug, info, warn, error or fatal",
		Value:   "info",
		EnvVars: []string{"MRE_LOGLVL"},
	},
	&cli.BoolFlag{
		Name:    "trace",
		Usage:   "log everything",
		Hidden:  true,
		EnvVars: []string{"MRE_TRACE"},
	},
	// Statsd
	&cli.StringFlag{
		Name:        "metrics",
		Aliases:     []string{"statsd"},
		Usage:       "send metrics to udp `host:port`",
		EnvVars:     []string{"MRE_METRICS", "MRE_STATSD"},
		DefaultText: "disabled",
	},
	// Pool
	&cli.IntFlag{
		Name:    "cache-entries",
		Usage:   "bound each pool cache to `N` entries",
		Value:   mem.DefaultLimits.MaxCacheEntries,
		EnvVars: []string{"MRE_CACHE_ENTRIES"},
	},
	&cli.IntFlag{
		Name:    "cache-codepoints",
		Usage:   "only intern texts and names of at most `N` codepoints",
		Value:   mem.DefaultLimits.MaxCodepoints,
		EnvVars: []string{"MRE_CACHE_CODEPOINTS"},
	},
	&cli.IntFlag{
		Name:    "cache-degree",
		Usage:   "only intern headings of at most `N` attributes",
		Value:   mem.DefaultLimits.MaxHeadingDegree,
		EnvVars: []string{"MRE_CACHE_DEGREE"},
	},
	// Misc.
	&cli.BoolFlag{
		Name:    "prettyprint",
		Aliases: []string{"pp"},
		Usage:   "pretty-print JSON output",
		Hidden:  true,
	},
}

var commands = []*cli.Command{
	eval.Command(),
	types.Command(),
}

func main() {
	run(&cli.App{
		Name:                 "mre",
		HelpName:             "mre",
		Usage:                "Muldis reference engine",
		UsageText:            "mre [global options] command [command options] [arguments...]",
		Version:              mre.Version,
		EnableBashCompletion: true,
		Flags:                flags,
		Commands:             commands,
		Metadata: map[string]interface{}{
			"version": mre.Version,
		},
	})
}

func run(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
