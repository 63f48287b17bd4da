// Package logutil builds the process logger from the global cli flags and
// caches it on the cli.App so every command shares one instance.
package logutil

import (
	"io"

	"github.com/lthibault/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/muldis/mre"
)

const metadataKey = "mre.logger"

// levels maps each accepted -loglvl spelling onto a level.
var levels = map[string]log.Level{
	"trace": log.TraceLevel, "t": log.TraceLevel,
	"debug": log.DebugLevel, "d": log.DebugLevel,
	"info": log.InfoLevel, "i": log.InfoLevel,
	"warn": log.WarnLevel, "warning": log.WarnLevel, "w": log.WarnLevel,
	"error": log.ErrorLevel, "err": log.ErrorLevel, "e": log.ErrorLevel,
	"fatal": log.FatalLevel, "f": log.FatalLevel,
}

// New returns the logger bound to c.App, creating it on first use.
func New(c *cli.Context) log.Logger {
	if logger, ok := c.App.Metadata[metadataKey].(log.Logger); ok {
		return logger
	}

	logger := log.New(
		log.WithLevel(Level(c)),
		log.WithFormatter(Formatter(c)),
		log.WithWriter(writer(c))).
		WithField("version", mre.Version)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[metadataKey] = logger

	return logger
}

// Level returns the level selected by -trace and -loglvl.  Unknown names
// fall back to info; -logfmt none silences everything short of fatal.
func Level(c *cli.Context) log.Level {
	switch {
	case c.Bool("trace"):
		return log.TraceLevel
	case c.String("logfmt") == "none":
		return log.FatalLevel
	}

	if lvl, ok := levels[c.String("loglvl")]; ok {
		return lvl
	}

	return log.InfoLevel
}

// Formatter returns the entry formatter selected by -logfmt.
func Formatter(c *cli.Context) logrus.Formatter {
	if c.String("logfmt") == "json" {
		return &logrus.JSONFormatter{PrettyPrint: c.Bool("prettyprint")}
	}

	return &logrus.TextFormatter{DisableTimestamp: !c.Bool("trace")}
}

func writer(c *cli.Context) io.Writer {
	if c.String("logfmt") == "none" || c.App.ErrWriter == nil {
		return io.Discard
	}

	return c.App.ErrWriter
}
