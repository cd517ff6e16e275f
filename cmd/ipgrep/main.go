package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ossobv/ipgrep/internal/cli"
	"github.com/ossobv/ipgrep/internal/config"
	"github.com/ossobv/ipgrep/internal/files"
	"github.com/ossobv/ipgrep/internal/models"
	"github.com/ossobv/ipgrep/internal/output"
	"github.com/ossobv/ipgrep/internal/search"
	"github.com/ossobv/ipgrep/pkg/ipextract"
	"github.com/ossobv/ipgrep/pkg/ipnet"
	"github.com/ossobv/ipgrep/pkg/ipversion"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosplash"
	"github.com/qdm12/log"
)

//nolint:gochecknoglobals
var (
	version = "unknown"
	commit  = "unknown"
	date    = "an unknown date"
)

// Exit codes.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func main() {
	buildInfo := models.BuildInformation{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	logger := log.New(log.SetWriters(os.Stderr))

	reader := reader.New(reader.Settings{
		HandleDeprecatedKey: func(source, oldKey, newKey string) {
			logger.Warnf("%q key %s is deprecated, please use %q instead",
				source, oldKey, newKey)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	streams := Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	exitCode := _main(ctx, reader, os.Args, streams, logger, buildInfo)
	stop()
	os.Exit(exitCode)
}

func _main(ctx context.Context, reader *reader.Reader, args []string,
	streams Streams, logger log.LoggerInterface,
	buildInfo models.BuildInformation) (exitCode int) {
	arguments, err := cli.Parse(args[1:], streams.Stdout)
	switch {
	case err != nil:
		return printError(streams.Stderr, err)
	case arguments.Help:
		return exitMatch
	case arguments.Version:
		printSplash(streams.Stdout, buildInfo)
		return exitMatch
	}

	needles, err := ipnet.ParseNeedles(arguments.Needles)
	if err != nil {
		return printError(streams.Stderr, err)
	}

	config := arguments.Config
	err = readConfig(reader, &config, logger)
	if err != nil {
		return printError(streams.Stderr, err)
	}

	ipVersion := ipversion.FromNeedles(needles)
	extractor, err := ipextract.New(config.Matching.ExtractSettings(ipVersion, logger))
	if err != nil {
		return printError(streams.Stderr, fmt.Errorf("creating extractor: %w", err))
	}

	walker := files.NewWalker(arguments.Haystacks, arguments.Recursion,
		streams.Stdin, logger)

	display := output.New(output.Settings{
		ShowFilename:      walker.MultipleSources() && !arguments.NoFilename,
		LineNumber:        arguments.LineNumber,
		NullAfterFilename: arguments.NullAfterName,
		Color:             config.Output.Color.Enabled(streams.Stdout),
	})

	searcher := search.New(search.Settings{
		Finder:       extractor,
		Needles:      needles,
		Mode:         *config.Matching.Mode,
		Style:        arguments.Style,
		Display:      display,
		Logger:       logger,
		Before:       arguments.Before,
		After:        arguments.After,
		Jobs:         *config.Files.Jobs,
		LineBuffered: *config.Output.LineBuffered || output.IsTerminal(streams.Stdout),
	})

	result, err := searcher.Run(ctx, walker, streams.Stdout)
	quietMatch := arguments.Style == output.Quiet && result.Matched
	switch {
	case quietMatch:
		return exitMatch
	case err != nil:
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted")
			return exitError
		}
		return printError(streams.Stderr, err)
	case result.Failed:
		return exitError
	case result.Matched:
		return exitMatch
	default:
		return exitNoMatch
	}
}

func printError(stderr io.Writer, err error) (exitCode int) {
	_, _ = fmt.Fprintln(stderr, "ipgrep: "+err.Error())
	return exitError
}

func printSplash(w io.Writer, buildInfo models.BuildInformation) {
	splashSettings := gosplash.Settings{
		User:       "ossobv",
		Repository: "ipgrep",
		Version:    buildInfo.VersionString(),
		Commit:     buildInfo.Commit,
		BuildDate:  buildInfo.Date,
	}
	for _, line := range gosplash.MakeLines(splashSettings) {
		_, _ = fmt.Fprintln(w, line)
	}
}

func readConfig(reader *reader.Reader, config *config.Config,
	logger log.LoggerInterface) (err error) {
	err = config.Read(reader)
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	config.SetDefaults()
	err = config.Validate()
	if err != nil {
		return fmt.Errorf("settings validation: %w", err)
	}

	logger.Patch(config.Logger.ToOptions()...)
	logger.Debug(config.String())

	return nil
}
