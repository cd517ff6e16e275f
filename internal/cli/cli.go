// Package cli parses the command line arguments.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ossobv/ipgrep/internal/config"
	"github.com/ossobv/ipgrep/internal/files"
	"github.com/ossobv/ipgrep/internal/output"
	"github.com/ossobv/ipgrep/pkg/ipextract"
	"github.com/ossobv/ipgrep/pkg/match"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Arguments are the parsed command line arguments. Settings
// also readable from the environment are set in Config only when
// given on the command line.
type Arguments struct {
	// Help and Version are set when the help or the version was
	// asked for, in which case the other fields are not set.
	Help    bool
	Version bool

	Needles   string
	Haystacks []string
	Config    config.Config

	Style         output.Style
	NoFilename    bool
	LineNumber    bool
	NullAfterName bool
	Before        int
	After         int
	Recursion     files.Recursion
}

var (
	ErrNeedlesMissing  = errors.New("no needles given")
	ErrContextNegative = errors.New("context line count cannot be negative")
	ErrJobsNotPositive = errors.New("jobs must be at least 1")
)

const long = `Search for IPv4 and IPv6 addresses and networks in text.

NEEDLES is a comma or space separated list of addresses and networks,
such as "10.0.0.0/8,2001:db8::/32". HAYSTACK files are read in order;
with no HAYSTACK or with "-" the standard input is read.

Match modes compare each network found (the haystack) to the needles:
  contains  the haystack contains a needle
  within    the haystack lies within a needle
  equals    the haystack equals a needle
  overlaps  the haystack and a needle share an address

Exit status is 0 if a match was found, 1 if none was found
and 2 if an error occurred.`

type flags struct {
	help             bool
	version          bool
	accept           []string
	interfaceMode    string
	match            string
	count            bool
	filesWithMatches bool
	onlyMatching     bool
	quiet            bool
	color            string
	noFilename       bool
	lineNumber       bool
	null             bool
	after            int
	before           int
	context          int
	recursive        bool
	dereference      bool
	jobs             int
	lineBuffered     bool
	noPrefilter      bool
}

// Parse parses the arguments, without the program name. The help
// text is written to stdout when asked for.
func Parse(args []string, stdout io.Writer) (arguments Arguments, err error) {
	if args == nil {
		// cobra reads os.Args on nil arguments
		args = []string{}
	}

	var f flags
	command := newCommand(&f, &arguments)
	command.SetArgs(args)
	command.SetOut(stdout)
	command.SetErr(stdout)

	err = command.Execute()
	if err != nil {
		return Arguments{}, err
	}

	if f.help {
		return Arguments{Help: true}, nil
	}
	return arguments, nil
}

func newCommand(f *flags, arguments *Arguments) *cobra.Command {
	command := &cobra.Command{
		Use:           "ipgrep [OPTIONS] NEEDLES [HAYSTACK...]",
		Short:         "Search for IP addresses and networks in text",
		Long:          long,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(command *cobra.Command, args []string) error {
			return f.toArguments(command, args, arguments)
		},
	}
	command.CompletionOptions.DisableDefaultCmd = true
	f.register(command.Flags())

	command.MarkFlagsMutuallyExclusive("context", "after-context")
	command.MarkFlagsMutuallyExclusive("context", "before-context")
	command.MarkFlagsMutuallyExclusive("recursive", "dereference-recursive")

	return command
}

func (f *flags) register(flagSet *pflag.FlagSet) {
	flagSet.SortFlags = false
	flagSet.StringSliceVarP(&f.accept, "accept", "a", nil,
		"what to accept, comma separated or repeated: ip, net, oldnet, iface")
	flagSet.StringVarP(&f.interfaceMode, "interface-mode", "I", "",
		"treatment of interface addresses such as 10.1.2.3/24: ip, net or complain")
	flagSet.StringVarP(&f.match, "match", "m", "",
		"match mode: contains, within, equals or overlaps")
	flagSet.BoolVarP(&f.count, "count", "c", false, "print the number of matches per file")
	flagSet.BoolVarP(&f.filesWithMatches, "files-with-matches", "l", false,
		"print only the names of files with a match")
	flagSet.BoolVarP(&f.onlyMatching, "only-matching", "o", false, "print only the matches")
	flagSet.BoolVarP(&f.quiet, "quiet", "q", false, "print nothing and stop at the first match")
	flagSet.StringVar(&f.color, "color", "", "colored output: auto, always or never")
	flagSet.Lookup("color").NoOptDefVal = string(output.ColorAuto)
	flagSet.BoolVarP(&f.noFilename, "no-filename", "h", false, "never print file names")
	flagSet.BoolVarP(&f.lineNumber, "line-number", "n", false, "print line numbers")
	flagSet.BoolVarP(&f.null, "null", "Z", false, "end file names with a NUL byte")
	flagSet.IntVarP(&f.after, "after-context", "A", 0, "print `NUM` lines after matching lines")
	flagSet.IntVarP(&f.before, "before-context", "B", 0, "print `NUM` lines before matching lines")
	flagSet.IntVarP(&f.context, "context", "C", 0, "print `NUM` lines around matching lines")
	flagSet.BoolVarP(&f.recursive, "recursive", "r", false,
		"search directories, without following symbolic links below the arguments")
	flagSet.BoolVarP(&f.dereference, "dereference-recursive", "R", false,
		"search directories, following all symbolic links")
	flagSet.IntVarP(&f.jobs, "jobs", "j", 0, "number of files searched in parallel")
	flagSet.BoolVar(&f.lineBuffered, "line-buffered", false, "flush the output after every line")
	flagSet.BoolVar(&f.noPrefilter, "no-prefilter", false, "disable the line prefilter")
	_ = flagSet.MarkHidden("no-prefilter")
	flagSet.BoolVar(&f.help, "help", false, "print this help")
	flagSet.BoolVarP(&f.version, "version", "V", false, "print the version")
}

func (f *flags) toArguments(command *cobra.Command, args []string,
	arguments *Arguments) (err error) {
	if f.version {
		*arguments = Arguments{Version: true}
		return nil
	}

	if len(args) == 0 {
		return ErrNeedlesMissing
	}
	arguments.Needles = args[0]
	arguments.Haystacks = args[1:]

	changed := command.Flags().Changed
	matching := &arguments.Config.Matching

	if changed("accept") {
		accept, err := ipextract.ParseAccept(f.accept)
		if err != nil {
			return fmt.Errorf("flag --accept: %w", err)
		}
		matching.Accept = &accept
	}

	if changed("interface-mode") {
		interfaceMode, err := ipextract.ParseInterfaceMode(f.interfaceMode)
		if err != nil {
			return fmt.Errorf("flag --interface-mode: %w", err)
		}
		matching.InterfaceMode = &interfaceMode
	}

	if changed("match") {
		mode, err := match.ParseMode(f.match)
		if err != nil {
			return fmt.Errorf("flag --match: %w", err)
		}
		matching.Mode = &mode
	}

	if changed("no-prefilter") {
		matching.DisablePrefilter = &f.noPrefilter
	}

	if changed("color") {
		colorMode, err := output.ParseColorMode(f.color)
		if err != nil {
			return fmt.Errorf("flag --color: %w", err)
		}
		arguments.Config.Output.Color = &colorMode
	}

	if changed("line-buffered") {
		arguments.Config.Output.LineBuffered = &f.lineBuffered
	}

	if changed("jobs") {
		if f.jobs < 1 {
			return fmt.Errorf("flag --jobs: %w: %d", ErrJobsNotPositive, f.jobs)
		}
		arguments.Config.Files.Jobs = &f.jobs
	}

	arguments.Before, arguments.After = f.before, f.after
	if changed("context") {
		arguments.Before, arguments.After = f.context, f.context
	}
	if arguments.Before < 0 || arguments.After < 0 {
		return ErrContextNegative
	}

	switch {
	case f.dereference:
		arguments.Recursion = files.FollowSymlinks
	case f.recursive:
		arguments.Recursion = files.FollowDirectories
	}

	arguments.Style = output.StyleFrom(f.quiet, f.filesWithMatches, f.count, f.onlyMatching)
	arguments.NoFilename = f.noFilename
	arguments.LineNumber = f.lineNumber
	arguments.NullAfterName = f.null

	return nil
}
