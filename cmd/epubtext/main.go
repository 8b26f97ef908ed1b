package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epubtext/epubtext/internal/extract"
)

const defaultWidth = 80

// cliOptions is everything read from the command line.
type cliOptions struct {
	Extract extract.Options
	Debug   bool
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epubtext [flags] EPUB...",
		Short: "Extract plain text and metadata from EPUB files",
		Long: `epubtext unpacks EPUB ebooks and writes their content documents,
in reading order, as plain text on standard output.

Book metadata from the package document can be emitted ahead of the
text with --meta, or on its own by combining --meta with --notext.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd)
			if err != nil {
				return err
			}

			logrus.SetOutput(os.Stderr)
			if opts.Debug {
				logrus.SetLevel(logrus.DebugLevel)
			}

			p := extract.NewPipeline(opts.Extract)
			failed := 0
			for _, file := range args {
				if err := p.Run(file); err != nil {
					logrus.Errorf("%s: %v", file, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolP("meta", "m", false, "Emit book metadata before the text")
	f.BoolP("notext", "n", false, "Suppress text output")
	f.BoolP("calibre", "c", false, "Recognize Calibre metadata extensions")
	f.StringP("separator", "s", "", "String printed before each section's text")
	f.IntP("width", "w", defaultWidth, "Output line width, 0 disables reflow")
	f.String("cover", "", "Write the book's cover image to this file")
	f.BoolP("debug", "d", false, "Enable debug logging")

	return cmd
}

func readCLIOptions(cmd *cobra.Command) (cliOptions, error) {
	var opts cliOptions
	flags := cmd.Flags()

	var err error
	if opts.Extract.Meta, err = flags.GetBool("meta"); err != nil {
		return opts, err
	}
	if opts.Extract.NoText, err = flags.GetBool("notext"); err != nil {
		return opts, err
	}
	if opts.Extract.Calibre, err = flags.GetBool("calibre"); err != nil {
		return opts, err
	}
	if opts.Extract.Separator, err = flags.GetString("separator"); err != nil {
		return opts, err
	}
	if opts.Extract.Width, err = flags.GetInt("width"); err != nil {
		return opts, err
	}
	if opts.Extract.Width < 0 {
		return opts, fmt.Errorf("invalid width %d", opts.Extract.Width)
	}
	if opts.Extract.CoverPath, err = flags.GetString("cover"); err != nil {
		return opts, err
	}
	if opts.Debug, err = flags.GetBool("debug"); err != nil {
		return opts, err
	}

	return opts, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
