package main

import (
	"errors"
	"os"

	"github.com/aws/smithy-go"
	"github.com/spf13/cobra"

	"github.com/ppiankov/cwgrep/internal/cli"
	"github.com/ppiankov/cwgrep/internal/config"
	"github.com/ppiankov/cwgrep/internal/correlate"
	"github.com/ppiankov/cwgrep/internal/cwl"
)

var version = "dev"

var (
	cfg         *config.Config
	regionFlag  string
	profileFlag string
	debugFlag   bool
)

func main() {
	if err := execute(); err != nil {
		err = classifyError(err)
		cli.FormatError(os.Stderr, err, false)
		os.Exit(cli.ExitCode(err))
	}
}

func execute() error {
	cfg = config.Load()

	root := &cobra.Command{
		Use:     "cwgrep",
		Short:   "Filter CloudWatch logs by pattern, keeping whole correlated requests",
		Version: version,
	}
	root.PersistentFlags().StringVar(&regionFlag, "region", "", "AWS region (default: AWS config chain)")
	root.PersistentFlags().StringVar(&profileFlag, "profile", "", "AWS shared config profile")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "print debug information")

	root.AddCommand(newTraceCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newGroupsCmd())
	root.AddCommand(newStreamsCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd())
	return root.Execute()
}

// classifyError maps domain errors onto the CLI exit-code taxonomy.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var ipe *correlate.InvalidPatternError
	if errors.As(err, &ipe) {
		return cli.NewUsageError(err.Error())
	}

	var fe *cwl.FetchError
	if errors.As(err, &fe) {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			switch ae.ErrorCode() {
			case "ResourceNotFoundException":
				return cli.NewNotFoundError(err.Error())
			case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException":
				return cli.NewPermissionError(err.Error())
			}
		}
		return cli.NewNetworkError(err.Error())
	}

	return err
}

// clientOptions merges flags over config for AWS client construction.
func clientOptions() cwl.Options {
	opts := cwl.Options{
		Region:  cfg.AWS.Region,
		Profile: cfg.AWS.Profile,
	}
	if regionFlag != "" {
		opts.Region = regionFlag
	}
	if profileFlag != "" {
		opts.Profile = profileFlag
	}
	return opts
}

func debugEnabled() bool {
	return debugFlag || (cfg != nil && cfg.Defaults.Debug)
}
