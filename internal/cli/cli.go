// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/flat/internal/config"
	"github.com/temirov/flat/internal/remote"
	"github.com/temirov/flat/internal/selection"
	"github.com/temirov/flat/internal/services/artifact"
	"github.com/temirov/flat/internal/services/clipboard"
	"github.com/temirov/flat/internal/tokenizer"
	"github.com/temirov/flat/internal/utils"
)

const (
	structureOnlyFlagName   = "structure-only"
	interactiveFlagName     = "interactive"
	interactiveShorthand    = "i"
	outputDirFlagName       = "output-dir"
	outputDirShorthand      = "o"
	stdoutFlagName          = "stdout"
	copyFlagName            = "copy"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	exclusionFlagName       = "exclude"
	exclusionShorthand      = "e"
	noGitignoreFlagName     = "no-gitignore"
	noIgnoreFlagName        = "no-ignore"
	ignoreFileFlagName      = "ignore-file"
	configFlagName          = "config"
	verboseFlagName         = "verbose"
	verboseShorthand        = "v"
	versionFlagName         = "version"
	globalFlagName          = "global"
	forceFlagName           = "force"
	versionTemplate         = "flat version: %s\n"
	initializedTemplate     = "configuration written to %s\n"
	defaultRepositorySource = "."

	rootUse              = "flat [path-or-url]"
	rootShortDescription = "flatten a source repository into one Markdown document"
	rootLongDescription  = `flat walks a local directory or a remote git repository and writes
<repo>.flat.md: a folder structure diagram followed by one fenced section per source file.
Hidden paths, build output, lockfiles and patterns from .gitignore and .ignore are skipped.
Use --interactive to pick files by hand and --structure-only to omit file contents.`
	rootUsageExample = `  # Flatten the current directory
  flat

  # Flatten a remote repository into ./out without file contents
  flat https://github.com/owner/repo.git --structure-only -o out

  # Choose files interactively and copy the result to the clipboard
  flat ./service -i --copy`

	initUse              = "init"
	initShortDescription = "write a default .flat.yaml"
	initLongDescription  = `Write a configuration template to ./.flat.yaml, or to
~/.config/flat/.flat.yaml with --global. Existing files are kept unless --force is given.`

	structureOnlyFlagDescription = "render only the folder structure"
	interactiveFlagDescription   = "select files interactively before rendering"
	outputDirFlagDescription     = "directory receiving <repo>.flat.md (default: working directory)"
	stdoutFlagDescription        = "print the document instead of writing a file"
	copyFlagDescription          = "copy the document to the clipboard"
	tokensFlagDescription        = "log an estimated token count of the document"
	modelFlagDescription         = "tokenizer model used for --tokens"
	exclusionFlagDescription     = "additional ignore pattern (repeatable)"
	noGitignoreFlagDescription   = "do not use .gitignore"
	noIgnoreFlagDescription      = "do not use .ignore"
	ignoreFileFlagDescription    = "additional ignore file (repeatable)"
	configFlagDescription        = "configuration file overriding ./.flat.yaml"
	verboseFlagDescription       = "enable debug logging"
	versionFlagDescription       = "display application version"
	globalFlagDescription        = "write the global configuration"
	forceFlagDescription         = "overwrite an existing configuration file"
)

// Dependencies holds the collaborators of a flatten run that tests replace.
type Dependencies struct {
	Cloner           remote.Cloner
	Copier           clipboard.Copier
	ArtifactWriter   artifact.Writer
	NewSelector      func(logger *zap.Logger) selection.Selector
	NewCounter       func(model string) (tokenizer.Counter, error)
	Stdout           io.Writer
	WorkingDirectory string
	HomeDirectory    string
}

// defaultDependencies wires the production collaborators.
func defaultDependencies(logger *zap.Logger) Dependencies {
	return Dependencies{
		Cloner:         remote.GitCloner{Logger: logger},
		Copier:         clipboard.NewService(),
		ArtifactWriter: artifact.NewService(),
		NewSelector: func(selectorLogger *zap.Logger) selection.Selector {
			return selection.NewTerminalSelector(selectorLogger)
		},
		NewCounter: tokenizer.NewCounter,
		Stdout:     os.Stdout,
	}
}

// Execute runs the flat application. level is lowered to debug by --verbose.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCommand := createRootCommand(logger, level, defaultDependencies(logger))
	rootCommand.SetArgs(normalizeSwitchArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// flattenOptions stores the values of the root command flags.
type flattenOptions struct {
	structureOnly     bool
	interactive       bool
	outputDirectory   string
	printToStdout     bool
	copyToClipboard   bool
	countTokens       bool
	tokenizerModel    string
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	ignoreFiles       []string
	configurationPath string
	verbose           bool
	showVersion       bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger, level zap.AtomicLevel, dependencies Dependencies) *cobra.Command {
	var options flattenOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.verbose {
				level.SetLevel(zap.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			source := defaultRepositorySource
			if len(arguments) == 1 {
				source = arguments[0]
			}
			request, requestError := buildFlattenRequest(command, options, source, dependencies)
			if requestError != nil {
				return requestError
			}
			return runFlatten(command.Context(), request, dependencies, logger)
		},
	}

	flagSet := rootCommand.Flags()
	registerSwitchFlag(flagSet, &options.structureOnly, structureOnlyFlagName, "", structureOnlyFlagDescription)
	registerSwitchFlag(flagSet, &options.interactive, interactiveFlagName, interactiveShorthand, interactiveFlagDescription)
	registerSwitchFlag(flagSet, &options.printToStdout, stdoutFlagName, "", stdoutFlagDescription)
	registerSwitchFlag(flagSet, &options.copyToClipboard, copyFlagName, "", copyFlagDescription)
	registerSwitchFlag(flagSet, &options.countTokens, tokensFlagName, "", tokensFlagDescription)
	flagSet.StringVarP(&options.outputDirectory, outputDirFlagName, outputDirShorthand, "", outputDirFlagDescription)
	flagSet.StringVar(&options.tokenizerModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionShorthand, nil, exclusionFlagDescription)
	flagSet.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	flagSet.BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, noIgnoreFlagDescription)
	flagSet.StringArrayVar(&options.ignoreFiles, ignoreFileFlagName, nil, ignoreFileFlagDescription)
	flagSet.StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&options.verbose, verboseFlagName, verboseShorthand, false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), initializedTemplate, destinationPath)
			return printError
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
