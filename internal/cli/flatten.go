package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/flat/internal/commands"
	"github.com/temirov/flat/internal/config"
	"github.com/temirov/flat/internal/ignore"
	"github.com/temirov/flat/internal/languages"
	"github.com/temirov/flat/internal/output"
	"github.com/temirov/flat/internal/remote"
	"github.com/temirov/flat/internal/selection"
	"github.com/temirov/flat/internal/services/artifact"
	"github.com/temirov/flat/internal/tokenizer"
	"github.com/temirov/flat/internal/types"
	"github.com/temirov/flat/internal/utils"
)

const (
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a source that is a regular file.
	errorNotDirectoryFormat = "path '%s' is not a directory"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorSelectionFormat        = "selecting files: %w"
	errorWriteStdoutFormat      = "writing document to stdout: %w"

	infoFlatteningComplete = "Flattening complete"
	infoCandidatesFound    = "Collected candidate files"
	warningCopyFailed      = "failed to copy document to clipboard"
	warningTokenCount      = "failed to count tokens"
)

// flattenRequest is a fully resolved flatten run: configuration merged with flags.
type flattenRequest struct {
	Source          string
	StructureOnly   bool
	Interactive     bool
	OutputDirectory string
	PrintToStdout   bool
	CopyToClipboard bool
	CountTokens     bool
	TokenizerModel  string
	IgnoreSources   config.IgnoreSources
	Languages       languages.Table
}

// buildFlattenRequest overlays explicitly set flags on the loaded configuration.
func buildFlattenRequest(command *cobra.Command, options flattenOptions, source string, dependencies Dependencies) (flattenRequest, error) {
	workingDirectory, workingDirectoryError := resolveWorkingDirectory(dependencies.WorkingDirectory)
	if workingDirectoryError != nil {
		return flattenRequest{}, workingDirectoryError
	}
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configurationPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if loadError != nil {
		return flattenRequest{}, loadError
	}

	flagSet := command.Flags()
	chooseBool := func(flagName string, flagValue bool, configured *bool, fallback bool) bool {
		if flagSet.Changed(flagName) {
			return flagValue
		}
		return config.BoolValue(configured, fallback)
	}
	chooseString := func(flagName string, flagValue string, configured string) string {
		if flagSet.Changed(flagName) || configured == utils.EmptyString {
			return flagValue
		}
		return configured
	}

	outputDirectory := chooseString(outputDirFlagName, options.outputDirectory, applicationConfiguration.OutputDir)
	if outputDirectory == utils.EmptyString {
		outputDirectory = workingDirectory
	}

	ignoreFiles := make([]string, 0, len(applicationConfiguration.Paths.IgnoreFiles)+len(options.ignoreFiles))
	for _, ignoreFile := range append(append([]string(nil), applicationConfiguration.Paths.IgnoreFiles...), options.ignoreFiles...) {
		ignoreFiles = append(ignoreFiles, absoluteFrom(workingDirectory, ignoreFile))
	}

	if !remote.IsRemoteURL(source) {
		source = absoluteFrom(workingDirectory, source)
	}

	return flattenRequest{
		Source:          source,
		StructureOnly:   chooseBool(structureOnlyFlagName, options.structureOnly, applicationConfiguration.StructureOnly, false),
		Interactive:     chooseBool(interactiveFlagName, options.interactive, applicationConfiguration.Interactive, false),
		OutputDirectory: absoluteFrom(workingDirectory, outputDirectory),
		PrintToStdout:   options.printToStdout,
		CopyToClipboard: chooseBool(copyFlagName, options.copyToClipboard, applicationConfiguration.Copy, false),
		CountTokens:     chooseBool(tokensFlagName, options.countTokens, applicationConfiguration.Tokens.Enabled, false),
		TokenizerModel:  chooseString(modelFlagName, options.tokenizerModel, applicationConfiguration.Tokens.Model),
		IgnoreSources: config.IgnoreSources{
			UseGitignore:      !options.disableGitignore && config.BoolValue(applicationConfiguration.Paths.UseGitignore, true),
			UseIgnoreFile:     !options.disableIgnoreFile && config.BoolValue(applicationConfiguration.Paths.UseIgnoreFile, true),
			ExtraIgnoreFiles:  utils.DeduplicatePatterns(ignoreFiles),
			ExclusionPatterns: utils.DeduplicatePatterns(append(append([]string(nil), applicationConfiguration.Paths.Exclude...), options.exclusionPatterns...)),
		},
		Languages: languages.Default().WithOverrides(applicationConfiguration.Extensions),
	}, nil
}

// runFlatten resolves the source, collects candidates, applies the selection and
// delivers the rendered document. Nothing is written when selection is cancelled.
func runFlatten(ctx context.Context, request flattenRequest, dependencies Dependencies, logger *zap.Logger) error {
	repositoryName := remote.RepositoryName(request.Source)

	var repositoryRoot string
	if remote.IsRemoteURL(request.Source) {
		checkout, fetchError := remote.Fetch(ctx, dependencies.Cloner, request.Source)
		if fetchError != nil {
			return fetchError
		}
		defer func() {
			if closeError := checkout.Close(); closeError != nil {
				logger.Warn("failed to remove temporary checkout", zap.String("path", checkout.Path), zap.Error(closeError))
			}
		}()
		repositoryRoot = checkout.Path
	} else {
		resolvedRoot, resolveError := resolveRepositoryRoot(request.Source)
		if resolveError != nil {
			return resolveError
		}
		repositoryRoot = resolvedRoot
	}

	evaluator, ignoreError := ignore.Load(repositoryRoot, request.IgnoreSources, ignore.DefaultExclusions(), logger)
	if ignoreError != nil {
		return ignoreError
	}
	fileSystem := osfs.New(repositoryRoot)
	treeBuilder := &commands.TreeBuilder{
		FileSystem: fileSystem,
		Matcher:    evaluator,
		Languages:  request.Languages,
		Logger:     logger,
	}

	readmePath, readmeError := treeBuilder.FindReadme()
	if readmeError != nil {
		return readmeError
	}
	candidates, collectError := treeBuilder.CollectCandidates(readmePath)
	if collectError != nil {
		return collectError
	}
	logger.Debug(infoCandidatesFound, zap.Int("count", len(candidates)))
	treeRoot, treeError := treeBuilder.BuildTree(repositoryName)
	if treeError != nil {
		return treeError
	}

	var selector selection.Selector = selection.AcceptAll{}
	if request.Interactive {
		selector = dependencies.NewSelector(logger)
	}
	selectedCandidates, selectError := selector.Select(ctx, candidates)
	if selectError != nil {
		return fmt.Errorf(errorSelectionFormat, selectError)
	}

	var documentBuffer bytes.Buffer
	summary, renderError := output.RenderDocument(&documentBuffer, fileSystem, output.Document{
		RepositoryName: repositoryName,
		Tree:           treeRoot,
		Files:          selectedCandidates,
		ReadmePath:     readmePath,
		StructureOnly:  request.StructureOnly,
		Languages:      request.Languages,
	}, logger)
	if renderError != nil {
		return renderError
	}

	if deliverError := deliverDocument(request, repositoryName, documentBuffer.Bytes(), summary, dependencies, logger); deliverError != nil {
		return deliverError
	}
	if request.CopyToClipboard {
		if copyError := dependencies.Copier.Copy(documentBuffer.String()); copyError != nil {
			logger.Warn(warningCopyFailed, zap.Error(copyError))
		}
	}
	if request.CountTokens {
		logTokenCount(request.TokenizerModel, documentBuffer.Bytes(), dependencies, logger)
	}
	return nil
}

func deliverDocument(request flattenRequest, repositoryName string, document []byte, summary types.OutputSummary, dependencies Dependencies, logger *zap.Logger) error {
	if request.PrintToStdout {
		if _, writeError := dependencies.Stdout.Write(document); writeError != nil {
			return fmt.Errorf(errorWriteStdoutFormat, writeError)
		}
		return nil
	}
	artifactPath := artifact.ArtifactPath(request.OutputDirectory, repositoryName)
	if writeError := dependencies.ArtifactWriter.Write(artifactPath, document); writeError != nil {
		return writeError
	}
	logger.Info(infoFlatteningComplete,
		zap.String("output", artifactPath),
		zap.Int("files", summary.IncludedFiles),
		zap.Int("skipped", summary.SkippedFiles),
		zap.String("content", utils.FormatFileSize(summary.TotalBytes)),
		zap.String("size", utils.FormatFileSize(int64(len(document)))),
	)
	return nil
}

func logTokenCount(model string, document []byte, dependencies Dependencies, logger *zap.Logger) {
	counter, counterError := dependencies.NewCounter(model)
	if counterError != nil {
		logger.Warn(warningTokenCount, zap.Error(counterError))
		return
	}
	result, countError := tokenizer.CountBytes(counter, document)
	if countError != nil {
		logger.Warn(warningTokenCount, zap.Error(countError))
		return
	}
	if result.Counted {
		logger.Info("Estimated tokens", zap.Int("tokens", result.Tokens), zap.String("model", counter.Name()))
	}
}

// resolveRepositoryRoot converts a local source path to a clean absolute directory path.
func resolveRepositoryRoot(source string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(source)
	if absolutePathError != nil {
		return utils.EmptyString, fmt.Errorf(errorAbsolutePathFormat, source, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if errors.Is(fileStatusError, os.ErrNotExist) {
			return utils.EmptyString, fmt.Errorf(errorPathMissingFormat, source)
		}
		return utils.EmptyString, fmt.Errorf(errorStatFormat, source, fileStatusError)
	}
	if !info.IsDir() {
		return utils.EmptyString, fmt.Errorf(errorNotDirectoryFormat, source)
	}
	return cleanPath, nil
}

func resolveWorkingDirectory(configured string) (string, error) {
	if configured != utils.EmptyString {
		return configured, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return utils.EmptyString, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return workingDirectory, nil
}

func absoluteFrom(baseDirectory string, candidatePath string) string {
	if filepath.IsAbs(candidatePath) {
		return filepath.Clean(candidatePath)
	}
	return filepath.Join(baseDirectory, candidatePath)
}
