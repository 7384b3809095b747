package utils

// Ignore and configuration file names used across the project.
const (
	// IgnoreFileName is the name of the generic ignore file honored next to .gitignore.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the application configuration file.
	ConfigFileName = ".flat.yaml"
	// GlobalConfigDirectoryName is the directory, relative to the home directory, holding the global configuration.
	GlobalConfigDirectoryName = ".config/flat"
	// FlattenedFileSuffix is appended to the repository name to form the output file name.
	FlattenedFileSuffix = ".flat.md"
)

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// LoggerInitializationFailedMessageFormat formats logger construction failures.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal command errors.
const ApplicationExecutionFailedMessage = "flat failed"
