package errors

import "fmt"

// SuggestionGenerator produces recovery steps for a classified failure.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates the built-in generator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

type suggestionGenerator struct{}

// Generate returns the recovery steps for a category, in display order.
// When the affected path is known, path-specific steps are included.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return permissionSteps(affectedPath)
	case CategoryDiskSpace:
		return diskSpaceSteps(affectedPath)
	case CategoryPath:
		return pathSteps(affectedPath)
	case CategoryDelete:
		return deleteSteps(affectedPath)
	case CategoryConnectivity:
		return connectivitySteps()
	case CategoryPlacement:
		return placementSteps()
	case CategoryConfiguration:
		return configurationSteps(affectedPath)
	case CategoryUnknown:
		return unknownSteps(affectedPath)
	default:
		return unknownSteps(affectedPath)
	}
}

func permissionSteps(path string) []string {
	steps := []string{
		"Ensure you can read the source files and write to the target directory",
	}

	if path != "" {
		steps = append(steps, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		steps = append(steps, "Check permissions with 'ls -la' on the affected path")
	}

	return append(steps, "Try running with appropriate permissions or as a privileged user")
}

func diskSpaceSteps(path string) []string {
	steps := []string{
		"Free up space on the target device",
		"Check available space with 'df -h'",
		"Remove unnecessary files or extract to a different target directory",
	}

	if path != "" {
		steps = append(steps, "Verify disk usage for the filesystem containing "+path)
	}

	return steps
}

func pathSteps(path string) []string {
	steps := []string{
		"Verify the path exists and is spelled correctly",
		"A file that matched the scan may have been removed before it was processed",
	}

	if path != "" {
		steps = append(steps, "Check if the path exists: "+path)
	}

	return steps
}

// deleteSteps covers the move-mode case where the copy landed but the
// source could not be removed afterwards.
func deleteSteps(path string) []string {
	steps := []string{
		"The file was copied but could not be removed from the source",
		"Check write permissions on the source directory",
	}

	if path != "" {
		steps = append(steps, fmt.Sprintf("Inspect the leftover file with 'ls -la %s'", path))
	}

	return append(steps, "Remove the source file manually once the cause is resolved")
}

func connectivitySteps() []string {
	return []string{
		"Check the network connection to the remote host",
		"Verify the SSH server is reachable and accepting connections",
		"Confirm your key is loaded in the SSH agent with 'ssh-add -l'",
		"Re-run the extraction once the connection is stable",
	}
}

func placementSteps() []string {
	return []string{
		"Check if there is sufficient disk space on the target",
		"Verify the source and target media are functioning correctly",
		"Try the operation again - this may be a transient I/O error",
		"Check system logs for hardware issues",
	}
}

func configurationSteps(path string) []string {
	steps := []string{
		"Review the command-line flags and their values",
		"Run with --help to see the accepted flags and formats",
	}

	if path != "" {
		steps = append(steps, "If another run holds the lock, wait for it or remove a stale "+path)
	}

	return steps
}

func unknownSteps(path string) []string {
	steps := []string{
		"Check the error message for more details",
		"Verify file and directory permissions",
		"Ensure sufficient disk space is available",
	}

	if path != "" {
		steps = append(steps, "Verify the path is accessible: "+path)
	}

	return steps
}
