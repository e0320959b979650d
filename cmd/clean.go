package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitdesk/fitdesk/internal/logger"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove log files and staged clipboard images",
	Long: `Removes the debug log and any clipboard images staged under the system
temp directory that a failed send left behind.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(os.Stdin)
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(input io.Reader) error {
	staged, err := findStagedImages()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error scanning staged images: %v\n", err)
	}

	fmt.Println("This will clean:")
	fmt.Printf("  - %s\n", logger.DefaultLogPath)
	if len(staged) > 0 {
		fmt.Printf("  - %d staged clipboard image(s)\n", len(staged))
	}

	if !skipConfirm {
		if !confirm(input, "Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	imagesCleared := 0
	for _, path := range staged {
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error removing %s: %v\n", path, err)
			continue
		}
		imagesCleared++
	}

	fmt.Println()
	fmt.Println("Cleaned:")
	if logsCleared > 0 {
		fmt.Printf("  - %d log file(s) removed\n", logsCleared)
	}
	if imagesCleared > 0 {
		fmt.Printf("  - %d staged clipboard image(s) removed\n", imagesCleared)
	}
	if logsCleared == 0 && imagesCleared == 0 {
		fmt.Println("  - nothing")
	}

	return nil
}

// findStagedImages lists clipboard images the paste path staged to the temp
// directory and never got to remove
func findStagedImages() ([]string, error) {
	return filepath.Glob(filepath.Join(os.TempDir(), "fitdesk-paste-*.png"))
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
