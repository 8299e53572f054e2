package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"clipctl/pkg/errors"

	"github.com/fatih/color"
)

const (
	responseYes = "yes"
	responseY   = "y"
)

// IsAssumeYes returns true if we should skip confirmation prompts
func IsAssumeYes() bool {
	return assumeYesFlag
}

// ConfirmPrompt asks the user for confirmation
func ConfirmPrompt(message string) (bool, error) {
	return confirmFrom(os.Stdin, os.Stderr, message)
}

func confirmFrom(in io.Reader, out io.Writer, message string) (bool, error) {
	if assumeYesFlag {
		return true, nil
	}

	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(out, "%s [y/N]: ", message)

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == responseY || response == responseYes, nil
}

// ConfirmDestructive prompts for confirmation before a destructive action
func ConfirmDestructive(action string, details map[string]string) (bool, error) {
	if !assumeYesFlag {
		red := color.New(color.FgRed, color.Bold)
		_, _ = red.Fprintf(os.Stderr, "Warning: You are about to %s\n\n", action)

		if len(details) > 0 {
			for key, value := range details {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", key, value)
			}
			fmt.Fprintln(os.Stderr)
		}
	}

	return ConfirmPrompt("Do you want to continue")
}

// RequireConfirmation returns a cancellation error if confirmation is denied
func RequireConfirmation(action string, details map[string]string) error {
	confirmed, err := ConfirmDestructive(action, details)
	if err != nil {
		return err
	}
	if !confirmed {
		return errors.CancelledError(action)
	}
	return nil
}
