package cmd

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"clipctl/pkg/clipboard"
	clierrors "clipctl/pkg/errors"
	"clipctl/pkg/history"
)

func TestClassifyClipboardError(t *testing.T) {
	busy := &clipboard.ClipboardUnavailableError{Timeout: 500 * time.Millisecond, Attempts: 51}

	tests := []struct {
		name string
		err  error
		want clierrors.ExitCode
	}{
		{"busy", busy, clierrors.ExitCodeClipboardBusy},
		{"wrapped busy", fmt.Errorf("copy text: %w", busy), clierrors.ExitCodeClipboardBusy},
		{"unsupported platform", clipboard.ErrUnsupportedPlatform, clierrors.ExitCodeUnsupportedPlatform},
		{"unsupported format", clipboard.ErrUnsupportedFormat, clierrors.ExitCodeUnsupportedFormat},
		{"invalid format", clipboard.ErrInvalidFormat, clierrors.ExitCodeValidation},
		{"native", &clipboard.NativeCallError{Op: "GlobalAlloc", Code: syscall.Errno(8)}, clierrors.ExitCodeNative},
		{"other", errors.New("boom"), clierrors.ExitCodeGeneral},
		{"already coded", clierrors.ValidationError("bad"), clierrors.ExitCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyClipboardError(clierrors.ErrMsgCopyFailed, "text", tt.err)
			if !clierrors.IsExitCode(got, tt.want) {
				t.Errorf("classifyClipboardError(%v) = %v, want exit code %d", tt.err, got, tt.want)
			}
			if !errors.Is(got, tt.err) && !errors.Is(got, errors.Unwrap(tt.err)) {
				t.Errorf("classified error lost its cause: %v", got)
			}
		})
	}

	if classifyClipboardError(clierrors.ErrMsgCopyFailed, "", nil) != nil {
		t.Error("classifyClipboardError(nil) != nil")
	}
}

func TestClassifyHistoryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want clierrors.ExitCode
	}{
		{"not found", history.ErrNotFound, clierrors.ExitCodeNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", history.ErrNotFound), clierrors.ExitCodeNotFound},
		{"ambiguous", history.ErrAmbiguousID, clierrors.ExitCodeValidation},
		{"database", errors.New("disk I/O error"), clierrors.ExitCodeHistory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyHistoryError("ab12", tt.err)
			if !clierrors.IsExitCode(got, tt.want) {
				t.Errorf("classifyHistoryError(%v) = %v, want exit code %d", tt.err, got, tt.want)
			}
		})
	}
}
