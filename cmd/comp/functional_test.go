package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/comp/internal/config"
)

// TestFunctional runs every source file in testdata that has a .want file
// next to it and compares the output. Errors are appended after stdout
// the way main prints them.
func TestFunctional(t *testing.T) {
	var testFiles []string
	err := filepath.Walk("testdata", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSourceFile(path) {
			return nil
		}
		ext := filepath.Ext(path)
		if _, err := os.Stat(strings.TrimSuffix(path, ext) + ".want"); err == nil {
			testFiles = append(testFiles, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk testdata: %v", err)
	}
	if len(testFiles) == 0 {
		t.Skip("No test files with .want found")
	}

	for _, testFile := range testFiles {
		ext := filepath.Ext(testFile)
		testName := strings.TrimSuffix(filepath.Base(testFile), ext)

		t.Run(testName, func(t *testing.T) {
			wantBytes, err := os.ReadFile(strings.TrimSuffix(testFile, ext) + ".want")
			if err != nil {
				t.Fatalf("Failed to read .want file: %v", err)
			}

			var stdout, stderr bytes.Buffer
			runErr := run(&stdout, &stderr, []string{"-color", config.ColorNever, "-f", testFile})

			got := strings.TrimSpace(stdout.String())
			if runErr != nil {
				msg := runErr.Error()
				var exitErr *ExitError
				if errors.As(runErr, &exitErr) {
					msg = exitErr.Message
				}
				// Paths are reported relative to testdata
				msg = strings.ReplaceAll(msg, filepath.Dir(testFile)+string(filepath.Separator), "")
				if got != "" {
					got += "\n"
				}
				got += strings.TrimSpace(msg)
			}

			want := strings.TrimSpace(strings.ReplaceAll(string(wantBytes), "\r\n", "\n"))
			if got != want {
				t.Errorf("Output mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
			}
		})
	}
}
