package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUploadCommand_NoArgsError(t *testing.T) {
	// Test that running upload without file arguments shows the
	// expected error
	root := rootCmd
	root.SetArgs([]string{"upload"})

	output := &bytes.Buffer{}
	root.SetErr(output)

	err := root.Execute()

	if err == nil {
		t.Errorf("expected error about missing file arguments, but got none")
		return
	}

	if !strings.Contains(err.Error(), "requires at least 1 arg") {
		t.Errorf("expected error about required args, but got: %v", err)
	}
}

func TestUploadCommand_HelpText(t *testing.T) {
	buf := new(bytes.Buffer)
	root := rootCmd
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"upload", "--help"})

	err := root.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	helpText := buf.String()
	expectedFlags := []string{
		"--provider",
		"--output", "-o",
		"--progress",
		"glob patterns",
	}

	for _, flag := range expectedFlags {
		if !strings.Contains(helpText, flag) {
			t.Errorf("help text should contain %s, but didn't. Full help:\n%s", flag, helpText)
		}
	}
}

func TestExpandGlobPatterns(t *testing.T) {
	dir := t.TempDir()
	testFiles := []string{"test1.txt", "test2.txt", "other.log"}
	for _, file := range testFiles {
		if err := os.WriteFile(filepath.Join(dir, file), nil, 0o600); err != nil {
			t.Fatalf("failed to create test file %s: %v", file, err)
		}
	}

	tests := []struct {
		name     string
		patterns []string
		expected []string
	}{
		{
			name:     "no glob patterns",
			patterns: []string{filepath.Join(dir, "test1.txt"), filepath.Join(dir, "other.log")},
			expected: []string{filepath.Join(dir, "test1.txt"), filepath.Join(dir, "other.log")},
		},
		{
			name:     "simple glob",
			patterns: []string{filepath.Join(dir, "test*.txt")},
			expected: []string{filepath.Join(dir, "test1.txt"), filepath.Join(dir, "test2.txt")},
		},
		{
			name:     "non-matching glob",
			patterns: []string{filepath.Join(dir, "*.nonexistent")},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandGlobPatterns(tt.patterns)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			resultStr := strings.Join(result, ",")
			expectedStr := strings.Join(tt.expected, ",")

			if resultStr != expectedStr {
				t.Errorf("expected %s, got %s", expectedStr, resultStr)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test_validation.txt")
	if err := os.WriteFile(testFile, nil, 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name        string
		files       []string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid file",
			files:       []string{testFile},
			expectError: false,
		},
		{
			name:        "nonexistent file",
			files:       []string{filepath.Join(dir, "nope.txt")},
			expectError: true,
			errorMsg:    "file does not exist",
		},
		{
			name:        "directory",
			files:       []string{dir},
			expectError: true,
			errorMsg:    "only files can be uploaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePaths(tt.files)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error containing '%s', but got none", tt.errorMsg)
					return
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing '%s', but got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("expected no error, but got: %v", err)
				}
			}
		})
	}
}
