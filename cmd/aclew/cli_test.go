package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/config"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/db"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/ops"
)

// sampleTranscript has one valid snippet surrounded by prose.
const sampleTranscript = "Let's try this:\n```go\nx := 1\nfmt.Println(x)\n```\nlooks good"

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config for testing. Paths are unrestricted
// so export/import tests can use temp directories.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	return cfg
}

// storeSession computes and stores a recap directly through the ops layer.
func storeSession(t *testing.T, database *sql.DB, cfg *config.Config, sessionID string) *ops.ComputeOutput {
	t.Helper()
	out, err := ops.Compute(context.Background(), database, cfg, ops.ComputeInput{
		SessionID:  &sessionID,
		Transcript: sampleTranscript,
		Store:      true,
	})
	if err != nil {
		t.Fatalf("failed to store test recap: %v", err)
	}
	return out
}

// runApp runs the CLI app with stdout captured.
func runApp(t *testing.T, app *cli.App, args []string) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(args)

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestParseDuration tests the parseDuration helper function.
func TestParseDuration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{
			name:     "valid days",
			input:    "7d",
			expected: 7,
		},
		{
			name:     "zero days",
			input:    "0d",
			expected: 0,
		},
		{
			name:     "large number",
			input:    "365d",
			expected: 365,
		},
		{
			name:        "negative days",
			input:       "-7d",
			expectError: true,
		},
		{
			name:        "no suffix",
			input:       "7",
			expectError: true,
		},
		{
			name:        "wrong suffix",
			input:       "7h",
			expectError: true,
		},
		{
			name:        "invalid number",
			input:       "abcd",
			expectError: true,
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseDuration(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

// TestCLIRecap tests the recap command.
func TestCLIRecap(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Create a pipe for stdin
	oldStdin := os.Stdin
	stdinR, stdinW, _ := os.Pipe()
	os.Stdin = stdinR

	// Write the transcript to stdin
	go func() {
		_, _ = stdinW.WriteString(sampleTranscript)
		stdinW.Close()
	}()

	// Run recap command
	err := app.Run([]string{"aclew", "recap", "--session-id=cli-recap-test", "--store"})

	// Restore stdin
	os.Stdin = oldStdin

	// Read stdout
	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("recap command failed: %v", err)
	}

	// Parse output
	var output ops.ComputeOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, buf.String())
	}

	if output.SessionID != "cli-recap-test" {
		t.Errorf("expected session_id=cli-recap-test, got %s", output.SessionID)
	}
	if !output.Stored {
		t.Error("expected stored=true")
	}
	if output.Recap.Final == nil {
		t.Error("expected a final snippet")
	}
}

// TestCLIRecapFromFile tests the recap command with --file input.
func TestCLIRecapFromFile(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(path, []byte(sampleTranscript), 0600); err != nil {
		t.Fatalf("failed to write transcript file: %v", err)
	}

	app := newCLIApp(database, cfg)

	stdout, err := runApp(t, app, []string{"aclew", "recap", "--file=" + path, "--session-id=file-test"})
	if err != nil {
		t.Fatalf("recap command failed: %v", err)
	}

	var output ops.ComputeOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.SessionID != "file-test" {
		t.Errorf("expected session_id=file-test, got %s", output.SessionID)
	}
	if output.Recap.Final == nil {
		t.Error("expected a final snippet")
	}
}

// TestCLIFetch tests the fetch command.
func TestCLIFetch(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	storeSession(t, database, cfg, "fetch-test")

	app := newCLIApp(database, cfg)

	t.Run("json output", func(t *testing.T) {
		stdout, err := runApp(t, app, []string{"aclew", "fetch", "fetch-test"})
		if err != nil {
			t.Fatalf("fetch command failed: %v", err)
		}

		var output ops.FetchOutput
		if err := json.Unmarshal([]byte(stdout), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.SessionID != "fetch-test" {
			t.Errorf("expected session_id=fetch-test, got %s", output.SessionID)
		}
		if output.ContextLine == "" {
			t.Error("expected non-empty context_line")
		}
	})

	t.Run("human output", func(t *testing.T) {
		stdout, err := runApp(t, app, []string{"aclew", "fetch", "--human", "fetch-test"})
		if err != nil {
			t.Fatalf("fetch command failed: %v", err)
		}
		if json.Valid([]byte(stdout)) {
			t.Error("expected plain text output, got JSON")
		}
		if stdout == "" {
			t.Error("expected non-empty report")
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := runApp(t, app, []string{"aclew", "fetch"})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestCLILatest tests the latest command.
func TestCLILatest(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	storeSession(t, database, cfg, "latest-test")

	app := newCLIApp(database, cfg)

	stdout, err := runApp(t, app, []string{"aclew", "latest", "--include-recap"})
	if err != nil {
		t.Fatalf("latest command failed: %v", err)
	}

	var output ops.LatestOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Item == nil {
		t.Fatal("expected non-nil item")
	}
	if output.Item.SessionID != "latest-test" {
		t.Errorf("expected session_id=latest-test, got %s", output.Item.SessionID)
	}
	if output.Item.Recap == nil {
		t.Error("expected recap body in output")
	}
}

// TestCLIList tests the list command.
func TestCLIList(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	for _, id := range []string{"list-a", "list-b", "list-c"} {
		storeSession(t, database, cfg, id)
	}

	app := newCLIApp(database, cfg)

	stdout, err := runApp(t, app, []string{"aclew", "list", "--limit=2"})
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var output ops.ListOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if len(output.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(output.Items))
	}
	if output.Pagination.Total != 3 {
		t.Errorf("expected total=3, got %d", output.Pagination.Total)
	}
	if !output.Pagination.HasMore {
		t.Error("expected has_more=true")
	}
}

// TestCLIDelete tests the delete command.
func TestCLIDelete(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	storeSession(t, database, cfg, "delete-test")

	app := newCLIApp(database, cfg)

	stdout, err := runApp(t, app, []string{"aclew", "delete", "delete-test"})
	if err != nil {
		t.Fatalf("delete command failed: %v", err)
	}

	var output ops.DeleteOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if !output.Deleted {
		t.Error("expected deleted=true")
	}
	if output.SessionID != "delete-test" {
		t.Errorf("expected session_id=delete-test, got %s", output.SessionID)
	}
}

// TestCLIPurge tests the purge command.
func TestCLIPurge(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	storeSession(t, database, cfg, "purge-test")
	_, err := ops.Delete(context.Background(), database, ops.DeleteInput{SessionID: "purge-test"})
	if err != nil {
		t.Fatalf("failed to delete test recap: %v", err)
	}

	app := newCLIApp(database, cfg)

	// Purge without --older-than to purge all deleted recaps
	stdout, err := runApp(t, app, []string{"aclew", "purge"})
	if err != nil {
		t.Fatalf("purge command failed: %v", err)
	}

	var output ops.PurgeOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Purged != 1 {
		t.Errorf("expected purged=1, got %d", output.Purged)
	}
}

// TestCLIExportImport tests the export and import commands.
func TestCLIExportImport(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	for _, id := range []string{"export-a", "export-b"} {
		storeSession(t, database, cfg, id)
	}

	app := newCLIApp(database, cfg)
	exportPath := filepath.Join(t.TempDir(), "export.jsonl")

	t.Run("export", func(t *testing.T) {
		stdout, err := runApp(t, app, []string{"aclew", "export", "--path=" + exportPath})
		if err != nil {
			t.Fatalf("export command failed: %v", err)
		}

		var output ops.ExportOutput
		if err := json.Unmarshal([]byte(stdout), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.Count != 2 {
			t.Errorf("expected count=2, got %d", output.Count)
		}
		if output.Path != exportPath {
			t.Errorf("expected path=%s, got %s", exportPath, output.Path)
		}
	})

	// Create new database for import test
	database2, cleanup2 := setupTestDB(t)
	defer cleanup2()
	app2 := newCLIApp(database2, cfg)

	t.Run("import", func(t *testing.T) {
		stdout, err := runApp(t, app2, []string{"aclew", "import", "--path=" + exportPath})
		if err != nil {
			t.Fatalf("import command failed: %v", err)
		}

		var output ops.ImportOutput
		if err := json.Unmarshal([]byte(stdout), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.Imported != 2 {
			t.Errorf("expected imported=2, got %d", output.Imported)
		}
	})
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg)

	t.Run("fetch not found returns error", func(t *testing.T) {
		// cli.Exit writes to stderr, so just verify the error is returned
		_, err := runApp(t, app, []string{"aclew", "fetch", "nonexistent"})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("delete not found returns error", func(t *testing.T) {
		_, err := runApp(t, app, []string{"aclew", "delete", "nonexistent"})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("invalid duration format returns error", func(t *testing.T) {
		_, err := runApp(t, app, []string{"aclew", "purge", "--older-than=invalid"})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("invalid import mode returns error", func(t *testing.T) {
		_, err := runApp(t, app, []string{"aclew", "import", "--path=missing.jsonl", "--mode=merge"})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"aclew"},
			expected: false,
		},
		{
			name:     "recap command",
			args:     []string{"aclew", "recap"},
			expected: true,
		},
		{
			name:     "fetch command",
			args:     []string{"aclew", "fetch"},
			expected: true,
		},
		{
			name:     "serve command",
			args:     []string{"aclew", "serve"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"aclew", "--help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"aclew", "--version"},
			expected: true,
		},
		{
			name:     "short help flag",
			args:     []string{"aclew", "-h"},
			expected: true,
		},
		{
			name:     "short version flag",
			args:     []string{"aclew", "-v"},
			expected: true,
		},
		{
			name:     "unknown arg defaults to MCP",
			args:     []string{"aclew", "--unknown"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore os.Args
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isCLIMode()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"aclew"},
			expected: false,
		},
		{
			name:     "help flag",
			args:     []string{"aclew", "--help"},
			expected: true,
		},
		{
			name:     "short help flag",
			args:     []string{"aclew", "-h"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"aclew", "--version"},
			expected: true,
		},
		{
			name:     "short version flag",
			args:     []string{"aclew", "-v"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"aclew", "help"},
			expected: true,
		},
		{
			name:     "recap command is not help",
			args:     []string{"aclew", "recap"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isHelpOrVersion()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestReadStdin tests the readStdin helper.
func TestReadStdin(t *testing.T) {
	content := "  some piped text\n"
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	go func() {
		_, _ = w.WriteString(content)
		w.Close()
	}()

	oldStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	result, err := readStdin()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "some piped text" {
		t.Errorf("expected trimmed content, got %q", result)
	}
}
