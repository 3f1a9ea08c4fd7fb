package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"todo/internal/backend/googletasks"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

// memFactory returns a store factory that always hands out store.
func memFactory(store *testutil.MemStore) cli.StoreFactory {
	return func(cfg *config.Config, log *zap.Logger) service.Store {
		return store
	}
}

// exporterFactory returns an exporter factory that returns exp.
func exporterFactory(exp service.Exporter) cli.ExporterFactory {
	return func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Exporter, error) {
		return exp, nil
	}
}

func newTestDispatcher(t *testing.T) *cli.Dispatcher {
	t.Helper()
	t.Setenv("TODO_DATA_DIR", t.TempDir())
	return cli.NewDispatcher(commands.DefaultRegistry, memFactory(testutil.NewMemStore()), exporterFactory(testutil.NewFakeExporter()))
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := newTestDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := newTestDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := newTestDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := newTestDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := newTestDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	t.Setenv("TODO_DATA_DIR", t.TempDir())
	store := testutil.NewMemStore(service.Task{ID: "1", Task: "buy milk", Time: "", Status: "pending"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memFactory(store), nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "   1  [ ] buy milk\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_FileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)
	ctx := context.Background()

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(ctx, []string{"add", "--data-dir", dir, "--time", "tomorrow", "buy", "milk"}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("add: exit %d, stderr %q", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks.json")); err != nil {
		t.Fatalf("expected tasks.json to exist: %v", err)
	}

	stdout.Reset()
	code = dispatcher.Run(ctx, []string{"list", "--data-dir", dir}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("list: exit %d, stderr %q", code, stderr.String())
	}
	if stdout.String() != "   1  [ ] buy milk  (tomorrow)\n" {
		t.Errorf("unexpected list output %q", stdout.String())
	}
}

func TestDispatcher_InvokeReadsInput(t *testing.T) {
	t.Setenv("TODO_DATA_DIR", t.TempDir())
	store := testutil.NewMemStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memFactory(store), nil)
	dispatcher.SetInput(strings.NewReader(`{"tasks":[{"id":"a","task":"t","time":"","status":"pending"}]}`))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"invoke", "save_tasks", "-"}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr.String())
	}
	if got := store.Load(); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("unexpected store contents %+v", got)
	}
}

func TestDispatcher_ExportWithoutBackend(t *testing.T) {
	t.Setenv("TODO_DATA_DIR", t.TempDir())
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memFactory(testutil.NewMemStore()), nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"export"}, &stdout, &stderr)
	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
}

func TestDispatcher_ExporterErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"no client", googletasks.ErrNoOAuthClient, exitcode.AuthError, "oauth_client.json not found"},
		{"not logged in", googletasks.ErrNotLoggedIn, exitcode.AuthError, "error: not logged in (run: todo login)\n"},
		{"bad token", errors.New("invalid token.json: eof"), exitcode.AuthError, "auth error"},
		{"other", errors.New("connection refused"), exitcode.BackendError, "backend error: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TODO_DATA_DIR", t.TempDir())
			factory := func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Exporter, error) {
				return nil, tt.err
			}
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memFactory(testutil.NewMemStore()), factory)

			var stdout, stderr bytes.Buffer
			code := dispatcher.Run(context.Background(), []string{"lists"}, &stdout, &stderr)
			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("expected stderr to contain %q, got %q", tt.wantErr, stderr.String())
			}
		})
	}
}

func TestDispatcher_RealExporterNeedsCredentials(t *testing.T) {
	dir := t.TempDir()
	factory := func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Exporter, error) {
		return googletasks.New(ctx, cfg, log)
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memFactory(testutil.NewMemStore()), factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"export", "--data-dir", dir}, &stdout, &stderr)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr.String(), "oauth_client.json not found") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_ExportUsesConfiguredList(t *testing.T) {
	t.Setenv("TODO_DATA_DIR", t.TempDir())
	t.Setenv("TODO_EXPORT_LIST", "Work")

	exp := testutil.NewFakeExporter()
	exp.AddList("work-id", "Work")
	store := testutil.NewMemStore(service.Task{ID: "1", Task: "a", Time: "", Status: "pending"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, memFactory(store), exporterFactory(exp))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"export"}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr.String())
	}
	if got := exp.Exported("work-id"); len(got) != 1 {
		t.Errorf("expected 1 task exported to Work, got %v", got)
	}
}
