package converter_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/infrastructure/converter"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "PotreeConverter")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func newConverter(t *testing.T, path string, timeout time.Duration) *converter.PotreeConverter {
	t.Helper()
	cfg := &config.Config{PotreePath: path, ConverterTimeout: timeout}
	c, err := converter.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_MissingBinary(t *testing.T) {
	cfg := &config.Config{PotreePath: "/nonexistent/PotreeConverter"}
	if _, err := converter.New(cfg, zerolog.Nop()); err == nil {
		t.Error("New() should fail for a missing binary")
	}
}

func TestNew_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PotreeConverter")
	if err := os.WriteFile(path, []byte("not a binary"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := &config.Config{PotreePath: path}
	if _, err := converter.New(cfg, zerolog.Nop()); err == nil {
		t.Error("New() should fail for a non-executable file")
	}
}

func TestNew_Directory(t *testing.T) {
	cfg := &config.Config{PotreePath: t.TempDir()}
	if _, err := converter.New(cfg, zerolog.Nop()); err == nil {
		t.Error("New() should fail when the path is a directory")
	}
}

func TestConvert_PassesArguments(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	c := newConverter(t, writeScript(t, `echo "$@" > `+argsFile), time.Minute)

	err := c.Convert(context.Background(), "/in/cloud.las", "/out/octree",
		"+proj=utm +zone=16 +datum=NAD83")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	got := strings.TrimSpace(string(raw))
	want := "/in/cloud.las -o /out/octree --projection +proj=utm +zone=16 +datum=NAD83"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestConvert_OmitsEmptyProjection(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	c := newConverter(t, writeScript(t, `echo "$@" > `+argsFile), time.Minute)

	if err := c.Convert(context.Background(), "/in/cloud.las", "/out/octree", "  "); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	raw, _ := os.ReadFile(argsFile)
	if strings.Contains(string(raw), "--projection") {
		t.Errorf("args = %q, projection flag should be omitted", raw)
	}
}

func TestConvert_FailureIncludesOutput(t *testing.T) {
	c := newConverter(t, writeScript(t, `echo "ERROR: could not open file" >&2; exit 3`), time.Minute)

	err := c.Convert(context.Background(), "/in/cloud.las", "/out/octree", "")
	if err == nil {
		t.Fatal("Convert() should fail when the binary exits non-zero")
	}
	if !strings.Contains(err.Error(), "could not open file") {
		t.Errorf("Convert() error = %v, want converter output included", err)
	}
}

func TestConvert_Timeout(t *testing.T) {
	c := newConverter(t, writeScript(t, "sleep 5"), 100*time.Millisecond)

	start := time.Now()
	err := c.Convert(context.Background(), "/in/cloud.las", "/out/octree", "")
	if err == nil {
		t.Fatal("Convert() should fail on timeout")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Convert() error = %v, want timeout error", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("Convert() did not honor the timeout")
	}
}
