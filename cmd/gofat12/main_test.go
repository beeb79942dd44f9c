package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aligator/gofat12"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var testModTime = time.Date(2020, 12, 26, 20, 30, 32, 0, time.UTC)

func testingFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string][]byte{
		"/src/hello.txt": []byte("Hello World"),
		"/src/big.bin":   bytes.Repeat([]byte{0xAB}, 1536),
	}
	for name, data := range files {
		if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
			t.Fatal(err)
		}
		if err := fs.Chtimes(name, testModTime, testModTime); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&app{fs: fs, logger: zap.NewNop()})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func buildTestingImage(t *testing.T, fs afero.Fs, args ...string) {
	t.Helper()
	args = append([]string{"build", "/src", "-o", "/floppy.img", "--utc"}, args...)
	if _, err := run(t, fs, args...); err != nil {
		t.Fatalf("build: %v", err)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSize int64
	}{
		{name: "tight by default", wantSize: (gofat12.DataStart + 1 + 3) * gofat12.SectorSize},
		{name: "tight", args: []string{"--layout", "tight"}, wantSize: (gofat12.DataStart + 1 + 3) * gofat12.SectorSize},
		{name: "fixed", args: []string{"--layout", "fixed"}, wantSize: 2913 * gofat12.SectorSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testingFs(t)
			buildTestingImage(t, fs, tt.args...)

			info, err := fs.Stat("/floppy.img")
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() != tt.wantSize {
				t.Errorf("image size = %d, want %d", info.Size(), tt.wantSize)
			}
		})
	}
}

func TestBuild_errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no output", args: []string{"build", "/src"}},
		{name: "unknown layout", args: []string{"build", "/src", "-o", "/floppy.img", "--layout", "huge"}},
		{name: "missing directory", args: []string{"build", "/missing", "-o", "/floppy.img"}},
		{name: "no directory", args: []string{"build", "-o", "/floppy.img"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testingFs(t)
			if _, err := run(t, fs, tt.args...); err == nil {
				t.Errorf("build succeeded, want an error")
			}
			if ok, _ := afero.Exists(fs, "/floppy.img"); ok {
				t.Errorf("build wrote an image")
			}
		})
	}
}

func TestLs(t *testing.T) {
	fs := testingFs(t)
	buildTestingImage(t, fs)

	out, err := run(t, fs, "ls", "/floppy.img", "--utc")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("ls printed %d lines, want 2:\n%s", len(lines), out)
	}
	want := [][]string{
		{"BIG.BIN", "1.5", "KiB", "2020-12-26", "20:30:32", "2"},
		{"HELLO.TXT", "11", "B", "2020-12-26", "20:30:32", "5"},
	}
	for i, line := range lines {
		if diff := cmp.Diff(want[i], strings.Fields(line)); diff != "" {
			t.Errorf("line %d: diff (-want +got):\n%s", i, diff)
		}
	}
}

func TestCat(t *testing.T) {
	fs := testingFs(t)
	buildTestingImage(t, fs)

	out, err := run(t, fs, "cat", "/floppy.img", "hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello World" {
		t.Errorf("cat = %q, want %q", out, "Hello World")
	}

	out, err = run(t, fs, "cat", "/floppy.img", "BIG.BIN")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(bytes.Repeat([]byte{0xAB}, 1536), []byte(out)); diff != "" {
		t.Errorf("cat BIG.BIN: diff (-want +got):\n%s", diff)
	}

	if _, err := run(t, fs, "cat", "/floppy.img", "missing.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cat missing.txt error = %v, want %v", err, os.ErrNotExist)
	}
}

func TestExtract(t *testing.T) {
	fs := testingFs(t)
	buildTestingImage(t, fs)

	if _, err := run(t, fs, "extract", "/floppy.img", "/out", "--utc"); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, "/out/HELLO.TXT")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Hello World" {
		t.Errorf("HELLO.TXT = %q, want %q", data, "Hello World")
	}
	info, err := fs.Stat("/out/BIG.BIN")
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 1536 {
		t.Errorf("BIG.BIN size = %d, want 1536", info.Size())
	}
	if !info.ModTime().Equal(testModTime) {
		t.Errorf("BIG.BIN mtime = %v, want %v", info.ModTime(), testModTime)
	}
}

func TestExtract_invalidImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/floppy.img", bytes.Repeat([]byte("x"), 4*gofat12.SectorSize), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, fs, "extract", "/floppy.img", "/out")
	if !errors.Is(err, gofat12.ErrInvalidBootSector) {
		t.Errorf("extract error = %v, want %v", err, gofat12.ErrInvalidBootSector)
	}
	if ok, _ := afero.DirExists(fs, "/out"); ok {
		t.Errorf("extract created the output directory for an invalid image")
	}
}

func TestExtract_missingImage(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "extract", "/floppy.img", "/out")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("extract error = %v, want %v", err, os.ErrNotExist)
	}
}

// syncCounter counts how often the logger flushes it.
type syncCounter struct {
	bytes.Buffer
	syncs int
}

func (s *syncCounter) Sync() error {
	s.syncs++
	return nil
}

func TestExecute_syncsLogger(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "success", args: []string{"build", "/src", "-o", "/floppy.img"}},
		{name: "failure", args: []string{"build", "/missing", "-o", "/floppy.img"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &syncCounter{}
			core := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), out, zapcore.DebugLevel)

			err := execute(&app{fs: testingFs(t), logger: zap.New(core)}, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if out.syncs != 1 {
				t.Errorf("logger synced %d times, want 1", out.syncs)
			}
		})
	}
}
