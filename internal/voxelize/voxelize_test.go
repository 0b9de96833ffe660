package voxelize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/buildingnet/meshprep/internal/watertight"
)

type mockExecutor struct {
	output []byte
	err    error
	run    func()
}

func (m *mockExecutor) Run() ([]byte, error) {
	if m.run != nil {
		m.run()
	}
	return m.output, m.err
}

type mockBuilder struct {
	args     []string
	executor *mockExecutor
}

func (b *mockBuilder) Build(ctx context.Context, name string, args ...string) watertight.CommandExecutor {
	b.args = append([]string{name}, args...)
	return b.executor
}

func TestVoxelizeRelocatesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "building.obj")
	output := filepath.Join(dir, "out", "building.binvox")
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		t.Fatal(err)
	}

	// The mock "tool" drops a file next to the input, as binvox does.
	exec := &mockExecutor{run: func() {
		adjacent := filepath.Join(dir, "building.binvox")
		if err := os.WriteFile(adjacent, []byte("grid"), 0644); err != nil {
			t.Fatal(err)
		}
	}}
	builder := &mockBuilder{executor: exec}

	v := New("./binvox", 32, builder)
	if err := v.Voxelize(context.Background(), input, output); err != nil {
		t.Fatalf("Voxelize() error: %v", err)
	}

	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not relocated: %v", err)
	}
	wantArgs := "./binvox -d 32 -t binvox " + input
	if got := strings.Join(builder.args, " "); got != wantArgs {
		t.Errorf("command = %q, want %q", got, wantArgs)
	}
}

func TestVoxelizeGzipInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "building.obj.gz")
	output := filepath.Join(dir, "building.binvox")

	f, err := os.Create(input)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("v 0 0 0\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	builder := &mockBuilder{}
	builder.executor = &mockExecutor{run: func() {
		// The tool sees a plain temporary OBJ and drops its output
		// next to it.
		toolInput := builder.args[len(builder.args)-1]
		if strings.HasSuffix(toolInput, ".gz") {
			t.Errorf("tool invoked with compressed input %s", toolInput)
		}
		data, err := os.ReadFile(toolInput)
		if err != nil {
			t.Errorf("tool input unreadable: %v", err)
		} else if string(data) != "v 0 0 0\n" {
			t.Errorf("tool input = %q, want decompressed mesh", data)
		}
		adjacent := strings.TrimSuffix(toolInput, ".obj") + ".binvox"
		if err := os.WriteFile(adjacent, []byte("grid"), 0644); err != nil {
			t.Error(err)
		}
	}}

	v := New("./binvox", 32, builder)
	if err := v.Voxelize(context.Background(), input, output); err != nil {
		t.Fatalf("Voxelize() error: %v", err)
	}

	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not relocated: %v", err)
	}
	if _, err := os.Stat(builder.args[len(builder.args)-1]); !os.IsNotExist(err) {
		t.Errorf("temporary mesh not cleaned up: %v", err)
	}
}

func TestVoxelizeFailure(t *testing.T) {
	builder := &mockBuilder{executor: &mockExecutor{
		output: []byte("no display"),
		err:    errors.New("exit status 2"),
	}}
	v := New("./binvox", 32, builder)

	err := v.Voxelize(context.Background(), "in.obj", "out.binvox")
	if !errors.Is(err, ErrExitStatus) {
		t.Fatalf("Voxelize() error = %v, want ErrExitStatus", err)
	}
	if !strings.Contains(err.Error(), "no display") {
		t.Errorf("error should carry tool output, got: %v", err)
	}
}
