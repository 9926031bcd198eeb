package fileprocessor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// createTestImages writes count 16x8 PNG images into dir.
func createTestImages(t *testing.T, dir string, count int) []string {
	t.Helper()

	var files []string
	for i := range count {
		img := imageio.New(16, 8)
		img.Set(i, 0, color.Color{R: 1})
		img.Set(8, i, color.Color{G: 1})

		file := filepath.Join(dir, "image"+string(rune('a'+i))+".png")
		assert.NoError(t, imageio.Save(file, img))
		files = append(files, file)
	}
	return files
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	files := createTestImages(t, dir, 3)

	tests := []struct {
		name    string
		opts    options.Program
		want    []string
		wantErr error
	}{
		{
			name: "single input",
			opts: options.Program{Parameters: options.Parameters{Input: "title.png"}},
			want: []string{"title.png"},
		},
		{
			name: "batch pattern",
			opts: options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.png")}},
			want: files,
		},
		{
			name:    "batch pattern without matches",
			opts:    options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.bmp")}},
			wantErr: ErrNoFiles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetFilesToProcess(&tt.opts)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateOutputBase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"title.png", "title"},
		{"dir/title.screen.png", "dir/title.screen"},
		{"title", "title"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputBase(tt.input))
		})
	}
}

func TestProcessFiles(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()
	files := createTestImages(t, dir, 3)

	opts := options.Program{
		Flags: options.Flags{Quiet: true, Verify: true, Program: "bytes"},
	}
	assert.NoError(t, ProcessFiles(context.Background(), logger, files, opts, options.NewConverter()))

	for _, file := range files {
		base := GenerateOutputBase(file)
		_, err := os.Stat(base + ".pal")
		assert.NoError(t, err)
		_, err = os.Stat(base + ".vram")
		assert.NoError(t, err)
	}
}

func TestProcessFilesExplicitOutput(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()
	files := createTestImages(t, dir, 1)

	opts := options.Program{
		Parameters: options.Parameters{Output: filepath.Join(dir, "custom")},
		Flags:      options.Flags{Quiet: true},
	}
	assert.NoError(t, ProcessFiles(context.Background(), logger, files, opts, options.NewConverter()))

	_, err := os.Stat(filepath.Join(dir, "custom.vram"))
	assert.NoError(t, err)
}

func TestProcessFilesErrors(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()
	files := createTestImages(t, dir, 2)
	files = append(files, filepath.Join(dir, "missing.png"))

	opts := options.Program{Flags: options.Flags{Quiet: true}}
	err := ProcessFiles(context.Background(), logger, files, opts, options.NewConverter())
	assert.ErrorContains(t, err, "missing.png")

	// the remaining files are still converted
	_, statErr := os.Stat(GenerateOutputBase(files[0]) + ".vram")
	assert.NoError(t, statErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ProcessFiles(ctx, logger, files[:1], opts, options.NewConverter())
	assert.True(t, errors.Is(err, context.Canceled))
}
