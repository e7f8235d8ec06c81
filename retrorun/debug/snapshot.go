package debug

import (
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valerio/go-retrorun/retrorun/video"
)

var ErrBlankFrame = errors.New("frame has no pixels")

// SaveFramePNG writes frame as a PNG image at path.
func SaveFramePNG(frame video.Frame, path string) error {
	img := frame.ToImage()
	if img == nil {
		return ErrBlankFrame
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SaveFramesToDir writes every rendered frame to directory as
// <baseName>_NNNN.png, numbered by position in frames. Blank frames are
// skipped. It returns the paths written.
func SaveFramesToDir(frames []video.Frame, baseName, directory string) ([]string, error) {
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		directory = cwd
	}
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	var written []string
	for i, f := range frames {
		if f.Blank() {
			continue
		}
		path := filepath.Join(directory, fmt.Sprintf("%s_%04d.png", baseName, i))
		if err := SaveFramePNG(f, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	slog.Info("Frames saved", "dir", directory, "written", len(written), "blank", len(frames)-len(written))
	return written, nil
}
