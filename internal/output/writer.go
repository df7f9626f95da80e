package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer is the interface for output destinations.
type Writer interface {
	// Write sends serialized bytes to the output destination.
	Write(data []byte) error
}

// StreamWriter writes rendered output to a stream, usually a command's
// stdout.
type StreamWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a writer that sends output to w.
// If w is nil, os.Stdout is used.
func NewStdoutWriter(w io.Writer) *StreamWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StreamWriter{out: w}
}

// Write sends data to the stream.
func (sw *StreamWriter) Write(data []byte) error {
	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// FileWriter replaces a file in one step: data goes to a temporary file in
// the same directory which is then renamed over the target. A watcher of
// the directory never observes a half-written project file.
type FileWriter struct {
	path    string
	perm    os.FileMode
	dirPerm os.FileMode
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.perm = perm
	}
}

// WithDirPermissions overrides the permissions of created parent
// directories (0750).
func WithDirPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.dirPerm = perm
	}
}

// NewFileWriter creates a writer for the file at path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:    path,
		perm:    0o644,
		dirPerm: 0o750,
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write creates parent directories and replaces the file with data.
func (fw *FileWriter) Write(data []byte) (err error) {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, fw.dirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fw.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	if err := tmp.Chmod(fw.perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting permissions of %s: %w", fw.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	if err := os.Rename(tmp.Name(), fw.path); err != nil {
		return fmt.Errorf("replacing file %s: %w", fw.path, err)
	}

	return nil
}
