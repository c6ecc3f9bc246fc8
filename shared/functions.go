package shared

import "io/fs"

// EmbeddedFileToBytes reads a file from an embedded filesystem and returns its content as bytes
func EmbeddedFileToBytes(fsys fs.FS, path string) ([]byte, error) {
	return fs.ReadFile(fsys, path)
}

// EmbeddedFileToString reads a file from an embedded filesystem and returns its content as a string
func EmbeddedFileToString(fsys fs.FS, path string) (string, error) {
	b, err := EmbeddedFileToBytes(fsys, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
