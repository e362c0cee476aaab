package etsimport

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Reader limits.
const (
	// ProjectExt is the extension ETS gives exported projects.
	ProjectExt = ".knxproj"

	// MaxFileSize is the maximum allowed archive size (50MB).
	MaxFileSize = 50 * 1024 * 1024

	// maxEntrySize caps a single decompressed XML entry (200MB).
	maxEntrySize = 200 * 1024 * 1024
)

var (
	infoEntryPattern = regexp.MustCompile(`P-[^/]+/project\.xml$`)
	dataEntryPattern = regexp.MustCompile(`P-[^/]+/0\.xml$`)
)

// Archive is a decoded .knxproj: project metadata plus installation data.
type Archive struct {
	Info *InfoDocument
	Data *DataDocument
}

// ReadFile opens and decodes an ETS project archive.
//
// Parameters:
//   - path: Path to a file ending in .knxproj
//
// Returns:
//   - *Archive: Both decoded documents
//   - error: ErrInvalidFile for a wrong extension, ErrFileTooLarge,
//     ErrCorruptArchive, or ErrMissingProjectFiles
func ReadFile(path string) (*Archive, error) {
	if !strings.HasSuffix(path, ProjectExt) {
		return nil, fmt.Errorf("%w: %s must end with %s", ErrInvalidFile, path, ProjectExt)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	if fi.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fi.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	return ReadBytes(data)
}

// ReadBytes decodes an in-memory ETS project archive.
func ReadBytes(data []byte) (*Archive, error) {
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}

	archive := &Archive{}
	for _, file := range reader.File {
		switch {
		case infoEntryPattern.MatchString(file.Name):
			doc := &InfoDocument{}
			if err := decodeEntry(file, doc); err != nil {
				return nil, err
			}
			archive.Info = doc
		case dataEntryPattern.MatchString(file.Name):
			doc := &DataDocument{}
			if err := decodeEntry(file, doc); err != nil {
				return nil, err
			}
			archive.Data = doc
		}
	}

	var missing []string
	if archive.Info == nil {
		missing = append(missing, "project.xml")
	}
	if archive.Data == nil {
		missing = append(missing, "0.xml")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingProjectFiles, strings.Join(missing, ", "))
	}

	return archive, nil
}

// decodeEntry unmarshals one XML entry of the archive into v.
func decodeEntry(file *zip.File, v any) error {
	content, err := readZipFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file.Name, err)
	}
	if err := xml.Unmarshal(content, v); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrCorruptArchive, file.Name, err)
	}
	return nil
}

// readZipFile reads a single file from a ZIP archive.
func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}
	if len(content) > maxEntrySize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, file.Name)
	}
	return content, nil
}
