package etsimport

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/etsimport/etstest"
)

func TestReadFile(t *testing.T) {
	path := etstest.WriteSample(t, t.TempDir())

	archive, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q) error = %v", path, err)
	}

	info, err := archive.Info.ProjectInformation()
	if err != nil {
		t.Fatalf("ProjectInformation() error = %v", err)
	}
	if info.Name != "Sample" || info.GroupAddressStyle != "ThreeLevel" {
		t.Errorf("ProjectInformation() = %+v, want Sample/ThreeLevel", info)
	}

	installation, err := archive.Data.Installation()
	if err != nil {
		t.Fatalf("Installation() error = %v", err)
	}
	if installation.Locations == nil {
		t.Error("Locations should be decoded")
	}
	if installation.Buildings != nil {
		t.Error("Buildings should be absent")
	}
}

func TestReadFileWrongExtension(t *testing.T) {
	dir := t.TempDir()
	path := etstest.WriteFile(t, dir, "sample.zip", etstest.SampleArchive(t))

	_, err := ReadFile(path)
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("ReadFile(%q) error = %v, want ErrInvalidFile", path, err)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.knxproj"))
	if err == nil {
		t.Fatal("ReadFile() on a missing file should fail")
	}
}

func TestReadBytesErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    func(t *testing.T) []byte
		wantErr error
	}{
		{
			name:    "not a zip",
			data:    func(*testing.T) []byte { return []byte("definitely not a zip") },
			wantErr: ErrCorruptArchive,
		},
		{
			name: "no project.xml",
			data: func(t *testing.T) []byte {
				return etstest.Archive(t, "", etstest.DataXML(etstest.SampleRanges, ""))
			},
			wantErr: ErrMissingProjectFiles,
		},
		{
			name: "no 0.xml",
			data: func(t *testing.T) []byte {
				return etstest.Archive(t, etstest.InfoXML("P", "Free"), "")
			},
			wantErr: ErrMissingProjectFiles,
		},
		{
			name: "malformed xml",
			data: func(t *testing.T) []byte {
				return etstest.Archive(t, "<KNX><Project>", etstest.DataXML(etstest.SampleRanges, ""))
			},
			wantErr: ErrCorruptArchive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBytes(tt.data(t))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadBytes() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryPatterns(t *testing.T) {
	tests := []struct {
		name     string
		wantInfo bool
		wantData bool
	}{
		{"P-0341/project.xml", true, false},
		{"P-0341/0.xml", false, true},
		{"nested/P-12AB/0.xml", false, true},
		{"P-0341/1.xml", false, false},
		{"project.xml", false, false},
		{"knx_master.xml", false, false},
		{"P-/0.xml", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := infoEntryPattern.MatchString(tt.name); got != tt.wantInfo {
				t.Errorf("infoEntryPattern(%q) = %v, want %v", tt.name, got, tt.wantInfo)
			}
			if got := dataEntryPattern.MatchString(tt.name); got != tt.wantData {
				t.Errorf("dataEntryPattern(%q) = %v, want %v", tt.name, got, tt.wantData)
			}
		})
	}
}
