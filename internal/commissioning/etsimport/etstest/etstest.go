// Package etstest builds ETS project archives for tests.
package etstest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// InfoXML returns a project.xml declaring the given name and address style.
func InfoXML(name, style string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<KNX xmlns="http://knx.org/xml/project/20">
  <Project Id="P-0001">
    <ProjectInformation Name=%q GroupAddressStyle=%q />
  </Project>
</KNX>`, name, style)
}

// DataXML wraps group ranges and a building tree into a 0.xml document.
// ranges is the content of GroupRanges; locations is a complete
// Locations or Buildings element, or empty.
func DataXML(ranges, locations string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<KNX xmlns="http://knx.org/xml/project/20">
  <Project Id="P-0001">
    <Installations>
      <Installation Name="" BCUKey="4294967295">
        <GroupAddresses>
          <GroupRanges>
%s
          </GroupRanges>
        </GroupAddresses>
%s
      </Installation>
    </Installations>
  </Project>
</KNX>`, ranges, locations)
}

// SampleRanges is a ThreeLevel group address table: a dimmable kitchen
// light, a living room blind, an orphan switch and an address without
// datapoint.
const SampleRanges = `
            <GroupRange Id="P-0001-0_GR-1" Name="Lights" RangeStart="2048" RangeEnd="4095">
              <GroupRange Id="P-0001-0_GR-2" Name="Ground" RangeStart="2304" RangeEnd="2559">
                <GroupAddress Id="P-0001-0_GA-1" Address="2305" Name="Kitchen ceiling switch" DatapointType="DPST-1-1" />
                <GroupAddress Id="P-0001-0_GA-2" Address="2306" Name="Kitchen ceiling brightness" DatapointType="DPST-5-1" />
                <GroupAddress Id="P-0001-0_GA-3" Address="2307" Name="Kitchen ceiling state" DatapointType="DPST-1-11" />
                <GroupAddress Id="P-0001-0_GA-4" Address="2308" Name="Kitchen ceiling dimming" DatapointType="DPST-3-7" />
              </GroupRange>
              <GroupAddress Id="P-0001-0_GA-5" Address="2309" Name="Spare switch" DatapointType="DPST-1-1" />
              <GroupAddress Id="P-0001-0_GA-6" Address="2310" Name="Undefined" />
            </GroupRange>
            <GroupRange Id="P-0001-0_GR-3" Name="Blinds" RangeStart="4096" RangeEnd="6143">
              <GroupAddress Id="P-0001-0_GA-7" Address="4353" Name="Living blind up/down" DatapointType="DPST-1-8" />
              <GroupAddress Id="P-0001-0_GA-8" Address="4354" Name="Living blind stop" DatapointType="DPST-1-10" />
              <GroupAddress Id="P-0001-0_GA-9" Address="4355" Name="Living blind position" DatapointType="DPST-5-1" />
            </GroupRange>`

// SampleLocations is an ETS 4 style building tree matching SampleRanges.
const SampleLocations = `
        <Locations>
          <Space Id="P-0001-0_BP-1" Name="House" Type="Building">
            <Space Id="P-0001-0_BP-2" Name="Ground floor" Type="Floor">
              <Space Id="P-0001-0_BP-3" Name="Kitchen" Type="Room">
                <Function Id="P-0001-0_F-1" Name="Ceiling" Type="FT-6">
                  <GroupAddressRef Id="P-0001-0_F-1_GAR-1" RefId="P-0001-0_GA-1" Role="SwitchOnOff" />
                  <GroupAddressRef Id="P-0001-0_F-1_GAR-2" RefId="P-0001-0_GA-2" />
                  <GroupAddressRef Id="P-0001-0_F-1_GAR-3" RefId="P-0001-0_GA-3" />
                  <GroupAddressRef Id="P-0001-0_F-1_GAR-4" RefId="P-0001-0_GA-4" />
                  <GroupAddressRef Id="P-0001-0_F-1_GAR-5" RefId="P-0001-0_GA-404" />
                </Function>
              </Space>
              <Space Id="P-0001-0_BP-4" Name="Living" Type="Room">
                <Function Id="P-0001-0_F-2" Name="Blind" Type="FT-3">
                  <GroupAddressRef Id="P-0001-0_F-2_GAR-1" RefId="P-0001-0_GA-7" />
                  <GroupAddressRef Id="P-0001-0_F-2_GAR-2" RefId="P-0001-0_GA-8" />
                  <GroupAddressRef Id="P-0001-0_F-2_GAR-3" RefId="P-0001-0_GA-9" />
                </Function>
                <Function Id="P-0001-0_F-3" Name="Unwired" Type="FT-1" />
              </Space>
            </Space>
          </Space>
        </Locations>`

// Archive zips an info and a data document the way ETS lays them out.
func Archive(t testing.TB, info, data string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name    string
		content string
	}{
		{"knx_master.xml", `<KNX />`},
		{"P-0001/project.xml", info},
		{"P-0001/0.xml", data},
	}
	for _, e := range entries {
		if e.content == "" {
			continue
		}
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// SampleArchive returns the sample project as an archive.
func SampleArchive(t testing.TB) []byte {
	t.Helper()
	return Archive(t, InfoXML("Sample", "ThreeLevel"), DataXML(SampleRanges, SampleLocations))
}

// WriteFile stores an archive under dir and returns its path.
func WriteFile(t testing.TB, dir, name string, archive []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, archive, 0o600); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
	return path
}

// WriteSample stores the sample project under dir as sample.knxproj.
func WriteSample(t testing.TB, dir string) string {
	t.Helper()
	return WriteFile(t, dir, "sample.knxproj", SampleArchive(t))
}
