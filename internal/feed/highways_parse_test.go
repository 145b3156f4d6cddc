package feed

import (
	"strings"
	"testing"
)

func TestParseHighwayCSVBasic(t *testing.T) {
	csv := "way_id,description,coordinates\n" +
		"100,Gran Via,\"2.10,41.30,2.11,41.31\"\n"
	highways, err := parseHighwayCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseHighwayCSV: %v", err)
	}
	h, ok := highways[100]
	if !ok {
		t.Fatal("missing way 100")
	}
	if h.Description != "Gran Via" {
		t.Errorf("Description = %q, want %q", h.Description, "Gran Via")
	}
	if len(h.Lons) != 2 || h.Lons[0] != 2.10 || h.Lats[1] != 41.31 {
		t.Errorf("coords = %v / %v", h.Lons, h.Lats)
	}
}

func TestParseHighwayCSVSkipsMalformedRow(t *testing.T) {
	csv := "way_id,description,coordinates\n" +
		"not-a-number,bad row,\"2.10,41.30\"\n" +
		"200,Diagonal,\"2.0,41.0,2.1\"\n" + // odd coordinate count
		"300,Meridiana,\"2.0,41.0\"\n"
	highways, err := parseHighwayCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseHighwayCSV: %v", err)
	}
	if len(highways) != 1 {
		t.Fatalf("len = %d, want 1", len(highways))
	}
	if _, ok := highways[300]; !ok {
		t.Error("missing well-formed way 300")
	}
}

func TestParseHighwayCSVEmptyBody(t *testing.T) {
	highways, err := parseHighwayCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parseHighwayCSV: %v", err)
	}
	if len(highways) != 0 {
		t.Errorf("len = %d, want 0", len(highways))
	}
}
