package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/nsscell/portal/core/volunteer"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	headers := []string{"Name", "Address"}
	tricky := `Thomas, "Appu" K`
	rows := [][]string{
		{tricky, `House 12, "Rose Villa", Main Road`},
		{"Plain", ""},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, headers, rows); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	parsed, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("parsed rows = %d, want 3", len(parsed))
	}
	if parsed[1][0] != tricky {
		t.Errorf("round-trip = %q, want %q", parsed[1][0], tricky)
	}
	if parsed[1][1] != `House 12, "Rose Villa", Main Road` {
		t.Errorf("round-trip = %q, want original address", parsed[1][1])
	}
	if parsed[2][1] != NA {
		t.Errorf("empty cell = %q, want %q", parsed[2][1], NA)
	}
}

func TestWriteCSVLeavesInputRowsUntouched(t *testing.T) {
	rows := [][]string{{"a", "", "c"}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"h1", "h2", "h3"}, rows); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if rows[0][1] != "" {
		t.Errorf("rows[0][1] = %q, want caller's cell left empty", rows[0][1])
	}
	if !strings.Contains(buf.String(), NA) {
		t.Errorf("output %q missing %q substitution", buf.String(), NA)
	}
}

func TestWriteVolunteersWithStatsHeaderBlock(t *testing.T) {
	vols := []volunteer.Volunteer{
		{StudentID: "stu-1", KTUID: "KTU001", Name: "Anu Thomas", Status: volunteer.StatusPending,
			UnitID: null.StringFrom("unit-1"), CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{StudentID: "stu-2", KTUID: "KTU002", Name: "Biju M", Status: volunteer.StatusApproved,
			CreatedAt: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
	}
	stats := volunteer.Stats{Total: 2, Pending: 1, Approved: 1}

	var buf bytes.Buffer
	err := WriteVolunteersWithStats(&buf, vols, stats, time.Date(2024, 6, 14, 10, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WriteVolunteersWithStats() error = %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "NSS Volunteer Export Report" {
		t.Errorf("line 0 = %q, want report title", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Generated: ") {
		t.Errorf("line 1 = %q, want Generated: prefix", lines[1])
	}

	out := buf.String()
	statsIdx := strings.Index(out, "Summary Statistics")
	dataIdx := strings.Index(out, "Detailed Data")
	if statsIdx < 0 || dataIdx < 0 {
		t.Fatal("missing Summary Statistics or Detailed Data section")
	}
	if statsIdx > dataIdx {
		t.Error("Summary Statistics must come before Detailed Data")
	}
	if !strings.Contains(out, "Total Volunteers,2") {
		t.Error("missing total count in summary")
	}
	if !strings.Contains(out, "Pending,1") {
		t.Error("missing pending count in summary")
	}

	// the detail section is still plain parseable CSV
	detail := out[dataIdx+len("Detailed Data\n"):]
	parsed, err := csv.NewReader(strings.NewReader(detail)).ReadAll()
	if err != nil {
		t.Fatalf("parsing detail section: %v", err)
	}
	if len(parsed) != 3 {
		t.Errorf("detail rows = %d, want header + 2", len(parsed))
	}
	// stu-2 has no unit
	if parsed[2][11] != NA {
		t.Errorf("unit cell = %q, want %q", parsed[2][11], NA)
	}
}

func TestFilenames(t *testing.T) {
	now := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	if got := CSVFilename("volunteers", now); got != "volunteers-2024-06-14.csv" {
		t.Errorf("CSVFilename() = %q", got)
	}
	if got := JSONFilename("report"); got != "report.json" {
		t.Errorf("JSONFilename() = %q", got)
	}
	if got := JSONFilename("report.json"); got != "report.json" {
		t.Errorf("JSONFilename() = %q, want unchanged", got)
	}
}
