package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/nsscell/portal/core/volunteer"
)

// NA fills cells whose source value is null or empty.
const NA = "N/A"

// CSVFilename builds the download name for an entity export, eg.
// "volunteers-2024-06-14.csv".
func CSVFilename(entity string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", entity, now.Format("2006-01-02"))
}

// JSONFilename normalizes a download name to carry the .json suffix.
func JSONFilename(name string) string {
	if strings.HasSuffix(name, ".json") {
		return name
	}
	return name + ".json"
}

// WriteCSV renders rows as RFC 4180 CSV; embedded commas and quotes survive a
// round-trip through any standard parser. Empty cells come out as "N/A".
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range rows {
		out := make([]string, len(row))
		for i, cell := range row {
			if cell == "" {
				cell = NA
			}
			out[i] = cell
		}
		if err := cw.Write(out); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// WriteJSON renders v with two-space indentation.
func WriteJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling export")
	}
	_, err = w.Write(raw)
	return err
}

var volunteerCSVHeaders = []string{
	"Student ID", "KTU ID", "Name", "Email", "Mobile", "Gender", "Blood Group",
	"Course", "Semester", "College", "District", "Unit", "Status", "Registered",
}

func volunteerCSVRow(vol volunteer.Volunteer) []string {
	return []string{
		vol.StudentID,
		vol.KTUID,
		vol.Name,
		vol.Email,
		vol.Mobile,
		vol.Gender,
		vol.BloodGroup,
		vol.Course,
		strconv.Itoa(vol.Semester),
		vol.College,
		vol.District,
		nullCell(vol.UnitID),
		vol.Status,
		vol.CreatedAt.Format("2006-01-02"),
	}
}

func nullCell(s null.String) string {
	if !s.Valid || s.String == "" {
		return NA
	}
	return s.String
}

// WriteVolunteersCSV renders the plain detailed export.
func WriteVolunteersCSV(w io.Writer, vols []volunteer.Volunteer) error {
	rows := make([][]string, 0, len(vols))
	for _, vol := range vols {
		rows = append(rows, volunteerCSVRow(vol))
	}
	return WriteCSV(w, volunteerCSVHeaders, rows)
}

// WriteVolunteersWithStats renders the report variant: a literal header block
// with generation time and summary counts, then the detailed CSV section.
func WriteVolunteersWithStats(w io.Writer, vols []volunteer.Volunteer, stats volunteer.Stats, generatedAt time.Time) error {
	header := fmt.Sprintf(
		"NSS Volunteer Export Report\n"+
			"Generated: %s\n"+
			"\n"+
			"Summary Statistics\n"+
			"Total Volunteers,%d\n"+
			"Pending,%d\n"+
			"Approved,%d\n"+
			"Rejected,%d\n"+
			"Certified,%d\n"+
			"\n"+
			"Detailed Data\n",
		generatedAt.Format(time.RFC1123),
		stats.Total, stats.Pending, stats.Approved, stats.Rejected, stats.Certified,
	)
	if _, err := io.WriteString(w, header); err != nil {
		return errors.Wrap(err, "writing report header")
	}
	return WriteVolunteersCSV(w, vols)
}
