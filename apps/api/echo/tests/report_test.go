package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/nsscell/portal/core/report"
	"github.com/nsscell/portal/core/user"
	"github.com/nsscell/portal/core/volunteer"
)

func Test_reportApi_stats(t *testing.T) {
	student := createUser(t, "Report Student", "repstud", "repstud@test.cd", "", []string{user.RoleStudent}, true)
	unitUsr := createUser(t, "Report Officer", "repof", "repof@test.cd", "", []string{user.RoleUnit}, true)

	createVolunteer(t, "REP001", "KTUR01", "", volunteer.StatusApproved)
	createVolunteer(t, "REP002", "KTUR02", "", volunteer.StatusPending)

	t.Run("unit or admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/stats", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("overall stats", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/stats", getToken(t, unitUsr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var stats report.OverallStats
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("unmarshalling stats: %v", err)
		}
		if stats.TotalVolunteers < 2 {
			t.Errorf("total volunteers = %d; want at least the 2 seeded here", stats.TotalVolunteers)
		}
	})

	t.Run("export is a json attachment", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/stats/export", getToken(t, unitUsr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		disp := rec.Header().Get("Content-Disposition")
		if !strings.Contains(disp, "attachment") || !strings.Contains(disp, ".json") {
			t.Errorf("Content-Disposition = %q; want a .json attachment", disp)
		}
		// two-space indented document
		if !strings.HasPrefix(rec.Body.String(), "{\n  ") {
			t.Errorf("body %q is not an indented JSON document", rec.Body.String()[:20])
		}
	})
}

func Test_volunteerApi_exportCSV(t *testing.T) {
	unitUsr := createUser(t, "Export Officer", "expof", "expof@test.cd", "", []string{user.RoleUnit}, true)

	req, rec := newAuthRequest(http.MethodGet, "/v1/volunteers/export", getToken(t, unitUsr))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	disp := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disp, "attachment") || !strings.Contains(disp, ".csv") {
		t.Errorf("Content-Disposition = %q; want a .csv attachment", disp)
	}
	if !strings.HasPrefix(rec.Body.String(), "Student ID,") {
		t.Errorf("body does not start with the CSV header: %q", rec.Body.String()[:30])
	}
}

func Test_volunteerApi_exportReport(t *testing.T) {
	unitUsr := createUser(t, "Report Export Officer", "repexp", "repexp@test.cd", "", []string{user.RoleUnit}, true)

	req, rec := newAuthRequest(http.MethodGet, "/v1/volunteers/export/report", getToken(t, unitUsr))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "NSS Volunteer Export Report\n") {
		t.Errorf("report does not start with the title block: %q", body[:40])
	}
	if !strings.Contains(body, "Summary Statistics") || !strings.Contains(body, "Detailed Data") {
		t.Error("report is missing the summary or detail sections")
	}
}
