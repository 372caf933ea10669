package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/nsscell/portal/core/user"
	"github.com/nsscell/portal/core/volunteer"
)

func volunteerForm(studentID, ktuID string) map[string]string {
	return map[string]string{
		"student_id":      studentID,
		"ktu_id":          ktuID,
		"name":            "Vol " + studentID,
		"email":           studentID + "@test.cd",
		"mobile":          "9876543210",
		"date_of_birth":   "2004-06-14",
		"gender":          "Female",
		"blood_group":     "O+",
		"course":          "B.Tech",
		"semester":        "4",
		"year_of_joining": "2023",
		"college":         "GEC Thrissur",
		"address":         "Somewhere",
		"district":        "Thrissur",
		"pincode":         "680001",
		"guardian_name":   "Guardian",
		"guardian_phone":  "9876500000",
	}
}

func Test_volunteerApi_register(t *testing.T) {
	student := createUser(t, "Reg Student", "regstud", "regstud@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)

	files := map[string][]byte{
		"photo":     []byte("jpegdata"),
		"signature": []byte("pngdata"),
	}

	t.Run("unauthenticated", func(t *testing.T) {
		req, rec := newMultipartRequest(t, http.MethodPost, "/v1/volunteers", "", volunteerForm("TCR001", "KTU001"), files)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("register ok", func(t *testing.T) {
		before := uploader.Count()

		req, rec := newMultipartRequest(t, http.MethodPost, "/v1/volunteers", token, volunteerForm("TCR001", "KTU001"), files)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var vol volunteer.Volunteer
		if err := json.Unmarshal(rec.Body.Bytes(), &vol); err != nil {
			t.Fatalf("unmarshalling volunteer: %v", err)
		}
		if vol.Status != volunteer.StatusPending {
			t.Errorf("status = %s; want %s", vol.Status, volunteer.StatusPending)
		}
		if vol.Gender != "female" {
			t.Errorf("gender = %s; want lower-cased", vol.Gender)
		}
		if vol.PhotoURL == "" || vol.SignatureURL == "" {
			t.Error("photo/signature URLs not set")
		}
		if got := uploader.Count() - before; got != 2 {
			t.Errorf("stored %d files; want 2", got)
		}
	})

	t.Run("duplicate student id skips uploads", func(t *testing.T) {
		before := uploader.Count()

		req, rec := newMultipartRequest(t, http.MethodPost, "/v1/volunteers", token, volunteerForm("TCR001", "KTU999"), files)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "student_id") {
			t.Errorf("error body %s does not name student_id", rec.Body.String())
		}
		if got := uploader.Count() - before; got != 0 {
			t.Errorf("stored %d files on duplicate; want 0", got)
		}
	})
}

func Test_volunteerApi_bulkStatusMessage(t *testing.T) {
	admin := createUser(t, "Bulk Admin", "bulkadmin", "bulkadmin@test.cd", "", []string{user.RoleAdmin}, true)
	v1 := createVolunteer(t, "BLK001", "KTUB01", "", volunteer.StatusPending)
	v2 := createVolunteer(t, "BLK002", "KTUB02", "", volunteer.StatusPending)
	createVolunteer(t, "BLK003", "KTUB03", "", volunteer.StatusPending)

	body := marchallObj(t, map[string]interface{}{
		"ids":    []string{v1.ID, v2.ID},
		"status": volunteer.StatusApproved,
	})
	req, rec := newAuthRequest(http.MethodPut, "/v1/volunteers/status", getToken(t, admin), body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Success string `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	want := fmt.Sprintf("2 volunteers marked %s", volunteer.StatusApproved)
	if resp.Success != want {
		t.Errorf("success = %q; want %q", resp.Success, want)
	}
}

func Test_volunteerApi_bulkStatusKeepsCertified(t *testing.T) {
	unitUsr := createUser(t, "Bulk Unit", "bulkunit", "bulkunit@test.cd", "", []string{user.RoleUnit}, true)
	certified := createVolunteer(t, "BLK101", "KTUB11", "", volunteer.StatusCertified)
	pending := createVolunteer(t, "BLK102", "KTUB12", "", volunteer.StatusPending)

	body := marchallObj(t, map[string]interface{}{
		"ids":    []string{certified.ID, pending.ID},
		"status": volunteer.StatusApproved,
	})
	req, rec := newAuthRequest(http.MethodPut, "/v1/volunteers/status", getToken(t, unitUsr), body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Success string `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	want := fmt.Sprintf("1 volunteers marked %s", volunteer.StatusApproved)
	if resp.Success != want {
		t.Errorf("success = %q; want %q", resp.Success, want)
	}

	got, err := volRepo.GetVolunteer(context.Background(), volunteer.GetFilter{ID: certified.ID})
	if err != nil {
		t.Fatalf("fetching volunteer: %v", err)
	}
	if got.Status != volunteer.StatusCertified {
		t.Errorf("status = %q; want certified untouched by a unit bulk update", got.Status)
	}
}

func Test_volunteerApi_dashboard(t *testing.T) {
	unitUsr := createUser(t, "Unit Officer", "unitof", "unitof@test.cd", "", []string{user.RoleUnit}, true)
	studentUsr := createUser(t, "Dash Student", "dashstud", "dashstud@test.cd", "", []string{user.RoleStudent}, true)

	createVolunteer(t, "DSH001", "KTUD01", "unit-7", volunteer.StatusPending)
	createVolunteer(t, "DSH002", "KTUD02", "unit-7", volunteer.StatusPending)
	createVolunteer(t, "DSH003", "KTUD03", "unit-7", volunteer.StatusApproved)
	createVolunteer(t, "DSH004", "KTUD04", "unit-8", volunteer.StatusPending)

	t.Run("students cannot see dashboards", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/volunteers/dashboard?unit_id=unit-7", getToken(t, studentUsr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("pending stats match listed volunteers", func(t *testing.T) {
		path := "/v1/volunteers/dashboard?unit_id=unit-7&status=" + volunteer.StatusPending
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, unitUsr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var dash volunteer.Dashboard
		if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
			t.Fatalf("unmarshalling dashboard: %v", err)
		}
		if len(dash.Volunteers) != 2 {
			t.Errorf("listed %d volunteers; want 2", len(dash.Volunteers))
		}
		if dash.Stats.Pending != len(dash.Volunteers) {
			t.Errorf("stats.pending = %d; want %d", dash.Stats.Pending, len(dash.Volunteers))
		}
		if dash.Stats.Total != 3 {
			t.Errorf("stats.total = %d; want 3 (unit scoped)", dash.Stats.Total)
		}
	})
}
