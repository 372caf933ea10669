package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nsscell/portal/core/activity"
	"github.com/nsscell/portal/core/user"
)

func Test_activityApi_bloodDonation(t *testing.T) {
	student := createUser(t, "Donor", "donor", "donor@test.cd", "", []string{user.RoleStudent}, true)
	unitUsr := createUser(t, "Donation Officer", "donof", "donof@test.cd", "", []string{user.RoleUnit}, true)
	token := getToken(t, student)

	fields := map[string]string{
		"student_id":    "DON001",
		"hospital_name": "General Hospital",
		"donation_date": "2024-03-01",
		"units":         "2",
	}

	var donationID string

	t.Run("submit with certificate", func(t *testing.T) {
		before := uploader.Count()

		req, rec := newMultipartRequest(t, http.MethodPost, "/v1/activities/blood-donations", token,
			fields, map[string][]byte{"certificate": []byte("pdfdata")})
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var don activity.BloodDonation
		if err := json.Unmarshal(rec.Body.Bytes(), &don); err != nil {
			t.Fatalf("unmarshalling donation: %v", err)
		}
		donationID = don.ID
		if don.Status != activity.StatusPending {
			t.Errorf("status = %s; want %s", don.Status, activity.StatusPending)
		}
		if don.CertificateURL == "" {
			t.Error("certificate URL not set")
		}
		if got := uploader.Count() - before; got != 1 {
			t.Errorf("stored %d files; want 1", got)
		}
	})

	t.Run("submit without certificate", func(t *testing.T) {
		before := uploader.Count()

		req, rec := newMultipartRequest(t, http.MethodPost, "/v1/activities/blood-donations", token,
			map[string]string{
				"student_id":    "DON002",
				"hospital_name": "Clinic",
				"donation_date": "2024-04-01",
				"units":         "1",
			}, nil)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var don activity.BloodDonation
		if err := json.Unmarshal(rec.Body.Bytes(), &don); err != nil {
			t.Fatalf("unmarshalling donation: %v", err)
		}
		if don.CertificateURL != "" {
			t.Errorf("certificate URL = %s; want empty", don.CertificateURL)
		}
		if got := uploader.Count() - before; got != 0 {
			t.Errorf("stored %d files; want 0", got)
		}
	})

	t.Run("students cannot approve", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"status": activity.StatusApproved})
		req, rec := newAuthRequest(http.MethodPut, "/v1/activities/blood-donations/"+donationID+"/status", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("unit approves", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"status": activity.StatusApproved})
		req, rec := newAuthRequest(http.MethodPut, "/v1/activities/blood-donations/"+donationID+"/status", getToken(t, unitUsr), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var don activity.BloodDonation
		if err := json.Unmarshal(rec.Body.Bytes(), &don); err != nil {
			t.Fatalf("unmarshalling donation: %v", err)
		}
		if don.Status != activity.StatusApproved {
			t.Errorf("status = %s; want %s", don.Status, activity.StatusApproved)
		}
	})
}

func Test_activityApi_treeTagging(t *testing.T) {
	student := createUser(t, "Tagger", "tagger", "tagger@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)

	body := marchallObj(t, map[string]interface{}{
		"student_id":  "TAG001",
		"species":     "Neem",
		"count":       5,
		"tagged_date": "2024-06-05T00:00:00Z",
		"location":    "Campus north block",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/activities/tree-taggings", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var tag activity.TreeTagging
	if err := json.Unmarshal(rec.Body.Bytes(), &tag); err != nil {
		t.Fatalf("unmarshalling tagging: %v", err)
	}
	if tag.Status != activity.StatusPending {
		t.Errorf("status = %s; want %s", tag.Status, activity.StatusPending)
	}
	if tag.Count != 5 {
		t.Errorf("count = %d; want 5", tag.Count)
	}

	// students can list their own submissions
	req, rec = newAuthRequest(http.MethodGet, "/v1/activities/tree-taggings?student_id=TAG001", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var tags []activity.TreeTagging
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatalf("unmarshalling taggings: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("listed %d taggings; want 1", len(tags))
	}
}
