package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	echoapi "github.com/nsscell/portal/apps/api/echo"
	"github.com/nsscell/portal/core/user"
	"github.com/nsscell/portal/core/volunteer"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newMultipartRequest builds a multipart/form-data request from field values
// and optional in-memory file parts.
func newMultipartRequest(
	t *testing.T,
	method, path, token string,
	fields map[string]string,
	files map[string][]byte,
) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, val := range fields {
		if err := mw.WriteField(name, val); err != nil {
			t.Fatalf("WriteField(%s) failed: %v", name, err)
		}
	}
	for name, content := range files {
		w, err := mw.CreateFormFile(name, name+".jpg")
		if err != nil {
			t.Fatalf("CreateFormFile(%s) failed: %v", name, err)
		}
		if _, err = io.Copy(w, bytes.NewReader(content)); err != nil {
			t.Fatalf("writing file part %s failed: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createVolunteer(t *testing.T, studentID, ktuID, unitID, status string) volunteer.Volunteer {
	t.Helper()

	now := time.Now().UTC()
	vol := volunteer.Volunteer{
		StudentID:     studentID,
		KTUID:         ktuID,
		Name:          "Vol " + studentID,
		Email:         studentID + "@test.cd",
		Mobile:        "9876543210",
		DateOfBirth:   now.AddDate(-20, 0, 0),
		Gender:        "female",
		BloodGroup:    "O+",
		Course:        "B.Tech",
		Semester:      4,
		YearOfJoining: 2023,
		College:       "GEC Thrissur",
		Address:       "Somewhere",
		District:      "Thrissur",
		Pincode:       "680001",
		GuardianName:  "Guardian",
		GuardianPhone: "9876500000",
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if unitID != "" {
		vol.UnitID = null.StringFrom(unitID)
	}
	vol, err := volRepo.CreateVolunteer(context.Background(), vol)
	if err != nil {
		t.Fatalf("createVolunteer() failed: %v", err)
	}
	return vol
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
