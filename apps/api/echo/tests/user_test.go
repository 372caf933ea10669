package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nsscell/portal/core/user"
)

func Test_userApi_register(t *testing.T) {
	body := func(name, email, mobile, pwd string) []byte {
		return marchallObj(t, map[string]string{
			"name":             name,
			"email":            email,
			"mobile":           mobile,
			"college":          "GEC Thrissur",
			"district":         "Thrissur",
			"password":         pwd,
			"password_confirm": pwd,
		})
	}

	tests := []httpTest{
		{
			name: "missing fields", body: marchallObj(t, map[string]string{"name": "Appu"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "register ok", body: body("Appu Thomas", "appu@test.cd", "9876543210", "s3cr3tpwd"),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate email", body: body("Appu Again", "appu@test.cd", "9876543211", "s3cr3tpwd"),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/register", tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	// the duplicate attempt must not have created a second row
	usrs, err := usrRepo.QueryUsers(context.Background(), &user.QueryFilter{Search: "appu@test.cd"})
	if err != nil {
		t.Fatalf("QueryUsers() failed: %v", err)
	}
	if len(usrs) != 1 {
		t.Errorf("registered %d accounts for one email; want 1", len(usrs))
	}
	if !usrs[0].IsStudent() {
		t.Errorf("registered roles = %v; want student", usrs[0].Roles)
	}
}

func Test_userApi_login(t *testing.T) {
	usr := createUser(t, "Login User", "loguser", "log@test.cd", "mdr", []string{user.RoleStudent}, true)
	inactive := createUser(t, "Gone User", "gone", "gone@test.cd", "mdr", []string{user.RoleStudent}, false)

	body := func(uname, pwd string) []byte {
		return marchallObj(t, map[string]string{"username": uname, "password": pwd})
	}

	tests := []httpTest{
		{name: "empty body", body: nil, wantCode: http.StatusBadRequest},
		{name: "unknown user", body: body("nobody@test.cd", "mdr"), wantCode: http.StatusBadRequest},
		{name: "wrong password", body: body(usr.Email, "lol"), wantCode: http.StatusBadRequest},
		{name: "inactive account", body: body(inactive.Email, "mdr"), wantCode: http.StatusForbidden},
		{name: "login with email", body: body(usr.Email, "mdr"), wantCode: http.StatusOK},
		{name: "login with username", body: body(usr.Username, "mdr"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var resp struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling login response: %v", err)
				}
				if resp.Token == "" {
					t.Error("login returned an empty token")
				}
			}
		})
	}
}

func Test_userApi_adminGating(t *testing.T) {
	student := createUser(t, "Just Student", "justme", "justme@test.cd", "", []string{user.RoleStudent}, true)
	admin := createUser(t, "The Admin", "theadmin", "theadmin@test.cd", "", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "roles listing", path: "/v1/users/roles", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, user.Roles),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
