package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

const (
	testUserEmail    = "jdoe@test.com"
	testUserPassword = "Pa55word!"
)

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore nondeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" || k == "paymentDate"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func executeSQLFile(t testing.TB, app *TestApp, path string) {
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = app.DB.Exec(context.Background(), string(content))
	require.NoError(t, err)
}

// resetDatabase brings the database to the base state every payment scenario
// starts from: one registered user and one showtime with all seats free.
func resetDatabase(t testing.TB, app *TestApp) {
	executeSQLFile(t, app, "testdata/reset.sql")
	executeSQLFile(t, app, "testdata/showtimes_up.sql")
	createTestUser(t, app)
}

// createTestUser inserts the test user directly; the password hash is
// generated here because bcrypt salts are not reproducible in a fixture file.
func createTestUser(t testing.TB, app *TestApp) {
	var password domain.Password
	require.NoError(t, password.Set(testUserPassword))

	_, err := app.DB.Exec(context.Background(), `
		INSERT INTO users (id, username, email, password_hash)
		VALUES (1, 'jdoe', $1, $2)
	`, testUserEmail, password.Hash)
	require.NoError(t, err)
}

func (a *TestApp) authenticatedUserCookies(t testing.TB) []*http.Cookie {
	body := strings.NewReader(`{"email": "` + testUserEmail + `", "password": "` + testUserPassword + `"}`)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	a.App.Routes().ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode, "login for test user failed")
	require.NotEmpty(t, res.Cookies(), "login did not set a session cookie")

	return res.Cookies()
}

func countRows(t testing.TB, app *TestApp, query string, args ...any) int {
	var count int
	err := app.DB.QueryRow(context.Background(), query, args...).Scan(&count)
	require.NoError(t, err)

	return count
}
