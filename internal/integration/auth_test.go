package integration_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthTestSuite struct {
	BaseSuite
}

func TestAuthSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(AuthTestSuite))
}

func (s *AuthTestSuite) TestRegisterUser() {
	resetDatabase(s.T(), s.app)

	scenarios := []Scenario{
		{
			Name:             "returns 400 for request with malformed JSON",
			Method:           "POST",
			URL:              "/auth/register",
			Body:             strings.NewReader(`{"bad":"json"`),
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"success": false, "message": "body contains badly-formed JSON"}`,
		},
		{
			Name:   "returns 400 for invalid input data",
			Method: "POST",
			URL:    "/auth/register",
			Body: strings.NewReader(`{
				"username": "jd",
				"email": "invalid-email",
				"password": "123"
			}`),
			ExpectedStatus: http.StatusBadRequest,
			ExpectedResponse: `{
				"success": false,
				"message": "One or more fields failed validation",
				"validationErrors": [
					{"field": "Username", "issue": "must have at least 3 elements or characters"},
					{"field": "Email", "issue": "must be a valid email address"},
					{"field": "Password", "issue": "must be at least 8 characters long and include at least one uppercase letter, one lowercase letter, one number, and one special character (!@#$%^&*)."}
				]
			}`,
		},
		{
			Name:   "does not reveal that the email is already registered",
			Method: "POST",
			URL:    "/auth/register",
			Body: strings.NewReader(`{
				"username": "imposter",
				"email": "jdoe@test.com",
				"password": "Test123!@#"
			}`),
			ExpectedStatus: http.StatusBadRequest,
			ExpectedResponse: `{
				"success": false,
				"message": "invalid input data"
			}`,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				require.Equal(t, 1, countRows(t, app, "SELECT COUNT(*) FROM users WHERE email = $1", "jdoe@test.com"))
			},
		},
		{
			Name:   "registers a new user",
			Method: "POST",
			URL:    "/auth/register",
			Body: strings.NewReader(`{
				"username": "newcomer",
				"email": "newcomer@test.com",
				"password": "Test123!@#"
			}`),
			ExpectedStatus: http.StatusCreated,
			ExpectedResponse: `{
				"id": 2,
				"username": "newcomer",
				"email": "newcomer@test.com"
			}`,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				// the test user holds id 1, so the serial hands out 2 next
				_, err := app.DB.Exec(context.Background(), "SELECT setval('users_id_seq', 1)")
				require.NoError(t, err)
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				require.Equal(t, 1, countRows(t, app, "SELECT COUNT(*) FROM users WHERE email = $1", "newcomer@test.com"))
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *AuthTestSuite) TestLoginAndLogout() {
	resetDatabase(s.T(), s.app)

	scenarios := []Scenario{
		{
			Name:             "rejects a login with wrong credentials",
			Method:           "POST",
			URL:              "/auth/login",
			Body:             strings.NewReader(`{"email": "jdoe@test.com", "password": "WrongPa55!"}`),
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"success": false, "message": "Invalid email or password"}`,
		},
		{
			Name:           "logs the user in and sets a session cookie",
			Method:         "POST",
			URL:            "/auth/login",
			Body:           strings.NewReader(`{"email": "jdoe@test.com", "password": "Pa55word!"}`),
			ExpectedStatus: http.StatusNoContent,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				require.NotEmpty(t, res.Cookies(), "expected a session cookie")
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}

	cookies := s.app.authenticatedUserCookies(s.T())

	logout := Scenario{
		Name:           "logs the user out",
		Method:         "POST",
		URL:            "/auth/logout",
		Cookies:        cookies,
		ExpectedStatus: http.StatusNoContent,
	}
	logout.Run(s.T(), s.app)
}
