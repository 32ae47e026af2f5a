package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/user"
)

func TestUserLogin(t *testing.T) {
	fix := setup(t)

	rec := fix.do(t, http.MethodPost, "/v1/users/login", "", echoapi.LoginRequest{Username: "student1", Password: "LocalPass1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp echoapi.LoginResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)

	rec = fix.do(t, http.MethodPost, "/v1/users/login", "", echoapi.LoginRequest{Username: "student1", Password: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fix.do(t, http.MethodPost, "/v1/users/login", "", echoapi.LoginRequest{Username: "ghost", Password: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserQueryRequiresAdmin(t *testing.T) {
	fix := setup(t)

	rec := fix.do(t, http.MethodGet, "/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fix.do(t, http.MethodGet, "/v1/users", fix.studentTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = fix.do(t, http.MethodGet, "/v1/users", fix.adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var users []user.User
	decode(t, rec, &users)
	assert.Len(t, users, 2)
}

func TestUserRegister(t *testing.T) {
	fix := setup(t)

	data := user.NewUser{
		Name:            "New Student",
		Username:        "student2",
		Email:           "student2@test.cd",
		Password:        "LocalPass1",
		PasswordConfirm: "LocalPass1",
		Roles:           []string{user.RoleStudent},
	}
	rec := fix.do(t, http.MethodPost, "/v1/users/register", fix.studentTok, data)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = fix.do(t, http.MethodPost, "/v1/users/register", fix.adminTok, data)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var usr user.User
	decode(t, rec, &usr)
	assert.Equal(t, "student2", usr.Username)
	assert.NotEmpty(t, usr.ID)
}

func TestUserRetrieveSelfOrAdmin(t *testing.T) {
	fix := setup(t)

	// a student can see themselves
	rec := fix.do(t, http.MethodGet, "/v1/users/"+fix.student.ID, fix.studentTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// but not another user
	rec = fix.do(t, http.MethodGet, "/v1/users/"+fix.admin.ID, fix.studentTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin can see anyone
	rec = fix.do(t, http.MethodGet, "/v1/users/"+fix.student.ID, fix.adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
