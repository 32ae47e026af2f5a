package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/services/objectstore"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

type fixture struct {
	server echoapi.Server

	userSvc     *user.Service
	courseSvc   *course.Service
	contentSvc  *content.Service
	progressSvc *progress.Service
	store       *objectstore.InmemStore

	admin      user.User
	student    user.User
	adminTok   string
	studentTok string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	crsSvc := course.NewService(inmemdb.NewCourseRepository(db))
	cntSvc := content.NewService(inmemdb.NewContentRepository(db))
	prgSvc := progress.NewService(inmemdb.NewProgressRepository(db), crsSvc, cntSvc, emailsvc.NewConsoleServiceMock())
	store := objectstore.NewInmemStore()

	server := echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Logger:         logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0)),
		FileStore:      store,
		UserSvc:        usrSvc,
		CourseSvc:      crsSvc,
		ContentSvc:     cntSvc,
		ProgressSvc:    prgSvc,
	})

	fix := &fixture{
		server:      server,
		userSvc:     usrSvc,
		courseSvc:   crsSvc,
		contentSvc:  cntSvc,
		progressSvc: prgSvc,
		store:       store,
	}
	fix.admin = createUser(t, usrSvc, "Admin", "principal", "principal@test.cd", user.AllRoles)
	fix.student = createUser(t, usrSvc, "Student", "student1", "student1@test.cd", []string{user.RoleStudent})
	fix.adminTok = getToken(t, fix.admin)
	fix.studentTok = getToken(t, fix.student)
	return fix
}

func createUser(t *testing.T, svc *user.Service, name, uname, email string, roles []string) user.User {
	t.Helper()
	usr, err := svc.Create(user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        "LocalPass1",
		PasswordConfirm: "LocalPass1",
		Roles:           roles,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (fix *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(headerContentType, mimeJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	fix.server.ServeHTTP(rec, req)
	return rec
}

// doUpload posts a one-file multipart form.
func (fix *fixture) doUpload(t *testing.T, path, token, filename string, fileContent []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file failed: %v", err)
	}
	if _, err = io.Copy(fw, bytes.NewReader(fileContent)); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(headerContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	fix.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decoding response %q failed: %v", rec.Body.String(), err)
	}
}

const (
	headerContentType = "Content-Type"
	mimeJSON    = "application/json"
)
