package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/api"
	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/database"
	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/router"
	"github.com/sahilchouksey/curriculum-catalog/utils/auth"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type result struct {
	status int
	raw    []byte
	body   envelope
}

func (r result) into(t *testing.T, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body.Data, out), string(r.raw))
}

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	auth.HashCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logger.Nop()
	store := database.NewGORMStore(db, log)
	require.NoError(t, store.Init())

	env := &config.EnvironmentVariable{
		JWT_SECRET: "router-test-secret",
		JWT_ISSUER: "curriculum-catalog-test",
		JWT_EXPIRY: time.Hour,
	}
	app := api.NewApp(log)
	require.NoError(t, router.SetupRoutes(app, store, router.Options{Env: env, Log: log, DisableAccessLog: true}))

	return &testServer{t: t, app: app, db: db}
}

func (s *testServer) do(method, path, token string, body interface{}) result {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		b, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(s.t, err)
			b = string(encoded)
		}
		reader = bytes.NewBufferString(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	r := result{status: resp.StatusCode, raw: raw}
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &r.body), string(raw))
	}
	return r
}

// register creates an account and returns its access and refresh tokens.
func (s *testServer) register(email string) (string, string) {
	s.t.Helper()
	res := s.do("POST", "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     "Catalog Editor",
	})
	require.Equal(s.t, fiber.StatusCreated, res.status, string(res.raw))

	var data struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	res.into(s.t, &data)
	require.NotEmpty(s.t, data.AccessToken)
	return data.AccessToken, data.RefreshToken
}

func (s *testServer) create(token, path string, body interface{}) uint {
	s.t.Helper()
	res := s.do("POST", path, token, body)
	require.Equal(s.t, fiber.StatusCreated, res.status, string(res.raw))
	var created struct {
		ID uint `json:"id"`
	}
	res.into(s.t, &created)
	require.NotZero(s.t, created.ID)
	return created.ID
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	res := s.do("GET", "/ping", "", nil)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.JSONEq(t, `{"status":"ok"}`, string(res.raw))
}

func TestSetupRoutes_RequiresSecret(t *testing.T) {
	err := router.SetupRoutes(fiber.New(), nil, router.Options{Env: &config.EnvironmentVariable{}, Log: logger.Nop()})
	assert.Error(t, err)
}

func TestCatalogRequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/subjects",
		"/api/grades/1",
		"/api/curriculums",
		"/api/chapters",
		"/api/knowledge-points/by-curriculum/1",
		"/api/learning-resources",
	} {
		res := s.do("GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, res.status, path)
		require.NotNil(t, res.body.Error, path)
		assert.Equal(t, "Authentication credentials were not provided.", res.body.Error.Message)
	}

	res := s.do("GET", "/api/subjects", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.status)

	res = s.do("POST", "/api/subjects", "", map[string]string{"name": "Mathematics", "code": "MATH"})
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	access, refresh := s.register("Editor@Example.com")

	res := s.do("POST", "/api/auth/register", "", map[string]string{"email": "editor@example.com", "password": "password123", "name": "Dup"})
	assert.Equal(t, fiber.StatusConflict, res.status)

	res = s.do("POST", "/api/auth/login", "", map[string]string{"email": "editor@example.com", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, res.status)

	res = s.do("POST", "/api/auth/login", "", map[string]string{"email": "EDITOR@example.com", "password": "password123"})
	require.Equal(t, fiber.StatusOK, res.status, string(res.raw))

	res = s.do("GET", "/api/auth/profile", access, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	var profile struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	res.into(t, &profile)
	assert.Equal(t, "editor@example.com", profile.Email)
	assert.Equal(t, "editor", profile.Role)

	// a refresh token is not accepted as an access token
	res = s.do("GET", "/api/subjects", refresh, nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.status)

	res = s.do("POST", "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, fiber.StatusOK, res.status)
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	res.into(t, &pair)

	res = s.do("POST", "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, fiber.StatusUnauthorized, res.status, "refresh tokens are single use")

	res = s.do("POST", "/api/auth/logout", access, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	res = s.do("GET", "/api/subjects", access, nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.status)

	res = s.do("GET", "/api/subjects", pair.AccessToken, nil)
	assert.Equal(t, fiber.StatusOK, res.status)

	res = s.do("POST", "/api/auth/logout-all", pair.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	res = s.do("GET", "/api/subjects", pair.AccessToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
}

func TestCatalogCRUD(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("editor@example.com")

	math := s.create(token, "/api/subjects", map[string]string{"name": "Mathematics", "code": "MATH"})
	grade := s.create(token, "/api/grades/", map[string]string{"name": "Grade 7", "code": "G7"})

	res := s.do("POST", "/api/subjects", token, map[string]string{"name": "Maths", "code": "MATH"})
	require.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Equal(t, "VALIDATION_ERROR", res.body.Error.Code)
	assert.Equal(t, "subject with this code already exists.", res.body.Error.Fields["code"])

	res = s.do("POST", "/api/curriculums", token, map[string]interface{}{"subject": math, "grade": grade, "name": "Standard Mathematics"})
	require.Equal(t, fiber.StatusCreated, res.status, string(res.raw))
	var curriculum struct {
		ID          uint          `json:"id"`
		SubjectName string        `json:"subject_name"`
		GradeName   string        `json:"grade_name"`
		Description *string       `json:"description"`
		Chapters    []interface{} `json:"chapters"`
	}
	res.into(t, &curriculum)
	assert.Equal(t, "Mathematics", curriculum.SubjectName)
	assert.Equal(t, "Grade 7", curriculum.GradeName)
	assert.NotNil(t, curriculum.Chapters)

	second := s.create(token, "/api/chapters", map[string]interface{}{"curriculum": curriculum.ID, "name": "Equations", "order": 2})
	first := s.create(token, "/api/chapters", map[string]interface{}{"curriculum": curriculum.ID, "name": "Numbers", "order": 1})

	res = s.do("POST", "/api/knowledge-points", token, map[string]interface{}{"chapter": first, "name": "Absolute value", "order": 1})
	require.Equal(t, fiber.StatusCreated, res.status, string(res.raw))
	var point struct {
		ID         uint          `json:"id"`
		Difficulty int           `json:"difficulty"`
		Resources  []interface{} `json:"resources"`
	}
	res.into(t, &point)
	assert.Equal(t, 2, point.Difficulty, "difficulty defaults to medium")
	assert.NotNil(t, point.Resources)

	s.create(token, "/api/knowledge-points", map[string]interface{}{"chapter": second, "name": "Balancing", "difficulty": 3})
	s.create(token, "/api/knowledge-points", map[string]interface{}{"chapter": first, "name": "Number line", "difficulty": 1, "order": 0})

	res = s.do("POST", "/api/learning-resources", token, map[string]interface{}{
		"knowledge_point": point.ID, "title": "Abs video", "resource_type": "video", "url": "javascript:alert(1)",
	})
	require.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Equal(t, "Enter a valid URL.", res.body.Error.Fields["url"])

	resource := s.create(token, "/api/learning-resources", map[string]interface{}{
		"knowledge_point": point.ID, "title": "Abs video", "resource_type": "video", "url": "https://example.com/abs", "is_recommended": true,
	})

	// nested detail
	res = s.do("GET", fmt.Sprintf("/api/curriculums/%d", curriculum.ID), token, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	var detail struct {
		Subject struct {
			Code string `json:"code"`
		} `json:"subject"`
		Chapters []struct {
			Name            string `json:"name"`
			KnowledgePoints []struct {
				Name string `json:"name"`
			} `json:"knowledge_points"`
		} `json:"chapters"`
	}
	res.into(t, &detail)
	assert.Equal(t, "MATH", detail.Subject.Code)
	require.Len(t, detail.Chapters, 2)
	assert.Equal(t, "Numbers", detail.Chapters[0].Name)
	require.Len(t, detail.Chapters[0].KnowledgePoints, 2)
	assert.Equal(t, "Number line", detail.Chapters[0].KnowledgePoints[0].Name)

	// by-curriculum lookup
	res = s.do("GET", fmt.Sprintf("/api/knowledge-points/by-curriculum/%d/", curriculum.ID), token, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	var lookup []struct {
		Name string `json:"name"`
	}
	res.into(t, &lookup)
	require.Len(t, lookup, 3)
	assert.Equal(t, "Number line", lookup[0].Name)
	assert.Equal(t, "Absolute value", lookup[1].Name)
	assert.Equal(t, "Balancing", lookup[2].Name)

	for _, path := range []string{
		"/api/knowledge-points/by-curriculum/9999",
		"/api/knowledge-points/by-curriculum/abc",
	} {
		res = s.do("GET", path, token, nil)
		assert.Equal(t, fiber.StatusNotFound, res.status, path)
		assert.Empty(t, res.raw, path)
	}

	// filters
	res = s.do("GET", "/api/knowledge-points?difficulty=hard", token, nil)
	require.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Contains(t, res.body.Error.Fields, "difficulty")

	res = s.do("GET", "/api/knowledge-points?difficulty=9", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, res.status)

	res = s.do("GET", "/api/learning-resources?is_recommended=true&resource_type=video", token, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	var resources []struct {
		ID uint `json:"id"`
	}
	res.into(t, &resources)
	require.Len(t, resources, 1)
	assert.Equal(t, resource, resources[0].ID)

	res = s.do("GET", "/api/subjects?search=math&ordering=-name", token, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	var subjects []struct {
		Code string `json:"code"`
	}
	res.into(t, &subjects)
	require.Len(t, subjects, 1)

	// updates
	res = s.do("PATCH", fmt.Sprintf("/api/subjects/%d", math), token, map[string]string{"name": "Maths"})
	require.Equal(t, fiber.StatusOK, res.status)

	res = s.do("PUT", fmt.Sprintf("/api/subjects/%d", math), token, map[string]string{"name": "Maths"})
	require.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Equal(t, "This field is required.", res.body.Error.Fields["code"])

	res = s.do("PATCH", fmt.Sprintf("/api/curriculums/%d", curriculum.ID), token, `{"description": "Core"}`)
	require.Equal(t, fiber.StatusOK, res.status)
	res = s.do("PATCH", fmt.Sprintf("/api/curriculums/%d", curriculum.ID), token, `{"description": null}`)
	require.Equal(t, fiber.StatusOK, res.status)
	var cleared struct {
		Description *string `json:"description"`
	}
	res.into(t, &cleared)
	assert.Nil(t, cleared.Description)

	res = s.do("POST", "/api/chapters", token, `{"curriculum": "one", "name": "Typed"}`)
	require.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Equal(t, "Incorrect type. Expected integer.", res.body.Error.Fields["curriculum"])

	res = s.do("POST", "/api/chapters", token, `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, res.status)

	// missing records
	for _, path := range []string{"/api/subjects/9999", "/api/subjects/abc", "/api/learning-resources/9999"} {
		res = s.do("GET", path, token, nil)
		assert.Equal(t, fiber.StatusNotFound, res.status, path)
		assert.Empty(t, res.raw, path)
	}
	res = s.do("PATCH", "/api/chapters/9999", token, map[string]string{"name": ""})
	assert.Equal(t, fiber.StatusNotFound, res.status)

	// cascade
	res = s.do("DELETE", fmt.Sprintf("/api/curriculums/%d", curriculum.ID), token, nil)
	require.Equal(t, fiber.StatusNoContent, res.status)
	assert.Empty(t, res.raw)

	for _, path := range []string{
		fmt.Sprintf("/api/chapters/%d", first),
		fmt.Sprintf("/api/knowledge-points/%d", point.ID),
		fmt.Sprintf("/api/learning-resources/%d", resource),
	} {
		res = s.do("GET", path, token, nil)
		assert.Equal(t, fiber.StatusNotFound, res.status, path)
	}

	res = s.do("DELETE", fmt.Sprintf("/api/curriculums/%d", curriculum.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)

	res = s.do("GET", fmt.Sprintf("/api/subjects/%d", math), token, nil)
	assert.Equal(t, fiber.StatusOK, res.status, "deleting a curriculum keeps its subject")
}

func (s *testServer) count(m interface{}) int64 {
	s.t.Helper()
	var n int64
	require.NoError(s.t, s.db.Model(m).Count(&n).Error)
	return n
}

func TestRejectedWritesLeaveStoreUnchanged(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("reviewer@example.com")

	subject := s.create(token, "/api/subjects", map[string]string{"name": "Physics", "code": "PHYS"})
	grade := s.create(token, "/api/grades", map[string]string{"name": "Grade 8", "code": "G8"})
	curriculum := s.create(token, "/api/curriculums", map[string]interface{}{"subject": subject, "grade": grade, "name": "Mechanics"})
	chapter := s.create(token, "/api/chapters", map[string]interface{}{"curriculum": curriculum, "name": "Motion"})
	point := s.create(token, "/api/knowledge-points", map[string]interface{}{"chapter": chapter, "name": "Velocity", "difficulty": 3})

	pointPath := fmt.Sprintf("/api/knowledge-points/%d/", point)
	res := s.do("PATCH", pointPath, token, map[string]int{"difficulty": 5})
	require.Equal(t, fiber.StatusBadRequest, res.status, string(res.raw))
	assert.Equal(t, "VALIDATION_ERROR", res.body.Error.Code)
	assert.Equal(t, `"5" is not a valid choice.`, res.body.Error.Fields["difficulty"])

	res = s.do("GET", pointPath, token, nil)
	require.Equal(t, fiber.StatusOK, res.status)
	var stored struct {
		Difficulty int `json:"difficulty"`
	}
	res.into(t, &stored)
	assert.Equal(t, 3, stored.Difficulty)

	s.create(token, "/api/learning-resources", map[string]interface{}{
		"knowledge_point": point, "title": "Velocity notes", "resource_type": "article", "url": "https://example.com/velocity",
	})
	before := s.count(&model.LearningResource{})

	for _, url := range []string{"not a url", "javascript:alert(1)", "http://"} {
		res = s.do("POST", "/api/learning-resources/", token, map[string]interface{}{
			"knowledge_point": point, "title": "Broken link", "resource_type": "video", "url": url,
		})
		require.Equal(t, fiber.StatusBadRequest, res.status, url)
		assert.Equal(t, "Enter a valid URL.", res.body.Error.Fields["url"], url)
	}
	assert.Equal(t, before, s.count(&model.LearningResource{}))

	res = s.do("GET", "/api/unknown-route", token, nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)
	assert.Empty(t, res.raw)
}
