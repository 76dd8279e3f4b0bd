package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/new-north/platform-api/internal/api"
	"github.com/new-north/platform-api/internal/config"
	"github.com/new-north/platform-api/internal/mocks"
	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/repository"
	"github.com/new-north/platform-api/internal/store"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *repository.Repositories, *mocks.MockSuggester) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.New(store.NewMemory(), zerolog.Nop())
	if err := repos.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	suggester := mocks.NewMockSuggester()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Store:  config.StoreConfig{Backend: config.BackendMemory},
	}

	router := api.NewRouter(repos, suggester, cfg, zerolog.Nop())
	return router, repos, suggester
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginAsSeedUser(t *testing.T, repos *repository.Repositories) models.User {
	t.Helper()
	user := repos.Users.GetByID("u1")
	if user == nil {
		t.Fatal("Seed user missing")
	}
	if err := repos.Session.SetCurrent(*user); err != nil {
		t.Fatalf("SetCurrent failed: %v", err)
	}
	return *user
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "platform-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/v1/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	storeStats := response["store"].(map[string]interface{})
	if storeStats["users"].(float64) != 1 {
		t.Errorf("Expected 1 seed user, got %v", storeStats["users"])
	}
	if storeStats["articles"].(float64) != 1 {
		t.Errorf("Expected 1 seed article, got %v", storeStats["articles"])
	}
}

func validRegistration() map[string]interface{} {
	return map[string]interface{}{
		"telegramHandle": "new_member",
		"email":          "member@test.com",
		"password":       "supersecret1",
		"fullName":       "New Member",
		"bio":            strings.Repeat("I write about the north. ", 5),
		"tags":           []string{"writing"},
	}
}

func TestRegister_CreatesUserAndSession(t *testing.T) {
	router, repos, _ := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/v1/auth/register", validRegistration())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.User
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" || created.JoinedAt == "" {
		t.Errorf("Expected generated id and joinedAt, got %+v", created)
	}

	// Registration logs the user in.
	ws := doJSON(t, router, "GET", "/v1/session", nil)
	if ws.Code != http.StatusOK {
		t.Fatalf("Expected an active session, got %d", ws.Code)
	}
	var session models.User
	json.Unmarshal(ws.Body.Bytes(), &session)
	if session.ID != created.ID {
		t.Errorf("Session user %s != registered user %s", session.ID, created.ID)
	}

	// And the user lands at the tail of the directory.
	users := repos.Users.ListAll()
	if users[len(users)-1].ID != created.ID {
		t.Error("Expected new user appended at the tail")
	}
}

func TestRegister_ValidationBlocksSubmission(t *testing.T) {
	router, repos, _ := setupTestRouter(t)

	payload := validRegistration()
	payload["bio"] = "too short"
	w := doJSON(t, router, "POST", "/v1/auth/register", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if len(repos.Users.ListAll()) != 1 {
		t.Error("Validation failure must not touch the store")
	}
}

func TestRegister_TakenHandle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	payload := validRegistration()
	payload["telegramHandle"] = "admin_north"
	w := doJSON(t, router, "POST", "/v1/auth/register", payload)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestLogin_RejectionsShareShape(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	if w := doJSON(t, router, "POST", "/v1/auth/register", validRegistration()); w.Code != http.StatusCreated {
		t.Fatalf("Registration failed: %d", w.Code)
	}
	doJSON(t, router, "POST", "/v1/auth/logout", nil)

	wrongPassword := doJSON(t, router, "POST", "/v1/auth/login",
		map[string]string{"email": "member@test.com", "password": "wrongpassword"})
	unknownEmail := doJSON(t, router, "POST", "/v1/auth/login",
		map[string]string{"email": "ghost@test.com", "password": "supersecret1"})

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for both rejections, got %d and %d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("Rejection bodies differ: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestLogin_Success(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	doJSON(t, router, "POST", "/v1/auth/register", validRegistration())
	doJSON(t, router, "POST", "/v1/auth/logout", nil)

	w := doJSON(t, router, "POST", "/v1/auth/login",
		map[string]string{"email": "member@test.com", "password": "supersecret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	json.Unmarshal(w.Body.Bytes(), &user)
	if user.TelegramHandle != "new_member" {
		t.Errorf("Expected the registered user back, got %+v", user)
	}
}

func TestTelegramFlow_OverHTTP(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/v1/auth/telegram/start",
		map[string]string{"telegramHandle": "admin_north"})
	if w.Code != http.StatusOK {
		t.Fatalf("Start failed: %d", w.Code)
	}

	// Malformed code: rejected by format validation, still on step 2.
	w = doJSON(t, router, "POST", "/v1/auth/telegram/verify", map[string]string{"code": "12345"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a 5-digit code, got %d", w.Code)
	}

	// Wrong but well-formed code: generic rejection, still on step 2.
	w = doJSON(t, router, "POST", "/v1/auth/telegram/verify", map[string]string{"code": "654321"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for a wrong code, got %d", w.Code)
	}
	var rejected map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &rejected)
	if rejected["step"].(float64) != 2 {
		t.Errorf("Expected flow to stay on step 2, got %v", rejected["step"])
	}

	// Correct code logs the seed user in.
	w = doJSON(t, router, "POST", "/v1/auth/telegram/verify", map[string]string{"code": "123456"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for the shared code, got %d: %s", w.Code, w.Body.String())
	}
	var user models.User
	json.Unmarshal(w.Body.Bytes(), &user)
	if user.ID != "u1" {
		t.Errorf("Expected seed user u1, got %s", user.ID)
	}
}

func TestTelegramFlow_ChangeHandle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	doJSON(t, router, "POST", "/v1/auth/telegram/start", map[string]string{"telegramHandle": "admin_north"})
	w := doJSON(t, router, "POST", "/v1/auth/telegram/change", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Change failed: %d", w.Code)
	}
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["step"].(float64) != 1 {
		t.Errorf("Expected step 1 after change, got %v", response["step"])
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	router, repos, _ := setupTestRouter(t)
	loginAsSeedUser(t, repos)

	first := map[string]interface{}{
		"title":  "First post",
		"blocks": []map[string]string{{"id": "b1", "type": "paragraph", "content": "one"}},
	}
	second := map[string]interface{}{
		"title":  "Second post",
		"blocks": []map[string]string{{"id": "b1", "type": "paragraph", "content": "two"}},
	}
	if w := doJSON(t, router, "POST", "/v1/articles", first); w.Code != http.StatusCreated {
		t.Fatalf("Publish failed: %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, router, "POST", "/v1/articles", second); w.Code != http.StatusCreated {
		t.Fatalf("Publish failed: %d", w.Code)
	}

	w := doJSON(t, router, "GET", "/v1/articles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Feed failed: %d", w.Code)
	}
	var feed []models.Article
	json.Unmarshal(w.Body.Bytes(), &feed)
	if len(feed) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(feed))
	}
	if feed[0].Title != "Second post" || feed[1].Title != "First post" || feed[2].ID != "a1" {
		t.Errorf("Expected newest-first feed, got %s, %s, %s", feed[0].Title, feed[1].Title, feed[2].ID)
	}
}

func TestPublish_RequiresLogin(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/v1/articles", map[string]interface{}{"title": "Nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a session, got %d", w.Code)
	}
}

func TestPublish_ComputesPreview(t *testing.T) {
	router, repos, _ := setupTestRouter(t)
	loginAsSeedUser(t, repos)

	payload := map[string]interface{}{
		"title": "Preview test",
		"blocks": []map[string]string{
			{"id": "b1", "type": "h1", "content": "Heading"},
			{"id": "b2", "type": "paragraph", "content": "Body text."},
		},
	}
	w := doJSON(t, router, "POST", "/v1/articles", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("Publish failed: %d", w.Code)
	}

	var article models.Article
	json.Unmarshal(w.Body.Bytes(), &article)
	if article.Preview != "Body text...." {
		t.Errorf("Unexpected preview: %q", article.Preview)
	}
	if article.Views != 0 || article.CommentsCount != 0 {
		t.Errorf("Expected fresh counters, got views=%d comments=%d", article.Views, article.CommentsCount)
	}
}

func TestArticleGet_NotFound(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/v1/articles/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestArticleGet_LegacyContentRendersAsBlock(t *testing.T) {
	router, repos, _ := setupTestRouter(t)

	legacy := models.Article{
		ID:        "old1",
		AuthorID:  "u1",
		Title:     "Old format",
		Content:   "Plain old body",
		CreatedAt: "2024-01-01T00:00:00Z",
	}
	if err := repos.Articles.Save(legacy); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	w := doJSON(t, router, "GET", "/v1/articles/old1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get failed: %d", w.Code)
	}

	var article models.Article
	json.Unmarshal(w.Body.Bytes(), &article)
	if len(article.Blocks) != 1 || article.Blocks[0].Type != models.BlockParagraph {
		t.Fatalf("Expected one paragraph block, got %+v", article.Blocks)
	}
	if article.Blocks[0].Content != "Plain old body" {
		t.Errorf("Expected legacy content in the block, got %q", article.Blocks[0].Content)
	}
}

func TestArticleUpdate_PreservesHistory(t *testing.T) {
	router, repos, _ := setupTestRouter(t)
	loginAsSeedUser(t, repos)
	before := repos.Articles.GetByID("a1")

	payload := map[string]interface{}{
		"title":  "Why I started New-North, revisited",
		"blocks": []map[string]string{{"id": "b1", "type": "paragraph", "content": "New body."}},
		"tags":   []string{"intro"},
	}
	w := doJSON(t, router, "PUT", "/v1/articles/a1", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Update failed: %d %s", w.Code, w.Body.String())
	}

	var updated models.Article
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Views != 120 {
		t.Errorf("Expected view count preserved, got %d", updated.Views)
	}
	if updated.CommentsCount != 1 || len(updated.Comments) != 1 {
		t.Errorf("Expected comment thread preserved, got count=%d", updated.CommentsCount)
	}
	if updated.UpdatedAt == "" {
		t.Error("Expected updatedAt to be set on edit")
	}
	if updated.CreatedAt != before.CreatedAt {
		t.Errorf("createdAt changed on edit: %q -> %q", before.CreatedAt, updated.CreatedAt)
	}
}

func TestArticleUpdate_AuthorGuard(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	// Register (and thereby log in as) someone who is not the author.
	if w := doJSON(t, router, "POST", "/v1/auth/register", validRegistration()); w.Code != http.StatusCreated {
		t.Fatalf("Registration failed: %d", w.Code)
	}

	payload := map[string]interface{}{
		"title":  "Hijacked",
		"blocks": []map[string]string{{"id": "b1", "type": "paragraph", "content": "x"}},
	}
	if w := doJSON(t, router, "PUT", "/v1/articles/a1", payload); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for a non-author edit, got %d", w.Code)
	}
	if w := doJSON(t, router, "DELETE", "/v1/articles/a1", nil); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for a non-author delete, got %d", w.Code)
	}
}

func TestArticleDelete(t *testing.T) {
	router, repos, _ := setupTestRouter(t)
	loginAsSeedUser(t, repos)

	w := doJSON(t, router, "DELETE", "/v1/articles/a1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Delete failed: %d", w.Code)
	}
	if repos.Articles.GetByID("a1") != nil {
		t.Error("Expected article gone after delete")
	}
}

func TestAddComment_Endpoint(t *testing.T) {
	router, repos, _ := setupTestRouter(t)
	loginAsSeedUser(t, repos)

	w := doJSON(t, router, "POST", "/v1/articles/a1/comments", map[string]string{"text": "Nice one"})
	if w.Code != http.StatusOK {
		t.Fatalf("AddComment failed: %d %s", w.Code, w.Body.String())
	}

	var article models.Article
	json.Unmarshal(w.Body.Bytes(), &article)
	if article.CommentsCount != 2 || len(article.Comments) != 2 {
		t.Errorf("Expected 2 comments, got count=%d len=%d", article.CommentsCount, len(article.Comments))
	}
	if article.Comments[1].Text != "Nice one" {
		t.Errorf("Expected the new comment appended last, got %+v", article.Comments[1])
	}

	if w := doJSON(t, router, "POST", "/v1/articles/missing/comments", map[string]string{"text": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown article, got %d", w.Code)
	}
}

func TestProfileUpdate_RefreshesSession(t *testing.T) {
	router, repos, _ := setupTestRouter(t)
	user := loginAsSeedUser(t, repos)

	payload := map[string]interface{}{
		"telegramHandle": user.TelegramHandle,
		"fullName":       "Ayaan North II",
		"avatarUrl":      user.AvatarURL,
		"bannerUrl":      user.BannerURL,
		"bio":            user.Bio,
		"tags":           user.Tags,
	}
	w := doJSON(t, router, "PUT", "/v1/users/u1", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Profile update failed: %d %s", w.Code, w.Body.String())
	}

	var updated models.User
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.JoinedAt != user.JoinedAt {
		t.Errorf("joinedAt must be immutable: %q -> %q", user.JoinedAt, updated.JoinedAt)
	}

	// No separate refresh step: the session already reflects the edit.
	ws := doJSON(t, router, "GET", "/v1/session", nil)
	var session models.User
	json.Unmarshal(ws.Body.Bytes(), &session)
	if session.FullName != "Ayaan North II" {
		t.Errorf("Session snapshot stale after self-edit: %q", session.FullName)
	}
}

func TestProfileUpdate_OthersForbidden(t *testing.T) {
	router, repos, _ := setupTestRouter(t)
	loginAsSeedUser(t, repos)

	other := models.User{ID: "u2", TelegramHandle: "other", FullName: "Other", JoinedAt: "2025-01-01T00:00:00Z"}
	repos.Users.Save(other)

	w := doJSON(t, router, "PUT", "/v1/users/u2", map[string]interface{}{"fullName": "Hacked"})
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 editing another profile, got %d", w.Code)
	}
}

func TestPeopleDirectory(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/v1/users", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List failed: %d", w.Code)
	}
	var users []models.User
	json.Unmarshal(w.Body.Bytes(), &users)
	if len(users) != 1 || users[0].TelegramHandle != "admin_north" {
		t.Errorf("Expected the seed directory, got %+v", users)
	}

	w = doJSON(t, router, "GET", "/v1/users/by-handle/admin_north", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for handle lookup, got %d", w.Code)
	}
	w = doJSON(t, router, "GET", "/v1/users/by-handle/nobody", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown handle, got %d", w.Code)
	}
}

func TestSuggest_Endpoint(t *testing.T) {
	router, _, suggester := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/v1/suggest", map[string]string{"mode": "tags", "text": "a post about hiking"})
	if w.Code != http.StatusOK {
		t.Fatalf("Suggest failed: %d", w.Code)
	}
	var tagsResp map[string][]string
	json.Unmarshal(w.Body.Bytes(), &tagsResp)
	if len(tagsResp["tags"]) != 1 || tagsResp["tags"][0] != "general" {
		t.Errorf("Expected fallback tags, got %v", tagsResp["tags"])
	}
	if suggester.TagsCalls != 1 {
		t.Errorf("Expected 1 Tags call, got %d", suggester.TagsCalls)
	}

	w = doJSON(t, router, "POST", "/v1/suggest", map[string]string{"mode": "grammar", "text": "teh text"})
	if w.Code != http.StatusOK {
		t.Fatalf("Suggest failed: %d", w.Code)
	}
	var textResp map[string]string
	json.Unmarshal(w.Body.Bytes(), &textResp)
	if textResp["text"] != "teh text" {
		t.Errorf("Expected passthrough text, got %q", textResp["text"])
	}

	if w := doJSON(t, router, "POST", "/v1/suggest", map[string]string{"mode": "translate", "text": "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown mode, got %d", w.Code)
	}
}

func TestFeed_AuthorFilter(t *testing.T) {
	router, repos, _ := setupTestRouter(t)

	other := models.Article{ID: "a2", AuthorID: "u2", Title: "By someone else", CreatedAt: "2025-01-01T00:00:00Z"}
	repos.Articles.Save(other)

	w := doJSON(t, router, "GET", "/v1/articles?author=u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Feed failed: %d", w.Code)
	}
	var feed []models.Article
	json.Unmarshal(w.Body.Bytes(), &feed)
	if len(feed) != 1 || feed[0].ID != "a1" {
		t.Errorf("Expected only u1's article, got %+v", feed)
	}
}
