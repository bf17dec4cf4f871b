package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prism/prism/config"
	"prism/prism/controllers"
	"prism/prism/services/imagegen"
	"prism/prism/services/llm"
	"prism/prism/sources/psql/dao"
	"prism/prism/sources/psql/models"
	"prism/prism/utils/logging"
	"prism/prism/utils/types"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubText struct{}

func (stubText) Generate(ctx context.Context, message string) llm.Result {
	return llm.Result{Text: "Hi there", Success: true}
}

func (stubText) GenerateStream(ctx context.Context, message string) (<-chan string, error) {
	ch := make(chan string, 1)
	ch <- "Hi there"
	close(ch)
	return ch, nil
}

type stubImages struct{}

func (stubImages) Generate(ctx context.Context, prompt string) (imagegen.Result, error) {
	return imagegen.Result{URL: "https://img.example/x.png", Provider: "pollinations"}, nil
}

func setupChatServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.ChatMessage{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	cfg := config.Config{JWTSecret: "test-secret"}
	ctrl := controllers.NewChatController(dao.NewChatMessageDAO(db), stubText{}, stubImages{})

	server := httptest.NewServer(ChatRoutes(ctrl, cfg))
	t.Cleanup(server.Close)

	claims := jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return server, token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestSendMessageEndpoint(t *testing.T) {
	server, token := setupChatServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/message", token, types.SendMessageRequest{Message: "Hello"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body types.SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.AIResponse != "Hi there" || !body.GeminiSuccess {
		t.Errorf("unexpected response %+v", body)
	}

	histResp := doJSON(t, http.MethodGet, server.URL+"/history", token, nil)
	defer histResp.Body.Close()
	var hist types.HistoryResponse
	json.NewDecoder(histResp.Body).Decode(&hist)
	if hist.Count != 2 {
		t.Errorf("expected 2 persisted rows, got %d", hist.Count)
	}
}

func TestChatEndpointsRequireAuth(t *testing.T) {
	server, _ := setupChatServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/message", "", types.SendMessageRequest{Message: "Hello"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestSendMessageEndpointValidation(t *testing.T) {
	server, token := setupChatServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/message", token, types.SendMessageRequest{Message: "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var apiErr types.APIError
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "validation" {
		t.Errorf("expected validation code, got %q", apiErr.Code)
	}
}

func TestGenerateImageEndpoint(t *testing.T) {
	server, token := setupChatServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/image", token, types.GenerateImageRequest{Prompt: "a red cat"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body types.GenerateImageResponse
	json.NewDecoder(resp.Body).Decode(&body)
	if body.ImageURL != "https://img.example/x.png" {
		t.Errorf("unexpected imageUrl %q", body.ImageURL)
	}
	if body.AIMessage == nil || body.AIMessage.ContentType != models.ContentTypeImage {
		t.Errorf("expected a model/image row in the response, got %+v", body.AIMessage)
	}
}

func TestClearHistoryEndpoint(t *testing.T) {
	server, token := setupChatServer(t)

	doJSON(t, http.MethodPost, server.URL+"/message", token, types.SendMessageRequest{Message: "Hello"}).Body.Close()

	resp := doJSON(t, http.MethodDelete, server.URL+"/history", token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	histResp := doJSON(t, http.MethodGet, server.URL+"/history", token, nil)
	defer histResp.Body.Close()
	var hist types.HistoryResponse
	json.NewDecoder(histResp.Body).Decode(&hist)
	if hist.Count != 0 {
		t.Errorf("expected empty history after clear, got %d", hist.Count)
	}
}
