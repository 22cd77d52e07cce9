package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/features/ai/evaluation/service"
	helper "englishku_backend/internals/helpers"
	"englishku_backend/internals/helpers/llm"
)

func newApp(client *llm.Client) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	ctrl := NewEvaluationController(service.NewEvaluator(client))
	app.Post("/writing", ctrl.Writing)
	app.Post("/speaking", ctrl.Speaking)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func jsonReq(path, body string) *http.Request {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func audioReq(t *testing.T, path string, audio []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if audio != nil {
		fw, err := w.CreateFormFile("audio", "answer.webm")
		require.NoError(t, err)
		_, _ = fw.Write(audio)
	}
	require.NoError(t, w.WriteField("topic", "hometown"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestWritingEndpoint(t *testing.T) {
	p := llm.NewMockProvider(llm.Text(`{"verdict":"PASS","score":6,"feedback":"ok"}`))
	app := newApp(&llm.Client{Provider: p})

	code, body := do(t, app, jsonReq("/writing", `{"text":"I like my town."}`))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "PASS", body["data"].(map[string]any)["result"])

	code, _ = do(t, app, jsonReq("/writing", `{"text":""}`))
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestWritingEndpointUpstreamFailure(t *testing.T) {
	p := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	app := newApp(&llm.Client{Provider: p})

	code, _ := do(t, app, jsonReq("/writing", `{"text":"hello"}`))
	assert.Equal(t, fiber.StatusBadGateway, code)

	code, _ = do(t, newApp(nil), jsonReq("/writing", `{"text":"hello"}`))
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
}

func TestWritingEndpointRateLimited(t *testing.T) {
	p := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{RetryAfter: 1500 * time.Millisecond}})
	app := newApp(&llm.Client{Provider: p})

	resp, err := app.Test(jsonReq("/writing", `{"text":"hello"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestSpeakingEndpoint(t *testing.T) {
	p := llm.NewMockProvider(llm.Text("PASS"))
	tr := &llm.MockTranscriber{Transcript: "my hometown is small and green"}
	app := newApp(&llm.Client{Provider: p, Transcriber: tr})

	code, body := do(t, app, audioReq(t, "/speaking", []byte("RIFF")))
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "PASS", data["result"])
	assert.Equal(t, "my hometown is small and green", data["transcript"])
	assert.Equal(t, [][]byte{[]byte("RIFF")}, tr.Received)
	assert.Contains(t, p.Calls[0].Messages[0].Content, "hometown")

	code, _ = do(t, app, audioReq(t, "/speaking", nil))
	assert.Equal(t, fiber.StatusBadRequest, code)
}
