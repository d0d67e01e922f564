package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/learnableai/readassist/internal/config"
	"github.com/learnableai/readassist/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := session.NewStore(session.DefaultTTL)
	t.Cleanup(store.Shutdown)

	rt := NewRouter(nil, &config.Config{}, store)
	srv := httptest.NewServer(rt.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, "POST", srv.URL+"/api/v1/sessions/", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status = %d", resp.StatusCode)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatal("create session: no id in response")
	}
	return id
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, "GET", srv.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %v", body["status"])
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp, body := doJSON(t, "GET", srv.URL+"/api/v1/sessions/"+id+"/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status = %d", resp.StatusCode)
	}
	if body["word_count"].(float64) != 0 {
		t.Fatalf("fresh session word_count = %v", body["word_count"])
	}

	resp, _ = doJSON(t, "DELETE", srv.URL+"/api/v1/sessions/"+id+"/", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", srv.URL+"/api/v1/sessions/"+id+"/", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d", resp.StatusCode)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/v1/sessions/not-a-uuid/",
		"/api/v1/sessions/00000000-0000-0000-0000-000000000000/",
	} {
		resp, _ := doJSON(t, "GET", srv.URL+path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestPasteDocument(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp, body := doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/document",
		map[string]string{"text": "# Heading\n\nThe cat sat on the mat."})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["word_count"].(float64) != 8 {
		t.Fatalf("word_count = %v, want 8", body["word_count"])
	}
	if text := body["text"].(string); !strings.HasPrefix(text, "# Heading") {
		t.Fatalf("pasted text was not kept verbatim: %q", text)
	}
}

func TestPasteWhitespaceOnlyYieldsEmptyDocument(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp, body := doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/document",
		map[string]string{"text": "   \n\t  "})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["word_count"].(float64) != 0 {
		t.Fatalf("word_count = %v, want 0", body["word_count"])
	}
}

func TestUploadUnsupportedFormatIs400(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("not a document"))
	mw.Close()

	req, _ := http.NewRequest("POST", srv.URL+"/api/v1/sessions/"+id+"/document/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUploadTextFile(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "story.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("Once upon a time."))
	mw.Close()

	req, _ := http.NewRequest("POST", srv.URL+"/api/v1/sessions/"+id+"/document/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	if body["word_count"].(float64) != 4 {
		t.Fatalf("word_count = %v, want 4", body["word_count"])
	}
}

func TestStyleUpdateClamps(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp, body := doJSON(t, "PUT", srv.URL+"/api/v1/sessions/"+id+"/style",
		map[string]interface{}{
			"font_size_px":    500,
			"letter_spacing":  0.1,
			"line_height":     1.8,
			"highlight_color": "#3b82f6",
		})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["font_size_px"].(float64) != 32 {
		t.Fatalf("font_size_px = %v, want clamped 32", body["font_size_px"])
	}
	if body["letter_spacing"].(float64) != 1.0 {
		t.Fatalf("letter_spacing = %v, want clamped 1.0", body["letter_spacing"])
	}
}

func TestQuizWithoutProviderIs502(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/document",
		map[string]string{"text": "The water cycle moves water around the planet."})

	resp, _ := doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/quiz",
		map[string]string{"difficulty": "easy"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}

func TestQuizWithoutDocumentIs400(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp, _ := doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/quiz",
		map[string]string{"difficulty": "easy"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLocalSpeechAcquire(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/document",
		map[string]string{"text": "The cat sat."})

	resp, body := doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/speech", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("acquire: status = %d", resp.StatusCode)
	}
	playback := body["playback"].(map[string]interface{})
	if playback["state"] != "ready" {
		t.Fatalf("state = %v, want ready", playback["state"])
	}
	if body["has_audio"] != false {
		t.Fatal("local acquisition must not produce a downloadable asset")
	}
}

func TestAudioWithoutAssetIs400(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp, _ := doJSON(t, "GET", srv.URL+"/api/v1/sessions/"+id+"/audio", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExportTextAttachment(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	doJSON(t, "POST", srv.URL+"/api/v1/sessions/"+id+"/document",
		map[string]string{"text": "Readable words."})

	resp, err := http.Get(srv.URL + "/api/v1/sessions/" + id + "/export/text")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "dyslexia-friendly-text.txt") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != "Readable words." {
		t.Fatalf("body = %q", raw)
	}
}

func TestVoicesListing(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, "GET", srv.URL+"/api/v1/voices", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	voices := body["voices"].([]interface{})
	if len(voices) != 5 {
		t.Fatalf("voices = %d, want 5", len(voices))
	}
	tones := body["tones"].([]interface{})
	if len(tones) != 5 {
		t.Fatalf("tones = %d, want 5", len(tones))
	}
}
