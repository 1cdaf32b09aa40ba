package mockserver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitImage draws a 64x64 PNG that is white on one half
func splitImage(t *testing.T, vertical bool) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			bright := y < 32
			if vertical {
				bright = x < 32
			}
			if bright {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path, token string, image []byte, message string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "img.png")
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	if message != "" {
		require.NoError(t, w.WriteField("message", message))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func jsonRequest(method, path, token, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func send(t *testing.T, s *Server, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	_ = json.Unmarshal(data, &body)
	return resp.StatusCode, body
}

func token(t *testing.T, s *Server, identity string) string {
	t.Helper()
	tok, err := s.IssueToken(identity)
	require.NoError(t, err)
	return tok
}

func TestServer_RegisterAndLogin(t *testing.T) {
	s := New(Options{})

	status, body := send(t, s, jsonRequest(http.MethodPost, "/auth/register", "",
		`{"email":"alice@example.com","username":"alice","password":"pw"}`))
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["msg"])

	status, body = send(t, s, jsonRequest(http.MethodPost, "/auth/register", "",
		`{"email":"alice@example.com","username":"alice","password":"pw"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username already exists", body["msg"])

	status, body = send(t, s, jsonRequest(http.MethodPost, "/auth/register", "",
		`{"email":"nope","username":"bob","password":"pw"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["msg"], "email")

	status, body = send(t, s, jsonRequest(http.MethodPost, "/auth/login", "",
		`{"username":"alice","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Bad username or password", body["msg"])

	status, body = send(t, s, jsonRequest(http.MethodPost, "/auth/login", "",
		`{"username":"alice","password":"pw"}`))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.NotEmpty(t, body["access_token"])
}

func TestServer_RequiresToken(t *testing.T) {
	s := New(Options{})

	status, _ := send(t, s, jsonRequest(http.MethodGet, "/upload", "", ""))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = send(t, s, jsonRequest(http.MethodGet, "/upload", "garbage", ""))
	assert.Equal(t, http.StatusUnauthorized, status)

	other := New(Options{Secret: "other"})
	status, _ = send(t, s, jsonRequest(http.MethodGet, "/upload", token(t, other, "eve"), ""))
	assert.Equal(t, http.StatusUnauthorized, status, "foreign signature")
}

func TestServer_UploadOutcomes(t *testing.T) {
	s := New(Options{})
	tok := token(t, s, "alice")
	horizontal := splitImage(t, false)
	vertical := splitImage(t, true)

	status, body := send(t, s, multipartRequest(t, "/upload", tok, horizontal, "hello"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Message embedded and uploaded successfully!", body["message"])

	status, body = send(t, s, multipartRequest(t, "/upload", tok, horizontal, "again"))
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate", body["status"])
	details := body["details"].(map[string]interface{})
	assert.Equal(t, float64(0), details["distance"])
	assert.Equal(t, "alice", details["existing_uploader"])

	status, body = send(t, s, multipartRequest(t, "/upload", tok, vertical, "i hate this"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rejected", body["status"])

	stego := append(append([]byte{}, vertical...), []byte("STEG:meet at noon\x00")...)
	status, body = send(t, s, multipartRequest(t, "/upload", tok, stego, "hi"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hidden data detected", body["status"])
	assert.Equal(t, "meet at noon", body["hidden_message"])

	status, body = send(t, s, multipartRequest(t, "/upload", tok, vertical, "hi"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 2, s.PostCount())

	status, body = send(t, s, multipartRequest(t, "/upload", tok, vertical, ""))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No message provided", body["message"])
}

func TestServer_CheckDuplicate(t *testing.T) {
	s := New(Options{})
	tok := token(t, s, "alice")
	img := splitImage(t, false)

	_, body := send(t, s, multipartRequest(t, "/check-duplicate", tok, img, ""))
	assert.Equal(t, "unique", body["status"])
	assert.Nil(t, body["min_distance"])

	send(t, s, multipartRequest(t, "/upload", tok, img, "first"))

	_, body = send(t, s, multipartRequest(t, "/check-duplicate", tok, img, ""))
	assert.Equal(t, "duplicate", body["status"])
	assert.Equal(t, true, body["is_duplicate"])
	assert.Equal(t, float64(0), body["min_distance"])

	_, body = send(t, s, multipartRequest(t, "/check-duplicate", tok, splitImage(t, true), ""))
	assert.Equal(t, "unique", body["status"])
	assert.Greater(t, body["min_distance"].(float64), float64(DefaultThreshold))
}

func TestServer_UndecodableImagesMatchExactly(t *testing.T) {
	s := New(Options{})
	tok := token(t, s, "alice")

	status, _ := send(t, s, multipartRequest(t, "/upload", tok, []byte("raw-bytes"), "one"))
	require.Equal(t, http.StatusOK, status)

	status, _ = send(t, s, multipartRequest(t, "/upload", tok, []byte("raw-bytes-2"), "two"))
	assert.Equal(t, http.StatusOK, status)

	status, _ = send(t, s, multipartRequest(t, "/upload", tok, []byte("raw-bytes"), "three"))
	assert.Equal(t, http.StatusConflict, status)
}

func TestServer_FeedAndComments(t *testing.T) {
	s := New(Options{})
	alice := token(t, s, "alice")
	bob := token(t, s, "bob")

	send(t, s, multipartRequest(t, "/upload", alice, splitImage(t, false), "a"))
	send(t, s, multipartRequest(t, "/upload", bob, splitImage(t, true), "b"))

	_, body := send(t, s, jsonRequest(http.MethodGet, "/upload", alice, ""))
	uploads := body["uploads"].([]interface{})
	require.Len(t, uploads, 2)
	assert.Equal(t, "bob", uploads[0].(map[string]interface{})["username"], "newest first")

	_, body = send(t, s, jsonRequest(http.MethodGet, "/my-posts", alice, ""))
	posts := body["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].(map[string]interface{})["username"])

	status, body := send(t, s, jsonRequest(http.MethodPost, "/comments", bob, `{"post_id":1,"text":"nice"}`))
	require.Equal(t, http.StatusCreated, status)
	created := body["comment"].(map[string]interface{})
	assert.Equal(t, "bob", created["username"])

	status, _ = send(t, s, jsonRequest(http.MethodPost, "/comments", bob, `{"post_id":"99","text":"x"}`))
	assert.Equal(t, http.StatusNotFound, status)

	_, body = send(t, s, jsonRequest(http.MethodGet, "/comments?post_id=1", alice, ""))
	assert.Len(t, body["comments"].([]interface{}), 1)
}

func TestServer_Analyze(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"I love this, great shot", "positive"},
		{"this is the worst, I hate it", "negative"},
		{"a photo of a cat", "neutral"},
		{"", "neutral"},
	}

	s := New(Options{})
	tok := token(t, s, "alice")
	for _, tt := range tests {
		payload, _ := json.Marshal(map[string]string{"comment": tt.text})
		_, body := send(t, s, jsonRequest(http.MethodPost, "/analyze", tok, string(payload)))
		assert.Equal(t, tt.want, body["sentiment"], tt.text)
	}
}

func TestServer_OverridesAndHits(t *testing.T) {
	s := New(Options{})
	s.Override(http.MethodPost, "/upload", Override{Status: 502, Body: "<html>bad gateway</html>", ContentType: "text/html"})

	resp, err := s.App().Test(multipartRequest(t, "/upload", "", []byte("x"), "m"), -1)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, 502, resp.StatusCode)
	assert.Equal(t, "<html>bad gateway</html>", string(data))
	assert.Equal(t, 1, s.Hits(http.MethodPost, "/upload"))

	s.ClearOverrides()
	status, _ := send(t, s, multipartRequest(t, "/upload", "", []byte("x"), "m"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, 2, s.Hits(http.MethodPost, "/upload"))
}

func TestFingerprintDistance(t *testing.T) {
	a := fingerprintOf(splitImage(t, false))
	b := fingerprintOf(splitImage(t, true))
	raw := fingerprintOf([]byte("plain"))

	assert.True(t, a.perceptual)
	assert.Equal(t, 0, a.distance(a))
	assert.Greater(t, a.distance(b), DefaultThreshold)
	assert.Equal(t, hashBits, a.distance(raw))
	assert.Equal(t, 0, raw.distance(fingerprintOf([]byte("plain"))))
}

func TestHiddenMessage(t *testing.T) {
	msg, ok := hiddenMessage([]byte("....STEG:secret\nrest"))
	assert.True(t, ok)
	assert.Equal(t, "secret", msg)

	_, ok = hiddenMessage([]byte("nothing here"))
	assert.False(t, ok)
}
