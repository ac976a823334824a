package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backend is a pluggable speech-to-text engine. Transcribe returns the
// recognized text for one audio file, or an error for transport/service
// failures. Unintelligible audio is not an error: backends return empty text
// and the caller substitutes the Unrecognized sentinel.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// HTTPBackend speaks to a speech-to-text HTTP service: multipart file upload
// plus a language field, JSON {"text": ...} response. Transient failures are
// retried with exponential backoff before giving up.
type HTTPBackend struct {
	URL      string
	Language string
}

func NewHTTPBackend(url, language string) *HTTPBackend {
	return &HTTPBackend{URL: url, Language: language}
}

type recognizeResponse struct {
	Text string `json:"text"`
}

func (b *HTTPBackend) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("language", b.Language); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL, bytes.NewReader(body.Bytes()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out recognizeResponse
	if err := doJSON(req, body.Bytes(), &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// doJSON executes the request with backoff, refreshing the request body on
// each attempt, and decodes the JSON response into target.
func doJSON(req *http.Request, payload []byte, target interface{}) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	var lastErr error
	op := func() error {
		req.Body = io.NopCloser(bytes.NewReader(payload))
		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("recognize failed: http %d: %s", resp.StatusCode, string(body))
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, string(body))
			return lastErr
		}
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return lastErr
	}
	return nil
}
