// Package batch drives a directory of recordings through the processing
// endpoint and accumulates the results table.
package batch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"call-triage-go/internal/types"
)

type Runner struct {
	APIURL string
	Client *http.Client
	Log    *logrus.Entry
}

func NewRunner(apiURL string, timeout time.Duration, log *logrus.Entry) *Runner {
	return &Runner{
		APIURL: apiURL,
		Client: &http.Client{Timeout: timeout},
		Log:    log,
	}
}

// Run processes every .wav file of audioDir in lexicographic order and
// appends one row per successful response to outputCSV, flushing after each
// write so partial progress survives a crash. Failures are logged and
// skipped; no row marks them.
func (r *Runner) Run(audioDir, outputCSV string) error {
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		return fmt.Errorf("read audio dir: %w", err)
	}
	var wavFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".wav") {
			wavFiles = append(wavFiles, e.Name())
		}
	}
	sort.Strings(wavFiles)

	if dir := filepath.Dir(outputCSV); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(outputCSV)
	if err != nil {
		return fmt.Errorf("create output csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file_id", "transcript", "classification", "category", "justification"}); err != nil {
		return err
	}
	w.Flush()

	for _, name := range wavFiles {
		fileID := strings.SplitN(name, ".", 2)[0]
		log := r.Log.WithField("file", name)
		log.Info("processing")

		result, err := r.processOne(filepath.Join(audioDir, name))
		if err != nil {
			log.WithError(err).Warn("skipping file")
			continue
		}

		if err := w.Write([]string{
			fileID,
			result.Transcript,
			result.Classification,
			result.Category,
			result.Justification,
		}); err != nil {
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		log.WithField("classification", result.Classification).Info("row written")
	}
	return nil
}

// processOne uploads one recording and decodes the pipeline response.
func (r *Runner) processOne(path string) (types.LLMResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.LLMResult{}, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return types.LLMResult{}, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return types.LLMResult{}, err
	}
	if err := mw.Close(); err != nil {
		return types.LLMResult{}, err
	}

	req, err := http.NewRequest(http.MethodPost, r.APIURL, &body)
	if err != nil {
		return types.LLMResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.Client.Do(req)
	if err != nil {
		return types.LLMResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return types.LLMResult{}, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var result types.LLMResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return types.LLMResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
