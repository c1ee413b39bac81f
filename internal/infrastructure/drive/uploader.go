// Package drive implements the cloud exporter against the Google Drive API.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/Jeff-002/SlackToJournal/internal/config"
	"github.com/Jeff-002/SlackToJournal/internal/ports"
)

const (
	defaultAPIBase    = "https://www.googleapis.com/drive/v3"
	defaultUploadBase = "https://www.googleapis.com/upload/drive/v3"

	folderMIMEType = "application/vnd.google-apps.folder"
)

// Uploader pushes journal documents into a Drive folder tree. Folder
// segments are created on demand under the configured root folder.
type Uploader struct {
	apiBase     string
	uploadBase  string
	accessToken string
	rootFolder  string
	httpClient  *http.Client
}

var _ ports.Uploader = (*Uploader)(nil)

// NewUploader builds an uploader from configuration.
func NewUploader(cfg config.DriveConfig) *Uploader {
	return &Uploader{
		apiBase:     defaultAPIBase,
		uploadBase:  defaultUploadBase,
		accessToken: cfg.AccessToken,
		rootFolder:  cfg.FolderID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload ensures the folder path exists and uploads the payload as a
// markdown file. A single attempt; the caller handles local fallback.
func (u *Uploader) Upload(ctx context.Context, name string, payload []byte, folder string) (ports.UploadRef, error) {
	if u.accessToken == "" {
		return ports.UploadRef{}, fmt.Errorf("drive uploader misconfigured")
	}

	parent := u.rootFolder
	for _, segment := range strings.Split(folder, "/") {
		if segment == "" {
			continue
		}
		id, err := u.ensureFolder(ctx, segment, parent)
		if err != nil {
			return ports.UploadRef{}, fmt.Errorf("ensure folder %s: %w", segment, err)
		}
		parent = id
	}

	return u.uploadFile(ctx, name, payload, parent)
}

// ensureFolder finds a folder by name under parent or creates it.
func (u *Uploader) ensureFolder(ctx context.Context, name, parent string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", name, folderMIMEType)
	if parent != "" {
		query += fmt.Sprintf(" and '%s' in parents", parent)
	}

	endpoint := u.apiBase + "/files?" + url.Values{"q": {query}, "fields": {"files(id)"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	var found struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
	}
	if err := u.do(req, &found); err != nil {
		return "", err
	}
	if len(found.Files) > 0 {
		return found.Files[0].ID, nil
	}

	meta := map[string]any{"name": name, "mimeType": folderMIMEType}
	if parent != "" {
		meta["parents"] = []string{parent}
	}
	body, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal folder metadata: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, u.apiBase+"/files", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var created struct {
		ID string `json:"id"`
	}
	if err := u.do(req, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (u *Uploader) uploadFile(ctx context.Context, name string, payload []byte, parent string) (ports.UploadRef, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return ports.UploadRef{}, fmt.Errorf("create metadata part: %w", err)
	}
	meta := map[string]any{"name": name}
	if parent != "" {
		meta["parents"] = []string{parent}
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return ports.UploadRef{}, fmt.Errorf("encode metadata: %w", err)
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Type", "text/markdown; charset=UTF-8")
	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		return ports.UploadRef{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := filePart.Write(payload); err != nil {
		return ports.UploadRef{}, fmt.Errorf("write payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return ports.UploadRef{}, fmt.Errorf("close multipart body: %w", err)
	}

	endpoint := u.uploadBase + "/files?" + url.Values{
		"uploadType": {"multipart"},
		"fields":     {"id,webViewLink"},
	}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return ports.UploadRef{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	var uploaded struct {
		ID          string `json:"id"`
		WebViewLink string `json:"webViewLink"`
	}
	if err := u.do(req, &uploaded); err != nil {
		return ports.UploadRef{}, err
	}

	return ports.UploadRef{ID: uploaded.ID, Link: uploaded.WebViewLink}, nil
}

func (u *Uploader) do(req *http.Request, v any) error {
	req.Header.Set("Authorization", "Bearer "+u.accessToken)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("drive error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
