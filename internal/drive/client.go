// Package drive is the source store adapter for the Google Drive REST API v3.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"

	"github.com/cloudmigrate/drive2blob/internal/constants"
	httpx "github.com/cloudmigrate/drive2blob/internal/http"
	"github.com/cloudmigrate/drive2blob/internal/logging"
	"github.com/cloudmigrate/drive2blob/internal/models"
	"github.com/cloudmigrate/drive2blob/internal/session"
	"github.com/cloudmigrate/drive2blob/internal/storage"
)

// listQuery excludes trashed entries and folders: the migration only ever
// moves leaf files.
const listQuery = "trashed = false and mimeType != '" + mimeTypeDriveFolder + "'"

const listFields = "files(id, name, mimeType, size, modifiedTime)"

// Client implements storage.SourceStore against the Drive API.
type Client struct {
	session *session.Session
	http    *nethttp.Client
	logger  *logging.Logger
	baseURL string
}

// NewClient creates a Drive client reading credentials from sess.
func NewClient(sess *session.Session, logger *logging.Logger) *Client {
	return &Client{
		session: sess,
		http:    httpx.NewRetryableClient(),
		logger:  logger,
		baseURL: constants.DriveAPIBase,
	}
}

type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Size         string `json:"size"` // Drive serializes int64 as a string; absent for native docs
	ModifiedTime string `json:"modifiedTime"`
}

type driveFileList struct {
	Files []driveFile `json:"files"`
}

type driveError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListFiles lists leaf files visible to the current token.
// The API key rides along as a query parameter on listing calls only.
func (c *Client) ListFiles(ctx context.Context) ([]models.RemoteFile, error) {
	creds := c.session.Drive()
	if !creds.HasToken() {
		return nil, storage.ErrAuthRequired
	}

	q := url.Values{}
	q.Set("q", listQuery)
	q.Set("fields", listFields)
	q.Set("pageSize", strconv.Itoa(constants.DriveListPageSize))
	if creds.APIKey != "" {
		q.Set("key", creds.APIKey)
	}

	body, err := c.get(ctx, c.baseURL+"/files?"+q.Encode(), creds.AccessToken, storage.ErrListingFailed)
	if err != nil {
		return nil, err
	}

	var list driveFileList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: malformed listing response: %v", storage.ErrListingFailed, err)
	}

	files := make([]models.RemoteFile, 0, len(list.Files))
	for _, f := range list.Files {
		size, _ := strconv.ParseInt(f.Size, 10, 64) // absent/unparseable size defaults to 0
		files = append(files, models.RemoteFile{
			ID:           f.ID,
			Name:         f.Name,
			Size:         size,
			ContentType:  f.MimeType,
			LastModified: f.ModifiedTime,
		})
	}
	c.logger.Debugf("drive: listed %d files", len(files))
	return files, nil
}

// FetchContent retrieves one file's bytes. Google-native types are exported
// to their target format; everything else is fetched raw with alt=media.
//
// Download/export calls deliberately omit the API key: combining it with the
// bearer token produces an authentication conflict on these endpoints.
func (c *Client) FetchContent(ctx context.Context, fileID, contentType string) (storage.FetchResult, error) {
	creds := c.session.Drive()
	if !creds.HasToken() {
		return storage.FetchResult{}, storage.ErrAuthRequired
	}

	resolved := contentType
	var u string
	if models.IsGoogleNativeType(contentType) {
		target, err := ExportTarget(contentType)
		if err != nil {
			return storage.FetchResult{}, err
		}
		resolved = target
		u = fmt.Sprintf("%s/files/%s/export?mimeType=%s", c.baseURL, url.PathEscape(fileID), url.QueryEscape(target))
	} else {
		u = fmt.Sprintf("%s/files/%s?alt=media", c.baseURL, url.PathEscape(fileID))
	}

	body, err := c.get(ctx, u, creds.AccessToken, storage.ErrFetchFailed)
	if err != nil {
		return storage.FetchResult{}, err
	}
	return storage.FetchResult{Content: body, ResolvedType: resolved}, nil
}

// get performs an authorized GET and maps failures onto the error taxonomy.
// kind is the generic sentinel for non-auth remote rejections.
func (c *Client) get(ctx context.Context, u, token string, kind error) ([]byte, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kind, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kind, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := remoteMessage(body)
		if storage.IsAuthStatus(resp.StatusCode) {
			return nil, storage.NewStatusError(storage.ErrAuthExpired, resp.StatusCode, msg)
		}
		return nil, storage.NewStatusError(kind, resp.StatusCode, msg)
	}
	if readErr != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", kind, readErr)
	}
	return body, nil
}

// remoteMessage extracts Drive's error description when the body carries one.
func remoteMessage(body []byte) string {
	var de driveError
	if err := json.Unmarshal(body, &de); err == nil && de.Error.Message != "" {
		return de.Error.Message
	}
	return string(body)
}
