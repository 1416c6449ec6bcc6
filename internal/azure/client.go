// Package azure is the destination store adapter for Azure Blob Storage,
// addressed by account + container + SAS token.
package azure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"

	"github.com/cloudmigrate/drive2blob/internal/constants"
	httpx "github.com/cloudmigrate/drive2blob/internal/http"
	"github.com/cloudmigrate/drive2blob/internal/logging"
	"github.com/cloudmigrate/drive2blob/internal/models"
	"github.com/cloudmigrate/drive2blob/internal/session"
	"github.com/cloudmigrate/drive2blob/internal/storage"
)

// Client implements storage.DestinationStore against Azure Blob Storage.
// The SDK client is rebuilt per operation from the current session state so
// a SAS token or container change takes effect without restarting; the
// underlying HTTP client is shared to keep the connection pool warm.
type Client struct {
	session *session.Session
	http    *nethttp.Client
	logger  *logging.Logger

	// newServiceClient is swappable in tests.
	newServiceClient func(sasURL string) (*azblob.Client, error)
}

// NewClient creates an Azure client reading configuration from sess.
func NewClient(sess *session.Session, logger *logging.Logger) *Client {
	c := &Client{
		session: sess,
		http:    httpx.NewPooledClient(),
		logger:  logger,
	}
	c.newServiceClient = func(sasURL string) (*azblob.Client, error) {
		return azblob.NewClientWithNoCredential(sasURL, &azblob.ClientOptions{
			ClientOptions: azcore.ClientOptions{
				Transport: c.http,
			},
		})
	}
	return c
}

// serviceClient builds an SDK client for the current session config.
// Fails without a network call when the destination is not configured.
func (c *Client) serviceClient() (*azblob.Client, models.AzureConfig, error) {
	cfg := c.session.Azure()
	if cfg.ContainerName == "" || !cfg.Configured() {
		return nil, cfg, storage.ErrDestinationNotConfigured
	}
	sasURL := fmt.Sprintf("https://%s.%s/?%s", cfg.AccountName, constants.AzureEndpointSuffix, cfg.SASToken)
	client, err := c.newServiceClient(sasURL)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to create blob client: %w", err)
	}
	return client, cfg, nil
}

// ListObjects enumerates the container. A missing container is a recoverable
// condition: it resolves to an empty listing flagged ContainerMissing so the
// caller can offer to create the container.
func (c *Client) ListObjects(ctx context.Context) (storage.Listing, error) {
	client, cfg, err := c.serviceClient()
	if err != nil {
		return storage.Listing{}, err
	}

	var files []models.RemoteFile
	pager := client.NewListBlobsFlatPager(cfg.ContainerName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				c.logger.Warnf("azure: container %q not found", cfg.ContainerName)
				return storage.Listing{ContainerMissing: true}, nil
			}
			return storage.Listing{}, classify(err, storage.ErrListingFailed)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			f := models.RemoteFile{ID: *item.Name, Name: *item.Name}
			if p := item.Properties; p != nil {
				if p.ContentLength != nil {
					f.Size = *p.ContentLength
				}
				if p.ContentType != nil {
					f.ContentType = *p.ContentType
				}
				if p.LastModified != nil {
					f.LastModified = p.LastModified.UTC().Format(time.RFC1123)
				}
			}
			files = append(files, f)
		}
	}
	c.logger.Debugf("azure: listed %d blobs in %s", len(files), cfg.ContainerName)
	return storage.Listing{Files: files}, nil
}

// CreateContainer creates the configured container. The underlying store
// does not treat create as idempotent, so a duplicate create is classified
// as storage.ErrContainerExists for the caller to report as informational.
func (c *Client) CreateContainer(ctx context.Context) error {
	client, cfg, err := c.serviceClient()
	if err != nil {
		return err
	}
	if _, err := client.CreateContainer(ctx, cfg.ContainerName, nil); err != nil {
		if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("%w: %s", storage.ErrContainerExists, cfg.ContainerName)
		}
		return classify(err, storage.ErrWriteFailed)
	}
	c.logger.Infof("azure: created container %s", cfg.ContainerName)
	return nil
}

// WriteObject uploads file.Content as a block blob named file.Name with the
// file's content type, in a single shot (no block negotiation). Progress is
// relayed through onProgress as a percentage; exactly 100 is emitted only
// after the upload fully succeeds.
func (c *Client) WriteObject(ctx context.Context, file models.RemoteFile, onProgress storage.ProgressFunc) error {
	client, cfg, err := c.serviceClient()
	if err != nil {
		return err
	}

	bb := client.ServiceClient().
		NewContainerClient(cfg.ContainerName).
		NewBlockBlobClient(file.Name)

	body := newProgressReader(bytes.NewReader(file.Content), int64(len(file.Content)), onProgress)
	opts := &blockblob.UploadOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(file.ContentType),
		},
	}
	if _, err := bb.Upload(ctx, body, opts); err != nil {
		return classify(err, storage.ErrWriteFailed)
	}
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

// classify maps an SDK error onto the shared taxonomy. An error without an
// HTTP response means nothing reached us at all and is surfaced as
// TransportBlocked, distinct from a remote rejection.
func classify(err error, kind error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch {
		case bloberror.HasCode(err, bloberror.ContainerNotFound):
			return fmt.Errorf("%w: %v", storage.ErrContainerNotFound, respErr.ErrorCode)
		case bloberror.HasCode(err, bloberror.ContainerAlreadyExists):
			return fmt.Errorf("%w: %v", storage.ErrContainerExists, respErr.ErrorCode)
		case storage.IsAuthStatus(respErr.StatusCode):
			return storage.NewStatusError(storage.ErrAuthExpired, respErr.StatusCode, respErr.ErrorCode)
		default:
			return storage.NewStatusError(kind, respErr.StatusCode, respErr.ErrorCode)
		}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", storage.ErrTransportBlocked, err)
}
