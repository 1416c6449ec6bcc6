// Package constants holds application-wide constants shared across packages.
package constants

import "time"

// Application identity
const (
	AppName       = "drive2blob"
	ConfigDirName = "drive2blob"
)

// Google Drive API
const (
	// DriveListPageSize caps a single listing request. The migration workflow
	// operates on one page of results; pagination is driven by the caller.
	DriveListPageSize = 100

	DriveAPIBase = "https://www.googleapis.com/drive/v3"
)

// Azure Blob Storage
const (
	// AzureEndpointSuffix is the public-cloud blob endpoint suffix.
	AzureEndpointSuffix = "blob.core.windows.net"
)

// Gemini log analysis
const (
	GeminiModel   = "gemini-2.0-flash"
	GeminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"
)

// HTTP transport tuning
const (
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 30 * time.Second
	HTTPExpectContinueTimeout = 5 * time.Second
	HTTPTransportRetryMax     = 3
	HTTPTransportRetryWaitMin = 200 * time.Millisecond
	HTTPTransportRetryWaitMax = 5 * time.Second
	HTTPRequestTimeout        = 2 * time.Minute
)

// Event bus buffering
const (
	EventBusDefaultBuffer = 256
	EventBusMaxBuffer     = 4096
)
