package models

// DriveCredentials holds the Google Drive side of the session.
// AccessToken is an externally obtained OAuth bearer token (consent flow or
// manual paste); the engine only ever treats it as present/absent/expired.
type DriveCredentials struct {
	ClientID    string `json:"clientId"`
	APIKey      string `json:"apiKey"`
	AccessToken string `json:"accessToken,omitempty"`
}

// HasToken reports whether a bearer token is present.
func (c DriveCredentials) HasToken() bool {
	return c.AccessToken != ""
}

// AzureConfig holds the Azure Blob Storage destination descriptor:
// account + container + SAS token appended to every request URL.
type AzureConfig struct {
	AccountName   string `json:"accountName"`
	ContainerName string `json:"containerName"`
	SASToken      string `json:"sasToken"`
}

// Configured reports whether the destination is addressable at all.
// A missing container name fails before any network call is made.
func (c AzureConfig) Configured() bool {
	return c.AccountName != "" && c.ContainerName != "" && c.SASToken != ""
}
