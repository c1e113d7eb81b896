// Package links issues time-limited, read-only download URLs for stored
// documents. A signed URL embeds no long-lived credential beyond the
// signature's validity window.
package links

import (
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/contentiq/assistant/internal/agent/model"
	errx "github.com/contentiq/assistant/internal/core/error"
	logx "github.com/contentiq/assistant/pkg/logger"
)

// DefaultLinkTTL applies when the configured TTL is missing or invalid.
const DefaultLinkTTL = 10 * time.Minute

// Issuer is the outbound link-signing capability consumed by the formatter.
// A signing failure yields an empty URL for that entry only; the result list
// as a whole is never aborted.
type Issuer interface {
	IssueLink(container, blobName string) (string, error)
}

type AzureBlobIssuer struct {
	client *azblob.Client
	ttl    time.Duration
}

func NewAzureBlobIssuer(cfg model.BlobConfig) (*AzureBlobIssuer, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, errx.WrapSigning(err)
	}

	ttl := time.Duration(cfg.LinkTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	return &AzureBlobIssuer{client: client, ttl: ttl}, nil
}

// IssueLink signs a read-only URL for one blob, valid from now until the
// configured TTL elapses. Signing is local (shared-key HMAC), no network.
func (i *AzureBlobIssuer) IssueLink(container, blobName string) (string, error) {
	blobClient := i.client.ServiceClient().NewContainerClient(container).NewBlobClient(blobName)

	url, err := blobClient.GetSASURL(
		sas.BlobPermissions{Read: true},
		time.Now().UTC().Add(i.ttl),
		nil,
	)
	if err != nil {
		logx.Warn().Err(err).Str("blob", blobName).Msg("failed to sign blob URL")
		return "", errx.WrapSigning(err)
	}
	return url, nil
}

var _ Issuer = (*AzureBlobIssuer)(nil)
