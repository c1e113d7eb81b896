package links

import (
	"strings"
	"testing"

	"github.com/contentiq/assistant/internal/agent/model"
)

const testConnectionString = "DefaultEndpointsProtocol=https;AccountName=testaccount;AccountKey=dGVzdC1hY2NvdW50LWtleS1mb3Itc2lnbmluZw==;EndpointSuffix=core.windows.net"

func TestIssueLink_SignedReadOnlyURL(t *testing.T) {
	issuer, err := NewAzureBlobIssuer(model.BlobConfig{
		ConnectionString: testConnectionString,
		Container:        "contentiq",
		LinkTTLMinutes:   10,
	})
	if err != nil {
		t.Fatalf("failed to build issuer: %v", err)
	}

	url, err := issuer.IssueLink("contentiq", "report.pdf")
	if err != nil {
		t.Fatalf("failed to issue link: %v", err)
	}
	if !strings.Contains(url, "/contentiq/report.pdf") {
		t.Errorf("URL does not address the blob: %s", url)
	}
	if !strings.Contains(url, "sig=") {
		t.Errorf("URL carries no signature: %s", url)
	}
	if !strings.Contains(url, "sp=r") {
		t.Errorf("URL not scoped to read-only: %s", url)
	}
}

func TestNewAzureBlobIssuer_DefaultTTL(t *testing.T) {
	issuer, err := NewAzureBlobIssuer(model.BlobConfig{
		ConnectionString: testConnectionString,
		Container:        "contentiq",
	})
	if err != nil {
		t.Fatalf("failed to build issuer: %v", err)
	}
	if issuer.ttl != DefaultLinkTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultLinkTTL, issuer.ttl)
	}
}

func TestNewAzureBlobIssuer_BadConnectionString(t *testing.T) {
	if _, err := NewAzureBlobIssuer(model.BlobConfig{ConnectionString: "not-a-connection-string"}); err == nil {
		t.Fatal("expected error for malformed connection string")
	}
}
