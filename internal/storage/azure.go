package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureStore is a Gateway over one container of an Azure storage
// account. Credentials come from the app's managed identity in the
// cloud, or AZURE_CLIENT_ID/AZURE_CLIENT_SECRET/AZURE_TENANT_ID when
// running locally.
type AzureStore struct {
	client     *azblob.Client
	accountURL string
	container  string
}

// NewAzureStore connects to the given container.
func NewAzureStore(accountURL, container string) (*AzureStore, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire azure credential: %w", err)
	}

	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &AzureStore{
		client:     client,
		accountURL: strings.TrimSuffix(accountURL, "/"),
		container:  container,
	}, nil
}

func (s *AzureStore) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := filepath.Base(localPath)
	if _, err := s.client.UploadFile(ctx, s.container, name, f, nil); err != nil {
		return "", fmt.Errorf("blob upload failed: %w", err)
	}

	return s.accountURL + "/" + s.container + "/" + name, nil
}

func (s *AzureStore) Download(ctx context.Context, name, destDir string) (string, error) {
	dest := filepath.Join(destDir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := s.client.DownloadFile(ctx, s.container, name, f, nil); err != nil {
		return "", fmt.Errorf("blob download failed: %w", err)
	}
	return dest, nil
}

func (s *AzureStore) Delete(ctx context.Context, name string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		return fmt.Errorf("blob delete failed: %w", err)
	}
	return nil
}

func (s *AzureStore) List(ctx context.Context) ([]string, error) {
	var names []string

	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("blob list failed: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (s *AzureStore) Clear(ctx context.Context) error {
	names, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
