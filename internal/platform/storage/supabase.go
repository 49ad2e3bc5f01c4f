package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"portfolio/internal/logger"

	"github.com/antoineross/supabase-go"
	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore writes objects to a public Supabase storage bucket.
type SupabaseStore struct {
	client  *supabase.Client
	baseURL string
	bucket  string
	log     *logger.Logger
}

func NewSupabaseStore(baseURL, serviceKey, bucket string) (*SupabaseStore, error) {
	if baseURL == "" || serviceKey == "" || bucket == "" {
		return nil, errors.New("supabase storage requires url, service key and bucket")
	}
	client, err := supabase.NewClient(baseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}
	return &SupabaseStore{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
		log:     logger.New("SupabaseStore"),
	}, nil
}

// Put uploads body under key, overwriting any existing object, and returns
// the object's public URL.
func (s *SupabaseStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := true
	if _, err := s.client.Storage.UploadFile(s.bucket, key, body, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}); err != nil {
		return "", fmt.Errorf("supabase upload failed: %w", err)
	}
	publicURL := s.PublicURL(key)
	s.log.LogDebugf("uploaded %s -> %s", key, publicURL)
	return publicURL, nil
}

// PublicURL is the address of key in the bucket's public object endpoint.
func (s *SupabaseStore) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, url.PathEscape(s.bucket), strings.Join(segments, "/"))
}
