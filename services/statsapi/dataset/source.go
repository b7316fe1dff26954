// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// =============================================================================
// Source
// =============================================================================

// Source fetches one named snapshot document from the configured location.
type Source interface {
	// Fetch returns the raw bytes of the named snapshot object.
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// OpenSource builds a Source for the given location. The scheme selects the
// implementation:
//
//   - bare path or file:// — local directory
//   - http:// or https://  — HTTP GET of <location>/<name>
//   - gs://bucket/prefix   — Google Cloud Storage objects
//
// credentialsFile is only consulted for gs:// locations; when empty the GCS
// client uses application default credentials.
func OpenSource(ctx context.Context, location, credentialsFile string) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("snapshot location is empty")
	}

	switch {
	case strings.HasPrefix(location, "file://"):
		return &fileSource{dir: strings.TrimPrefix(location, "file://")}, nil

	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		base, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot location %q: %w", location, err)
		}
		return &httpSource{
			base:   base,
			client: &http.Client{Timeout: 30 * time.Second},
		}, nil

	case strings.HasPrefix(location, "gs://"):
		bucket, prefix, err := splitGCSLocation(location)
		if err != nil {
			return nil, err
		}
		var opts []option.ClientOption
		if credentialsFile != "" {
			if _, err := os.Stat(credentialsFile); err != nil {
				return nil, fmt.Errorf("GCS credentials file %s: %w", credentialsFile, err)
			}
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
		}
		return &gcsSource{bucket: client.Bucket(bucket), prefix: prefix}, nil

	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("unsupported snapshot location scheme in %q", location)

	default:
		return &fileSource{dir: location}, nil
	}
}

func splitGCSLocation(location string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(location, "gs://")
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid GCS snapshot location %q: missing bucket", location)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// =============================================================================
// Local Files
// =============================================================================

type fileSource struct {
	dir string
}

func (s *fileSource) Fetch(_ context.Context, name string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	return raw, nil
}

// =============================================================================
// HTTP
// =============================================================================

type httpSource struct {
	base   *url.URL
	client *http.Client
}

func (s *httpSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := *s.base
	u.Path = path.Join(u.Path, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for snapshot %s: %w", name, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch snapshot %s: status %d", name, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s body: %w", name, err)
	}
	return raw, nil
}

// =============================================================================
// Google Cloud Storage
// =============================================================================

type gcsSource struct {
	bucket *storage.BucketHandle
	prefix string
}

func (s *gcsSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	object := name
	if s.prefix != "" {
		object = s.prefix + "/" + name
	}
	reader, err := s.bucket.Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object %s: %w", object, err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %s: %w", object, err)
	}
	return raw, nil
}
