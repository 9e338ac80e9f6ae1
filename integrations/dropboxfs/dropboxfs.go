// Package dropboxfs stores generated documents in Dropbox: upload,
// download, and shared-link creation over the official SDK. Errors
// map onto the shared taxonomy by the SDK's error summaries.
package dropboxfs

import (
	"bytes"
	"io"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/sharing"

	"github.com/wudi/docsmith/integrations"
)

const service = "dropbox"

// FileInfo describes one stored file.
type FileInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PathDisplay string `json:"path_display"`
	Size        uint64 `json:"size"`
}

// Store wraps the SDK's files and sharing clients.
type Store struct {
	files   files.Client
	sharing sharing.Client
}

// New builds a store from an access token.
func New(token string) *Store {
	cfg := dropbox.Config{Token: token}
	return &Store{files: files.New(cfg), sharing: sharing.New(cfg)}
}

// NewFromConfig builds a store from a full SDK config, as tests do
// with a stub server behind Config.URLGenerator.
func NewFromConfig(cfg dropbox.Config) *Store {
	return &Store{files: files.New(cfg), sharing: sharing.New(cfg)}
}

// Upload writes data to path, overwriting any existing file. Path
// must be absolute ("/reports/q3.pptx").
func (s *Store) Upload(path string, data []byte) (*FileInfo, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	arg := files.NewUploadArg(path)
	arg.Mode = &files.WriteMode{Tagged: dropbox.Tagged{Tag: "overwrite"}}

	meta, err := s.files.Upload(arg, bytes.NewReader(data))
	if err != nil {
		return nil, mapErr(err)
	}
	return fileInfo(meta), nil
}

// Download reads the file at path.
func (s *Store) Download(path string) (*FileInfo, []byte, error) {
	if err := checkPath(path); err != nil {
		return nil, nil, err
	}
	meta, content, err := s.files.Download(files.NewDownloadArg(path))
	if err != nil {
		return nil, nil, mapErr(err)
	}
	defer content.Close()
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, nil, integrations.WrapTransport(service, err)
	}
	return fileInfo(meta), data, nil
}

// SharedLink returns a public link for path, creating one if needed.
// When a link already exists Dropbox rejects the create; the existing
// link is then looked up and returned.
func (s *Store) SharedLink(path string) (string, error) {
	if err := checkPath(path); err != nil {
		return "", err
	}
	res, err := s.sharing.CreateSharedLinkWithSettings(sharing.NewCreateSharedLinkWithSettingsArg(path))
	if err == nil {
		if url := linkURL(res); url != "" {
			return url, nil
		}
		return "", integrations.Errorf(service, integrations.KindServerError, "link metadata missing url")
	}
	if !strings.Contains(err.Error(), "shared_link_already_exists") {
		return "", mapErr(err)
	}

	listArg := sharing.NewListSharedLinksArg()
	listArg.Path = path
	listArg.DirectOnly = true
	list, err := s.sharing.ListSharedLinks(listArg)
	if err != nil {
		return "", mapErr(err)
	}
	for _, link := range list.Links {
		if url := linkURL(link); url != "" {
			return url, nil
		}
	}
	return "", integrations.Errorf(service, integrations.KindNotFound, "no shared link for %s", path)
}

func fileInfo(meta *files.FileMetadata) *FileInfo {
	if meta == nil {
		return &FileInfo{}
	}
	return &FileInfo{
		ID:          meta.Id,
		Name:        meta.Name,
		PathDisplay: meta.PathDisplay,
		Size:        meta.Size,
	}
}

func linkURL(meta sharing.IsSharedLinkMetadata) string {
	switch m := meta.(type) {
	case *sharing.FileLinkMetadata:
		return m.Url
	case *sharing.FolderLinkMetadata:
		return m.Url
	case *sharing.SharedLinkMetadata:
		return m.Url
	default:
		return ""
	}
}

func checkPath(path string) error {
	if path == "" || !strings.HasPrefix(path, "/") {
		return integrations.Errorf(service, integrations.KindValidation, "path must be absolute, got %q", path)
	}
	return nil
}

// mapErr classifies SDK errors. The generated error types carry the
// Dropbox error summary string; classification keys off its leading
// tag rather than the concrete per-endpoint error types.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	kind := integrations.KindServerError
	switch {
	case strings.Contains(msg, "not_found"):
		kind = integrations.KindNotFound
	case strings.Contains(msg, "invalid_access_token"),
		strings.Contains(msg, "expired_access_token"),
		strings.Contains(msg, "insufficient_permissions"),
		strings.Contains(msg, "missing_scope"):
		kind = integrations.KindAuth
	case strings.Contains(msg, "too_many_requests"),
		strings.Contains(msg, "too_many_write_operations"):
		kind = integrations.KindRateLimited
	case strings.Contains(msg, "malformed_path"),
		strings.Contains(msg, "disallowed_name"):
		kind = integrations.KindValidation
	}
	return &integrations.APIError{Service: service, Kind: kind, Message: msg}
}
