package actions

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/wudi/docsmith/integrations/bitly"
	"github.com/wudi/docsmith/integrations/dropboxfs"
	"github.com/wudi/docsmith/integrations/gsheets"
	"github.com/wudi/docsmith/integrations/serpapi"
	"github.com/wudi/docsmith/integrations/zoom"
)

// The provider interfaces are the narrow slices of the integration
// clients the actions call. The concrete clients satisfy them
// directly; tests substitute fakes.

// LinkShortener shortens URLs.
type LinkShortener interface {
	Shorten(ctx context.Context, longURL, groupGUID string) (*bitly.Link, error)
}

// Searcher runs web and image searches.
type Searcher interface {
	SearchWeb(ctx context.Context, query, cursor string) (*serpapi.WebPage, error)
	SearchImages(ctx context.Context, query, cursor string) (*serpapi.ImagePage, error)
}

// SheetService reads and appends spreadsheet rows.
type SheetService interface {
	ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
	AppendRow(ctx context.Context, spreadsheetID, tableRange string, values []string) (string, error)
}

// FileStore uploads files and shares them.
type FileStore interface {
	Upload(path string, data []byte) (*dropboxfs.FileInfo, error)
	SharedLink(path string) (string, error)
}

// MeetingScheduler creates meetings.
type MeetingScheduler interface {
	CreateMeeting(ctx context.Context, req zoom.CreateMeetingRequest) (*zoom.Meeting, error)
}

// Providers bundles the remote backends. Nil fields leave the
// matching actions unregistered rather than failing at call time.
type Providers struct {
	Links    LinkShortener
	Search   Searcher
	Sheets   SheetService
	Storage  FileStore
	Meetings MeetingScheduler
}

// SheetsFromService adapts the concrete sheets client.
func SheetsFromService(svc *gsheets.Service) SheetService { return svc }

type LinksShortenInput struct {
	LongURL   string `json:"long_url"`
	GroupGUID string `json:"group_guid,omitempty"`
}

type LinksShortenOutput struct {
	Link    string `json:"link"`
	ID      string `json:"id"`
	LongURL string `json:"long_url"`
}

func (s *Service) LinksShorten(ctx context.Context, in LinksShortenInput) (LinksShortenOutput, error) {
	link, err := s.providers.Links.Shorten(ctx, in.LongURL, in.GroupGUID)
	if err != nil {
		return LinksShortenOutput{}, err
	}
	return LinksShortenOutput{Link: link.Link, ID: link.ID, LongURL: link.LongURL}, nil
}

type SearchInput struct {
	Query  string `json:"query"`
	Cursor string `json:"cursor,omitempty"`
}

func (s *Service) SearchWeb(ctx context.Context, in SearchInput) (*serpapi.WebPage, error) {
	return s.providers.Search.SearchWeb(ctx, in.Query, in.Cursor)
}

func (s *Service) SearchImages(ctx context.Context, in SearchInput) (*serpapi.ImagePage, error) {
	return s.providers.Search.SearchImages(ctx, in.Query, in.Cursor)
}

type SheetsReadInput struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Range         string `json:"range"`
}

type SheetsReadOutput struct {
	Rows [][]string `json:"rows"`
}

func (s *Service) SheetsRead(ctx context.Context, in SheetsReadInput) (SheetsReadOutput, error) {
	rows, err := s.providers.Sheets.ReadRange(ctx, in.SpreadsheetID, in.Range)
	if err != nil {
		return SheetsReadOutput{}, err
	}
	return SheetsReadOutput{Rows: rows}, nil
}

type SheetsAppendInput struct {
	SpreadsheetID string   `json:"spreadsheet_id"`
	Range         string   `json:"range"`
	Values        []string `json:"values"`
}

type SheetsAppendOutput struct {
	UpdatedRange string `json:"updated_range"`
}

func (s *Service) SheetsAppend(ctx context.Context, in SheetsAppendInput) (SheetsAppendOutput, error) {
	updated, err := s.providers.Sheets.AppendRow(ctx, in.SpreadsheetID, in.Range, in.Values)
	if err != nil {
		return SheetsAppendOutput{}, err
	}
	return SheetsAppendOutput{UpdatedRange: updated}, nil
}

type StorageUploadInput struct {
	Path  string `json:"path"`
	Data  string `json:"data_base64"`
	Share bool   `json:"share,omitempty"`
}

type StorageUploadOutput struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Size      uint64 `json:"size"`
	SharedURL string `json:"shared_url,omitempty"`
}

// StorageUpload is the save-generated-document path: callers export a
// deck and push the bytes straight to storage.
func (s *Service) StorageUpload(ctx context.Context, in StorageUploadInput) (StorageUploadOutput, error) {
	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return StorageUploadOutput{}, validationErr("decode file data: %v", err)
	}
	info, err := s.providers.Storage.Upload(in.Path, data)
	if err != nil {
		return StorageUploadOutput{}, err
	}
	out := StorageUploadOutput{ID: info.ID, Path: info.PathDisplay, Size: info.Size}
	if in.Share {
		url, err := s.providers.Storage.SharedLink(in.Path)
		if err != nil {
			return StorageUploadOutput{}, err
		}
		out.SharedURL = url
	}
	return out, nil
}

type MeetingsCreateInput struct {
	Topic    string `json:"topic"`
	Start    string `json:"start,omitempty"` // RFC 3339
	Duration int    `json:"duration_min,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Agenda   string `json:"agenda,omitempty"`
}

type MeetingsCreateOutput struct {
	ID       int64  `json:"id"`
	Topic    string `json:"topic"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url,omitempty"`
	Start    string `json:"start,omitempty"`
}

func (s *Service) MeetingsCreate(ctx context.Context, in MeetingsCreateInput) (MeetingsCreateOutput, error) {
	req := zoom.CreateMeetingRequest{
		Topic:    in.Topic,
		Duration: in.Duration,
		Timezone: in.Timezone,
		Agenda:   in.Agenda,
	}
	if in.Start != "" {
		start, err := time.Parse(time.RFC3339, in.Start)
		if err != nil {
			return MeetingsCreateOutput{}, validationErr("start: %v", err)
		}
		req.Start = start
	}
	meeting, err := s.providers.Meetings.CreateMeeting(ctx, req)
	if err != nil {
		return MeetingsCreateOutput{}, err
	}
	return MeetingsCreateOutput{
		ID:       meeting.ID,
		Topic:    meeting.Topic,
		JoinURL:  meeting.JoinURL,
		StartURL: meeting.StartURL,
		Start:    meeting.StartTime,
	}, nil
}

func (s *Service) registerRemoteActions(r *Registry) error {
	var regs []error
	if s.providers.Links != nil {
		regs = append(regs, Register(r, "links.shorten", "Shorten a URL with Bitly", s.LinksShorten))
	}
	if s.providers.Search != nil {
		regs = append(regs,
			Register(r, "search.web", "Run a web search via SerpAPI", s.SearchWeb),
			Register(r, "search.images", "Run an image search via SerpAPI", s.SearchImages))
	}
	if s.providers.Sheets != nil {
		regs = append(regs,
			Register(r, "sheets.read", "Read a range from a Google Sheet", s.SheetsRead),
			Register(r, "sheets.append", "Append a row to a Google Sheet", s.SheetsAppend))
	}
	if s.providers.Storage != nil {
		regs = append(regs, Register(r, "storage.upload", "Upload a file to Dropbox, optionally sharing it", s.StorageUpload))
	}
	if s.providers.Meetings != nil {
		regs = append(regs, Register(r, "meetings.create", "Schedule a Zoom meeting", s.MeetingsCreate))
	}
	for _, err := range regs {
		if err != nil {
			return err
		}
	}
	return nil
}
