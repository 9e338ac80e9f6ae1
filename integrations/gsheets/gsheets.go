// Package gsheets is a typed client for Google Sheets: read a range,
// append a row, create a spreadsheet. It wraps the official API
// client and maps googleapi errors onto the shared taxonomy.
package gsheets

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/wudi/docsmith/integrations"
)

const service = "gsheets"

// SpreadsheetInfo identifies a created spreadsheet.
type SpreadsheetInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Service calls the Sheets API on behalf of one credential.
type Service struct {
	svc *sheets.Service
}

// New builds a service with a token source. Additional client options
// (endpoint overrides in tests) append after the token source.
func New(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Service, error) {
	all := make([]option.ClientOption, 0, len(opts)+1)
	if ts != nil {
		all = append(all, option.WithTokenSource(ts))
	}
	all = append(all, opts...)
	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("gsheets: build service: %w", err)
	}
	return &Service{svc: svc}, nil
}

// ReadRange returns the cell values of an A1-notation range, as
// strings row by row.
func (s *Service) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	if spreadsheetID == "" || readRange == "" {
		return nil, integrations.Errorf(service, integrations.KindValidation, "spreadsheet id and range are required")
	}
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, mapErr(err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

// AppendRow appends one row after the table found at the given range
// and returns the range the cells landed in.
func (s *Service) AppendRow(ctx context.Context, spreadsheetID, tableRange string, values []string) (string, error) {
	if spreadsheetID == "" || tableRange == "" {
		return "", integrations.Errorf(service, integrations.KindValidation, "spreadsheet id and range are required")
	}
	if len(values) == 0 {
		return "", integrations.Errorf(service, integrations.KindValidation, "row values are required")
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	resp, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, tableRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", mapErr(err)
	}
	if resp.Updates != nil {
		return resp.Updates.UpdatedRange, nil
	}
	return "", nil
}

// CreateSpreadsheet creates an empty spreadsheet with the given title.
func (s *Service) CreateSpreadsheet(ctx context.Context, title string) (*SpreadsheetInfo, error) {
	if title == "" {
		return nil, integrations.Errorf(service, integrations.KindValidation, "title is required")
	}
	req := &sheets.Spreadsheet{Properties: &sheets.SpreadsheetProperties{Title: title}}
	resp, err := s.svc.Spreadsheets.Create(req).Context(ctx).Do()
	if err != nil {
		return nil, mapErr(err)
	}
	info := &SpreadsheetInfo{ID: resp.SpreadsheetId, URL: resp.SpreadsheetUrl, Title: title}
	if resp.Properties != nil && resp.Properties.Title != "" {
		info.Title = resp.Properties.Title
	}
	return info, nil
}

// mapErr converts a googleapi error into the shared taxonomy.
func mapErr(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &integrations.APIError{
			Service: service,
			Kind:    integrations.KindFromStatus(gerr.Code),
			Status:  gerr.Code,
			Message: gerr.Message,
		}
	}
	return integrations.WrapTransport(service, err)
}
