package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Default grid size for worksheets created on first write.
const (
	newSheetRows = 1000
	newSheetCols = 26
)

// RestClient implements SheetAPI against the Sheets REST API. The
// destination spreadsheet is named per call; the configured id is only the
// default that Connect verifies.
type RestClient struct {
	http          *resty.Client
	spreadsheetID string
	logger        *slog.Logger
}

// NewRestClient creates a client with the configured default spreadsheet.
// Call Connect before first use; nothing initializes lazily.
func NewRestClient(spreadsheetID, token string, logger *slog.Logger) *RestClient {
	client := resty.New()
	client.SetBaseURL(defaultBaseURL)
	client.SetAuthToken(token)

	return &RestClient{
		http:          client,
		spreadsheetID: spreadsheetID,
		logger:        logger.With("component", "sheets_client"),
	}
}

// Connect verifies the default spreadsheet is reachable with the
// configured credentials.
func (c *RestClient) Connect(ctx context.Context) error {
	_, err := c.worksheetTitles(ctx, c.spreadsheetID)
	if err != nil {
		return fmt.Errorf("connect spreadsheet %s: %w", c.spreadsheetID, err)
	}
	c.logger.Info("spreadsheet reachable", "spreadsheet", c.spreadsheetID)
	return nil
}

type spreadsheetMeta struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

func (c *RestClient) worksheetTitles(ctx context.Context, destination string) ([]string, error) {
	var meta spreadsheetMeta
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("fields", "sheets.properties.title").
		SetResult(&meta).
		Get("/spreadsheets/" + url.PathEscape(destination))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get spreadsheet: %s: %s", resp.Status(), resp.String())
	}

	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// EnsureWorksheet implements SheetAPI.
func (c *RestClient) EnsureWorksheet(ctx context.Context, destination, worksheet string) (bool, error) {
	titles, err := c.worksheetTitles(ctx, destination)
	if err != nil {
		return false, err
	}
	for _, t := range titles {
		if t == worksheet {
			return false, nil
		}
	}

	body := map[string]any{
		"requests": []any{
			map[string]any{
				"addSheet": map[string]any{
					"properties": map[string]any{
						"title": worksheet,
						"gridProperties": map[string]any{
							"rowCount":    newSheetRows,
							"columnCount": newSheetCols,
						},
					},
				},
			},
		},
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/spreadsheets/" + url.PathEscape(destination) + ":batchUpdate")
	if err != nil {
		return false, err
	}
	if resp.IsError() {
		return false, fmt.Errorf("add sheet %q: %s: %s", worksheet, resp.Status(), resp.String())
	}
	return true, nil
}

type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values"`
}

// valuesPath builds the values endpoint path for an A1 range, escaping the
// range so worksheet titles with spaces or reserved characters survive the
// URL.
func valuesPath(destination, a1 string) string {
	return "/spreadsheets/" + url.PathEscape(destination) + "/values/" + url.PathEscape(a1)
}

// RowCount implements SheetAPI with a cheap column-A existence probe.
func (c *RestClient) RowCount(ctx context.Context, destination, worksheet string) (int, error) {
	var vr valueRange
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&vr).
		Get(valuesPath(destination, quoteTitle(worksheet)+"!A:A"))
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("read column A of %q: %s: %s", worksheet, resp.Status(), resp.String())
	}
	return len(vr.Values), nil
}

// WriteRange implements SheetAPI.
func (c *RestClient) WriteRange(ctx context.Context, destination, worksheet string, ref RangeRef, values [][]string) error {
	a1 := ref.A1(worksheet)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("valueInputOption", "RAW").
		SetBody(valueRange{Range: a1, MajorDimension: "ROWS", Values: values}).
		Put(valuesPath(destination, a1))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("write %s: %s: %s", a1, resp.Status(), resp.String())
	}
	c.logger.Debug("range written", "spreadsheet", destination, "range", a1, "rows", len(values))
	return nil
}

// ReadRange implements SheetAPI.
func (c *RestClient) ReadRange(ctx context.Context, destination, worksheet string, ref RangeRef) ([][]string, error) {
	a1 := ref.A1(worksheet)
	var vr valueRange
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&vr).
		Get(valuesPath(destination, a1))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("read %s: %s: %s", a1, resp.Status(), resp.String())
	}
	return vr.Values, nil
}
