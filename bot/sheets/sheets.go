package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"birthdaybot/bot/models"

	"github.com/pkg/errors"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com"
	serviceName    = "sheets"
	maxErrorBody   = 64 << 10
)

// Client reads cell ranges from the Google Sheets v4 values endpoint using
// an API key.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		HTTPClient: http.DefaultClient,
	}
}

type valueRange struct {
	Range          string      `json:"range"`
	MajorDimension string      `json:"majorDimension"`
	Values         *[][]string `json:"values"`
}

// FetchRows reads cellRange from the spreadsheet and maps each returned row
// to (name, date, handle) by position.
func (c *Client) FetchRows(ctx context.Context, spreadsheetId, cellRange string) ([]models.BirthdayRow, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		strings.TrimRight(c.BaseURL, "/"), url.PathEscape(spreadsheetId), url.PathEscape(cellRange))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build spreadsheet request")
	}
	req.Header.Set("X-goog-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamFetchError{Service: serviceName, Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &models.UpstreamFetchError{Service: serviceName, Status: resp.StatusCode, Body: string(body)}
	}

	var payload valueRange
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &models.MalformedResponseError{Service: serviceName, Reason: err.Error()}
	}

	// The API omits "values" entirely when the range holds no data.
	if payload.Values == nil {
		return nil, nil
	}

	return parseRows(*payload.Values)
}

func parseRows(values [][]string) ([]models.BirthdayRow, error) {
	rows := make([]models.BirthdayRow, 0, len(values))

	for i, cells := range values {
		if isBlank(cells) {
			continue
		}

		if len(cells) < 3 {
			// i is zero-based and the range starts at row 2
			return nil, &models.MalformedResponseError{
				Service: serviceName,
				Reason:  fmt.Sprintf("row %d has %d cells, expected name, date and handle", i+2, len(cells)),
			}
		}

		rows = append(rows, models.BirthdayRow{
			Name:    strings.TrimSpace(cells[0]),
			RawDate: strings.TrimSpace(cells[1]),
			Handle:  strings.TrimSpace(cells[2]),
		})
	}

	return rows, nil
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
