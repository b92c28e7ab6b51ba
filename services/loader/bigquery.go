package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"sjsage522/priceworker/logger"
	"sjsage522/priceworker/pkg/errors"
)

// BigQueryLoader streams rows into a BigQuery table via the tabledata
// insertAll REST endpoint.
type BigQueryLoader struct {
	client      *http.Client
	tokenSource oauth2.TokenSource
	endpoint    string
	project     string
	dataset     string
	table       string
	log         *logger.Logger
}

// NewBigQueryLoader creates a new BigQuery streaming loader.
// The endpoint is the API base URL, normally https://bigquery.googleapis.com.
func NewBigQueryLoader(endpoint, project, dataset, table string, tokenSource oauth2.TokenSource) *BigQueryLoader {
	return &BigQueryLoader{
		client:      &http.Client{Timeout: 10 * time.Second},
		tokenSource: tokenSource,
		endpoint:    endpoint,
		project:     project,
		dataset:     dataset,
		table:       table,
		log:         logger.ForLoader(),
	}
}

type insertAllRequest struct {
	Rows []insertAllRow `json:"rows"`
}

type insertAllRow struct {
	JSON Row `json:"json"`
}

type insertAllResponse struct {
	InsertErrors []struct {
		Index  int `json:"index"`
		Errors []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"insertErrors"`
}

// Load streams the batch into the destination table. The call is
// atomic from the pipeline's point of view: any HTTP failure or any
// per-row insert error fails the whole batch.
func (l *BigQueryLoader) Load(ctx context.Context, rows []Row, schema Schema) error {
	if err := validateRows(rows, schema); err != nil {
		return err
	}

	body := insertAllRequest{Rows: make([]insertAllRow, 0, len(rows))}
	for _, row := range rows {
		body.Rows = append(body.Rows, insertAllRow{JSON: row})
	}

	data, err := json.Marshal(body)
	if err != nil {
		return errors.NewLoad("bigquery", "failed to encode insertAll request", err)
	}

	url := fmt.Sprintf("%s/bigquery/v2/projects/%s/datasets/%s/tables/%s/insertAll",
		l.endpoint, l.project, l.dataset, l.table)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return errors.NewLoad("bigquery", "failed to create insertAll request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := l.tokenSource.Token()
	if err != nil {
		return errors.NewLoad("bigquery", "failed to obtain access token", err)
	}
	token.SetAuthHeader(req)

	resp, err := l.client.Do(req)
	if err != nil {
		return errors.NewLoad("bigquery", "insertAll request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewLoad("bigquery", "failed to read insertAll response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewLoad("bigquery",
			fmt.Sprintf("insertAll returned status %d: %s", resp.StatusCode, truncate(respBody, 300)), nil)
	}

	var parsed insertAllResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return errors.NewLoad("bigquery", "failed to parse insertAll response", err)
	}

	if len(parsed.InsertErrors) > 0 {
		first := parsed.InsertErrors[0]
		detail := ""
		if len(first.Errors) > 0 {
			detail = fmt.Sprintf(": %s - %s", first.Errors[0].Reason, first.Errors[0].Message)
		}
		return errors.NewLoad("bigquery",
			fmt.Sprintf("%d rows rejected, first at index %d%s", len(parsed.InsertErrors), first.Index, detail), nil)
	}

	l.log.Info().
		Int("rows", len(rows)).
		Str("table", fmt.Sprintf("%s.%s.%s", l.project, l.dataset, l.table)).
		Msg("Stream initiated")

	return nil
}

// validateRows checks that every row carries exactly the schema fields.
func validateRows(rows []Row, schema Schema) error {
	for i, row := range rows {
		if len(row) != len(schema) {
			return errors.NewLoad("bigquery",
				fmt.Sprintf("row %d has %d fields, schema has %d", i, len(row), len(schema)), nil)
		}
		for _, field := range schema {
			if _, ok := row[field.Name]; !ok {
				return errors.NewLoad("bigquery",
					fmt.Sprintf("row %d is missing field %q", i, field.Name), nil)
			}
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
