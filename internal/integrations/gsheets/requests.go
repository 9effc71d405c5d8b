package gsheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "nbd-crr/pkg/errors"
)

func (p *Provider) queryURL(sheetName string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s",
		p.baseURL, url.PathEscape(p.spreadsheetID), encodeComponent(sheetName))
}

// encodeComponent кодирует пробел как %20, а не '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// fetchRaw делает ровно одну попытку; повторов нет.
func (p *Provider) fetchRaw(ctx context.Context, sheetName string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.queryURL(sheetName), nil)
	if err != nil {
		return nil, &apperrors.NetworkError{Sheet: sheetName, Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.NetworkError{Sheet: sheetName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.NetworkError{Sheet: sheetName, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.NetworkError{Sheet: sheetName, Err: err}
	}
	return body, nil
}
