// Package detail fetches per-document enrichment (address and parcel
// descriptions) from the portal's docDetail endpoint, authorized by the
// credential captured from the browser session.
package detail

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/laredo-harvester/internal/types"
)

const (
	detailPath = "/LaredoAnywhere/LaredoAnywhere.WebService/api/docDetail"
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.7049.42 Safari/537.36"
)

// Client wraps the portal's detail endpoint. Enrichment is best-effort: any
// transport or parse failure yields an empty supplement, never an error that
// could block aggregation.
type Client struct {
	http *resty.Client
}

// NewClient builds a client against baseURL (the portal origin).
func NewClient(baseURL string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Accept", "application/json, text/plain, */*")
	client.SetHeader("User-Agent", userAgent)
	return &Client{http: client}
}

type legalEntry struct {
	LegalType   string `json:"legalType"`
	Description string `json:"description"`
}

type detailResponse struct {
	Document struct {
		LegalList []legalEntry `json:"legalList"`
	} `json:"document"`
}

// FetchDetail issues one authenticated detail request for the portal's
// internal document id. Within the legal-description list, entries typed "A"
// become addresses and entries typed "P" become parcels, order preserved.
func (c *Client) FetchDetail(ctx context.Context, authToken string, searchDocID json.RawMessage) types.DetailSupplement {
	supplement := types.DetailSupplement{Addresses: []string{}, Parcels: []string{}}
	if len(searchDocID) == 0 || authToken == "" {
		return supplement
	}

	var result detailResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", authToken).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"searchDocId":          searchDocID,
			"searchResultId":       nil,
			"searchResultAuthCode": nil,
		}).
		SetResult(&result).
		Post(detailPath)
	if err != nil {
		slog.WarnContext(ctx, "doc detail request failed", "err", err)
		return supplement
	}
	if res.IsError() {
		slog.WarnContext(ctx, "doc detail request rejected", "status", res.StatusCode())
		return supplement
	}

	for _, legal := range result.Document.LegalList {
		switch legal.LegalType {
		case "A":
			supplement.Addresses = append(supplement.Addresses, legal.Description)
		case "P":
			supplement.Parcels = append(supplement.Parcels, legal.Description)
		}
	}
	return supplement
}
