package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	errs "expense-assistant/internal/common/errors"
	"expense-assistant/internal/timerange"
)

const transactionsIndex = "transactions"

// SearchIndex answers free-text description searches from Elasticsearch.
// The durable store remains the source of truth; the index only speeds up
// and fuzzes the search operation.
type SearchIndex struct {
	client     *elasticsearch.Client
	maxResults int
}

func NewSearchIndex(client *elasticsearch.Client, maxResults int) *SearchIndex {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &SearchIndex{client: client, maxResults: maxResults}
}

// Index writes a transaction document so later searches can find it.
func (s *SearchIndex) Index(ctx context.Context, tx *Transaction) error {
	body, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      transactionsIndex,
		DocumentID: tx.ID,
		Body:       strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errs.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index transaction: %s", res.String())
	}
	return nil
}

// Search runs a fuzzy match on descriptions inside the interval.
func (s *SearchIndex) Search(ctx context.Context, userID int64, iv timerange.Interval, query string) ([]Transaction, error) {
	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"match": map[string]interface{}{
							"description": map[string]interface{}{
								"query":     query,
								"fuzziness": "AUTO",
							},
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"user_id": userID},
					},
					map[string]interface{}{
						"range": map[string]interface{}{
							"occurred_at": map[string]interface{}{
								"gte": iv.Start.Format(time.RFC3339Nano),
								"lte": iv.End.Format(time.RFC3339Nano),
							},
						},
					},
				},
			},
		},
		"size": s.maxResults,
		"sort": []interface{}{
			map[string]interface{}{"occurred_at": map[string]interface{}{"order": "asc"}},
		},
	}

	body, _ := json.Marshal(queryBody)
	req := esapi.SearchRequest{
		Index: []string{transactionsIndex},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errs.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source Transaction `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]Transaction, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}
