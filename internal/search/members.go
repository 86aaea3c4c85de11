package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/skz_roster/internal/models"
)

const DefaultIndex = "members"

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

// MemberIndex keeps a search copy of members in Elasticsearch.
type MemberIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewMemberIndex(cfg Config) (*MemberIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: new client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}
	return &MemberIndex{es: client, index: index}, nil
}

func (m *MemberIndex) Ping(ctx context.Context) error {
	res, err := m.es.Info(m.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: info: %w", err)
	}
	return checkResponse(res)
}

func (m *MemberIndex) Index(ctx context.Context, member models.Member) error {
	body, err := json.Marshal(member)
	if err != nil {
		return err
	}
	res, err := m.es.Index(m.index, bytes.NewReader(body),
		m.es.Index.WithContext(ctx),
		m.es.Index.WithDocumentID(docID(member.ID)),
		m.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: index member %d: %w", member.ID, err)
	}
	return checkResponse(res)
}

func (m *MemberIndex) Delete(ctx context.Context, id uint) error {
	res, err := m.es.Delete(m.index, docID(id),
		m.es.Delete.WithContext(ctx),
		m.es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: delete member %d: %w", id, err)
	}
	if res.StatusCode == 404 {
		res.Body.Close()
		return nil
	}
	return checkResponse(res)
}

func (m *MemberIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Member, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"stageName^2", "firstName", "lastName", "skzoo"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := m.es.Search(
		m.es.Search.WithContext(ctx),
		m.es.Search.WithIndex(m.index),
		m.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("es: search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Member `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode: %w", err)
	}

	members := make([]models.Member, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		members[i] = hit.Source
	}
	return r.Hits.Total.Value, members, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func checkResponse(res *esapi.Response) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: %s: %s", res.Status(), msg)
	}
	return nil
}
