package search

import (
	"real-estate-marketplace/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// Client keeps the listing search index in step with the property store.
// The store stays the source of truth; the index only serves the public
// substring+sort listing endpoint.
type Client struct {
	client *meilisearch.Client
	index  string
}

func NewClient(host, apiKey string) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &Client{
		client: client,
		index:  "properties",
	}
}

// InitIndex initializes the Meilisearch index
func (s *Client) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"location",
		"agent_name",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexProperty indexes a single property
func (s *Client) IndexProperty(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Property{*property})
	return err
}

// RemoveProperties deletes documents by id
func (s *Client) RemoveProperties(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).DeleteDocuments(ids)
	return err
}

// Search runs a substring query with an optional sort key
func (s *Client) Search(query, sortBy string, limit int64) ([]models.Property, error) {
	if limit == 0 {
		limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit: limit,
	}
	switch sortBy {
	case "price_asc":
		searchReq.Sort = []string{"price:asc"}
	case "price_desc":
		searchReq.Sort = []string{"price:desc"}
	}

	searchRes, err := s.client.Index(s.index).Search(query, searchReq)
	if err != nil {
		return nil, err
	}

	properties := make([]models.Property, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		properties = append(properties, parsePropertyFromHit(hit))
	}
	return properties, nil
}

// parsePropertyFromHit converts a search hit to a Property
func parsePropertyFromHit(hit interface{}) models.Property {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Property{}
	}
	return models.Property{
		ID:         getString(hitMap, "id"),
		Title:      getString(hitMap, "title"),
		Location:   getString(hitMap, "location"),
		Price:      getString(hitMap, "price"),
		ImageURL:   getString(hitMap, "image_url"),
		AgentName:  getString(hitMap, "agent_name"),
		AgentEmail: getString(hitMap, "agent_email"),
		Status:     models.PropertyStatus(getString(hitMap, "status")),
	}
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}
