package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/moyora/dinner-api/internal/entity"
)

const eventIndex = "events"

// EventSearchService keeps the event discovery index in Meilisearch. Indexing
// is best-effort; the database stays the source of truth and the event service
// falls back to it when search is unavailable.
type EventSearchService interface {
	IndexEvent(event *entity.Event) error
	DeleteEvent(id string) error
	SearchOpenEvents(query, area string, limit int) ([]uuid.UUID, error)
}

type eventSearchService struct {
	client meilisearch.ServiceManager
}

type meiliEventDoc struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Area      string `json:"area"`
	Status    string `json:"status"`
	EventDate int64  `json:"event_date"`
}

func NewEventSearchService(client meilisearch.ServiceManager) EventSearchService {
	s := &eventSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *eventSearchService) initIndexes() {
	filterableAttrs := []string{"area", "status"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(eventIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update events filterable attributes: %v", err)
	}

	sortableAttrs := []string{"event_date"}
	if _, err := s.client.Index(eventIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update events sortable attributes: %v", err)
	}
}

func (s *eventSearchService) IndexEvent(event *entity.Event) error {
	doc := meiliEventDoc{
		ID:        event.ID.String(),
		Title:     event.Title,
		Area:      event.Area,
		Status:    event.Status,
		EventDate: event.EventDate.Unix(),
	}

	_, err := s.client.Index(eventIndex).AddDocuments([]meiliEventDoc{doc}, strPtr("id"))
	return err
}

func (s *eventSearchService) DeleteEvent(id string) error {
	_, err := s.client.Index(eventIndex).DeleteDocument(id)
	return err
}

func (s *eventSearchService) SearchOpenEvents(query, area string, limit int) ([]uuid.UUID, error) {
	filters := []string{fmt.Sprintf("status = %q", entity.EventOpen)}
	if area != "" {
		filters = append(filters, fmt.Sprintf("area = %q", area))
	}

	resp, err := s.client.Index(eventIndex).Search(query, &meilisearch.SearchRequest{
		Filter: strings.Join(filters, " AND "),
		Limit:  int64(limit),
		Sort:   []string{"event_date:asc"},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc meiliEventDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
