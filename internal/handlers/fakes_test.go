package handlers

import (
	"context"
	"sort"

	"event-platform/internal/gateway"
	"event-platform/internal/models"
	"event-platform/internal/store"
)

// fakeStore is an in-memory ContributionStore.
type fakeStore struct {
	rows      map[int64]*models.Contribution
	nextID    int64
	insertErr error
	markErr   error
	markCalls []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int64]*models.Contribution), nextID: 1}
}

func (f *fakeStore) Insert(c *models.Contribution) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	c.ID = f.nextID
	f.nextID++
	row := *c
	f.rows[c.ID] = &row
	return nil
}

func (f *fakeStore) ListByEvent(eventID int64) ([]models.Contribution, error) {
	out := []models.Contribution{}
	for _, row := range f.rows {
		if row.EventID == eventID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetByID(id int64) (models.Contribution, error) {
	row, ok := f.rows[id]
	if !ok {
		return models.Contribution{}, store.ErrNotFound
	}
	return *row, nil
}

func (f *fakeStore) MarkSuccess(id int64) error {
	f.markCalls = append(f.markCalls, id)
	if f.markErr != nil {
		return f.markErr
	}
	row, ok := f.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	row.Status = models.StatusSuccess
	return nil
}

func (f *fakeStore) Delete(id int64) error {
	if _, ok := f.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeGateway records order-creation calls and returns a canned
// result.
type fakeGateway struct {
	calls     int
	lastOrder gateway.OrderRequest
	result    *gateway.OrderResult
	err       error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, order gateway.OrderRequest) (*gateway.OrderResult, error) {
	f.calls++
	f.lastOrder = order
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testGatewayConfig() gateway.Config {
	return gateway.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      "https://gw.example.com",
		AppURL:       "https://events.example.com",
	}
}
