package mocks

import (
	"context"

	"github.com/new-north/platform-api/internal/suggest"
)

// MockSuggester is a mock implementation of suggest.Suggester
type MockSuggester struct {
	EnhanceFunc  func(ctx context.Context, mode suggest.Mode, text string) string
	TagsFunc     func(ctx context.Context, text string) []string
	EnhanceCalls int
	TagsCalls    int
}

func NewMockSuggester() *MockSuggester {
	return &MockSuggester{}
}

func (m *MockSuggester) Enhance(ctx context.Context, mode suggest.Mode, text string) string {
	m.EnhanceCalls++
	if m.EnhanceFunc != nil {
		return m.EnhanceFunc(ctx, mode, text)
	}
	return text
}

func (m *MockSuggester) Tags(ctx context.Context, text string) []string {
	m.TagsCalls++
	if m.TagsFunc != nil {
		return m.TagsFunc(ctx, text)
	}
	return []string{"general"}
}

// MockStore is a mock implementation of store.Store that lets tests inject
// corrupt documents, backend unavailability and write failures, and count
// store traffic.
type MockStore struct {
	Data        map[string][]byte
	Unavailable bool
	WriteErr    error
	RemoveErr   error
	ReadCalls   int
	WriteCalls  int
	RemoveCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{Data: make(map[string][]byte)}
}

func (m *MockStore) Read(key string) ([]byte, bool) {
	m.ReadCalls++
	if m.Unavailable {
		return nil, false
	}
	data, ok := m.Data[key]
	return data, ok
}

func (m *MockStore) Write(key string, data []byte) error {
	m.WriteCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Data[key] = data
	return nil
}

func (m *MockStore) Remove(key string) error {
	m.RemoveCalls++
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Data, key)
	return nil
}
