package mock

import (
	"context"
	"sync"

	"nbd-crr/internal/integrations"
	"nbd-crr/internal/sheet"
	apperrors "nbd-crr/pkg/errors"
)

const ProviderName = "mock"

// MockProvider держит листы в памяти. Нужен для локального запуска и тестов.
type MockProvider struct {
	mu     sync.RWMutex
	tables map[string]*sheet.Table
	failed map[string]error
	calls  map[string]int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		tables: make(map[string]*sheet.Table),
		failed: make(map[string]error),
		calls:  make(map[string]int),
	}
}

var _ integrations.TableProvider = (*MockProvider)(nil)

func (m *MockProvider) Name() string {
	return ProviderName
}

func (m *MockProvider) SetTable(t *sheet.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.Sheet] = t
}

// Fail заставляет чтение листа возвращать err.
func (m *MockProvider) Fail(sheetName string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[sheetName] = err
}

// Calls - сколько раз запрашивали лист.
func (m *MockProvider) Calls(sheetName string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[sheetName]
}

func (m *MockProvider) FetchTable(ctx context.Context, sheetName string) (*sheet.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, &apperrors.NetworkError{Sheet: sheetName, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[sheetName]++

	if err, ok := m.failed[sheetName]; ok {
		return nil, err
	}
	t, ok := m.tables[sheetName]
	if !ok {
		return nil, &apperrors.NetworkError{Sheet: sheetName, StatusCode: 404}
	}
	return t, nil
}
