package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/orderlens/backend/internal/domain"
	"github.com/orderlens/backend/internal/infrastructure/dictionary"
)

// sampleDictionaryPath is the dictionary shipped in data/. Keyword positions
// the tests rely on, longest name first:
//
//	menu:   디카페인아메리카노 1, 카라멜마키아또 2, 자몽허니블랙티 3, 아메리카노 4,
//	        바닐라라떼 5, 품절스무디 6 (stock 0), 카페라떼 7, 라떼 8
//	size:   그란데 1, 벤티 2, 톨 3, 숏 4
//	amount: 많이 1, 보통 2, 적게 3
//	milk:   오트밀우유 1, 일반우유 2, 두유 3
const sampleDictionaryPath = "../../data/keywords.yaml"

func loadDictionary(t testing.TB) *domain.Dictionary {
	t.Helper()
	dict, err := dictionary.LoadFile(sampleDictionaryPath, dictionary.FormatAuto)
	if err != nil {
		t.Fatalf("load sample dictionary: %v", err)
	}
	return dict
}

func newTestAccumulator(t *testing.T, tokenized bool) (*OrderAccumulator, *domain.Dictionary) {
	t.Helper()
	matcher := NewKeywordMatcher(MatchConfig{}, nil)
	return NewOrderAccumulator(matcher, AccumulatorConfig{Tokenized: tokenized}, nil), loadDictionary(t)
}

// MockSessionRepository is an in-memory domain.SessionRepository
type MockSessionRepository struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	nextID    int
	createErr error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	now := time.Now()
	s := &domain.Session{ID: fmt.Sprintf("session-%d", m.nextID), CreatedAt: now, UpdatedAt: now}
	m.sessions[s.ID] = s
	copied := *s
	return &copied, nil
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *MockSessionRepository) Update(ctx context.Context, id string, fn func(*domain.OrderSlots) error) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	order := s.Order
	if err := fn(&order); err != nil {
		return nil, err
	}
	s.Order = order
	s.Turns++
	s.UpdatedAt = time.Now()
	copied := *s
	return &copied, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// MockDictionaryProvider serves a fixed dictionary or error
type MockDictionaryProvider struct {
	dict *domain.Dictionary
	err  error
}

func (m *MockDictionaryProvider) Current() (*domain.Dictionary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.dict, nil
}

// MockTurnObserver records what the service reports
type MockTurnObserver struct {
	mu       sync.Mutex
	outcomes []string
	matches  []string
}

func (m *MockTurnObserver) ObserveTurn(outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *MockTurnObserver) ObserveMatch(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = append(m.matches, category)
}

// buildDictionary gives every required category one keyword, then applies
// overrides.
func buildDictionary(t *testing.T, overrides map[domain.Category][]domain.KeywordEntry) *domain.Dictionary {
	t.Helper()
	entries := map[domain.Category][]domain.KeywordEntry{
		domain.CategoryMenu:          {{Name: "아메리카노"}},
		domain.CategoryTemperature:   {{Name: "아이스"}, {Name: "핫"}},
		domain.CategorySize:          {{Name: "벤티"}, {Name: "톨"}},
		domain.CategoryCoffeeBean:    {{Name: "다크로스트"}},
		domain.CategoryCaffeineLevel: {{Name: "15%"}},
		domain.CategorySyrup:         {{Name: "바닐라시럽"}},
		domain.CategoryPowder:        {{Name: "초코파우더"}},
		domain.CategoryDrizzle:       {{Name: "카라멜드리즐"}},
		domain.CategoryWhippingCream: {{Name: "휘핑크림"}},
		domain.CategoryMilk:          {{Name: "두유"}},
		domain.CategoryTopping:       {{Name: "쿠키"}},
		domain.CategoryAmount:        {{Name: "많이"}, {Name: "보통"}},
		domain.CategoryQuantity:      {{Name: "1개"}},
	}
	for c, list := range overrides {
		entries[c] = list
	}
	dict, err := domain.NewDictionary("test", entries)
	if err != nil {
		t.Fatalf("build dictionary: %v", err)
	}
	return dict
}
