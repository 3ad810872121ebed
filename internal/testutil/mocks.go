package testutil

import (
	"mediawall/internal/models"
	"mediawall/internal/providers"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu     sync.Mutex
	Logs   []LogEntry
	Closed bool
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu           sync.Mutex
	Outcomes     map[string]int
	LedgerSizes  map[string]int
	BytesServed  map[string]int64
	Writes       map[string]int
	CacheHits    int
	CacheMisses  int
	RequestCalls int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Outcomes:    make(map[string]int),
		LedgerSizes: make(map[string]int),
		BytesServed: make(map[string]int64),
		Writes:      make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCalls++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(ledger string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes[ledger]++
}
func (m *MockMetrics) SetLedgerEntries(ledger string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LedgerSizes[ledger] = count
}
func (m *MockMetrics) AddBytesServed(class string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BytesServed[class] += n
}
func (m *MockMetrics) IncSuggestionOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes[outcome]++
}

// MockCorpus implements services.CorpusInterface with a fixed list of
// implemented texts, matched case-insensitively as substrings.
type MockCorpus struct {
	mu   sync.Mutex
	Done []string
}

func (m *MockCorpus) Add(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Done = append(m.Done, text)
}

func (m *MockCorpus) Contains(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(text)
	for _, d := range m.Done {
		if strings.Contains(strings.ToLower(d), needle) {
			return true
		}
	}
	return false
}

// MockLikesService implements services.LikesServiceInterface.
type MockLikesService struct {
	mu       sync.Mutex
	Count    int64
	Err      error
	AddCalls []LikeCall
}

type LikeCall struct {
	IP        string
	UserAgent string
	Meta      *models.ClientMetadata
}

func (m *MockLikesService) Total() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Count, m.Err
}

func (m *MockLikesService) Add(ip, userAgent string, meta *models.ClientMetadata) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.AddCalls = append(m.AddCalls, LikeCall{IP: ip, UserAgent: userAgent, Meta: meta})
	m.Count++
	return m.Count, nil
}

// MockSuggestionService implements services.SuggestionServiceInterface.
// SubmitErr is returned together with Items from Submit.
type MockSuggestionService struct {
	mu          sync.Mutex
	Items       []models.SuggestionEntry
	ListErr     error
	SubmitErr   error
	SubmitCalls []SubmitCall
}

type SubmitCall struct {
	Client string
	Text   string
}

func (m *MockSuggestionService) List() ([]models.SuggestionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Items, m.ListErr
}

func (m *MockSuggestionService) Submit(client, text string) ([]models.SuggestionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitCalls = append(m.SubmitCalls, SubmitCall{Client: client, Text: text})
	return m.Items, m.SubmitErr
}

// MockTextsService implements services.TextsServiceInterface.
type MockTextsService struct {
	mu      sync.Mutex
	List    []string
	Version string
	Calls   int
}

func (m *MockTextsService) Texts() ([]string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.List, m.Version
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}
