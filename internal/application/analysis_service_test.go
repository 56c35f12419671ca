package application

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/detection"
	"github.com/phishguard/phishguard/internal/domain/ml"
	"github.com/phishguard/phishguard/internal/domain/scoring"
	"github.com/phishguard/phishguard/internal/domain/urlanalysis"
)

// stubSSL returns a fixed record for every host
type stubSSL struct{ info domain.SSLInfo }

func (s stubSSL) CheckSSL(ctx context.Context, host string) domain.SSLInfo { return s.info }

// stubAge returns a fixed record for every host
type stubAge struct{ info domain.DomainAgeInfo }

func (s stubAge) DomainAge(ctx context.Context, host string) domain.DomainAgeInfo { return s.info }

// memStore records created analyses in memory
type memStore struct {
	mu      sync.Mutex
	records []domain.AnalysisRecord
}

func (m *memStore) CreateAnalysis(ctx context.Context, r *domain.AnalysisRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *r)
	return nil
}

func (m *memStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error) {
	return nil, nil
}

func (m *memStore) RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	return nil, nil
}

func (m *memStore) CountByClassification(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range m.records {
		counts[r.Classification]++
	}
	return counts, nil
}

func (m *memStore) Close() error { return nil }

var (
	testURLClf  *ml.Classifier
	testTextClf *ml.Classifier
	clfOnce     sync.Once
)

func testClassifiers() (*ml.Classifier, *ml.Classifier) {
	clfOnce.Do(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		testURLClf, testTextClf = ml.BuildClassifiers(ml.BootstrapConfig{}, logger)
	})
	return testURLClf, testTextClf
}

func newTestService(ssl stubSSL, age stubAge, store *memStore) *AnalysisService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	urlClf, textClf := testClassifiers()

	svc := NewAnalysisService(
		logger,
		detection.NewBank(),
		urlanalysis.NewAnalyzer(),
		urlClf,
		textClf,
		scoring.NewEngine(scoring.DefaultConfig()),
		ssl,
		age,
		nil,
	)
	if store != nil {
		svc.store = store
	}
	return svc
}

func neutralAdapters() (stubSSL, stubAge) {
	return stubSSL{}, stubAge{info: domain.DomainAgeInfo{Score: 0.5}}
}

func TestAnalyze_PhishingSMS(t *testing.T) {
	ssl, age := neutralAdapters()
	svc := newTestService(ssl, age, nil)

	result, err := svc.Analyze(context.Background(),
		"Dear customer, your MPESA PIN must be verified immediately, click here to confirm http://mpesa-secure.xyz/verify",
		domain.ContentSMS)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassPhishing, result.Classification)
	assert.Equal(t, domain.RiskCritical, result.RiskLevel)
	assert.Equal(t, 1, result.Details.URLsFound)
	assert.NotEmpty(t, result.Indicators)
	assert.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Explanation, "PHISHING")
	assert.LessOrEqual(t, len(result.Indicators), 15)
}

func TestAnalyze_CleanEmail(t *testing.T) {
	ssl, age := neutralAdapters()
	svc := newTestService(ssl, age, nil)

	result, err := svc.Analyze(context.Background(),
		"Hi, here's the quarterly report you requested. Let me know if you have questions.",
		domain.ContentEmail)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassSafe, result.Classification)
	assert.Equal(t, domain.RiskLow, result.RiskLevel)
	assert.Empty(t, result.Indicators)
	assert.InDelta(t, 0.3*result.Details.MLProbability, result.ConfidenceScore, 0.002,
		"with zero indicators the score is the damped classifier probability")
}

func TestAnalyze_URLContent(t *testing.T) {
	ssl, age := neutralAdapters()
	age.info = domain.DomainAgeInfo{Score: 0.1} // IP-literal style record
	svc := newTestService(ssl, age, nil)

	result, err := svc.Analyze(context.Background(), "http://192.168.1.1/login", domain.ContentURL)
	require.NoError(t, err)

	categories := make(map[string]domain.Severity)
	for _, ind := range result.Indicators {
		categories[ind.Category] = ind.Severity
	}
	assert.Equal(t, domain.SeverityHigh, categories["Suspicious URL"])
	assert.Equal(t, domain.SeverityMedium, categories["Suspicious Path"])
	assert.Equal(t, 1, result.Details.URLsFound)
}

func TestAnalyze_NeutralDefaultOnSignalFailure(t *testing.T) {
	// zero-value adapter records model unreachable probes
	svc := newTestService(stubSSL{}, stubAge{}, nil)

	result, err := svc.Analyze(context.Background(), "https://example-site.net/page", domain.ContentURL)
	require.NoError(t, err)
	require.NotNil(t, result)

	for _, ind := range result.Indicators {
		assert.NotEqual(t, "SSL Certificate", ind.Category)
		assert.NotEqual(t, "Domain Age", ind.Category)
	}
}

func TestAnalyze_SignalIndicators(t *testing.T) {
	expiry := 120
	age := 10
	reg := "2026-05-01"
	svc := newTestService(
		stubSSL{info: domain.SSLInfo{HasSSL: true, Valid: false, ExpiryDays: &expiry, Score: 0.2}},
		stubAge{info: domain.DomainAgeInfo{AgeDays: &age, RegistrationDate: &reg, Score: 0.1}},
		nil,
	)

	result, err := svc.Analyze(context.Background(), "https://freshly-registered.net", domain.ContentURL)
	require.NoError(t, err)

	categories := make(map[string]domain.Severity)
	for _, ind := range result.Indicators {
		categories[ind.Category] = ind.Severity
	}
	assert.Equal(t, domain.SeverityHigh, categories["SSL Certificate"], "invalid certificate")
	assert.Equal(t, domain.SeverityHigh, categories["Domain Age"], "ten-day-old domain")
}

func TestAnalyze_Deterministic(t *testing.T) {
	ssl, age := neutralAdapters()
	svc := newTestService(ssl, age, nil)
	text := "URGENT: your KCB account is suspended, verify at http://kcb-secure.top/login now"

	first, err := svc.Analyze(context.Background(), text, domain.ContentSMS)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), text, domain.ContentSMS)
	require.NoError(t, err)

	assert.Equal(t, first.Classification, second.Classification)
	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
	assert.Equal(t, first.Indicators, second.Indicators)
}

func TestAnalyze_InvalidContentType(t *testing.T) {
	ssl, age := neutralAdapters()
	svc := newTestService(ssl, age, nil)

	_, err := svc.Analyze(context.Background(), "hello", domain.ContentType("carrier-pigeon"))
	assert.Error(t, err)
}

func TestAnalyze_PersistsHistory(t *testing.T) {
	ssl, age := neutralAdapters()
	store := &memStore{}
	svc := newTestService(ssl, age, store)

	_, err := svc.Analyze(context.Background(), "Win a free prize! Reply with your PIN now", domain.ContentSMS)
	require.NoError(t, err)

	counts, err := svc.Stats(context.Background())
	require.NoError(t, err)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 1, total)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.records, 1)
	assert.Len(t, store.records[0].ContentHash, 64)
	assert.Equal(t, domain.ContentSMS, store.records[0].ContentType)
}

func TestPatterns(t *testing.T) {
	ssl, age := neutralAdapters()
	svc := newTestService(ssl, age, nil)

	names := svc.Patterns()
	assert.GreaterOrEqual(t, len(names), 8)
}
