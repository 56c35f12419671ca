// Package application orchestrates the analysis pipeline: detectors, URL
// analysis, external signals, classifiers and fusion, plus best-effort
// history persistence.
package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/detection"
	"github.com/phishguard/phishguard/internal/domain/features"
	"github.com/phishguard/phishguard/internal/domain/ml"
	"github.com/phishguard/phishguard/internal/domain/scoring"
	"github.com/phishguard/phishguard/internal/domain/urlanalysis"
	"github.com/phishguard/phishguard/internal/ports"
)

const (
	// AnalysisVersion is stamped on every result for auditability
	AnalysisVersion = "2.0.0"

	// maxAnalyzedURLs caps structural analysis per request; maxProbedURLs
	// caps the slower network probes on embedded links.
	maxAnalyzedURLs = 5
	maxProbedURLs   = 2

	// signalTimeout bounds each external probe independently of the
	// request context, so a slow registry cannot stall an analysis.
	signalTimeout = 3 * time.Second
)

// AnalysisService runs the full detection pipeline. It is immutable after
// construction and safe for concurrent use; per-request state lives on the
// stack of Analyze.
type AnalysisService struct {
	logger         *slog.Logger
	bank           *detection.Bank
	analyzer       *urlanalysis.Analyzer
	urlClassifier  *ml.Classifier
	textClassifier *ml.Classifier
	engine         *scoring.Engine
	sslChecker     ports.SSLChecker
	ageProvider    ports.DomainAgeProvider
	store          ports.AnalysisStore // optional, nil disables history
}

// NewAnalysisService wires the pipeline with dependency injection. store
// may be nil when persistence is not configured.
func NewAnalysisService(
	logger *slog.Logger,
	bank *detection.Bank,
	analyzer *urlanalysis.Analyzer,
	urlClassifier *ml.Classifier,
	textClassifier *ml.Classifier,
	engine *scoring.Engine,
	sslChecker ports.SSLChecker,
	ageProvider ports.DomainAgeProvider,
	store ports.AnalysisStore,
) *AnalysisService {
	return &AnalysisService{
		logger:         logger,
		bank:           bank,
		analyzer:       analyzer,
		urlClassifier:  urlClassifier,
		textClassifier: textClassifier,
		engine:         engine,
		sslChecker:     sslChecker,
		ageProvider:    ageProvider,
		store:          store,
	}
}

// Analyze runs one piece of sanitized content through the pipeline.
// External signal failures degrade to neutral defaults; the only error
// path is an invalid content type.
func (s *AnalysisService) Analyze(ctx context.Context, content string, kind domain.ContentType) (*domain.AnalysisResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unsupported content type: %q", kind)
	}
	start := time.Now()

	indicators := s.bank.Scan(content, kind)

	var urls []string
	if kind == domain.ContentURL {
		urls = []string{strings.TrimSpace(content)}
	} else {
		urls = urlanalysis.ExtractURLs(content)
	}
	urlsFound := len(urls)

	analyzed := urls
	if len(analyzed) > maxAnalyzedURLs {
		analyzed = analyzed[:maxAnalyzedURLs]
	}
	for _, u := range analyzed {
		indicators = append(indicators, s.analyzer.Analyze(u)...)
	}

	indicators = append(indicators, s.probeSignals(ctx, kind, analyzed)...)

	mlProb := s.predict(content, kind)

	outcome := s.engine.Fuse(indicators, mlProb.Probability)
	result := s.assemble(content, kind, urlsFound, outcome, mlProb)

	s.persist(ctx, content, kind, result)

	s.logger.Info("analysis complete",
		"content_type", kind,
		"classification", result.Classification,
		"risk_level", result.RiskLevel,
		"score", result.ConfidenceScore,
		"indicators", result.Details.TotalIndicators,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// probeSignals runs the SSL and domain-age checks concurrently for the
// probe-worthy hosts. For url content that is the submitted URL itself;
// otherwise the first embedded URLs, capped.
func (s *AnalysisService) probeSignals(ctx context.Context, kind domain.ContentType, urls []string) []domain.ThreatIndicator {
	probed := urls
	if kind != domain.ContentURL && len(probed) > maxProbedURLs {
		probed = probed[:maxProbedURLs]
	}

	hosts := make([]string, 0, len(probed))
	seen := make(map[string]struct{}, len(probed))
	for _, raw := range probed {
		host := hostOf(raw)
		if host == "" {
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		hosts = append(hosts, host)
	}
	if len(hosts) == 0 {
		return nil
	}

	results := make([][]domain.ThreatIndicator, len(hosts))
	var wg sync.WaitGroup
	for i, host := range hosts {
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, signalTimeout)
			defer cancel()

			var inner sync.WaitGroup
			var sslInfo domain.SSLInfo
			var ageInfo domain.DomainAgeInfo
			inner.Add(2)
			go func() {
				defer inner.Done()
				sslInfo = s.sslChecker.CheckSSL(probeCtx, host)
			}()
			go func() {
				defer inner.Done()
				ageInfo = s.ageProvider.DomainAge(probeCtx, host)
			}()
			inner.Wait()

			results[i] = signalIndicators(host, sslInfo, ageInfo)
		}(i, host)
	}
	wg.Wait()

	var out []domain.ThreatIndicator
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// signalIndicators normalizes probe results into indicators. Neutral
// records (unreachable host, unavailable registry) produce nothing.
func signalIndicators(host string, sslInfo domain.SSLInfo, ageInfo domain.DomainAgeInfo) []domain.ThreatIndicator {
	var out []domain.ThreatIndicator

	if sslInfo.HasSSL && !sslInfo.Valid {
		out = append(out, domain.ThreatIndicator{
			Category:    "SSL Certificate",
			Description: "TLS certificate failed validation",
			Severity:    domain.SeverityHigh,
			MatchedText: host,
			Confidence:  0.8,
		})
	}

	if ageInfo.AgeDays != nil {
		switch age := *ageInfo.AgeDays; {
		case age < 30:
			out = append(out, domain.ThreatIndicator{
				Category:    "Domain Age",
				Description: fmt.Sprintf("Domain registered only %d days ago", age),
				Severity:    domain.SeverityHigh,
				MatchedText: host,
				Confidence:  0.85,
			})
		case age < 180:
			out = append(out, domain.ThreatIndicator{
				Category:    "Domain Age",
				Description: fmt.Sprintf("Domain registered %d days ago", age),
				Severity:    domain.SeverityMedium,
				MatchedText: host,
				Confidence:  0.65,
			})
		}
	}
	return out
}

func (s *AnalysisService) predict(content string, kind domain.ContentType) ml.Prediction {
	if kind == domain.ContentURL {
		return s.urlClassifier.Predict(features.ExtractURLFeatures(strings.TrimSpace(content)))
	}
	return s.textClassifier.Predict(features.ExtractTextFeatures(content, kind))
}

func (s *AnalysisService) assemble(content string, kind domain.ContentType, urlsFound int, outcome scoring.Outcome, pred ml.Prediction) *domain.AnalysisResult {
	topFeatures := make([]string, 0, len(pred.TopFeatures))
	for _, fw := range pred.TopFeatures {
		topFeatures = append(topFeatures, fw.Name)
	}

	total := outcome.Breakdown.Critical + outcome.Breakdown.High +
		outcome.Breakdown.Medium + outcome.Breakdown.Low

	return &domain.AnalysisResult{
		Classification:  outcome.Classification,
		ConfidenceScore: outcome.CombinedScore,
		RiskLevel:       outcome.RiskLevel,
		Indicators:      outcome.Indicators,
		Explanation:     scoring.Explain(outcome.Classification, outcome.Indicators, kind),
		Recommendations: scoring.Recommend(outcome.Classification, outcome.Indicators),
		Details: domain.AnalysisDetails{
			URLsFound:         urlsFound,
			TotalIndicators:   total,
			SeverityBreakdown: outcome.Breakdown,
			ContentLength:     len(content),
			HeuristicScore:    outcome.HeuristicScore,
			MLProbability:     scoringRound(pred.Probability),
			TopFeatures:       topFeatures,
			AnalysisVersion:   AnalysisVersion,
		},
	}
}

// persist records the analysis when a store is configured. Failures are
// logged and swallowed so history problems never fail a live analysis.
func (s *AnalysisService) persist(ctx context.Context, content string, kind domain.ContentType, result *domain.AnalysisResult) {
	if s.store == nil {
		return
	}
	hash := sha256.Sum256([]byte(content))
	record := &domain.AnalysisRecord{
		ID:             uuid.New(),
		ContentHash:    hex.EncodeToString(hash[:]),
		ContentType:    kind,
		Classification: result.Classification,
		Score:          result.ConfidenceScore,
		RiskLevel:      result.RiskLevel,
		IndicatorCount: result.Details.TotalIndicators,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateAnalysis(ctx, record); err != nil {
		s.logger.Warn("failed to persist analysis record", "error", err)
	}
}

// Patterns lists the active detector names for introspection endpoints
func (s *AnalysisService) Patterns() []string {
	return s.bank.Strategies()
}

// Stats returns per-classification analysis totals from the history store
func (s *AnalysisService) Stats(ctx context.Context) (map[string]int, error) {
	if s.store == nil {
		return map[string]int{}, nil
	}
	return s.store.CountByClassification(ctx)
}

func hostOf(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func scoringRound(v float64) float64 {
	// keep reported probabilities at the same precision as scores
	return float64(int(v*1000+0.5)) / 1000
}
