// phishctl analyzes a message or URL from the command line using the same
// pipeline as the server, without any network service or database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/phishguard/phishguard/internal/adapters/signals"
	"github.com/phishguard/phishguard/internal/application"
	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/detection"
	"github.com/phishguard/phishguard/internal/domain/ml"
	"github.com/phishguard/phishguard/internal/domain/scoring"
	"github.com/phishguard/phishguard/internal/domain/urlanalysis"
)

func main() {
	contentType := flag.String("type", "email", "content type: email, sms or url")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: phishctl [-type email|sms|url] [-v] <content>\n")
		fmt.Fprintf(os.Stderr, "       echo <content> | phishctl [-type ...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	content := strings.Join(flag.Args(), " ")
	if content == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil || len(data) == 0 {
			flag.Usage()
			os.Exit(2)
		}
		content = strings.TrimSpace(string(data))
	}

	kind := domain.ContentType(*contentType)
	if !kind.Valid() {
		fmt.Fprintf(os.Stderr, "invalid content type %q\n", *contentType)
		os.Exit(2)
	}

	logLevel := slog.LevelError
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	urlClassifier, textClassifier := ml.BuildClassifiers(ml.BootstrapConfig{
		URLDatasetPath:  os.Getenv("PG_URL_DATASET"),
		TextDatasetPath: os.Getenv("PG_TEXT_DATASET"),
	}, logger)

	svc := application.NewAnalysisService(
		logger,
		detection.NewBank(),
		urlanalysis.NewAnalyzer(),
		urlClassifier,
		textClassifier,
		scoring.NewEngine(scoring.DefaultConfig()),
		signals.NewTLSChecker(logger),
		signals.NewWhoisAgeProvider(logger),
		nil,
	)

	result, err := svc.Analyze(context.Background(), content, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	printResult(result)
	if result.Classification == domain.ClassPhishing {
		os.Exit(1)
	}
}

func printResult(result *domain.AnalysisResult) {
	verdict := color.New(color.FgGreen, color.Bold)
	switch result.Classification {
	case domain.ClassPhishing:
		verdict = color.New(color.FgRed, color.Bold)
	case domain.ClassSuspicious:
		verdict = color.New(color.FgYellow, color.Bold)
	}

	fmt.Println()
	verdict.Printf("  %s", strings.ToUpper(result.Classification))
	fmt.Printf("  (score %.3f, risk %s)\n\n", result.ConfidenceScore, result.RiskLevel)
	fmt.Printf("  %s\n\n", result.Explanation)

	if len(result.Indicators) > 0 {
		color.New(color.Bold).Println("  Indicators:")
		for _, ind := range result.Indicators {
			sev := severityColor(ind.Severity)
			sev.Printf("    [%-8s]", ind.Severity)
			fmt.Printf(" %s: %s\n", ind.Category, ind.Description)
		}
		fmt.Println()
	}

	if len(result.Recommendations) > 0 {
		color.New(color.Bold).Println("  Recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("    %s\n", rec)
		}
		fmt.Println()
	}
}

func severityColor(sev domain.Severity) *color.Color {
	switch sev {
	case domain.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case domain.SeverityHigh:
		return color.New(color.FgRed)
	case domain.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
