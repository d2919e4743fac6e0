// Package scoring turns a website analysis record into an opportunity score,
// a quality bucket, monetary estimates and service recommendations.
// Every function in this package is pure: the same record always yields the
// same result and nothing is read from or written to shared state.
package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"leadradar_backend/platform/phone"
)

// AnalysisRecord is the loosely-structured technical audit of a lead's website
// as stored by the analysis collaborator. Every key is optional.
type AnalysisRecord map[string]any

// DecodeAnalysis parses a JSON document into an AnalysisRecord.
// Anything that is not a JSON object decodes to an empty record.
func DecodeAnalysis(raw []byte) AnalysisRecord {
	if len(bytes.TrimSpace(raw)) == 0 {
		return AnalysisRecord{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return AnalysisRecord{}
	}
	return AnalysisRecord(rec)
}

// SEOIndicators are the on-page SEO signals.
type SEOIndicators struct {
	HasTitle           bool
	HasMetaDescription bool
	HasH1              bool
	HasCanonical       bool
	HasStructuredData  bool
	HasOpenGraph       bool
	HasSitemap         bool
}

// PerformanceIndicators are the page speed signals.
type PerformanceIndicators struct {
	SpeedScore        float64
	OptimizationScore float64
	LoadTimeMs        float64
	TotalSizeBytes    float64
}

// MobileIndicators are the mobile usability signals.
type MobileIndicators struct {
	IsMobileFriendly    bool
	HasViewportMeta     bool
	HasResponsiveCSS    bool
	HasHorizontalScroll bool
	TouchTargetsOK      bool
}

// TrackingIndicators are the marketing instrumentation signals.
type TrackingIndicators struct {
	HasAnalytics          bool
	HasTagManager         bool
	HasPixel              bool
	HasConversionTracking bool
}

// ComplianceIndicators are the GDPR and legal signals.
type ComplianceIndicators struct {
	HasCookieBanner  bool
	HasPrivacyPolicy bool
	HasContactInfo   bool
	HasVATNumber     bool
}

// ContentIndicators are the content and conversion signals.
type ContentIndicators struct {
	HasContactForm   bool
	WordCount        float64
	HasSocialLinks   bool
	HasBusinessHours bool
}

// IssueCounts holds the number of audit issues per severity.
type IssueCounts struct {
	Critical int
	High     int
	Medium   int
	Low      int
}

// TechnicalIndicators are the transport security and audit issue signals.
type TechnicalIndicators struct {
	HasSSL   bool
	SSLValid bool
	Issues   IssueCounts
}

// Indicators is the fully populated view of an AnalysisRecord.
type Indicators struct {
	SEO         SEOIndicators
	Performance PerformanceIndicators
	Mobile      MobileIndicators
	Tracking    TrackingIndicators
	Compliance  ComplianceIndicators
	Content     ContentIndicators
	Technical   TechnicalIndicators
	HasPhone    bool
}

// Absent values resolve to the deficient reading: a capability that was not
// detected is missing, a problem that was not ruled out is present, and a
// measurement that was not taken is the worst case. Issue counts are the one
// exception, an absent count means no issue of that severity was detected.
const (
	absentCapability = false
	absentProblem    = true
	absentScore      = 0.0
	absentWordCount  = 0.0
	absentIssueCount = 0.0
)

var (
	absentLoadTimeMs = math.MaxFloat64
	absentTotalSize  = math.MaxFloat64
)

// Normalize extracts typed indicators from an arbitrary record. It never fails;
// nil, empty and malformed records produce the all-deficient view.
func Normalize(rec AnalysisRecord) Indicators {
	seo := section(rec, "seo")
	perf := section(rec, "performance")
	mobile := section(rec, "mobile")
	tracking := section(rec, "tracking")
	gdpr := section(rec, "gdpr")
	content := section(rec, "content")
	issues := section(rec, "issues")
	root := map[string]any(rec)

	return Indicators{
		SEO: SEOIndicators{
			HasTitle:           resolveFlag(seo, "hasTitle", absentCapability),
			HasMetaDescription: resolveFlag(seo, "hasMetaDescription", absentCapability),
			HasH1:              resolveFlag(seo, "hasH1", absentCapability),
			HasCanonical:       resolveFlag(seo, "hasCanonical", absentCapability),
			HasStructuredData:  resolveFlag(seo, "hasStructuredData", absentCapability),
			HasOpenGraph:       resolveFlag(seo, "hasOpenGraph", absentCapability),
			HasSitemap:         resolveFlag(seo, "hasSitemap", absentCapability),
		},
		Performance: PerformanceIndicators{
			SpeedScore:        resolveNumber(perf, "speedScore", absentScore),
			OptimizationScore: resolveNumber(perf, "optimizationScore", absentScore),
			LoadTimeMs:        resolveNumber(perf, "loadTime", absentLoadTimeMs),
			TotalSizeBytes:    resolveNumber(perf, "totalSize", absentTotalSize),
		},
		Mobile: MobileIndicators{
			IsMobileFriendly:    resolveFlag(mobile, "isMobileFriendly", absentCapability),
			HasViewportMeta:     resolveFlag(mobile, "hasViewportMeta", absentCapability),
			HasResponsiveCSS:    resolveFlag(mobile, "hasResponsiveCSS", absentCapability),
			HasHorizontalScroll: resolveFlag(mobile, "hasHorizontalScroll", absentProblem),
			TouchTargetsOK:      resolveFlag(mobile, "touchTargetsOk", absentCapability),
		},
		Tracking: TrackingIndicators{
			HasAnalytics:          resolveFlag(tracking, "hasAnalytics", absentCapability),
			HasTagManager:         resolveFlag(tracking, "hasTagManager", absentCapability),
			HasPixel:              resolveFlag(tracking, "hasPixel", absentCapability),
			HasConversionTracking: resolveFlag(tracking, "hasConversionTracking", absentCapability),
		},
		Compliance: ComplianceIndicators{
			HasCookieBanner:  resolveFlag(gdpr, "hasCookieBanner", absentCapability),
			HasPrivacyPolicy: resolveFlag(gdpr, "hasPrivacyPolicy", absentCapability),
			HasContactInfo:   resolveFlag(gdpr, "hasContactInfo", absentCapability),
			HasVATNumber:     resolveFlag(gdpr, "hasVatNumber", absentCapability),
		},
		Content: ContentIndicators{
			HasContactForm:   resolveFlag(content, "hasContactForm", absentCapability),
			WordCount:        resolveNumber(content, "wordCount", absentWordCount),
			HasSocialLinks:   resolveFlag(content, "hasSocialLinks", absentCapability),
			HasBusinessHours: resolveFlag(content, "hasBusinessHours", absentCapability),
		},
		Technical: TechnicalIndicators{
			HasSSL:   resolveFlag(root, "hasSSL", absentCapability),
			SSLValid: resolveFlag(root, "sslValid", absentCapability),
			Issues: IssueCounts{
				Critical: resolveCount(issues, "critical"),
				High:     resolveCount(issues, "high"),
				Medium:   resolveCount(issues, "medium"),
				Low:      resolveCount(issues, "low"),
			},
		},
		HasPhone: resolveFlag(content, "hasPhone", absentCapability) ||
			hasDialablePhone(content, "phone") ||
			hasDialablePhone(root, "phone"),
	}
}

func section(rec AnalysisRecord, key string) map[string]any {
	if rec == nil {
		return nil
	}
	sub, _ := rec[key].(map[string]any)
	return sub
}

// resolveFlag returns the boolean at key, or fallback when it is absent or unreadable.
func resolveFlag(m map[string]any, key string, fallback bool) bool {
	if v, ok := readFlag(m[key]); ok {
		return v
	}
	return fallback
}

// resolveNumber returns the number at key, or fallback when it is absent or unreadable.
func resolveNumber(m map[string]any, key string, fallback float64) float64 {
	if v, ok := readNumber(m[key]); ok {
		return v
	}
	return fallback
}

func resolveCount(m map[string]any, key string) int {
	n := resolveNumber(m, key, absentIssueCount)
	if n <= 0 {
		return 0
	}
	if n >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func hasDialablePhone(m map[string]any, key string) bool {
	raw, ok := m[key].(string)
	return ok && phone.IsValid(raw)
}

func readFlag(v any) (bool, bool) {
	switch typed := v.(type) {
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	default:
		if n, ok := readNumber(v); ok {
			return n != 0, true
		}
		return false, false
	}
}

func readNumber(v any) (float64, bool) {
	var n float64
	switch typed := v.(type) {
	case float64:
		n = typed
	case float32:
		n = float64(typed)
	case int:
		n = float64(typed)
	case int64:
		n = float64(typed)
	case int32:
		n = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
