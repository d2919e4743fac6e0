package scoring

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalizeAbsentFieldsAreDeficient(t *testing.T) {
	ind := Normalize(nil)

	if ind.SEO != (SEOIndicators{}) {
		t.Fatalf("expected every SEO flag false, got %+v", ind.SEO)
	}
	if !ind.Mobile.HasHorizontalScroll {
		t.Fatalf("expected missing horizontal scroll flag to mean scrolling is present")
	}
	if ind.Mobile.TouchTargetsOK {
		t.Fatalf("expected missing touch target flag to mean targets are not ok")
	}
	if ind.Performance.SpeedScore != 0 || ind.Performance.OptimizationScore != 0 {
		t.Fatalf("expected zero speed and optimization, got %+v", ind.Performance)
	}
	if ind.Performance.LoadTimeMs <= maxLoadTimeMs {
		t.Fatalf("expected missing load time to exceed the limit, got %v", ind.Performance.LoadTimeMs)
	}
	if ind.Performance.TotalSizeBytes <= maxTotalSizeBytes {
		t.Fatalf("expected missing size to exceed the limit, got %v", ind.Performance.TotalSizeBytes)
	}
	if ind.Technical.Issues != (IssueCounts{}) {
		t.Fatalf("expected zero issue counts, got %+v", ind.Technical.Issues)
	}
	if ind.HasPhone || ind.Technical.HasSSL || ind.Technical.SSLValid {
		t.Fatalf("expected no phone and no SSL, got %+v", ind)
	}
}

func TestNormalizeCoercesLooseValues(t *testing.T) {
	rec := AnalysisRecord{
		"hasSSL":   "yes",
		"sslValid": 1,
		"issues":   map[string]any{"critical": json.Number("3"), "high": -4, "medium": "2", "low": 1.9},
		"seo":      map[string]any{"hasTitle": "TRUE", "hasH1": "no", "hasSitemap": 0},
		"performance": map[string]any{
			"speedScore": "71.5",
			"loadTime":   math.NaN(),
			"totalSize":  int64(2048),
		},
		"content": map[string]any{"wordCount": float32(450), "hasPhone": "maybe"},
	}

	ind := Normalize(rec)

	if !ind.Technical.HasSSL || !ind.Technical.SSLValid {
		t.Fatalf("expected SSL flags true, got %+v", ind.Technical)
	}
	if ind.Technical.Issues != (IssueCounts{Critical: 3, High: 0, Medium: 2, Low: 1}) {
		t.Fatalf("unexpected issue counts %+v", ind.Technical.Issues)
	}
	if !ind.SEO.HasTitle || ind.SEO.HasH1 || ind.SEO.HasSitemap {
		t.Fatalf("unexpected SEO flags %+v", ind.SEO)
	}
	if ind.Performance.SpeedScore != 71.5 {
		t.Fatalf("expected speed 71.5, got %v", ind.Performance.SpeedScore)
	}
	if ind.Performance.LoadTimeMs != absentLoadTimeMs {
		t.Fatalf("expected NaN load time to resolve as absent, got %v", ind.Performance.LoadTimeMs)
	}
	if ind.Performance.TotalSizeBytes != 2048 {
		t.Fatalf("expected size 2048, got %v", ind.Performance.TotalSizeBytes)
	}
	if ind.Content.WordCount != 450 {
		t.Fatalf("expected word count 450, got %v", ind.Content.WordCount)
	}
	if ind.HasPhone {
		t.Fatalf("expected unreadable hasPhone to resolve as absent")
	}
}

func TestNormalizePhoneDetection(t *testing.T) {
	tests := []struct {
		name string
		rec  AnalysisRecord
		want bool
	}{
		{"flag", AnalysisRecord{"content": map[string]any{"hasPhone": true}}, true},
		{"content number", AnalysisRecord{"content": map[string]any{"phone": "020-1234567"}}, true},
		{"top level number", AnalysisRecord{"phone": "+31 20 123 4567"}, true},
		{"garbage number", AnalysisRecord{"phone": "call us"}, false},
		{"flag false", AnalysisRecord{"content": map[string]any{"hasPhone": false}}, false},
	}
	for _, tt := range tests {
		if got := Normalize(tt.rec).HasPhone; got != tt.want {
			t.Fatalf("%s: HasPhone = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecodeAnalysis(t *testing.T) {
	tests := []struct {
		raw     string
		wantLen int
	}{
		{"", 0},
		{"   ", 0},
		{"null", 0},
		{"[]", 0},
		{"{not json", 0},
		{`{"hasSSL":true,"seo":{}}`, 2},
	}
	for _, tt := range tests {
		rec := DecodeAnalysis([]byte(tt.raw))
		if rec == nil {
			t.Fatalf("DecodeAnalysis(%q) returned nil", tt.raw)
		}
		if len(rec) != tt.wantLen {
			t.Fatalf("DecodeAnalysis(%q) has %d keys, want %d", tt.raw, len(rec), tt.wantLen)
		}
	}
}
