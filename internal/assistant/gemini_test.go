package assistant

import (
	"context"
	"reflect"
	"testing"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Analysis
	}{
		{
			name: "plain json",
			body: `{"condition":"Mild Acne","severity":"Low","recommendations":["Cleanse twice daily"],"summary":"Minor congestion."}`,
			want: Analysis{
				Condition:       "Mild Acne",
				Severity:        "Low",
				Recommendations: []string{"Cleanse twice daily"},
				Summary:         "Minor congestion.",
			},
		},
		{
			name: "fenced json",
			body: "```json\n{\"condition\":\"Rosacea\",\"severity\":\"Medium\",\"recommendations\":[],\"summary\":\"Redness.\"}\n```",
			want: Analysis{
				Condition:       "Rosacea",
				Severity:        "Medium",
				Recommendations: []string{},
				Summary:         "Redness.",
			},
		},
		{
			name: "empty body degrades to empty result",
			body: "",
			want: Analysis{},
		},
		{
			name: "whitespace body degrades to empty result",
			body: "   \n ",
			want: Analysis{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysis(tt.body)
			if err != nil {
				t.Fatalf("parseAnalysis: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAnalysisMalformedJSON(t *testing.T) {
	_, err := parseAnalysis("not json at all")
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestImageFormat(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", "jpeg"},
		{"image/png", "png"},
		{"IMAGE/WEBP", "webp"},
		{"", "jpeg"},
	}
	for _, tt := range tests {
		if got := imageFormat(tt.mime); got != tt.want {
			t.Errorf("imageFormat(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestNewGeminiGatewayRequiresKey(t *testing.T) {
	if _, err := NewGeminiGateway(context.Background(), "  ", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
