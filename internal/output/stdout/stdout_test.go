package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/crimson-sun/spendsort/internal/model"
	"github.com/crimson-sun/spendsort/internal/output"
)

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	o := newTo(&buf, output.Full, false)

	pred := model.Prediction{
		Description:    "milk and eggs",
		Category:       "Groceries",
		MatchedExample: "weekly grocery shop",
		Score:          0.82,
		Confidence:     "High",
	}
	if err := o.Write(context.Background(), pred); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	var got model.Prediction
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Category != "Groceries" || got.Score != 0.82 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWriteMinimalStripsFields(t *testing.T) {
	var buf bytes.Buffer
	o := newTo(&buf, output.Minimal, false)

	pred := model.Prediction{
		Description:    "milk and eggs",
		Category:       "Groceries",
		MatchedExample: "weekly grocery shop",
		Score:          0.82,
	}
	if err := o.Write(context.Background(), pred); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "matched_example") {
		t.Errorf("minimal output must omit matched_example: %s", out)
	}
	if !strings.Contains(out, `"similarity_score":0`) {
		t.Errorf("minimal output must zero the score: %s", out)
	}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	o := newTo(&buf, output.Full, true)

	if err := o.Write(context.Background(), model.Prediction{Category: "Rent"}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("pretty output not indented: %q", buf.String())
	}
}
