package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bike-share-predict/internal/features"
)

func testFrame(t *testing.T) features.Frame {
	t.Helper()
	b := features.NewBuilder(nil, nil)
	frame, err := b.FromForm(features.FormInput{
		Date:   "2024-05-01",
		HiTemp: 70, LoTemp: 50, Wind: 3, Precip: 0,
	})
	if err != nil {
		t.Fatalf("failed to build frame: %v", err)
	}
	return frame
}

func TestPredictSendsFeatureMatrix(t *testing.T) {
	var received inferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		out := inferenceResponse{Predictions: make([]float64, len(received.Instances))}
		json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	frame := testFrame(t)

	preds, err := client.Predict(context.Background(), frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preds) != 24 {
		t.Fatalf("expected 24 predictions, got %d", len(preds))
	}

	if len(received.Instances) != 24 {
		t.Fatalf("expected 24 instances, got %d", len(received.Instances))
	}
	if len(received.Columns) != len(features.Columns) {
		t.Fatalf("column header not sent")
	}
	for i, inst := range received.Instances {
		if inst[0] != float64(i) {
			t.Fatalf("instance %d has hour %v", i, inst[0])
		}
		if len(inst) != len(features.Columns) {
			t.Fatalf("instance %d has %d values, want %d", i, len(inst), len(features.Columns))
		}
	}
}

func TestPredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Predict(context.Background(), testFrame(t)); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
