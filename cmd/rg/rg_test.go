package rg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rcrowley/go-metrics"
)

func TestDateKeys(t *testing.T) {
	from := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	keys := dateKeys(from, 3, 14)
	want := []string{"2015:01:01", "2015:01:15", "2015:01:29"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, keys)
	}

	// 100 keys two weeks apart end in 2018
	keys = dateKeys(from, 100, 14)
	if last := keys[len(keys)-1]; last != "2018:10:18" {
		t.Errorf("unexpected last key %s", last)
	}
	if len(dateKeys(from, 0, 14)) != 0 {
		t.Error("expected no keys for count 0")
	}
}

func TestMeasure(t *testing.T) {
	r := metrics.NewRegistry()
	var calls atomic.Int64
	measure(r, "cmd", 50, 4, func() error {
		if calls.Add(1)%10 == 0 {
			return errors.New("fail")
		}
		return nil
	})

	if calls.Load() != 50 {
		t.Fatalf("expected 50 calls, got %d", calls.Load())
	}
	rows := resultRows(r)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0][0] != "cmd" || rows[0][1] != "45" || rows[0][2] != "5" {
		t.Errorf("unexpected row %v", rows[0])
	}

	path := filepath.Join(t.TempDir(), "perf.csv")
	if err := writeResultsToCSV(path, rows); err != nil {
		t.Fatalf("writeResultsToCSV failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), strings.Join(csvHeader, ",")+"\n") {
		t.Errorf("missing header in %q", data)
	}
}
