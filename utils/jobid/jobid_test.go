package jobid_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lidarhub/potree-api/utils/jobid"
)

func TestNew(t *testing.T) {
	id := jobid.New()
	if !strings.HasPrefix(id, "job_") {
		t.Errorf("New() = %q, want job_ prefix", id)
	}
	if len(id) != len("job_")+26 {
		t.Errorf("New() length = %d, want %d", len(id), len("job_")+26)
	}
	if id != strings.ToLower(id) {
		t.Errorf("New() = %q, want lowercase", id)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := jobid.New()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNew_ConcurrentUnique(t *testing.T) {
	const workers = 16
	const perWorker = 50

	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ids <- jobid.New()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		if !jobid.IsValid(id) {
			t.Errorf("invalid id generated: %s", id)
		}
		if _, dup := seen[id]; dup {
			t.Errorf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"generated id", jobid.New(), true},
		{"missing prefix", "01hqxv3ekg6w1x0v4fakefakef", false},
		{"wrong prefix", "med_01hqxv3ekg6w1x0v4fakefake", false},
		{"empty", "", false},
		{"prefix only", "job_", false},
		{"garbage suffix", "job_not-a-ulid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jobid.IsValid(tt.value); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := jobid.New()
	after := time.Now().Add(time.Second)

	ts, err := jobid.Timestamp(id)
	if err != nil {
		t.Fatalf("Timestamp() error = %v", err)
	}
	if ts.Before(before) || ts.After(after) {
		t.Errorf("Timestamp() = %v, want between %v and %v", ts, before, after)
	}
}
