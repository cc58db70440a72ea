package aggregator

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/firefly/textproc/internal/analyzer"
)

func TestRank(t *testing.T) {
	counts := map[string]int{
		"technology": 18,
		"innovation": 5,
		"computer":   5,
		"science":    7,
	}

	tests := []struct {
		name     string
		n        int
		expected []WordCount
	}{
		{
			name: "Top three",
			n:    3,
			expected: []WordCount{
				{"technology", 18},
				{"science", 7},
				{"computer", 5},
			},
		},
		{
			name: "All words",
			n:    0,
			expected: []WordCount{
				{"technology", 18},
				{"science", 7},
				{"computer", 5},
				{"innovation", 5},
			},
		},
		{
			name: "More than available",
			n:    10,
			expected: []WordCount{
				{"technology", 18},
				{"science", 7},
				{"computer", 5},
				{"innovation", 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, Rank(counts, tt.n)); diff != "" {
				t.Errorf("Rank mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := Rank(nil, 5); len(got) != 0 {
		t.Errorf("Expected empty ranking, got %v", got)
	}
}

func TestAggregator_AddResult(t *testing.T) {
	agg := New(nil)

	agg.AddResult(analyzer.Result{
		Operation: analyzer.WordFreq,
		Frequencies: map[string]int{
			"technology": 5,
			"innovation": 3,
			"computer":   2,
		},
	})
	agg.AddResult(analyzer.Result{Operation: analyzer.LineCount, Count: 12})

	stats := agg.GetStats()
	if stats.Requests != 2 {
		t.Errorf("Expected 2 requests, got %d", stats.Requests)
	}
	if stats.TotalWords != 10 {
		t.Errorf("Expected 10 total words, got %d", stats.TotalWords)
	}
	if stats.UniqueWords != 3 {
		t.Errorf("Expected 3 unique words, got %d", stats.UniqueWords)
	}

	expected := map[string]int{"word-freq": 1, "line-count": 1}
	if diff := cmp.Diff(expected, stats.ByOperation); diff != "" {
		t.Errorf("ByOperation mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregator_ConcurrentAccess(t *testing.T) {
	agg := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.AddResult(analyzer.Result{
				Operation:   analyzer.WordFreq,
				Frequencies: map[string]int{"word": 1},
			})
		}()
	}
	wg.Wait()

	stats := agg.GetStats()
	if stats.Requests != 10 {
		t.Errorf("Expected 10 requests, got %d", stats.Requests)
	}
	if stats.TotalWords != 10 {
		t.Errorf("Expected 10 total words, got %d", stats.TotalWords)
	}

	topWords := agg.GetTopWords(1)
	if len(topWords) != 1 || topWords[0].Word != "word" || topWords[0].Count != 10 {
		t.Errorf("Expected top word to be {word: 10}, got %+v", topWords)
	}
}
