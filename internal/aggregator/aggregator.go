package aggregator

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/firefly/textproc/internal/analyzer"
)

// WordCount represents a word and its frequency
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Stats summarizes everything the aggregator has seen
type Stats struct {
	Requests       int            `json:"requests"`
	ByOperation    map[string]int `json:"by_operation"`
	TotalWords     int            `json:"total_words"`
	UniqueWords    int            `json:"unique_words"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
}

// Rank orders a frequency table by count (descending), then by word
// (ascending) for stable results. n <= 0 returns every word.
func Rank(wordCounts map[string]int, n int) []WordCount {
	words := make([]WordCount, 0, len(wordCounts))
	for word, count := range wordCounts {
		words = append(words, WordCount{Word: word, Count: count})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Count == words[j].Count {
			return words[i].Word < words[j].Word
		}
		return words[i].Count > words[j].Count
	})

	if n > 0 && n < len(words) {
		return words[:n]
	}
	return words
}

// Aggregator accumulates analysis results across server requests
type Aggregator struct {
	mu               sync.RWMutex
	globalWordCounts map[string]int
	byOperation      map[analyzer.Operation]int
	totalWords       int
	requests         int
	startTime        time.Time
	logger           *slog.Logger
}

// New creates a new Aggregator
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		globalWordCounts: make(map[string]int),
		byOperation:      make(map[analyzer.Operation]int),
		startTime:        time.Now(),
		logger:           logger,
	}
}

// AddResult records a result. Word counts are only merged from word-freq results.
func (a *Aggregator) AddResult(result analyzer.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests++
	a.byOperation[result.Operation]++

	for word, count := range result.Frequencies {
		a.globalWordCounts[word] += count
		a.totalWords += count
	}

	if a.requests%100 == 0 {
		elapsed := time.Since(a.startTime).Seconds()
		a.logger.Info("aggregated results",
			"requests", a.requests,
			"total_words", a.totalWords,
			"requests_per_sec", float64(a.requests)/elapsed,
		)
	}
}

// GetTopWords returns the top N words by frequency
func (a *Aggregator) GetTopWords(n int) []WordCount {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Rank(a.globalWordCounts, n)
}

// GetStats returns current statistics
func (a *Aggregator) GetStats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	byOperation := make(map[string]int, len(a.byOperation))
	for op, count := range a.byOperation {
		byOperation[op.String()] = count
	}

	return Stats{
		Requests:       a.requests,
		ByOperation:    byOperation,
		TotalWords:     a.totalWords,
		UniqueWords:    len(a.globalWordCounts),
		ElapsedSeconds: time.Since(a.startTime).Seconds(),
	}
}
