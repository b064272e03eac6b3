package aggregator

import (
	"github.com/vburojevic/logstat/internal/domain"
)

// TopN is the number of entries kept in each truncated view.
const TopN = 10

// Aggregator folds records into running tallies. An Aggregator is owned by
// one goroutine; partial aggregators are combined with Merge.
type Aggregator struct {
	requests int

	ips          *tally
	methods      *tally
	longest      *tally
	clientErrors *tally
	serverErrors *tally
}

// New creates an empty aggregator
func New() *Aggregator {
	return &Aggregator{
		ips:          newTally(),
		methods:      newTally(),
		longest:      newTally(),
		clientErrors: newTally(),
		serverErrors: newTally(),
	}
}

// Ingest folds one record into every tally.
func (a *Aggregator) Ingest(rec domain.LogRecord) {
	a.requests++

	a.ips.add(rec.IP, 1)
	a.methods.add(rec.Method, 1)
	a.longest.max(rec.RequestKey(), rec.ResponseTimeMicros)

	switch {
	case rec.IsClientError():
		a.clientErrors.add(rec.StatusKey(), 1)
	case rec.IsServerError():
		a.serverErrors.add(rec.StatusKey(), 1)
	}
}

// Merge folds other into a. Keys a has not seen are appended in the order
// other first saw them, so merging per-source aggregators in source order
// ranks ties exactly like one aggregator fed every source in turn.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil {
		return
	}
	a.requests += other.requests

	mergeCounts(a.ips, other.ips)
	mergeCounts(a.methods, other.methods)
	mergeCounts(a.clientErrors, other.clientErrors)
	mergeCounts(a.serverErrors, other.serverErrors)
	for _, e := range other.longest.entries {
		a.longest.max(e.Key, e.Value)
	}
}

func mergeCounts(dst, src *tally) {
	for _, e := range src.entries {
		dst.add(e.Key, e.Value)
	}
}

// Count returns the number of records ingested so far.
func (a *Aggregator) Count() int {
	return a.requests
}

// Finalize builds the report. State is left untouched, so repeated calls
// return equal reports.
func (a *Aggregator) Finalize() *domain.Report {
	return &domain.Report{
		TotalRequests: a.requests,
		TopIPs:        a.ips.ranked(TopN),
		Methods:       a.methods.ranked(-1),
		LongRequests:  a.longest.ranked(TopN),
		ClientErrors:  a.clientErrors.ranked(TopN),
		ServerErrors:  a.serverErrors.ranked(TopN),
	}
}
