package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/vburojevic/logstat/internal/domain"
)

// ErrNoMatch is returned when a line is not a complete access-log line.
var ErrNoMatch = errors.New("line does not match access log pattern")

// accessLineRegex matches one access-log line:
//
//	<ip> - <ident> [<timestamp>] "<method> <path> <protocol>" <status> <size> "<url>" "<agent>" <time>
var accessLineRegex = regexp.MustCompile(
	`^(?P<ip>[0-9.]+)` +
		` - \S+ ` +
		`\[.+?\] ` +
		`"(?P<method>\S+) [^ ]+ .+?" ` +
		`(?P<status>[0-9]+) ` +
		`\S+ ` +
		`"(?P<url>.*?)" ` +
		`".*" ` +
		`(?P<time>[0-9]+)$`,
)

var (
	ipIndex     = accessLineRegex.SubexpIndex("ip")
	methodIndex = accessLineRegex.SubexpIndex("method")
	statusIndex = accessLineRegex.SubexpIndex("status")
	urlIndex    = accessLineRegex.SubexpIndex("url")
	timeIndex   = accessLineRegex.SubexpIndex("time")
)

// Extractor turns access-log lines into records. It holds no state and is
// safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new line extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses one line that the caller has already stripped of
// surrounding whitespace. Lines that do not match in full yield ErrNoMatch.
func (e *Extractor) Extract(line string) (*domain.LogRecord, error) {
	m := accessLineRegex.FindStringSubmatch(line)
	if m == nil {
		return nil, ErrNoMatch
	}

	micros, err := strconv.ParseInt(m[timeIndex], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: response time %q: %v", ErrNoMatch, m[timeIndex], err)
	}

	return &domain.LogRecord{
		IP:                 m[ipIndex],
		Method:             m[methodIndex],
		URL:                m[urlIndex],
		Status:             m[statusIndex],
		ResponseTimeMicros: micros,
	}, nil
}

// Extract parses a line with a shared extractor.
func Extract(line string) (*domain.LogRecord, error) {
	return defaultExtractor.Extract(line)
}

var defaultExtractor = NewExtractor()
