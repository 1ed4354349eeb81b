package doctor

import "fmt"

// Status is the outcome of a check.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler for --output json|yaml.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Check is one diagnostic result.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
	Detail string `json:"detail" yaml:"detail"`
	Hint   string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Report collects all checks.
type Report struct {
	OS     string  `json:"os,omitempty" yaml:"os,omitempty"`
	Checks []Check `json:"checks" yaml:"checks"`
}

// Failed reports whether any check failed.
func (r Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Counts returns the number of checks per status.
func (r Report) Counts() (ok, warn, fail int) {
	for _, c := range r.Checks {
		switch c.Status {
		case StatusOK:
			ok++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}
	return ok, warn, fail
}
