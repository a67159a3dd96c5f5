package pgrules

import (
	"encoding"
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic. Higher is more severe.
type Severity int

const (
	severityInvalid Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	v, err := s.MarshalText()
	if err != nil {
		return fmt.Sprintf("severity-invalid(%d)", int(s))
	}

	return string(v)
}

var _ encoding.TextUnmarshaler = (*Severity)(nil)

func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "info":
		*s = SeverityInfo
		return nil
	case "warning", "warn":
		*s = SeverityWarning
		return nil
	case "error":
		*s = SeverityError
		return nil
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case SeverityInfo:
		return []byte("info"), nil
	case SeverityWarning:
		return []byte("warning"), nil
	case SeverityError:
		return []byte("error"), nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid Severity(%d)", int(s))
	}
}
