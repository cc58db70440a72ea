package analyzer

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned for operation names or values outside the supported set
var ErrUnknownOperation = errors.New("unknown operation")

// Operation identifies one of the text analysis operations
type Operation int

const (
	WordFreq Operation = iota + 1
	RegexFilter
	ExtractEmails
	LineCount
	UniqueWords
)

var operationNames = map[Operation]string{
	WordFreq:      "word-freq",
	RegexFilter:   "regex-filter",
	ExtractEmails: "extract-emails",
	LineCount:     "line-count",
	UniqueWords:   "unique-words",
}

// Operations returns every operation in command-line order
func Operations() []Operation {
	return []Operation{WordFreq, RegexFilter, ExtractEmails, LineCount, UniqueWords}
}

// String returns the operation name used on the command line and in the HTTP API
func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(op))
}

// UsesCase reports whether the operation honours the case-sensitive option
func (op Operation) UsesCase() bool {
	switch op {
	case WordFreq, RegexFilter, UniqueWords:
		return true
	}
	return false
}

// ParseOperation maps a boundary name such as "word-freq" to its Operation
func ParseOperation(name string) (Operation, error) {
	for _, op := range Operations() {
		if operationNames[op] == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// MarshalText encodes the operation as its boundary name
func (op Operation) MarshalText() ([]byte, error) {
	if _, ok := operationNames[op]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText decodes a boundary name
func (op *Operation) UnmarshalText(text []byte) error {
	parsed, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}
