package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const dateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DateTime is an RFC 3339 instant, rendered in UTC with milliseconds.
type DateTime struct {
	time.Time
}

func (DateTime) ImplementsGraphQLType(name string) bool { return name == "DateTime" }

func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	s, ok := input.(string)
	if !ok {
		return fmt.Errorf("DateTime must be a string, got %T", input)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("DateTime cannot represent an invalid date-time string %q", s)
	}
	t.Time = parsed.UTC()
	return nil
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(dateTimeLayout))
}

// Date accepts a calendar date (2006-01-02, midnight UTC) or a full RFC 3339
// instant.
type Date struct {
	time.Time
}

func (Date) ImplementsGraphQLType(name string) bool { return name == "Date" }

func (d *Date) UnmarshalGraphQL(input interface{}) error {
	s, ok := input.(string)
	if !ok {
		return fmt.Errorf("Date must be a string, got %T", input)
	}
	if parsed, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = parsed.UTC()
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("Date cannot represent an invalid date string %q", s)
	}
	d.Time = parsed.UTC()
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(time.DateOnly))
}

// NonNegativeInt is an Int that rejects negative values.
type NonNegativeInt int32

func (NonNegativeInt) ImplementsGraphQLType(name string) bool { return name == "NonNegativeInt" }

func (n *NonNegativeInt) UnmarshalGraphQL(input interface{}) error {
	var v float64
	switch x := input.(type) {
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case int:
		v = float64(x)
	case float64:
		v = x
	default:
		return fmt.Errorf("NonNegativeInt must be an integer, got %T", input)
	}
	if v != math.Trunc(v) || v > math.MaxInt32 {
		return fmt.Errorf("NonNegativeInt cannot represent %v", input)
	}
	if v < 0 {
		return fmt.Errorf("value is not a non-negative number: %v", input)
	}
	*n = NonNegativeInt(v)
	return nil
}

func (n NonNegativeInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int32(n))
}

func (n *NonNegativeInt) int32Ptr() *int32 {
	if n == nil {
		return nil
	}
	v := int32(*n)
	return &v
}
