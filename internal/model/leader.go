package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Scalar is a json string, number, bool or null kept in its original
// encoding, the leaders api is not consistent about quoting ids and years.
type Scalar struct {
	raw json.RawMessage
}

// NewScalar encodes `value` (a string or a number) as a Scalar.
func NewScalar(value any) Scalar {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("scalar: cannot encode %v: %s", value, err))
	}
	return Scalar{raw: raw}
}

func (s Scalar) IsNull() bool {
	return len(s.raw) == 0 || string(s.raw) == "null"
}

// String renders the scalar as plain text, strings are unquoted and null is
// the empty string.
func (s Scalar) String() string {
	if s.IsNull() {
		return ""
	}
	if s.raw[0] == '"' {
		var str string
		if err := json.Unmarshal(s.raw, &str); err == nil {
			return str
		}
	}
	return string(s.raw)
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return fmt.Errorf("expected a scalar, got %s", trimmed)
	}
	s.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// Leader is one person's record as returned by the leaders api, plus the
// summary derived from their wikipedia page.
type Leader struct {
	ID           Scalar
	FirstName    string
	LastName     string
	BirthYear    Scalar
	WikipediaUrl string

	// Summary is nil when the leader has no url or when the page could not
	// be summarized.
	Summary *string
	// Summarized is set once a summary (possibly nil) has been attached.
	// An unsummarized leader has no summary field at all in json output.
	Summarized bool

	// Extra holds every field the api returned that is not listed above.
	Extra map[string]json.RawMessage

	// absent holds the known fields the decoded object did not have, they
	// are left out again when encoding.
	absent map[string]bool
}

// WithSummary returns a copy of the leader with `summary` attached.
func (l Leader) WithSummary(summary *string) Leader {
	l.Summary = summary
	l.Summarized = true
	return l
}

// Name is the display name used in reports.
func (l Leader) Name() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// SummaryText is the summary or the empty string.
func (l Leader) SummaryText() string {
	if l.Summary == nil {
		return ""
	}
	return *l.Summary
}

const (
	fieldID           = "id"
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldBirthYear    = "birth_year"
	fieldWikipediaUrl = "wikipedia_url"
	fieldSummary      = "summary"
)

var knownFields = []string{fieldID, fieldFirstName, fieldLastName, fieldBirthYear, fieldWikipediaUrl}

func decodeOptionalString(raw json.RawMessage, out *string) error {
	var value *string
	err := json.Unmarshal(raw, &value)
	if err != nil {
		return err
	}
	if value != nil {
		*out = *value
	}
	return nil
}

func (l *Leader) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(data, &fields)
	if err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("leader: expected an object, got null")
	}

	out := Leader{}
	for _, key := range knownFields {
		if _, ok := fields[key]; ok {
			continue
		}
		if out.absent == nil {
			out.absent = map[string]bool{}
		}
		out.absent[key] = true
	}
	for key, raw := range fields {
		switch key {
		case fieldID:
			err = out.ID.UnmarshalJSON(raw)
		case fieldBirthYear:
			err = out.BirthYear.UnmarshalJSON(raw)
		case fieldFirstName:
			err = decodeOptionalString(raw, &out.FirstName)
		case fieldLastName:
			err = decodeOptionalString(raw, &out.LastName)
		case fieldWikipediaUrl:
			err = decodeOptionalString(raw, &out.WikipediaUrl)
		case fieldSummary:
			var summary *string
			err = json.Unmarshal(raw, &summary)
			out.Summary = summary
			out.Summarized = true
		default:
			if out.Extra == nil {
				out.Extra = map[string]json.RawMessage{}
			}
			out.Extra[key] = raw
		}
		if err != nil {
			return fmt.Errorf("leader: field %s: %w", key, err)
		}
	}

	*l = out
	return nil
}

// marshalValue is json.Marshal without html escaping, summaries are written
// to disk and should stay readable.
func marshalValue(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(value)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalJSON writes the known fields first in a fixed order, then the extra
// fields sorted by key, then the summary if one was attached. Known fields
// missing from the decoded object stay missing.
func (l Leader) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(key string, value any) error {
		if l.absent[key] {
			return nil
		}
		encoded, err := marshalValue(value)
		if err != nil {
			return fmt.Errorf("leader: field %s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		encodedKey, _ := marshalValue(key)
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	var wikipediaUrl *string
	if l.WikipediaUrl != "" {
		wikipediaUrl = &l.WikipediaUrl
	}

	err := write(fieldID, l.ID)
	if err == nil {
		err = write(fieldFirstName, l.FirstName)
	}
	if err == nil {
		err = write(fieldLastName, l.LastName)
	}
	if err == nil {
		err = write(fieldBirthYear, l.BirthYear)
	}
	if err == nil {
		err = write(fieldWikipediaUrl, wikipediaUrl)
	}
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(l.Extra))
	for k := range l.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		err = write(k, l.Extra[k])
		if err != nil {
			return nil, err
		}
	}

	if l.Summarized {
		err = write(fieldSummary, l.Summary)
		if err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
