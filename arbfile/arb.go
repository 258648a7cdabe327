// Package arbfile implements reading and writing of Flutter ARB (Application
// Resource Bundle) files.
//
// ARB files are JSON files with a specific structure:
//
//   - "@@locale" holds the BCP-47 language code (e.g. "en", "ja").
//   - Keys starting with "@" (other than "@@locale") are metadata entries
//     (e.g. "@greeting") describing the translatable key of the same name.
//   - All other string values are translatable.
//
// File naming convention: app_LANG.arb (e.g. app_en.arb, app_ja.arb) stored
// in a single directory (e.g. lib/l10n/).
//
// Round-trip fidelity: key order from the source file is preserved, and
// metadata keys added through SetMeta immediately follow their key.
// Non-ASCII text and HTML-sensitive characters are written verbatim.
package arbfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetaPrefix marks metadata keys.
const MetaPrefix = "@"

// localeKey is the reserved locale key.
const localeKey = "@@locale"

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// entry is a single key in the ARB file.
type entry struct {
	key      string
	value    string // decoded string value (translatable keys only)
	isMeta   bool   // true for @-keys (metadata / @@locale)
	rawValue []byte // original JSON value bytes (preserved for meta)
}

// File represents a parsed ARB file.
type File struct {
	// locale is the value of @@locale.
	locale string
	// entries stores all keys in document order.
	entries []entry
	// index maps key → index in entries.
	index map[string]int
}

// Meta is the metadata record attached to a generated entry.
type Meta struct {
	Description string `json:"description" yaml:"description"`
	SourceFile  string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	SourceLine  int    `json:"source_line,omitempty" yaml:"source_line,omitempty"`
}

// New returns an empty file for locale. An empty locale omits @@locale.
func New(locale string) *File {
	return &File{locale: locale, index: make(map[string]int)}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an ARB file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Load reads path if it exists. A missing file yields an empty resource and
// exists=false. On a read or parse failure the returned file is empty and
// usable, exists is true and err describes the failure.
func Load(path string) (f *File, exists bool, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return New(""), false, nil
		}
		return New(""), true, fmt.Errorf("stat %s: %w", path, statErr)
	}
	f, err = ParseFile(path)
	if err != nil {
		return New(""), true, err
	}
	return f, true, nil
}

// Parse parses ARB content from a byte slice.
func Parse(data []byte) (*File, error) {
	// Decode as ordered key-value using json.Decoder with token streaming
	// to preserve key order.
	f := New("")

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing ARB: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parsing ARB: expected '{', got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing ARB key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing ARB: expected string key, got %T", keyTok)
		}

		var rawVal json.RawMessage
		if err := dec.Decode(&rawVal); err != nil {
			return nil, fmt.Errorf("parsing ARB value for %q: %w", key, err)
		}

		isMeta := strings.HasPrefix(key, MetaPrefix)

		if key == localeKey {
			var s string
			_ = json.Unmarshal(rawVal, &s)
			f.locale = s
		}

		e := entry{
			key:      key,
			isMeta:   isMeta,
			rawValue: rawVal,
		}
		if !isMeta {
			var s string
			if err := json.Unmarshal(rawVal, &s); err == nil {
				e.value = s
			}
		}
		f.put(e)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing ARB: %w", err)
	}

	return f, nil
}

// put appends e, or replaces an earlier entry with the same key in place
// (duplicate JSON keys: last one wins, like encoding/json).
func (f *File) put(e entry) {
	if idx, ok := f.index[e.key]; ok {
		f.entries[idx] = e
		return
	}
	f.index[e.key] = len(f.entries)
	f.entries = append(f.entries, e)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Locale returns the @@locale value.
func (f *File) Locale() string { return f.locale }

// SetLocale sets the @@locale value written by Marshal.
func (f *File) SetLocale(locale string) { f.locale = locale }

// Keys returns all translatable (non-metadata) keys in document order.
func (f *File) Keys() []string {
	var keys []string
	for _, e := range f.entries {
		if !e.isMeta {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Len returns the number of translatable keys.
func (f *File) Len() int {
	n := 0
	for _, e := range f.entries {
		if !e.isMeta {
			n++
		}
	}
	return n
}

// Has reports whether key exists in the file. Metadata keys are matched
// literally (Has("@greeting")).
func (f *File) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Get returns the string value for a translatable key.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok && !f.entries[idx].isMeta {
		return f.entries[idx].value, true
	}
	return "", false
}

// GetMeta decodes the metadata object for key ("@"+key).
func (f *File) GetMeta(key string) (Meta, bool) {
	idx, ok := f.index[MetaPrefix+key]
	if !ok {
		return Meta{}, false
	}
	var m Meta
	if err := json.Unmarshal(f.entries[idx].rawValue, &m); err != nil {
		return Meta{}, false
	}
	return m, true
}

// MissingMetadata returns translatable keys that have no "@key" entry,
// in document order.
func (f *File) MissingMetadata() []string {
	var missing []string
	for _, e := range f.entries {
		if e.isMeta {
			continue
		}
		if !f.Has(MetaPrefix + e.key) {
			missing = append(missing, e.key)
		}
	}
	return missing
}

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// Add appends a new translatable key. It returns false, leaving the file
// unchanged, if the key already exists or is a metadata key.
func (f *File) Add(key, value string) bool {
	if key == "" || strings.HasPrefix(key, MetaPrefix) || f.Has(key) {
		return false
	}
	raw, _ := marshalValue(value)
	f.put(entry{key: key, value: value, rawValue: raw})
	return true
}

// SetMeta sets the metadata object for key, stored under "@"+key.
// A new metadata entry is placed directly after key when key exists.
func (f *File) SetMeta(key string, meta any) error {
	raw, err := marshalValue(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata for %q: %w", key, err)
	}
	metaKey := MetaPrefix + key
	if idx, ok := f.index[metaKey]; ok {
		f.entries[idx].rawValue = raw
		return nil
	}

	e := entry{key: metaKey, isMeta: true, rawValue: raw}
	idx, ok := f.index[key]
	if !ok || idx == len(f.entries)-1 {
		f.put(e)
		return nil
	}

	pos := idx + 1
	f.entries = append(f.entries, entry{})
	copy(f.entries[pos+1:], f.entries[pos:])
	f.entries[pos] = e
	for i := pos; i < len(f.entries); i++ {
		f.index[f.entries[i].key] = i
	}
	return nil
}

// Clone returns a deep copy of f.
func (f *File) Clone() *File {
	c := New(f.locale)
	for _, e := range f.entries {
		cp := e
		cp.rawValue = append([]byte(nil), e.rawValue...)
		c.put(cp)
	}
	return c
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// marshalValue encodes v without HTML escaping and without the trailing
// newline added by json.Encoder.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Marshal serialises the ARB file to JSON with 2-space indentation.
// The @@locale key is always written first.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	first := true
	sep := func() {
		if first {
			buf.WriteString("\n")
			first = false
			return
		}
		buf.WriteString(",\n")
	}

	if f.locale != "" {
		raw, _ := marshalValue(f.locale)
		sep()
		buf.WriteString("  \"@@locale\": ")
		buf.Write(raw)
	}

	for _, e := range f.entries {
		if e.key == localeKey {
			continue // already written
		}
		keyBytes, err := marshalValue(e.key)
		if err != nil {
			return nil, err
		}
		sep()
		buf.WriteString("  ")
		buf.Write(keyBytes)
		buf.WriteString(": ")
		if e.isMeta {
			// Pretty-print metadata objects.
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, e.rawValue, "  ", "  "); err != nil {
				buf.Write(e.rawValue)
			} else {
				buf.Write(pretty.Bytes())
			}
		} else {
			raw, err := marshalValue(e.value)
			if err != nil {
				return nil, err
			}
			buf.Write(raw)
		}
	}

	if first {
		buf.WriteString("}\n")
	} else {
		buf.WriteString("\n}\n")
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler, keeping document order.
func (f *File) MarshalJSON() ([]byte, error) {
	return f.Marshal()
}

// MarshalYAML implements yaml.Marshaler, keeping document order.
func (f *File) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value)
	}

	if f.locale != "" {
		add(localeKey, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.locale})
	}
	for _, e := range f.entries {
		if e.key == localeKey {
			continue
		}
		if !e.isMeta {
			add(e.key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.value})
			continue
		}
		var v any
		if err := json.Unmarshal(e.rawValue, &v); err != nil {
			return nil, fmt.Errorf("decoding metadata %q: %w", e.key, err)
		}
		var vn yaml.Node
		if err := vn.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding metadata %q: %w", e.key, err)
		}
		add(e.key, &vn)
	}
	return node, nil
}

// WriteFile serialises and writes to path.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Append returns a copy of base with every key of extra that base lacks
// appended in extra's order, metadata included. Neither input is modified.
func Append(base, extra *File) *File {
	out := base.Clone()
	for _, e := range extra.entries {
		if e.key == localeKey || out.Has(e.key) {
			continue
		}
		cp := e
		cp.rawValue = append([]byte(nil), e.rawValue...)
		out.put(cp)
	}
	return out
}
