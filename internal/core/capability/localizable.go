package capability

import "strings"

// DefaultLanguage is assumed for strings without an explicit language tag.
const DefaultLanguage = "en"

// LocalizableString is a single text in one language.
type LocalizableString struct {
	Lang    string
	Value   string
	Unknown Unknown
}

func (e LocalizableString) clone() LocalizableString {
	e.Unknown = e.Unknown.Clone()
	return e
}

// LocalizableStrings is an ordered collection holding at most one entry per
// exact language tag.
type LocalizableStrings struct {
	entries []LocalizableString
}

// NewLocalizableStrings builds a collection from entries, later duplicates
// replacing earlier ones.
func NewLocalizableStrings(entries ...LocalizableString) LocalizableStrings {
	var s LocalizableStrings
	for _, e := range entries {
		s.put(e)
	}
	return s
}

func normalizeLang(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

func genericLang(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}

// Len returns the number of entries.
func (s *LocalizableStrings) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in order.
func (s *LocalizableStrings) Entries() []LocalizableString {
	if s.entries == nil {
		return nil
	}
	out := make([]LocalizableString, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

// Set stores value for lang, replacing the value of any entry with the same
// exact tag. Preserved data of a replaced entry is kept.
func (s *LocalizableStrings) Set(lang, value string) {
	lang = normalizeLang(lang)
	for i := range s.entries {
		if strings.EqualFold(s.entries[i].Lang, lang) {
			s.entries[i].Value = value
			return
		}
	}
	s.entries = append(s.entries, LocalizableString{Lang: lang, Value: value})
}

// put stores e, replacing any entry with the same exact tag entirely.
func (s *LocalizableStrings) put(e LocalizableString) {
	e.Lang = normalizeLang(e.Lang)
	for i := range s.entries {
		if strings.EqualFold(s.entries[i].Lang, e.Lang) {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

// RemoveAll drops the entry for the exact tag lang.
func (s *LocalizableStrings) RemoveAll(lang string) {
	lang = normalizeLang(lang)
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !strings.EqualFold(e.Lang, lang) {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}

// Clear removes every entry.
func (s *LocalizableStrings) Clear() { s.entries = nil }

// ContainsExact reports whether an entry for exactly lang exists.
func (s *LocalizableStrings) ContainsExact(lang string) bool {
	_, ok := s.GetExact(lang)
	return ok
}

// GetExact returns the value stored for exactly lang.
func (s *LocalizableStrings) GetExact(lang string) (string, bool) {
	lang = normalizeLang(lang)
	for _, e := range s.entries {
		if strings.EqualFold(e.Lang, lang) {
			return e.Value, true
		}
	}
	return "", false
}

// GetBest picks the most suitable value for lang: the exact tag, then the
// generic language, then generic English, then US English, then the first entry.
func (s *LocalizableStrings) GetBest(lang string) (string, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	if v, ok := s.GetExact(lang); ok {
		return v, true
	}
	if v, ok := s.GetExact(genericLang(normalizeLang(lang))); ok {
		return v, true
	}
	if v, ok := s.GetExact(DefaultLanguage); ok {
		return v, true
	}
	if v, ok := s.GetExact("en-US"); ok {
		return v, true
	}
	return s.entries[0].Value, true
}

// Clone returns an independent copy.
func (s LocalizableStrings) Clone() LocalizableStrings {
	if s.entries == nil {
		return LocalizableStrings{}
	}
	entries := make([]LocalizableString, len(s.entries))
	for i, e := range s.entries {
		entries[i] = e.clone()
	}
	return LocalizableStrings{entries: entries}
}

// Equal compares entries in order. Language tags are compared ignoring case.
func (s LocalizableStrings) Equal(other LocalizableStrings) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for i := range s.entries {
		a, b := s.entries[i], other.entries[i]
		if !strings.EqualFold(a.Lang, b.Lang) || a.Value != b.Value || !a.Unknown.Equal(b.Unknown) {
			return false
		}
	}
	return true
}

// Hash combines entries in order.
func (s LocalizableStrings) Hash() uint64 {
	var h uint64
	for _, e := range s.entries {
		eh := mix(hashString(strings.ToLower(e.Lang)), hashString(e.Value))
		if !e.Unknown.IsEmpty() {
			eh = mix(eh, e.Unknown.Hash())
		}
		h = mix(h, eh)
	}
	return h
}
