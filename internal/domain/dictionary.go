package domain

// SourceRow is an untranslated row of some Kind, reduced to what the
// translation path needs. DictionaryID is set once its entry exists.
type SourceRow struct {
	Kind         Kind
	ID           int64
	ReferenceID  string
	Text         string
	DictionaryID int64
}

// Word returns the text sent to the translation service.
func (r SourceRow) Word() string {
	return r.Kind.DisplayText(r.Text)
}

// DictionaryEntry anchors all translations of one source row.
type DictionaryEntry struct {
	ID         int64
	Group      string
	GroupID    int64
	GroupRefID string
}

// NewDictionaryEntry builds the entry for a source row.
func NewDictionaryEntry(row SourceRow) DictionaryEntry {
	return DictionaryEntry{
		Group:      row.Kind.DictionaryGroup(),
		GroupID:    row.ID,
		GroupRefID: row.ReferenceID,
	}
}

// Translation is the value of one dictionary entry in one language.
type Translation struct {
	DictionaryID int64
	Language     string
	Value        string
}
