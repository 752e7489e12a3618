package translation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockStore is an in-memory Store that records calls.
type mockStore struct {
	mu sync.Mutex

	rows         map[domain.Kind][]domain.SourceRow
	entries      map[string]domain.DictionaryEntry
	translations []domain.Translation
	translated   map[string]bool
	nextEntryID  int64

	listErr   error
	createErr error
	insertErr error
	markErr   error

	callLog []string
}

func newMockStore() *mockStore {
	return &mockStore{
		rows:       make(map[domain.Kind][]domain.SourceRow),
		entries:    make(map[string]domain.DictionaryEntry),
		translated: make(map[string]bool),
	}
}

func rowKey(kind domain.Kind, id int64) string {
	return fmt.Sprintf("%s/%d", kind, id)
}

func entryKey(group string, id int64) string {
	return fmt.Sprintf("%s/%d", group, id)
}

func (m *mockStore) logCall(name string) {
	m.callLog = append(m.callLog, name)
}

func (m *mockStore) ListUntranslated(_ context.Context, kind domain.Kind) ([]domain.SourceRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("ListUntranslated")
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.SourceRow
	for _, r := range m.rows[kind] {
		if !m.translated[rowKey(kind, r.ID)] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) FindEntry(_ context.Context, key domain.DictionaryEntry) (domain.DictionaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("FindEntry")
	e, ok := m.entries[entryKey(key.Group, key.GroupID)]
	if !ok || e.GroupRefID != key.GroupRefID {
		return domain.DictionaryEntry{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockStore) CreateEntry(_ context.Context, e domain.DictionaryEntry) (domain.DictionaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("CreateEntry")
	if m.createErr != nil {
		return domain.DictionaryEntry{}, m.createErr
	}
	m.nextEntryID++
	e.ID = m.nextEntryID
	m.entries[entryKey(e.Group, e.GroupID)] = e
	return e, nil
}

func (m *mockStore) InsertTranslations(_ context.Context, ts []domain.Translation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("InsertTranslations")
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.translations = append(m.translations, ts...)
	return len(ts), nil
}

func (m *mockStore) MarkTranslated(_ context.Context, kind domain.Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("MarkTranslated")
	if m.markErr != nil {
		return m.markErr
	}
	m.translated[rowKey(kind, id)] = true
	return nil
}

func (m *mockStore) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.callLog {
		if c == name {
			n++
		}
	}
	return n
}

// fakeTx runs fn directly and counts transactions.
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// echoCompleter answers every prompt with "<lang code>:<word>" values,
// optionally failing or returning garbage for selected calls.
type echoCompleter struct {
	langs   []domain.Language
	prompts []string
	fail    map[int]error
	garbage map[int]bool
}

func (c *echoCompleter) Complete(_ context.Context, prompt string) (string, error) {
	call := len(c.prompts)
	c.prompts = append(c.prompts, prompt)

	if err := c.fail[call]; err != nil {
		return "", err
	}
	if c.garbage[call] {
		return "I am not able to translate these.", nil
	}

	idx := strings.LastIndex(prompt, "Words: ")
	words := strings.Split(prompt[idx+len("Words: "):], ", ")

	parts := make([]string, 0, len(c.langs))
	for _, l := range c.langs {
		vals := make([]string, len(words))
		for i, w := range words {
			vals[i] = fmt.Sprintf("%q", l.Code+":"+w)
		}
		parts = append(parts, fmt.Sprintf("%q: [%s]", l.Name, strings.Join(vals, ", ")))
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func seedRows(m *mockStore, kind domain.Kind, n int) {
	for i := 1; i <= n; i++ {
		m.rows[kind] = append(m.rows[kind], domain.SourceRow{
			Kind:        kind,
			ID:          int64(i),
			ReferenceID: fmt.Sprint(100 + i),
			Text:        fmt.Sprintf("Sport %d", i),
		})
	}
}

func newTestProcessor(store *mockStore, completer Completer, tx *fakeTx, langs []domain.Language) *Processor {
	return NewProcessor(store, completer, tx, Config{BatchSize: 10, Languages: langs}, newTestLogger())
}

func TestProcessKind_BatchesAndTranslations(t *testing.T) {
	t.Parallel()

	langs := domain.AllLanguages()
	store := newMockStore()
	seedRows(store, domain.KindSports, 23)
	completer := &echoCompleter{langs: langs}
	tx := &fakeTx{}

	res, err := newTestProcessor(store, completer, tx, langs).ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)

	assert.Equal(t, 23, res.Rows)
	assert.Equal(t, 3, res.Batches)
	assert.Len(t, completer.prompts, 3)
	assert.Equal(t, 23, res.TranslatedRows)
	assert.Equal(t, 23*len(langs), res.Translations)
	assert.Equal(t, 23, res.EntriesCreated)
	assert.Equal(t, 23, tx.calls)
	assert.Len(t, store.translations, 23*12)
	assert.Len(t, store.translated, 23)
}

func TestProcessKind_WordOrderPreserved(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English, domain.Turkish}
	store := newMockStore()
	seedRows(store, domain.KindSports, 3)
	completer := &echoCompleter{langs: langs}

	_, err := newTestProcessor(store, completer, &fakeTx{}, langs).ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(completer.prompts[0], "Words: Sport 1, Sport 2, Sport 3"))

	byEntry := make(map[int64]map[string]string)
	for _, tr := range store.translations {
		if byEntry[tr.DictionaryID] == nil {
			byEntry[tr.DictionaryID] = make(map[string]string)
		}
		byEntry[tr.DictionaryID][tr.Language] = tr.Value
	}
	for i := int64(1); i <= 3; i++ {
		entry := store.entries[entryKey("sports", i)]
		assert.Equal(t, fmt.Sprintf("tr:Sport %d", i), byEntry[entry.ID]["tr"])
		assert.Equal(t, fmt.Sprintf("en:Sport %d", i), byEntry[entry.ID]["en"])
		assert.Equal(t, fmt.Sprint(100+i), entry.GroupRefID)
	}
}

func TestProcessKind_MalformedReplySkipsBatch(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := newMockStore()
	seedRows(store, domain.KindSports, 15)
	completer := &echoCompleter{langs: langs, garbage: map[int]bool{0: true}}

	res, err := newTestProcessor(store, completer, &fakeTx{}, langs).ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Batches)
	assert.Equal(t, 1, res.FailedBatches)
	assert.Equal(t, 10, res.SkippedRows)
	assert.Equal(t, 5, res.TranslatedRows)
	for i := int64(1); i <= 10; i++ {
		assert.False(t, store.translated[rowKey(domain.KindSports, i)], "row %d", i)
	}
	for i := int64(11); i <= 15; i++ {
		assert.True(t, store.translated[rowKey(domain.KindSports, i)], "row %d", i)
	}
	assert.Len(t, store.translations, 5)
}

func TestProcessKind_RequestFailureSkipsBatch(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := newMockStore()
	seedRows(store, domain.KindCountries, 4)
	completer := &echoCompleter{langs: langs, fail: map[int]error{0: errors.New("rate limited")}}

	res, err := newTestProcessor(store, completer, &fakeTx{}, langs).ProcessKind(context.Background(), domain.KindCountries)
	require.NoError(t, err)

	assert.Equal(t, 1, res.FailedBatches)
	assert.Zero(t, res.TranslatedRows)
	assert.Zero(t, store.count("InsertTranslations"))
	assert.Zero(t, store.count("MarkTranslated"))
}

func TestProcessKind_RerunReusesEntries(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := newMockStore()
	seedRows(store, domain.KindSports, 3)
	p := newTestProcessor(store, &echoCompleter{langs: langs, garbage: map[int]bool{0: true}}, &fakeTx{}, langs)

	first, err := p.ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)
	assert.Equal(t, 3, first.EntriesCreated)
	assert.Zero(t, first.TranslatedRows)

	p.completer = &echoCompleter{langs: langs}
	second, err := p.ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)
	assert.Zero(t, second.EntriesCreated)
	assert.Equal(t, 3, second.TranslatedRows)
	assert.Len(t, store.entries, 3)

	third, err := p.ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)
	assert.Zero(t, third.Rows)
	assert.Zero(t, third.Batches)
}

func TestProcessKind_PersistFailureLeavesRowUntranslated(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := newMockStore()
	store.markErr = errors.New("deadlock")
	seedRows(store, domain.KindSports, 2)

	res, err := newTestProcessor(store, &echoCompleter{langs: langs}, &fakeTx{}, langs).ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)

	assert.Equal(t, 2, res.FailedRows)
	assert.Zero(t, res.TranslatedRows)
	assert.Empty(t, store.translated)
}

func TestProcessKind_EntryFailureAbortsKind(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := newMockStore()
	store.createErr = errors.New("connection reset")
	seedRows(store, domain.KindSports, 2)
	completer := &echoCompleter{langs: langs}

	_, err := newTestProcessor(store, completer, &fakeTx{}, langs).ProcessKind(context.Background(), domain.KindSports)
	require.Error(t, err)
	assert.Empty(t, completer.prompts)
}

func TestProcessKind_ThemeText(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := newMockStore()
	store.rows[domain.KindThemes] = []domain.SourceRow{{Kind: domain.KindThemes, ID: 1, Text: "place_your_bet"}}
	completer := &echoCompleter{langs: langs}

	_, err := newTestProcessor(store, completer, &fakeTx{}, langs).ProcessKind(context.Background(), domain.KindThemes)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(completer.prompts[0], "Words: place your bet"))
	assert.Equal(t, "admin", store.entries[entryKey("admin", 1)].Group)
}

func TestProcessKind_DryRun(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := newMockStore()
	seedRows(store, domain.KindSports, 12)
	completer := &echoCompleter{langs: langs}

	p := NewProcessor(store, completer, &fakeTx{}, Config{BatchSize: 10, Languages: langs, DryRun: true}, newTestLogger())
	res, err := p.ProcessKind(context.Background(), domain.KindSports)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Batches)
	assert.Equal(t, 12, res.SkippedRows)
	assert.Empty(t, completer.prompts)
	assert.Zero(t, store.count("CreateEntry"))
}

func TestRun_ContinuesAfterKindFailure(t *testing.T) {
	t.Parallel()

	langs := []domain.Language{domain.English}
	store := &failingListStore{mockStore: newMockStore(), failKind: domain.KindSports}
	seedRows(store.mockStore, domain.KindCountries, 2)

	p := NewProcessor(store, &echoCompleter{langs: langs}, &fakeTx{}, Config{BatchSize: 10, Languages: langs}, newTestLogger())
	res, err := p.Run(context.Background(), []domain.Kind{domain.KindSports, domain.KindCountries})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translate sports")
	assert.Equal(t, 2, res.TranslatedRows)
}

type failingListStore struct {
	*mockStore
	failKind domain.Kind
}

func (s *failingListStore) ListUntranslated(ctx context.Context, kind domain.Kind) ([]domain.SourceRow, error) {
	if kind == s.failKind {
		return nil, errors.New("relation does not exist")
	}
	return s.mockStore.ListUntranslated(ctx, kind)
}
