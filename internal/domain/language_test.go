package domain

import (
	"errors"
	"testing"
)

func TestAllLanguages(t *testing.T) {
	t.Parallel()

	langs := AllLanguages()
	if len(langs) != 12 {
		t.Fatalf("len(AllLanguages()) = %d, want 12", len(langs))
	}
	if langs[0] != English || langs[11] != Korean {
		t.Errorf("unexpected order: first=%v last=%v", langs[0], langs[11])
	}

	// Callers must not be able to mutate the package table.
	langs[0] = Language{}
	if AllLanguages()[0] != English {
		t.Error("AllLanguages returned shared slice")
	}
}

func TestParseLanguages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "empty selects all", raw: "", want: []string{"en", "tr", "ar", "es", "pt", "ru", "fr", "de", "zh", "ja", "it", "ko"}},
		{name: "subset keeps order", raw: "tr, EN", want: []string{"tr", "en"}},
		{name: "duplicates dropped", raw: "en,en,ar", want: []string{"en", "ar"}},
		{name: "unknown code", raw: "en,xx", wantErr: true},
		{name: "only separators", raw: ",,", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLanguages(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, code := range tt.want {
				if got[i].Code != code {
					t.Errorf("got[%d].Code = %q, want %q", i, got[i].Code, code)
				}
			}
		})
	}
}
