package normalizer

import (
	"errors"
	"reflect"
	"testing"

	"newsflat/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p, err := NewProcessor(DefaultOptions())
	if err != nil {
		t.Fatalf("NewProcessor returned unexpected error: %v", err)
	}

	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestNewProcessor_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{name: "Missing items key", mutate: func(o *Options) { o.ItemsKey = " " }, wantErr: ErrMissingItemsKey},
		{name: "Missing provenance", mutate: func(o *Options) { o.ProvenanceField = "" }, wantErr: ErrMissingProvenanceField},
		{name: "Bad separator", mutate: func(o *Options) { o.Separator = "__" }, wantErr: ErrInvalidSeparator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)

			if _, err := NewProcessor(opts); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewProcessor error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessor_Process(t *testing.T) {
	p, err := NewProcessor(DefaultOptions())
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}

	doc := &models.Document{
		Name: "a.json",
		Root: map[string]models.Value{
			"articles": models.List(models.Object(map[string]models.Value{
				"title": models.String("Title"),
			})),
		},
	}

	records, stats, err := p.Process(doc)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(records) != 1 || stats.Records != 1 {
		t.Fatalf("Process returned %d records (stats %+v), want 1", len(records), stats)
	}

	if got := p.Unify(records); !reflect.DeepEqual(got, models.Schema{"from_json", "title"}) {
		t.Errorf("Unify() = %v", got)
	}
}

func TestProcessor_Process_SkippedDocument(t *testing.T) {
	p, err := NewProcessor(DefaultOptions())
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}

	doc := &models.Document{
		Name: "empty.json",
		Root: map[string]models.Value{"status": models.String("error")},
	}

	records, _, err := p.Process(doc)
	if err == nil {
		t.Fatal("Process expected error for document without items")
	}

	if !IsSkippable(err) {
		t.Errorf("Process error %v should be skippable", err)
	}

	if records != nil {
		t.Error("Process expected nil records for skipped document")
	}
}

func TestStats_Add(t *testing.T) {
	s := Stats{Items: 1, Records: 1}
	s.Add(Stats{Items: 3, Records: 2, SkippedItems: 1})

	if s != (Stats{Items: 4, Records: 3, SkippedItems: 1}) {
		t.Errorf("Add() = %+v", s)
	}
}
