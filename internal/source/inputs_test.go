package source

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"Right_pre.json", "Left_pre.json", "Center_post.json", "notes.txt"} {
		writeFixture(t, dir, name, []byte("{}"))
	}

	got, err := ResolveInputs([]string{
		filepath.Join(dir, "*_pre.json"),
		filepath.Join(dir, "Center_post.json"),
		"  ",
	})
	if err != nil {
		t.Fatalf("ResolveInputs failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "Left_pre.json"),
		filepath.Join(dir, "Right_pre.json"),
		filepath.Join(dir, "Center_post.json"),
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveInputs() = %v, want %v", got, want)
	}
}

func TestResolveInputs_KeepsLiteralOrder(t *testing.T) {
	got, err := ResolveInputs([]string{"b.json", "a.json", "b.json"})
	if err != nil {
		t.Fatalf("ResolveInputs failed: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"b.json", "a.json", "b.json"}) {
		t.Errorf("ResolveInputs() = %v", got)
	}
}

func TestResolveInputs_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ResolveInputs(nil); !errors.Is(err, ErrNoInputs) {
		t.Errorf("ResolveInputs(nil) error = %v, want ErrNoInputs", err)
	}

	if _, err := ResolveInputs([]string{filepath.Join(dir, "**", "*.json")}); !errors.Is(err, ErrNoMatch) {
		t.Errorf("ResolveInputs(no match) error = %v, want ErrNoMatch", err)
	}
}

func TestResolveInputs_ExistingFileWithGlobCharacters(t *testing.T) {
	dir := t.TempDir()

	literal := writeFixture(t, dir, "Left[pre].json", []byte("{}"))
	writeFixture(t, dir, "Leftp.json", []byte("{}"))
	braces := writeFixture(t, dir, "{draft}.json", []byte("{}"))

	got, err := ResolveInputs([]string{literal, braces})
	if err != nil {
		t.Fatalf("ResolveInputs failed: %v", err)
	}

	want := []string{literal, braces}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveInputs() = %v, want %v", got, want)
	}

	if filepath.Base(got[0]) != "Left[pre].json" {
		t.Errorf("file name changed: %s", got[0])
	}
}
