package template

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/testutil"
)

func TestApplyTemplateRoundTrip(t *testing.T) {
	files := map[string]string{"a.txt": "alpha", "sub/b.txt": "beta", "sub/deep/c": ""}
	src := testutil.WriteTree(t, files)

	tpl, err := NewMaker(MakerOptions{}).Make("demo", src, nil)
	if err != nil {
		t.Fatalf("Make() error = %v", err)
	}

	dst := filepath.Join(t.TempDir(), "out")
	written, err := ApplyTemplate(tpl, dst, false)
	if err != nil {
		t.Fatalf("ApplyTemplate() error = %v", err)
	}
	if len(written) != len(files) {
		t.Fatalf("expected %d files written, got %v", len(files), written)
	}
	for rel, content := range files {
		testutil.AssertFileContent(t, filepath.Join(dst, filepath.FromSlash(rel)), content)
	}

	again, err := NewMaker(MakerOptions{}).Make("demo", dst, nil)
	if err != nil {
		t.Fatalf("Make() error = %v", err)
	}
	if again.Digest() != tpl.Digest() {
		t.Fatal("materialised tree differs from the template")
	}
}

func TestApplyTemplateRefusesOverwrite(t *testing.T) {
	dst := testutil.WriteTree(t, map[string]string{"b.txt": "mine"})
	tpl := &Template{Name: "demo", FileTree: map[string][]byte{
		"a.txt": []byte("a"),
		"b.txt": []byte("theirs"),
	}}

	_, err := ApplyTemplate(tpl, dst, false)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("ApplyTemplate() error = %v, want ErrAlreadyExists", err)
	}
	testutil.AssertFileContent(t, filepath.Join(dst, "b.txt"), "mine")
	testutil.AssertFileNotExists(t, filepath.Join(dst, "a.txt"))

	if _, err := ApplyTemplate(tpl, dst, true); err != nil {
		t.Fatalf("ApplyTemplate(force) error = %v", err)
	}
	testutil.AssertFileContent(t, filepath.Join(dst, "b.txt"), "theirs")
}

func TestApplyTemplateRejectsUnsafeKeys(t *testing.T) {
	parent := t.TempDir()
	dst := filepath.Join(parent, "out")

	for _, key := range []string{"../escape.txt", "/abs.txt", "a/../../x"} {
		tpl := &Template{Name: "evil", FileTree: map[string][]byte{
			"ok.txt": []byte("ok"),
			key:      []byte("bad"),
		}}
		if _, err := ApplyTemplate(tpl, dst, true); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("key %q: error = %v, want ErrInvalidInput", key, err)
		}
	}
	testutil.AssertFileNotExists(t, filepath.Join(parent, "escape.txt"))
	testutil.AssertFileNotExists(t, filepath.Join(dst, "ok.txt"))
}

func TestApplyTemplateTargetIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	tpl := &Template{Name: "demo", FileTree: map[string][]byte{"a": []byte("a")}}
	if _, err := ApplyTemplate(tpl, file, false); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("ApplyTemplate() error = %v, want ErrInvalidInput", err)
	}
}
