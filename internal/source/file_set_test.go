package source

import (
	"testing"
)

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	idx := buildLineIndex(content)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}}, // the '\n' itself
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}}, // EOF
	}
	for _, tc := range cases {
		if got := toLineCol(idx, tc.off); got != tc.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\rc")...)
	out, flags := Normalize(in)
	if string(out) != "a\nb\rc" {
		t.Fatalf("normalized = %q", out)
	}
	if flags&FileHadBOM == 0 || flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", flags)
	}
	if flags&FileNormalizedNFC != 0 {
		t.Fatalf("ascii input must already be NFC")
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	out, flags := Normalize([]byte("e\u0301"))
	if string(out) != "\u00e9" {
		t.Fatalf("nfc = %q", out)
	}
	if flags&FileNormalizedNFC == 0 {
		t.Fatal("missing FileNormalizedNFC")
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.es", []byte("first\nsecond\nthird"))
	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Fatal("virtual flag not set")
	}
	for n, want := range map[uint32]string{1: "first", 2: "second", 3: "third", 4: "", 0: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestResolveAndLookup(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("dir/../m.es", []byte("fn main {\n  ret 0\n}\n"))
	if _, ok := fs.GetByPath("m.es"); !ok {
		t.Fatal("path not normalized")
	}
	start, end := fs.Resolve(Span{File: id, Start: 12, End: 17})
	if start != (LineCol{2, 3}) || end != (LineCol{2, 8}) {
		t.Fatalf("resolve = %+v..%+v", start, end)
	}
	if fs.Len() != 1 {
		t.Fatalf("len = %d", fs.Len())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 2, End: 5}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 6}) {
		t.Fatalf("cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 9}); got != a {
		t.Fatalf("cross-file cover = %v", got)
	}
}
