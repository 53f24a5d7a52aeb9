package templates

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/testutil"
)

func TestLoadFS_Complete(t *testing.T) {
	lib, err := LoadFS(testutil.AssetFS(), DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}

	if got, want := lib.Len(), 3*13+3*4; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if n := len(lib.Missing()); n != 0 {
		t.Errorf("expected no missing assets, got %d", n)
	}

	for _, o := range cards.Orientations {
		ranks := lib.Set(cards.CategoryRank, o)
		if len(ranks) != 13 {
			t.Fatalf("%s rank set has %d templates", o, len(ranks))
		}
		if ranks[0].Symbol != cards.RankSymbol(cards.Ace) || ranks[12].Symbol != cards.RankSymbol(cards.King) {
			t.Errorf("%s rank set out of library order: %v", o, ranks.Symbols())
		}
		for _, tpl := range ranks {
			if tpl.Orientation != o || tpl.Category != cards.CategoryRank {
				t.Errorf("template %s tagged %s/%s", tpl.Symbol, tpl.Category, tpl.Orientation)
			}
		}
		if len(lib.Set(cards.CategorySuit, o)) != 4 {
			t.Errorf("%s suit set incomplete", o)
		}
	}
}

func TestLoadFS_TransparentBackgroundIsWhite(t *testing.T) {
	lib, err := LoadFS(testutil.AssetFS(), DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}

	tpl := lib.Set(cards.CategorySuit, cards.Straight)[1]
	if tpl.Symbol != cards.SuitSymbol(cards.Diamond) {
		t.Fatalf("expected diamond, got %s", tpl.Symbol)
	}
	if v := tpl.Pixels.GrayAt(0, 0).Y; v != 255 {
		t.Errorf("transparent corner loaded as %d, want 255", v)
	}
	b := tpl.Pixels.Bounds()
	if b.Dy() != testutil.GlyphHeight {
		t.Errorf("template height = %d, want %d", b.Dy(), testutil.GlyphHeight)
	}
	if v := tpl.Pixels.GrayAt(b.Dx()/2, b.Dy()/2).Y; v != 0 {
		t.Errorf("ink pixel loaded as %d, want 0", v)
	}
}

func TestLoadFS_MissingAssetDegradesSet(t *testing.T) {
	king := cards.RankSymbol(cards.King)
	lib, err := LoadFS(testutil.AssetFS(king), DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}

	for _, o := range cards.Orientations {
		set := lib.Set(cards.CategoryRank, o)
		if len(set) != 12 {
			t.Errorf("%s rank set has %d templates, want 12", o, len(set))
		}
		for _, sym := range set.Symbols() {
			if sym == king {
				t.Errorf("%s rank set still holds the missing king", o)
			}
		}
	}

	missing := lib.Missing()
	if len(missing) != 3 {
		t.Fatalf("expected 3 missing assets, got %d", len(missing))
	}
	if missing[0].Path != "ranks/Kl.png" || missing[0].Symbol != king {
		t.Errorf("unexpected first missing asset %+v", missing[0])
	}

	missing[0].Path = "changed"
	if lib.Missing()[0].Path == "changed" {
		t.Error("Missing must return a copy")
	}
}

func TestLoadFS_UnreadableAsset(t *testing.T) {
	fsys := testutil.AssetFS()
	fsys["s_suits/Heart.png"] = &fstest.MapFile{Data: []byte("not a png")}

	lib, err := LoadFS(fsys, DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if n := len(lib.Set(cards.CategorySuit, cards.Straight)); n != 3 {
		t.Errorf("straight suits = %d, want 3", n)
	}
}

func TestLoadFS_EmptyTree(t *testing.T) {
	lib, err := LoadFS(fstest.MapFS{}, DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if lib.Len() != 0 {
		t.Errorf("Len() = %d", lib.Len())
	}
	if len(lib.Missing()) != 3*13+3*4 {
		t.Errorf("Missing() = %d", len(lib.Missing()))
	}
}

func TestLoad_Root(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent"), DefaultLayout(), nil); err == nil {
		t.Error("Load should fail for a missing root")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(file, DefaultLayout(), nil); err == nil {
		t.Error("Load should fail when root is a file")
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "s_ranks"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "s_ranks", "Q.png"), testutil.PNG(testutil.Glyph(cards.RankSymbol(cards.Queen))), 0o644); err != nil {
		t.Fatal(err)
	}
	lib, err := Load(dir, DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if lib.Len() != 1 {
		t.Errorf("Len() = %d, want 1", lib.Len())
	}
}

func TestLayout(t *testing.T) {
	l := DefaultLayout()
	if err := l.Validate(); err != nil {
		t.Fatalf("default layout invalid: %v", err)
	}

	tests := []struct {
		key  Key
		sym  cards.Symbol
		want string
	}{
		{Key{cards.CategoryRank, cards.Left}, cards.RankSymbol(cards.Ten), "ranks/10l.png"},
		{Key{cards.CategoryRank, cards.Right}, cards.RankSymbol(cards.Ace), "ranks/Ar.png"},
		{Key{cards.CategoryRank, cards.Straight}, cards.RankSymbol(cards.Jack), "s_ranks/J.png"},
		{Key{cards.CategorySuit, cards.Left}, cards.SuitSymbol(cards.Club), "suits/ClubLeft.png"},
		{Key{cards.CategorySuit, cards.Right}, cards.SuitSymbol(cards.Spade), "suits/SpadeRight.png"},
		{Key{cards.CategorySuit, cards.Straight}, cards.SuitSymbol(cards.Heart), "s_suits/Heart.png"},
	}
	for _, tt := range tests {
		if got := l.Path(tt.key, tt.sym); got != tt.want {
			t.Errorf("Path(%s, %s) = %q, want %q", tt.key, tt.sym, got, tt.want)
		}
	}

	merged := l.Merge(Layout{{cards.CategoryRank, cards.Straight}: "board/{symbol}.png"})
	if got := merged.Path(Key{cards.CategoryRank, cards.Straight}, cards.RankSymbol(cards.Two)); got != "board/2.png" {
		t.Errorf("merged path = %q", got)
	}
	if l[Key{cards.CategoryRank, cards.Straight}] != "s_ranks/{symbol}.png" {
		t.Error("Merge must not modify the receiver")
	}

	broken := l.Merge(nil)
	broken[Key{cards.CategorySuit, cards.Left}] = "suits/fixed.png"
	if err := broken.Validate(); err == nil {
		t.Error("pattern without placeholder should be rejected")
	}
	delete(broken, Key{cards.CategorySuit, cards.Left})
	if err := broken.Validate(); err == nil {
		t.Error("layout without a sub-library pattern should be rejected")
	}
	if _, err := LoadFS(fstest.MapFS{}, broken, nil); err == nil {
		t.Error("LoadFS should reject an invalid layout")
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != 6 {
		t.Fatalf("expected 6 keys, got %d", len(keys))
	}
	if keys[0] != (Key{cards.CategoryRank, cards.Left}) || keys[5] != (Key{cards.CategorySuit, cards.Straight}) {
		t.Errorf("unexpected key order %v", keys)
	}
}
