package templates

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/imaging"
)

// Template is the normalized reference image of one rank or suit symbol for
// one orientation.
type Template struct {
	Category    cards.Category
	Orientation cards.Orientation
	Symbol      cards.Symbol

	// Pixels is the grayscale symbol with transparent background flattened to 255.
	Pixels *image.Gray
}

// Set is the ordered templates of one (category, orientation) pair.
// Order follows cards.RankSymbols / cards.SuitSymbols; symbols whose asset was
// missing are simply absent.
type Set []Template

// Symbols returns the symbols present in the set, in order.
func (s Set) Symbols() []cards.Symbol {
	out := make([]cards.Symbol, 0, len(s))
	for _, t := range s {
		out = append(out, t.Symbol)
	}
	return out
}

// Key identifies one sub-library.
type Key struct {
	Category    cards.Category
	Orientation cards.Orientation
}

func (k Key) String() string {
	return k.Category.String() + "/" + k.Orientation.String()
}

// Asset names one reference file the library tried to load.
type Asset struct {
	Key    Key
	Symbol cards.Symbol
	Path   string
}

// Library holds every loaded template, split into independent sub-libraries
// per (category, orientation). A Library is immutable once returned by Load
// and may be shared by any number of goroutines.
type Library struct {
	sets    map[Key]Set
	missing []Asset
}

// Load reads the template library from the asset directory root.
// It returns an error only when root itself is not a readable directory.
func Load(root string, layout Layout, logger *zap.Logger) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("template root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template root %s is not a directory", root)
	}
	return LoadFS(os.DirFS(root), layout, logger)
}

// LoadFS reads the template library from fsys using layout to name assets.
//
// A missing asset is not an error: the symbol is left out of its set and
// recorded in Missing. An asset that exists but cannot be decoded is treated
// the same way and logged at warn level.
func LoadFS(fsys fs.FS, layout Layout, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	lib := &Library{sets: make(map[Key]Set)}

	for _, key := range Keys() {
		set := make(Set, 0, len(cards.SymbolsOf(key.Category)))
		for _, sym := range cards.SymbolsOf(key.Category) {
			name := layout.Path(key, sym)
			img, err := imaging.OpenFS(fsys, name)
			if err != nil {
				lib.missing = append(lib.missing, Asset{Key: key, Symbol: sym, Path: name})
				if errors.Is(err, fs.ErrNotExist) {
					logger.Debug("template asset missing", zap.String("set", key.String()), zap.String("path", name))
				} else {
					logger.Warn("template asset unreadable", zap.String("path", name), zap.Error(err))
				}
				continue
			}

			pixels := imaging.Flatten(img)
			if imaging.Empty(pixels) {
				lib.missing = append(lib.missing, Asset{Key: key, Symbol: sym, Path: name})
				logger.Warn("template asset is empty", zap.String("path", name))
				continue
			}

			set = append(set, Template{
				Category:    key.Category,
				Orientation: key.Orientation,
				Symbol:      sym,
				Pixels:      pixels,
			})
		}
		lib.sets[key] = set
	}

	logger.Info("template library loaded",
		zap.Int("templates", lib.Len()),
		zap.Int("missing", len(lib.missing)))

	return lib, nil
}

// Set returns the templates of one category and orientation. The returned
// slice must not be modified.
func (l *Library) Set(c cards.Category, o cards.Orientation) Set {
	return l.sets[Key{Category: c, Orientation: o}]
}

// Len returns the total number of loaded templates.
func (l *Library) Len() int {
	n := 0
	for _, s := range l.sets {
		n += len(s)
	}
	return n
}

// Missing lists the assets that could not be loaded, in load order.
func (l *Library) Missing() []Asset {
	out := make([]Asset, len(l.missing))
	copy(out, l.missing)
	return out
}

// Keys lists every sub-library key in load order.
func Keys() []Key {
	keys := make([]Key, 0, 6)
	for _, c := range []cards.Category{cards.CategoryRank, cards.CategorySuit} {
		for _, o := range cards.Orientations {
			keys = append(keys, Key{Category: c, Orientation: o})
		}
	}
	return keys
}

// LoadIndicator loads one standalone template, such as the turn marker, with
// the same transparency normalization as library assets.
func LoadIndicator(file string) (*image.Gray, error) {
	img, err := imaging.Open(file)
	if err != nil {
		return nil, err
	}
	g := imaging.Flatten(img)
	if imaging.Empty(g) {
		return nil, fmt.Errorf("indicator %s has no pixels", file)
	}
	return g, nil
}

// Layout maps each sub-library to a path pattern relative to the asset root.
// The placeholder {symbol} is replaced with the symbol's asset name
// ("A", "10", "Club", ...).
type Layout map[Key]string

// Placeholder is substituted by the symbol asset name in layout patterns.
const Placeholder = "{symbol}"

// DefaultLayout is the asset tree the reference images were authored in.
func DefaultLayout() Layout {
	return Layout{
		{cards.CategoryRank, cards.Left}:     "ranks/{symbol}l.png",
		{cards.CategoryRank, cards.Right}:    "ranks/{symbol}r.png",
		{cards.CategoryRank, cards.Straight}: "s_ranks/{symbol}.png",
		{cards.CategorySuit, cards.Left}:     "suits/{symbol}Left.png",
		{cards.CategorySuit, cards.Right}:    "suits/{symbol}Right.png",
		{cards.CategorySuit, cards.Straight}: "s_suits/{symbol}.png",
	}
}

// Path returns the asset path for a symbol. Paths always use forward slashes
// so that they are valid fs.FS names.
func (l Layout) Path(k Key, sym cards.Symbol) string {
	return path.Clean(strings.ReplaceAll(l[k], Placeholder, sym.AssetName()))
}

// Validate checks that every sub-library has a pattern containing the placeholder.
func (l Layout) Validate() error {
	for _, k := range Keys() {
		p, ok := l[k]
		if !ok || p == "" {
			return fmt.Errorf("template layout has no pattern for %s", k)
		}
		if !strings.Contains(p, Placeholder) {
			return fmt.Errorf("template layout pattern %q for %s lacks %s", p, k, Placeholder)
		}
	}
	return nil
}

// Merge returns a copy of l with the patterns of override applied on top.
func (l Layout) Merge(override Layout) Layout {
	out := make(Layout, len(l))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range override {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
