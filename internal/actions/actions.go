// Package actions translates decisions into clicks on the table's action
// buttons.
package actions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/decision"
	"github.com/ironsheep/card-vision/internal/detection"
)

// Clicker performs a primary click at absolute screen coordinates.
type Clicker interface {
	Click(ctx context.Context, x, y int) error
}

// ButtonMap holds the button positions in frame coordinates and the offset
// of the captured monitor on the desktop. CHECK and CALL share a button.
type ButtonMap struct {
	Fold   detection.Point `yaml:"fold" json:"fold"`
	Check  detection.Point `yaml:"check" json:"check"`
	Raise  detection.Point `yaml:"raise" json:"raise"`
	Offset detection.Point `yaml:"offset" json:"offset"`
}

// DefaultButtons is the 1920x1080 table layout.
func DefaultButtons() ButtonMap {
	return ButtonMap{
		Fold:  detection.Point{X: 913, Y: 970},
		Check: detection.Point{X: 1257, Y: 970},
		Raise: detection.Point{X: 1580, Y: 970},
	}
}

// ErrUnknownAction is returned for actions without a button.
var ErrUnknownAction = errors.New("no button for action")

// Target returns the absolute screen position of the button for a.
func (m ButtonMap) Target(a decision.Action) (detection.Point, error) {
	var p detection.Point
	switch a {
	case decision.Fold:
		p = m.Fold
	case decision.Check, decision.Call:
		p = m.Check
	case decision.Raise:
		p = m.Raise
	default:
		return detection.Point{}, fmt.Errorf("%w: %s", ErrUnknownAction, a)
	}
	return detection.Point{X: p.X + m.Offset.X, Y: p.Y + m.Offset.Y}, nil
}

// Validate rejects button positions with negative coordinates.
func (m ButtonMap) Validate() error {
	for name, p := range map[string]detection.Point{"fold": m.Fold, "check": m.Check, "raise": m.Raise} {
		if p.X < 0 || p.Y < 0 {
			return fmt.Errorf("button %s at %d,%d is off screen", name, p.X, p.Y)
		}
	}
	return nil
}

// Executor clicks the button matching each decision.
type Executor struct {
	clicker Clicker
	buttons ButtonMap
	logger  *zap.Logger
}

// NewExecutor returns an executor clicking through c. A nil logger is
// replaced by a no-op one.
func NewExecutor(c Clicker, buttons ButtonMap, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{clicker: c, buttons: buttons, logger: logger}
}

// Execute clicks the button for d. The bet size is logged but not entered;
// raising uses the table's preselected amount.
func (e *Executor) Execute(ctx context.Context, d decision.Decision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := e.buttons.Target(d.Action)
	if err != nil {
		return err
	}
	e.logger.Info("executing decision",
		zap.Stringer("action", d.Action),
		zap.Float64("bet_fraction", d.BetFraction),
		zap.Int("x", p.X),
		zap.Int("y", p.Y))
	if err := e.clicker.Click(ctx, p.X, p.Y); err != nil {
		return fmt.Errorf("click %s at %d,%d: %w", d.Action, p.X, p.Y, err)
	}
	return nil
}

// Click is one recorded click.
type Click struct {
	X, Y int
}

// DryRunClicker logs clicks instead of moving the pointer and keeps a record
// of them.
type DryRunClicker struct {
	logger *zap.Logger

	mu     sync.Mutex
	clicks []Click
}

// NewDryRunClicker returns a clicker that only logs.
func NewDryRunClicker(logger *zap.Logger) *DryRunClicker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunClicker{logger: logger}
}

func (d *DryRunClicker) Click(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.clicks = append(d.clicks, Click{X: x, Y: y})
	d.mu.Unlock()
	d.logger.Info("dry run click", zap.Int("x", x), zap.Int("y", y))
	return nil
}

// Clicks returns a copy of the clicks so far.
func (d *DryRunClicker) Clicks() []Click {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Click(nil), d.clicks...)
}
