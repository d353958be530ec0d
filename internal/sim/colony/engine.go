package colony

import (
	"errors"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spacecolony/internal/protocol"
	"spacecolony/internal/sim/catalogs"
	"spacecolony/internal/sim/layout"
	"spacecolony/internal/sim/ledger"
	"spacecolony/internal/sim/planner"
)

// Auditor receives one entry per engine outcome.
type Auditor interface {
	WriteAudit(AuditEntry) error
	Close() error
}

type AuditEntry struct {
	Session   string         `json:"session"`
	Seq       uint64         `json:"seq"`
	At        time.Time      `json:"at"`
	Action    string         `json:"action"`
	BuildType string         `json:"build_type,omitempty"`
	Index     int            `json:"index,omitempty"`
	Code      string         `json:"code"`
	Message   string         `json:"message,omitempty"`
	Flat      string         `json:"flat"`
	Stock     []ledger.Entry `json:"stock"`
}

type Options struct {
	Logger    *zap.Logger
	Audit     Auditor
	SessionID string
	Now       func() time.Time
	// AllowLongRecipes skips the load-time check that every recipe fits
	// the stock. An oversized recipe then fails only when it is used.
	AllowLongRecipes bool
}

// Engine owns the live layout and ledger. The catalog is shared read-only.
// Every call holds one lock across the ledger+layout pair, so a construct
// that passed validation cannot interleave with another mutation.
type Engine struct {
	mu sync.Mutex

	cat *catalogs.Catalog
	led *ledger.Ledger
	lay layout.Layout

	log     *zap.Logger
	audit   Auditor
	session string
	seq     uint64
	now     func() time.Time
	closed  bool
}

type ConstructResult struct {
	BuildType rune
	Index     int
	Case      planner.Case
	Position  int
	Flat      string
}

type DemolishResult struct {
	BuildType rune
	GapsLeft  int
	// Refunded holds the quantities credited back, by ledger position.
	Refunded []int
	Flat     string
}

// Bootstrap loads the initial colony text. Every building is paid for in
// order, deducting from led in place. The first unknown type or shortfall
// aborts the whole load: no engine is returned and the caller is expected
// to discard led and cat. Whitespace in text is ignored and trailing empty
// blocks are dropped.
func Bootstrap(text string, cat *catalogs.Catalog, led *ledger.Ledger, opts Options) (*Engine, error) {
	e := newEngine(cat, led, opts)
	if cat == nil || led == nil {
		return nil, e.fail(&ActionError{Op: "bootstrap", Code: protocol.ErrBadRequest, Fatal: true, Err: errors.New("catalog and stock are required")})
	}
	if err := cat.CheckLedger(led.Len()); err != nil && !opts.AllowLongRecipes {
		return nil, e.fail(&ActionError{Op: "bootstrap", Code: protocol.ErrRecipeMismatch, Fatal: true, Err: err})
	}

	gaps := 0
	for offset, r := range []rune(text) {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == layout.Gap:
			gaps++
			continue
		}
		recipe, ok := cat.Recipe(r)
		if !ok {
			return nil, e.fail(&ActionError{Op: "bootstrap", Code: protocol.ErrUnknownBuilding, BuildType: r, Offset: offset, Fatal: true, Err: ErrUnknownBuildingType})
		}
		if err := led.Deduct(recipe); err != nil {
			return nil, e.fail(&ActionError{Op: "bootstrap", Code: codeFor(err), BuildType: r, Offset: offset, Fatal: true, Err: err})
		}
		e.lay = append(e.lay, layout.Entry{Type: r, GapsLeft: gaps})
		gaps = 0
	}

	e.log.Info("colony loaded",
		zap.String("session", e.session),
		zap.Int("buildings", len(e.lay)),
		zap.Int("empty_blocks", e.lay.Gaps()),
		zap.String("catalog_digest", cat.Digest),
	)
	e.record("bootstrap", 0, 0, nil)
	return e, nil
}

func newEngine(cat *catalogs.Catalog, led *ledger.Ledger, opts Options) *Engine {
	e := &Engine{
		cat:     cat,
		led:     led,
		log:     opts.Logger,
		audit:   opts.Audit,
		session: opts.SessionID,
		now:     opts.Now,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.session == "" {
		e.session = uuid.NewString()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Afford reports whether buildType is known and its recipe can be paid
// right now, without changing anything.
func (e *Engine) Afford(buildType rune) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return &ActionError{Op: "afford", Code: protocol.ErrClosed, BuildType: buildType, Err: ErrClosed}
	}
	recipe, ok := e.cat.Recipe(buildType)
	if !ok {
		return &ActionError{Op: "afford", Code: protocol.ErrUnknownBuilding, BuildType: buildType, Err: ErrUnknownBuildingType}
	}
	if err := e.led.Check(recipe); err != nil {
		return &ActionError{Op: "afford", Code: codeFor(err), BuildType: buildType, Err: err}
	}
	return nil
}

// Construct pays for buildType and places it on the index-th empty block
// (1-based). When the colony has fewer empty blocks the row is extended to
// the right. On error neither ledger nor layout has changed.
func (e *Engine) Construct(buildType rune, index int) (ConstructResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ConstructResult{}, &ActionError{Op: "construct", Code: protocol.ErrClosed, BuildType: buildType, Index: index, Err: ErrClosed}
	}
	recipe, ok := e.cat.Recipe(buildType)
	if !ok {
		return ConstructResult{}, e.reject("construct", buildType, index, ErrUnknownBuildingType)
	}
	if err := planner.CheckIndex(e.lay.Gaps(), index); err != nil {
		return ConstructResult{}, e.reject("construct", buildType, index, err)
	}
	if err := e.led.Check(recipe); err != nil {
		return ConstructResult{}, e.reject("construct", buildType, index, err)
	}
	p, next, err := planner.PlanLayout(e.lay, buildType, index)
	if err != nil {
		return ConstructResult{}, e.reject("construct", buildType, index, err)
	}
	if err := e.led.Deduct(recipe); err != nil {
		return ConstructResult{}, e.reject("construct", buildType, index, err)
	}
	e.lay = next

	e.log.Debug("construct",
		zap.String("type", string(buildType)),
		zap.Int("index", index),
		zap.Stringer("case", p.Case),
		zap.Int("appended", p.Appended),
		zap.String("flat", p.Flat),
	)
	e.record("construct", buildType, index, nil)
	return ConstructResult{BuildType: buildType, Index: index, Case: p.Case, Position: p.Position, Flat: p.Flat}, nil
}

// Demolish removes the first building of buildType and refunds its recipe.
// A type with no recipe is removed without refund.
func (e *Engine) Demolish(buildType rune) (DemolishResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return DemolishResult{}, &ActionError{Op: "demolish", Code: protocol.ErrClosed, BuildType: buildType, Err: ErrClosed}
	}
	next, removed, ok := e.lay.RemoveFirst(buildType)
	if !ok {
		return DemolishResult{}, e.reject("demolish", buildType, 0, ErrBuildingNotFound)
	}
	res := DemolishResult{BuildType: buildType, GapsLeft: removed.GapsLeft}
	if recipe, ok := e.cat.Recipe(buildType); ok {
		n := e.led.Refund(recipe)
		res.Refunded = recipe[:n]
	}
	e.lay = next
	res.Flat = layout.Decode(next)

	e.log.Debug("demolish",
		zap.String("type", string(buildType)),
		zap.Ints("refunded", res.Refunded),
		zap.String("flat", res.Flat),
	)
	e.record("demolish", buildType, 0, nil)
	return res, nil
}

// Layout returns a copy of the current layout.
func (e *Engine) Layout() layout.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lay.Clone()
}

// Stock returns the ledger in order.
func (e *Engine) Stock() []ledger.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.led.Entries()
}

func (e *Engine) Catalog() *catalogs.Catalog { return e.cat }

func (e *Engine) Session() string { return e.session }

// Close releases the layout and ledger and closes the audit sink. Later
// mutations fail with ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.lay = nil
	e.led.Reset()
	if e.audit != nil {
		return e.audit.Close()
	}
	return nil
}

func (e *Engine) reject(op string, buildType rune, index int, err error) error {
	ae := &ActionError{Op: op, Code: codeFor(err), BuildType: buildType, Index: index, Err: err}
	e.log.Info("action rejected",
		zap.String("op", op),
		zap.String("type", string(buildType)),
		zap.Int("index", index),
		zap.String("code", ae.Code),
		zap.Error(err),
	)
	e.record(op, buildType, index, ae)
	return ae
}

func (e *Engine) fail(ae *ActionError) error {
	e.log.Error("colony load failed", zap.String("code", ae.Code), zap.Error(ae))
	e.record(ae.Op, ae.BuildType, 0, ae)
	return ae
}

func (e *Engine) record(action string, buildType rune, index int, ae *ActionError) {
	if e.audit == nil {
		return
	}
	e.seq++
	entry := AuditEntry{
		Session: e.session,
		Seq:     e.seq,
		At:      e.now().UTC(),
		Action:  action,
		Index:   index,
		Code:    protocol.OK,
		Flat:    layout.Decode(e.lay),
	}
	if buildType != 0 {
		entry.BuildType = string(buildType)
	}
	if e.led != nil {
		entry.Stock = e.led.Entries()
	}
	if ae != nil {
		entry.Code = ae.Code
		entry.Message = ae.Error()
	}
	if err := e.audit.WriteAudit(entry); err != nil {
		e.log.Warn("audit write failed", zap.Error(err))
	}
}
