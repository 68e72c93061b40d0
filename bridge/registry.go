package bridge

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Token identifies a registered closure. It is what crosses the native
// boundary as the void* callback data. The upper half of a token holds the
// id of the owning registry and the lower half a per-registry sequence.
type Token uintptr

const (
	halfBits = bits.UintSize / 2
	seqMask  = uintptr(1)<<halfBits - 1

	// maxRegistryID is the largest id the upper half of a token can hold:
	// 65535 on 32-bit targets.
	maxRegistryID = uint64(1)<<halfBits - 1
)

func makeToken(registryID uint32, seq uintptr) Token {
	return Token(uintptr(registryID)<<halfBits | seq&seqMask)
}

// RegistryID returns the id of the registry that issued the token.
func (t Token) RegistryID() uint32 {
	return uint32(uintptr(t) >> halfBits)
}

func (t Token) String() string {
	return fmt.Sprintf("%d/%d", t.RegistryID(), uintptr(t)&seqMask)
}

// Policy is the invocation cardinality of a registration.
type Policy int

const (
	// Once entries are removed on their first invocation.
	Once Policy = iota
	// Many entries stay registered until released.
	Many
)

func (p Policy) String() string {
	if p == Many {
		return "many"
	}
	return "once"
}

type shape int

const (
	shapeCompletion shape = iota
	shapeFilter
	shapeEvent
)

func (s shape) String() string {
	switch s {
	case shapeFilter:
		return "filter"
	case shapeEvent:
		return "event"
	}
	return "completion"
}

// entry owns one registered closure.
type entry struct {
	policy Policy
	shape  shape

	complete func(err error, value uintptr)
	filter   func(value uintptr) bool
	event    func(kind interfaces.EventKind, args []uintptr)
}

// AbortFunc handles a panic raised by a registered closure. The default
// logs the panic and terminates the process.
type AbortFunc func(token Token, recovered any, stack []byte)

// ViolationFunc handles a native call that names a token the registry does
// not hold, or holds with a different callback shape.
type ViolationFunc func(token Token, reason string)

// ErrRegistryClosed is returned when registering on a closed registry.
var ErrRegistryClosed = errors.New("callback registry closed")

var (
	// registryIDs is the last id handed out. Written under directoryMu.
	registryIDs = atomic.NewUint32(0)

	directoryMu sync.RWMutex
	directory   = make(map[uint32]*Registry)
)

// Registry holds the closures of in-flight native calls for one owner. It
// is safe for concurrent use because the native library may call back from
// its own threads; closures always run outside the lock.
type Registry struct {
	id        uint32
	seq       *atomic.Uint64
	mu        sync.Mutex
	entries   map[Token]*entry
	closed    bool
	abort     AbortFunc
	violation ViolationFunc
	logger    *logrus.Entry
}

// Option configures a Registry.
type Option func(*Registry)

// WithAbortHandler replaces the default panic handler.
func WithAbortHandler(fn AbortFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.abort = fn
		}
	}
}

// WithViolationHandler replaces the default contract violation handler.
func WithViolationHandler(fn ViolationFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.violation = fn
		}
	}
}

// WithLogger sets the entry used for registry logging.
func WithLogger(logger *logrus.Entry) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry and makes it reachable from the
// trampolines.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		seq:     atomic.NewUint64(0),
		entries: make(map[Token]*entry),
		logger:  logrus.NewEntry(logrus.StandardLogger()),
	}
	r.abort = r.defaultAbort
	r.violation = r.defaultViolation
	for _, opt := range opts {
		opt(r)
	}

	directoryMu.Lock()
	id, ok := nextRegistryID(registryIDs.Load(), maxRegistryID, func(id uint32) bool {
		_, taken := directory[id]
		return taken
	})
	if !ok {
		directoryMu.Unlock()
		panic("bridge: every registry id is in use")
	}
	registryIDs.Store(id)
	r.id = id
	directory[id] = r
	directoryMu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"function":    "NewRegistry",
		"registry_id": r.id,
	}).Debug("Created callback registry")

	return r
}

// nextRegistryID returns the first id after last in [1, limit] that is not
// taken, wrapping around at limit. Ids of closed registries are reused.
func nextRegistryID(last uint32, limit uint64, taken func(uint32) bool) (uint32, bool) {
	id := last
	for range limit {
		id++
		if id == 0 || uint64(id) > limit {
			id = 1
		}
		if !taken(id) {
			return id, true
		}
	}
	return 0, false
}

// ID returns the registry id embedded in every token it issues.
func (r *Registry) ID() uint32 {
	return r.id
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Registry) register(e *entry) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrRegistryClosed
	}

	var tok Token
	for {
		seq := uintptr(r.seq.Inc()) & seqMask
		if seq == 0 {
			continue
		}
		tok = makeToken(r.id, seq)
		if _, taken := r.entries[tok]; !taken {
			break
		}
	}
	r.entries[tok] = e

	r.logger.WithFields(logrus.Fields{
		"function": "Registry.register",
		"token":    tok.String(),
		"policy":   e.policy.String(),
		"shape":    e.shape.String(),
	}).Debug("Registered callback")

	return tok, nil
}

// OnceResult registers a one-shot closure for a callback that carries only
// a native result.
func (r *Registry) OnceResult(fn func(error)) (Token, error) {
	return OnceValue(r, func(uintptr) struct{} { return struct{}{} }, func(_ struct{}, err error) {
		fn(err)
	})
}

// OnceValue registers a one-shot closure for a callback that carries a
// native result and a payload. convert runs only on success and must copy
// everything it needs, since the payload is only valid during the call.
func OnceValue[T any](r *Registry, convert func(uintptr) T, fn func(T, error)) (Token, error) {
	return r.register(&entry{
		policy: Once,
		shape:  shapeCompletion,
		complete: func(err error, value uintptr) {
			var v T
			if err == nil {
				v = convert(value)
			}
			fn(v, err)
		},
	})
}

// Filter registers a many-shot predicate. The caller must Release the token
// once the native call that drives the predicate returns.
func (r *Registry) Filter(pred func(value uintptr) bool) (Token, error) {
	return r.register(&entry{
		policy: Many,
		shape:  shapeFilter,
		filter: pred,
	})
}

// Events registers a many-shot event sink that lives until released or
// until the registry closes.
func (r *Registry) Events(sink func(kind interfaces.EventKind, args []uintptr)) (Token, error) {
	return r.register(&entry{
		policy: Many,
		shape:  shapeEvent,
		event:  sink,
	})
}

// Release drops a registration without invoking it. Releasing an unknown
// token is a no-op.
func (r *Registry) Release(tok Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, tok)
}

// Close unregisters the registry. Pending one-shot closures are completed
// with status.ErrCancelled, in registration order; many-shot entries are
// dropped. Tokens arriving afterwards are logged and ignored.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	pending := r.entries
	r.entries = make(map[Token]*entry)
	r.mu.Unlock()

	directoryMu.Lock()
	delete(directory, r.id)
	directoryMu.Unlock()

	tokens := make([]Token, 0, len(pending))
	for tok, e := range pending {
		if e.policy == Once {
			tokens = append(tokens, tok)
		}
	}
	slices.Sort(tokens)

	r.logger.WithFields(logrus.Fields{
		"function":    "Registry.Close",
		"registry_id": r.id,
		"cancelled":   len(tokens),
		"dropped":     len(pending) - len(tokens),
	}).Debug("Closed callback registry")

	for _, tok := range tokens {
		r.complete(tok, pending[tok], status.ErrCancelled, 0)
	}
}

// take looks up tok for a call of the given shape, removing one-shot
// entries. A nil entry means the call must be dropped.
func (r *Registry) take(tok Token, s shape) *entry {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		logOrphan(tok, "registry closed")
		return nil
	}
	e, ok := r.entries[tok]
	if ok && e.shape == s && e.policy == Once {
		delete(r.entries, tok)
	}
	r.mu.Unlock()

	switch {
	case !ok:
		r.violation(tok, fmt.Sprintf("%s callback for unknown or already consumed token", s))
		return nil
	case e.shape != s:
		r.violation(tok, fmt.Sprintf("%s callback for a %s registration", s, e.shape))
		return nil
	}
	return e
}

func (r *Registry) complete(tok Token, e *entry, err error, value uintptr) {
	defer r.recoverPanic(tok)
	e.complete(err, value)
}

func (r *Registry) runFilter(tok Token, e *entry, value uintptr) (keep bool) {
	defer r.recoverPanic(tok)
	return e.filter(value)
}

func (r *Registry) dispatch(tok Token, e *entry, kind interfaces.EventKind, args []uintptr) {
	defer r.recoverPanic(tok)
	e.event(kind, args)
}

// recoverPanic must be deferred directly so recover stops the unwinding
// before it reaches native frames.
func (r *Registry) recoverPanic(tok Token) {
	if v := recover(); v != nil {
		r.abort(tok, v, debug.Stack())
	}
}

func (r *Registry) defaultAbort(tok Token, recovered any, stack []byte) {
	r.logger.WithFields(logrus.Fields{
		"function": "Registry.abort",
		"token":    tok.String(),
		"panic":    fmt.Sprint(recovered),
		"stack":    string(stack),
	}).Error("Callback panicked inside a native call, aborting")
	os.Exit(2)
}

func (r *Registry) defaultViolation(tok Token, reason string) {
	r.logger.WithFields(logrus.Fields{
		"function": "Registry.violation",
		"token":    tok.String(),
		"reason":   reason,
	}).Error("Native callback contract violation, call dropped")
}

func lookup(tok Token) *Registry {
	directoryMu.RLock()
	defer directoryMu.RUnlock()
	return directory[tok.RegistryID()]
}

func logOrphan(tok Token, reason string) {
	logrus.WithFields(logrus.Fields{
		"function": "bridge.lookup",
		"token":    tok.String(),
		"reason":   reason,
	}).Warn("Dropping callback for a registry that is no longer live")
}
