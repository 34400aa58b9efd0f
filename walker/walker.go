package walker

import (
	"context"
	"fmt"
	"strings"

	"github.com/relaxwalk/rngcore/internal/stringutil"
	"github.com/relaxwalk/rngcore/nameclass"
	"github.com/relaxwalk/rngcore/nsresolver"
	"github.com/relaxwalk/rngcore/pattern"
	"github.com/relaxwalk/rngcore/rngerrors"
	"github.com/relaxwalk/rngcore/rngevent"
	"github.com/relaxwalk/rngcore/rnglog"
)

// thread is one live interpretation of the document's position in an
// ambiguous grammar. frames[len-1] is the innermost open element's
// content; frames[i] for i below that holds the pattern to restore to
// the parent once the corresponding element closes.
type thread struct {
	frames        []*node
	names         []string // bound expanded name (Clark notation) of frames[i]; names[0] is unused
	pendingAttr   string   // set between AttributeName and AttributeValue
	pendingHasAtt bool
}

func (t *thread) clone() *thread {
	frames := make([]*node, len(t.frames))
	copy(frames, t.frames)
	names := make([]string, len(t.names))
	copy(names, t.names)
	return &thread{frames: frames, names: names, pendingAttr: t.pendingAttr, pendingHasAtt: t.pendingHasAtt}
}

func (t *thread) top() *node { return t.frames[len(t.frames)-1] }

func (t *thread) setTop(n *node) { t.frames[len(t.frames)-1] = n }

// GrammarWalker drives one incremental validation session against a
// prepared Grammar. It is not safe for concurrent use; call Clone to
// branch (e.g. to try an edit and roll it back), which is an O(depth)
// operation since it copies the namespace resolver's scope stack and
// each live thread's frame stack, not the shared immutable grammar or
// runtime node trees those frames point into.
type GrammarWalker struct {
	grammar  *pattern.Grammar
	resolver *nsresolver.Resolver
	threads  []*thread
	logger   rnglog.Logger

	// pendingWhitespace buffers whitespace-only text seen between tags
	// until either non-whitespace text or a new tag event decides
	// whether it should be suspended (discarded) or delivered as real
	// text (mixed content), per spec §4.5's whitespace suspension rule.
	pendingWhitespace []string
}

// Option configures a GrammarWalker at construction time.
type Option func(*GrammarWalker)

// WithLogger attaches a logger for debug-level tracing of event
// dispatch and recovery activation. The default is rnglog.NopLogger.
func WithLogger(logger rnglog.Logger) Option {
	return func(gw *GrammarWalker) { gw.logger = logger }
}

// NewGrammarWalker starts a fresh walk at the grammar's start pattern.
func NewGrammarWalker(g *pattern.Grammar, opts ...Option) *GrammarWalker {
	start := fromPattern(g, g.Start())
	gw := &GrammarWalker{
		grammar:  g,
		resolver: nsresolver.New(),
		threads:  []*thread{{frames: []*node{start}, names: []string{""}}},
		logger:   rnglog.NopLogger{},
	}
	for _, opt := range opts {
		opt(gw)
	}
	return gw
}

// Clone returns an independent GrammarWalker sharing the same immutable
// grammar and runtime node trees (those are never mutated, only
// replaced) but with its own resolver scope stack and thread frame
// stacks, so that further events fired on the clone never affect the
// original.
func (gw *GrammarWalker) Clone() *GrammarWalker {
	threads := make([]*thread, len(gw.threads))
	for i, t := range gw.threads {
		threads[i] = t.clone()
	}
	pending := make([]string, len(gw.pendingWhitespace))
	copy(pending, gw.pendingWhitespace)
	return &GrammarWalker{
		grammar:           gw.grammar,
		resolver:          gw.resolver.Clone(),
		threads:           threads,
		pendingWhitespace: pending,
		logger:            gw.logger,
	}
}

// FireEvent advances the walker by one event. A non-nil error means the
// event was rejected; the walker's state is left as it was before the
// call (rejected events never partially apply), so callers can inspect
// PossibleElements/PossibleAttributes to suggest a correction, or simply
// stop.
func (gw *GrammarWalker) FireEvent(ctx context.Context, ev rngevent.Event) error {
	threads, pending := gw.threads, gw.pendingWhitespace
	err := gw.dispatch(ctx, ev)
	if err != nil {
		gw.threads, gw.pendingWhitespace = threads, pending
		gw.logger.Debug("event rejected", "event", fmt.Sprintf("%T", ev), "error", err)
	} else {
		gw.logger.Debug("event accepted", "event", fmt.Sprintf("%T", ev))
	}
	return err
}

func (gw *GrammarWalker) dispatch(ctx context.Context, ev rngevent.Event) error {
	switch e := ev.(type) {
	case rngevent.EnterContext:
		gw.resolver.EnterContext()
		return nil
	case rngevent.LeaveContext:
		gw.resolver.LeaveContext()
		return nil
	case rngevent.DefinePrefix:
		gw.resolver.DefinePrefix(e.Prefix, e.URI)
		return nil
	case rngevent.EnterStartTag:
		return gw.fireStartTag(ctx, e.Name)
	case rngevent.LeaveStartTag:
		return gw.fireLeaveStartTag()
	case rngevent.StartTagAndAttributes:
		if err := gw.fireStartTag(ctx, e.Name); err != nil {
			return err
		}
		for _, a := range e.Attributes {
			if err := gw.fireAttributeNameAndValue(ctx, a.Name, a.Value); err != nil {
				return err
			}
		}
		return gw.fireLeaveStartTag()
	case rngevent.AttributeName:
		return gw.fireAttributeName(e.Name)
	case rngevent.AttributeValue:
		return gw.fireAttributeValue(ctx, e.Value)
	case rngevent.AttributeNameAndValue:
		return gw.fireAttributeNameAndValue(ctx, e.Name, e.Value)
	case rngevent.EndTag:
		return gw.fireEndTag(e.Name)
	case rngevent.Text:
		return gw.fireText(ctx, e.Data)
	default:
		return &rngerrors.ValidationError{Message: "unrecognized event type"}
	}
}

func (gw *GrammarWalker) fireText(ctx context.Context, data string) error {
	if stringutil.IsWhitespaceOnly(data) {
		// Suspend: buffer it, decided later by whether the enclosing
		// content model actually mixes text in (spec §4.5).
		gw.pendingWhitespace = append(gw.pendingWhitespace, data)
		return nil
	}
	if len(gw.pendingWhitespace) > 0 {
		// Buffered whitespace followed by real text is part of that text.
		data = strings.Join(gw.pendingWhitespace, "") + data
		gw.pendingWhitespace = nil
	}
	return gw.applyText(ctx, data)
}

// flushWhitespace delivers any buffered whitespace-only text as real
// text, used when the current content model can absorb text (mixed
// content) so whitespace is not silently dropped where it matters.
func (gw *GrammarWalker) flushWhitespace(ctx context.Context) error {
	if len(gw.pendingWhitespace) == 0 {
		return nil
	}
	buffered := strings.Join(gw.pendingWhitespace, "")
	gw.pendingWhitespace = nil
	anyWantsText := false
	for _, t := range gw.threads {
		if hasText(gw.grammar.Datatypes(), t.top()) {
			anyWantsText = true
			break
		}
	}
	if !anyWantsText {
		return nil // whitespace suspended: no branch can use it, safely discarded
	}
	return gw.applyText(ctx, buffered)
}

func (gw *GrammarWalker) applyText(ctx context.Context, text string) error {
	var newThreads []*thread
	var errs []error
	for _, t := range gw.threads {
		derived := textDeriv(ctx, gw.grammar.Datatypes(), gw.resolver, t.top(), text)
		if derived.kind == nNotAllowed {
			errs = append(errs, &rngerrors.TextError{})
			continue
		}
		nt := t.clone()
		nt.setTop(derived)
		newThreads = append(newThreads, nt)
	}
	if len(newThreads) == 0 {
		return combineErrors(errs)
	}
	gw.threads = newThreads
	return nil
}

func (gw *GrammarWalker) fireStartTag(ctx context.Context, qname string) error {
	if err := gw.flushWhitespace(ctx); err != nil {
		return err
	}
	expanded, ok := gw.resolver.ResolveName(qname, false)
	if !ok {
		return &rngerrors.ElementNameError{Got: qname}
	}

	var newThreads []*thread
	var errs []error
	for _, t := range gw.threads {
		pairs := openChildren(gw.grammar.Datatypes(), t.top(), expanded)
		if len(pairs) == 0 {
			errs = append(errs, gw.elementNameError(expanded, t))
			continue
		}
		for _, p := range pairs {
			nt := t.clone()
			nt.setTop(p.remainder)
			nt.frames = append(nt.frames, fromPattern(gw.grammar, p.content))
			nt.names = append(nt.names, expanded.String())
			newThreads = append(newThreads, nt)
		}
	}
	if len(newThreads) == 0 {
		return gw.recoverMisplacedElement(expanded, combineErrors(errs))
	}
	gw.threads = newThreads
	return nil
}

// fireLeaveStartTag closes the attribute phase of the innermost open
// element. Per spec §4.4.4/§4.4.9, a required Attribute that was never
// seen must be reported here as "attribute missing" rather than left to
// surface later as a generic "tag not closed" at the element's end tag;
// an AttributeName event with no following AttributeValue is reported
// as "attribute value missing" for the same reason.
func (gw *GrammarWalker) fireLeaveStartTag() error {
	var newThreads []*thread
	var errs []error
	for _, t := range gw.threads {
		if t.pendingHasAtt {
			errs = append(errs, &rngerrors.AttributeNameError{Reason: "attribute value missing", Expected: []string{t.pendingAttr}})
			continue
		}
		if !attributesComplete(t.top()) {
			missing := make(map[nameclass.Expanded]bool)
			collectPossibleAttributes(t.top(), missing)
			errs = append(errs, &rngerrors.AttributeNameError{Reason: "attribute missing", Expected: expandedNames(missing)})
			continue
		}
		newThreads = append(newThreads, t)
	}
	if len(newThreads) == 0 {
		return combineErrors(errs)
	}
	gw.threads = newThreads
	return nil
}

// elementNameError builds a diagnostic naming every element this thread
// could have accepted instead.
func (gw *GrammarWalker) elementNameError(got nameclass.Expanded, t *thread) error {
	possible := make(map[nameclass.Expanded]bool)
	collectPossibleElements(gw.grammar.Datatypes(), t.top(), possible)
	return &rngerrors.ElementNameError{Got: got.String(), Expected: expandedNames(possible)}
}

// recoverMisplacedElement checks whether got is defined anywhere else in
// the grammar; if so it still fails the current event (the document is
// genuinely invalid here) but swaps in a more specific error so editor
// tooling can say "this element exists, just not here" rather than
// "unknown element" (spec §4.5, misplaced-element recovery). Validation
// is not resumed past the failure: the caller decides whether to treat
// this as fatal or to keep driving a Clone taken before the bad event.
func (gw *GrammarWalker) recoverMisplacedElement(got nameclass.Expanded, baseErr error) error {
	defs := gw.grammar.ElementDefinitions(got)
	if len(defs) == 0 {
		return baseErr
	}
	gw.logger.Debug("misplaced element recovery activated", "element", got.String())
	var elementErr *rngerrors.ElementNameError
	if ce, ok := baseErr.(*rngerrors.ChoiceError); ok && len(ce.Branches) > 0 {
		if e, ok := ce.Branches[0].(*rngerrors.ElementNameError); ok {
			elementErr = e
		}
	} else if e, ok := baseErr.(*rngerrors.ElementNameError); ok {
		elementErr = e
	}
	if elementErr == nil {
		return baseErr
	}
	elementErr.XMLPath = gw.grammar.Node(defs[0]).XMLPath
	return elementErr
}

func expandedNames(set map[nameclass.Expanded]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name.String())
	}
	return out
}

func (gw *GrammarWalker) fireAttributeName(name string) error {
	expanded, ok := gw.resolver.ResolveName(name, true)
	if !ok {
		return &rngerrors.AttributeNameError{Got: name}
	}
	for _, t := range gw.threads {
		t.pendingAttr = expanded.String()
		t.pendingHasAtt = true
	}
	return nil
}

func (gw *GrammarWalker) fireAttributeValue(ctx context.Context, value string) error {
	var newThreads []*thread
	var errs []error
	for _, t := range gw.threads {
		if !t.pendingHasAtt {
			errs = append(errs, &rngerrors.ValidationError{Message: "attribute value with no preceding attribute name"})
			continue
		}
		expanded := parseExpandedString(t.pendingAttr)
		derived := attDeriv(ctx, gw.grammar.Datatypes(), gw.resolver, t.top(), expanded, value)
		if derived.kind == nNotAllowed {
			errs = append(errs, &rngerrors.AttributeValueError{Name: t.pendingAttr, Value: value})
			continue
		}
		nt := t.clone()
		nt.setTop(derived)
		nt.pendingHasAtt = false
		newThreads = append(newThreads, nt)
	}
	if len(newThreads) == 0 {
		return combineErrors(errs)
	}
	gw.threads = newThreads
	return nil
}

func (gw *GrammarWalker) fireAttributeNameAndValue(ctx context.Context, name, value string) error {
	expanded, ok := gw.resolver.ResolveName(name, true)
	if !ok {
		return &rngerrors.AttributeNameError{Got: name}
	}
	var newThreads []*thread
	var errs []error
	for _, t := range gw.threads {
		derived := attDeriv(ctx, gw.grammar.Datatypes(), gw.resolver, t.top(), expanded, value)
		if derived.kind == nNotAllowed {
			errs = append(errs, &rngerrors.AttributeValueError{Name: expanded.String(), Value: value})
			continue
		}
		nt := t.clone()
		nt.setTop(derived)
		newThreads = append(newThreads, nt)
	}
	if len(newThreads) == 0 {
		return combineErrors(errs)
	}
	gw.threads = newThreads
	return nil
}

func (gw *GrammarWalker) fireEndTag(qname string) error {
	if err := gw.flushWhitespace(context.Background()); err != nil {
		return err
	}
	expanded, ok := gw.resolver.ResolveName(qname, false)
	if !ok {
		return &rngerrors.ElementNameError{Got: qname}
	}
	got := expanded.String()

	var newThreads []*thread
	var errs []error
	for _, t := range gw.threads {
		if len(t.frames) < 2 {
			errs = append(errs, &rngerrors.ValidationError{Message: "end tag with no matching open element"})
			continue
		}
		bound := t.names[len(t.names)-1]
		if got != bound {
			errs = append(errs, &rngerrors.ElementNameError{Reason: "unexpected end tag", Got: got, Expected: []string{bound}})
			continue
		}
		if !nullable(gw.grammar.Datatypes(), t.top()) {
			errs = append(errs, &rngerrors.ElementNameError{Reason: "tag not closed", Got: bound})
			continue
		}
		nt := t.clone()
		nt.frames = nt.frames[:len(nt.frames)-1]
		nt.names = nt.names[:len(nt.names)-1]
		newThreads = append(newThreads, nt)
	}
	if len(newThreads) == 0 {
		return combineErrors(errs)
	}
	gw.threads = newThreads
	return nil
}

// CanEnd reports whether the document could validly end right now: at
// least one live thread has no open elements and its remaining content
// is nullable.
func (gw *GrammarWalker) CanEnd() bool {
	for _, t := range gw.threads {
		if len(t.frames) == 1 && nullable(gw.grammar.Datatypes(), t.frames[0]) {
			return true
		}
	}
	return false
}

// End finalizes the walk, returning an error if no live thread is in a
// valid end state.
func (gw *GrammarWalker) End() error {
	if gw.CanEnd() {
		return nil
	}
	return &rngerrors.ValidationError{Message: "document ended with required content still unmatched"}
}

// PossibleElements returns the expanded names of every element that
// could validly open right now, across every live thread.
func (gw *GrammarWalker) PossibleElements() []nameclass.Expanded {
	set := make(map[nameclass.Expanded]bool)
	for _, t := range gw.threads {
		collectPossibleElements(gw.grammar.Datatypes(), t.top(), set)
	}
	out := make([]nameclass.Expanded, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

// PossibleAttributes returns the expanded names of every attribute that
// could validly be named right now, across every live thread.
func (gw *GrammarWalker) PossibleAttributes() []nameclass.Expanded {
	set := make(map[nameclass.Expanded]bool)
	for _, t := range gw.threads {
		collectPossibleAttributes(t.top(), set)
	}
	out := make([]nameclass.Expanded, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

// ResolveName exposes the walker's namespace resolver for callers that
// need to expand a QName the same way the walker would (e.g. to
// pre-check an edit before firing it).
func (gw *GrammarWalker) ResolveName(qname string, isAttribute bool) (nameclass.Expanded, bool) {
	return gw.resolver.ResolveName(qname, isAttribute)
}

// UnresolveName exposes the inverse of ResolveName.
func (gw *GrammarWalker) UnresolveName(ns, local string) string {
	return gw.resolver.UnresolveName(ns, local)
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return &rngerrors.ChoiceError{Branches: errs}
}

// parseExpandedString reverses nameclass.Expanded.String's Clark
// notation ("{ns}local" or "local") for the attribute name stashed on a
// thread between AttributeName and AttributeValue events.
func parseExpandedString(s string) nameclass.Expanded {
	if len(s) > 0 && s[0] == '{' {
		if idx := strings.IndexByte(s, '}'); idx >= 0 {
			return nameclass.Expanded{NS: s[1:idx], Local: s[idx+1:]}
		}
	}
	return nameclass.Expanded{Local: s}
}
