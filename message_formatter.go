package msgformat

import (
	"errors"
	"sync"
)

type entryState int

const (
	entryValid entryState = iota
	entryInvalid
)

// formatEntry is a cached compilation outcome for a (message, locale) pair.
// Absence from the cache means "not yet compiled"; entryInvalid means the
// message is not a pattern and passes through verbatim.
type formatEntry struct {
	state    entryState
	compiled *CompiledMessage
}

// DefaultRenderer renders caller-supplied default messages. Installing a
// custom one decouples default-message handling from Format.
type DefaultRenderer func(defaultMessage string, args Arguments, locale string) (string, error)

// MessageFormatter formats message templates with arguments for a locale,
// memoizing one compiled pattern per (message, locale) pair. The cache has
// no eviction; entries live as long as the formatter. Safe for concurrent
// use.
type MessageFormatter struct {
	mu      sync.Mutex
	formats map[string]map[string]formatEntry

	alwaysApplyFormat bool
	compile           CompileFunc
	resolveArgs       ArgumentResolver
	renderDefault     DefaultRenderer
}

var _ Formatter = (*MessageFormatter)(nil)

// Option mutates a MessageFormatter during construction
type Option func(*MessageFormatter)

// WithAlwaysApplyFormat controls whether messages with an empty argument set
// are still parsed as patterns. Default is false: such messages are returned
// as-is. When true, every message must be a valid pattern and invalid ones
// fail with ErrInvalidPattern.
func WithAlwaysApplyFormat(always bool) Option {
	return func(f *MessageFormatter) {
		f.alwaysApplyFormat = always
	}
}

// WithCompiler replaces the pattern compiler. Syntax failures must be
// reported as *PatternError for the invalid-pattern fallback to apply.
func WithCompiler(compile CompileFunc) Option {
	return func(f *MessageFormatter) {
		if compile != nil {
			f.compile = compile
		}
	}
}

// WithArgumentResolver installs a hook transforming arguments before
// substitution, e.g. to resolve nested message references.
func WithArgumentResolver(resolver ArgumentResolver) Option {
	return func(f *MessageFormatter) {
		f.resolveArgs = resolver
	}
}

// WithDefaultRenderer overrides how RenderDefault handles caller-supplied
// default messages.
func WithDefaultRenderer(renderer DefaultRenderer) Option {
	return func(f *MessageFormatter) {
		f.renderDefault = renderer
	}
}

// New builds a MessageFormatter with the supplied options.
func New(opts ...Option) *MessageFormatter {
	f := &MessageFormatter{
		formats: make(map[string]map[string]formatEntry),
		compile: Compile,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}

	return f
}

// AlwaysApplyFormat reports whether pattern parsing is enforced for messages
// without arguments.
func (f *MessageFormatter) AlwaysApplyFormat() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alwaysApplyFormat
}

// SetAlwaysApplyFormat toggles pattern enforcement for messages without
// arguments.
func (f *MessageFormatter) SetAlwaysApplyFormat(always bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alwaysApplyFormat = always
}

// Format renders message with args for locale, reusing the cached compiled
// pattern when one exists.
//
// An empty message is returned unchanged. So is any message with an empty
// argument set, unless WithAlwaysApplyFormat(true) was set; neither case
// touches the cache. A message that fails to compile passes through verbatim
// and the failure is cached so compilation is never re-attempted — except in
// enforce mode, where the failure surfaces as *PatternError wrapping
// ErrInvalidPattern.
func (f *MessageFormatter) Format(message string, args Arguments, locale string) (string, error) {
	strict := f.AlwaysApplyFormat()
	if message == "" || (!strict && (args == nil || args.IsEmpty())) {
		return message, nil
	}

	entry, err := f.lookupOrCompile(message, locale, strict)
	if err != nil {
		return "", err
	}

	if entry.state == entryInvalid {
		return message, nil
	}

	if f.resolveArgs != nil {
		args = f.resolveArgs(args, locale)
	}
	return entry.compiled.Render(args)
}

// lookupOrCompile holds the cache lock across lookup, compilation and
// insertion, so concurrent callers compile a given pair at most once.
func (f *MessageFormatter) lookupOrCompile(message, locale string, strict bool) (formatEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	perLocale := f.formats[message]
	if perLocale == nil {
		perLocale = make(map[string]formatEntry)
		f.formats[message] = perLocale
	}

	entry, ok := perLocale[locale]
	if ok {
		return entry, nil
	}

	compiled, err := f.compile(message, locale)
	if err != nil {
		var perr *PatternError
		if !errors.As(err, &perr) {
			// not a syntax problem; never absorb it as "invalid pattern"
			return formatEntry{}, err
		}
		if strict {
			return formatEntry{}, err
		}
		entry = formatEntry{state: entryInvalid}
	} else {
		entry = formatEntry{state: entryValid, compiled: compiled}
	}

	perLocale[locale] = entry
	return entry, nil
}

// RenderDefault renders a caller-supplied default message. It delegates to
// Format unless WithDefaultRenderer installed custom handling.
func (f *MessageFormatter) RenderDefault(defaultMessage string, args Arguments, locale string) (string, error) {
	if f.renderDefault != nil {
		return f.renderDefault(defaultMessage, args, locale)
	}
	return f.Format(defaultMessage, args, locale)
}
