package msgformat

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMessageFormatterPassThrough(t *testing.T) {
	formatter := New()

	tests := []struct {
		name    string
		message string
		args    Arguments
		locale  string
		want    string
	}{
		{
			name:    "empty message",
			message: "",
			args:    List{"x"},
			locale:  "en",
			want:    "",
		},
		{
			name:    "nil args",
			message: "Plain text",
			locale:  "en",
			want:    "Plain text",
		},
		{
			name:    "empty list args",
			message: "Plain text",
			args:    List{},
			locale:  "en",
			want:    "Plain text",
		},
		{
			name:    "braces survive without args",
			message: "Hello {0", // not even a valid pattern
			args:    None,
			locale:  "en",
			want:    "Hello {0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formatter.Format(tc.message, tc.args, tc.locale)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Format() = %q want %q", got, tc.want)
			}
		})
	}

	if len(formatter.formats) != 0 {
		t.Fatalf("expected no cache entries, got %d", len(formatter.formats))
	}
}

func TestMessageFormatterSubstitution(t *testing.T) {
	formatter := New()

	got, err := formatter.Format("Hello, {0}!", List{"World"}, "en")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "Hello, World!" {
		t.Fatalf("Format() = %q want %q", got, "Hello, World!")
	}

	got, err = formatter.Format("Hello, {name}!", Map{"name": "Ada"}, "en")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "Hello, Ada!" {
		t.Fatalf("Format() = %q want %q", got, "Hello, Ada!")
	}
}

func TestMessageFormatterCompilesOnce(t *testing.T) {
	var compiles int32
	formatter := New(WithCompiler(func(pattern, locale string) (*CompiledMessage, error) {
		atomic.AddInt32(&compiles, 1)
		return Compile(pattern, locale)
	}))

	for i := 0; i < 3; i++ {
		got, err := formatter.Format("Hello, {0}!", List{"World"}, "en")
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if got != "Hello, World!" {
			t.Fatalf("Format() = %q", got)
		}
	}

	if n := atomic.LoadInt32(&compiles); n != 1 {
		t.Fatalf("expected 1 compilation, got %d", n)
	}

	// a different locale is a distinct cache entry
	if _, err := formatter.Format("Hello, {0}!", List{"World"}, "es"); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if n := atomic.LoadInt32(&compiles); n != 2 {
		t.Fatalf("expected 2 compilations, got %d", n)
	}
}

func TestMessageFormatterInvalidPatternFallback(t *testing.T) {
	var compiles int32
	formatter := New(WithCompiler(func(pattern, locale string) (*CompiledMessage, error) {
		atomic.AddInt32(&compiles, 1)
		return Compile(pattern, locale)
	}))

	for i := 0; i < 3; i++ {
		got, err := formatter.Format("Hello {0", List{"World"}, "en")
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if got != "Hello {0" {
			t.Fatalf("Format() = %q want verbatim message", got)
		}
	}

	if n := atomic.LoadInt32(&compiles); n != 1 {
		t.Fatalf("expected failed compilation to be cached, got %d attempts", n)
	}
}

func TestMessageFormatterInvalidPatternEnforced(t *testing.T) {
	formatter := New(WithAlwaysApplyFormat(true))

	_, err := formatter.Format("Hello {0", List{"World"}, "en")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}

	var perr *PatternError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PatternError, got %T", err)
	}
	if perr.Pattern != "Hello {0" {
		t.Fatalf("PatternError.Pattern = %q", perr.Pattern)
	}
}

func TestMessageFormatterEnforcedParsesWithoutArgs(t *testing.T) {
	formatter := New(WithAlwaysApplyFormat(true))

	// enforce mode parses messages even with no arguments, so ICU
	// quote escaping applies
	got, err := formatter.Format("It''s fine", None, "en")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "It's fine" {
		t.Fatalf("Format() = %q want %q", got, "It's fine")
	}
}

func TestMessageFormatterAccessors(t *testing.T) {
	formatter := New()
	if formatter.AlwaysApplyFormat() {
		t.Fatal("expected AlwaysApplyFormat to default to false")
	}

	formatter.SetAlwaysApplyFormat(true)
	if !formatter.AlwaysApplyFormat() {
		t.Fatal("expected AlwaysApplyFormat to report true after set")
	}

	if _, err := formatter.Format("Broken {0", None, "en"); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern after enabling enforcement, got %v", err)
	}
}

func TestMessageFormatterConcurrentCompile(t *testing.T) {
	var compiles int32
	formatter := New(WithCompiler(func(pattern, locale string) (*CompiledMessage, error) {
		atomic.AddInt32(&compiles, 1)
		return Compile(pattern, locale)
	}))

	const workers = 32
	results := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(slot int) {
			defer wg.Done()
			results[slot], errs[slot] = formatter.Format("Hello, {0}!", List{"World"}, "en")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if results[i] != "Hello, World!" {
			t.Fatalf("worker %d: got %q", i, results[i])
		}
	}

	if n := atomic.LoadInt32(&compiles); n != 1 {
		t.Fatalf("expected exactly 1 compilation across %d workers, got %d", workers, n)
	}
}

func TestMessageFormatterArgumentResolver(t *testing.T) {
	formatter := New(WithArgumentResolver(func(args Arguments, locale string) Arguments {
		list, ok := args.(List)
		if !ok {
			return args
		}
		resolved := make(List, len(list))
		for i, value := range list {
			if s, ok := value.(string); ok {
				resolved[i] = strings.ToUpper(s)
				continue
			}
			resolved[i] = value
		}
		return resolved
	}))

	got, err := formatter.Format("Hello, {0}!", List{"world"}, "en")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "Hello, WORLD!" {
		t.Fatalf("Format() = %q want %q", got, "Hello, WORLD!")
	}
}

func TestMessageFormatterRenderDefault(t *testing.T) {
	formatter := New()

	got, err := formatter.RenderDefault("Hello, {0}!", List{"World"}, "en")
	if err != nil {
		t.Fatalf("RenderDefault: %v", err)
	}
	if got != "Hello, World!" {
		t.Fatalf("RenderDefault() = %q want %q", got, "Hello, World!")
	}

	custom := New(WithDefaultRenderer(func(defaultMessage string, args Arguments, locale string) (string, error) {
		return "custom:" + defaultMessage, nil
	}))

	got, err = custom.RenderDefault("Hello, {0}!", List{"World"}, "en")
	if err != nil {
		t.Fatalf("RenderDefault: %v", err)
	}
	if got != "custom:Hello, {0}!" {
		t.Fatalf("RenderDefault() = %q", got)
	}
}

func TestMessageFormatterNonSyntaxCompileErrorPropagates(t *testing.T) {
	boom := errors.New("catalog backend unavailable")
	formatter := New(WithCompiler(func(pattern, locale string) (*CompiledMessage, error) {
		return nil, boom
	}))

	// non-pattern errors must not be absorbed as "invalid pattern",
	// even outside enforce mode
	if _, err := formatter.Format("Hello, {0}!", List{"World"}, "en"); !errors.Is(err, boom) {
		t.Fatalf("expected compiler error to propagate, got %v", err)
	}
}
