package msgformat

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CompiledMessage is the parsed, reusable form of a message pattern bound to
// a locale. Instances are not safe for concurrent rendering on their own;
// Render serializes callers internally.
type CompiledMessage struct {
	pattern string
	locale  string
	tag     language.Tag
	printer *message.Printer
	nodes   []node

	mu  sync.Mutex
	buf bytes.Buffer
}

// CompileFunc produces a CompiledMessage from a raw pattern and locale.
type CompileFunc func(pattern, locale string) (*CompiledMessage, error)

// Compile parses pattern for the given locale. Syntax failures are reported
// as *PatternError.
func Compile(pattern, locale string) (*CompiledMessage, error) {
	nodes, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}

	tag := localeTag(locale)
	return &CompiledMessage{
		pattern: pattern,
		locale:  locale,
		tag:     tag,
		printer: message.NewPrinter(tag),
		nodes:   nodes,
	}, nil
}

// MustCompile is Compile but panics on invalid patterns.
func MustCompile(pattern, locale string) *CompiledMessage {
	compiled, err := Compile(pattern, locale)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Pattern returns the raw pattern the message was compiled from.
func (c *CompiledMessage) Pattern() string {
	return c.pattern
}

// Locale returns the locale identifier the message was compiled for.
func (c *CompiledMessage) Locale() string {
	return c.locale
}

// Render substitutes args into the compiled pattern. Missing arguments render
// as their placeholder ({name}), matching ICU behavior; rendering itself does
// not fail.
func (c *CompiledMessage) Render(args Arguments) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Reset()
	c.renderNodes(&c.buf, c.nodes, args, "", false)
	return c.buf.String(), nil
}

func (c *CompiledMessage) renderNodes(w *bytes.Buffer, nodes []node, args Arguments, hash string, inPlural bool) {
	for _, n := range nodes {
		switch n.kind {
		case nodeText:
			w.WriteString(n.text)
		case nodeHash:
			if inPlural {
				w.WriteString(hash)
			} else {
				w.WriteByte('#')
			}
		case nodeArg:
			c.renderArgument(w, n.arg, args, hash, inPlural)
		}
	}
}

func (c *CompiledMessage) renderArgument(w *bytes.Buffer, arg *argument, args Arguments, hash string, inPlural bool) {
	value, ok := lookupArgument(args, arg)
	if !ok {
		w.WriteByte('{')
		w.WriteString(arg.name)
		w.WriteByte('}')
		return
	}

	switch arg.typ {
	case argNone:
		c.renderPlain(w, value)
	case argNumber:
		w.WriteString(c.formatNumber(value, arg.style))
	case argDate:
		w.WriteString(c.formatDate(value, arg.style))
	case argTime:
		w.WriteString(c.formatTime(value, arg.style))
	case argSelect:
		b := arg.branchFor(fmt.Sprint(value))
		if b == nil {
			b = arg.branchFor("other")
		}
		c.renderNodes(w, b.nodes, args, hash, inPlural)
	case argPlural, argOrdinal:
		c.renderPlural(w, arg, args, value)
	}
}

func (c *CompiledMessage) renderPlural(w *bytes.Buffer, arg *argument, args Arguments, value any) {
	n, numeric := toFloat(value)
	if !numeric {
		b := arg.branchFor("other")
		c.renderNodes(w, b.nodes, args, fmt.Sprint(value), true)
		return
	}

	operand := n - arg.offset
	hash := c.formatNumber(operand, "")

	if b := arg.exactBranch(n); b != nil {
		c.renderNodes(w, b.nodes, args, hash, true)
		return
	}

	category := c.pluralCategory(arg.typ == argOrdinal, operand)
	b := arg.branchFor(category)
	if b == nil {
		b = arg.branchFor("other")
	}
	c.renderNodes(w, b.nodes, args, hash, true)
}

func (c *CompiledMessage) renderPlain(w *bytes.Buffer, value any) {
	switch v := value.(type) {
	case string:
		w.WriteString(v)
	case time.Time:
		w.WriteString(c.formatDate(v, "medium"))
	default:
		if _, numeric := toFloat(value); numeric {
			w.WriteString(c.formatNumber(value, ""))
			return
		}
		fmt.Fprint(w, value)
	}
}

func (c *CompiledMessage) formatNumber(value any, style string) string {
	switch style {
	case "integer":
		n, ok := toFloat(value)
		if !ok {
			return fmt.Sprint(value)
		}
		return c.printer.Sprintf("%v", number.Decimal(roundHalfAway(n)))
	case "percent":
		return c.printer.Sprintf("%v", number.Percent(value))
	case "currency":
		unit := currencyUnit(c.tag)
		return c.printer.Sprintf("%v", currency.Symbol(unit.Amount(value)))
	default:
		return c.printer.Sprintf("%v", number.Decimal(value))
	}
}

var dateLayouts = map[string]string{
	"short":  "1/2/06",
	"medium": "Jan 2, 2006",
	"long":   "January 2, 2006",
	"full":   "Monday, January 2, 2006",
	"":       "Jan 2, 2006",
}

var timeLayouts = map[string]string{
	"short":  "3:04 PM",
	"medium": "3:04:05 PM",
	"long":   "3:04:05 PM MST",
	"full":   "3:04:05 PM MST",
	"":       "3:04:05 PM",
}

func (c *CompiledMessage) formatDate(value any, style string) string {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Sprint(value)
	}
	return t.Format(dateLayouts[style])
}

func (c *CompiledMessage) formatTime(value any, style string) string {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Sprint(value)
	}
	return t.Format(timeLayouts[style])
}

func lookupArgument(args Arguments, arg *argument) (any, bool) {
	switch v := args.(type) {
	case List:
		if arg.index >= 0 && arg.index < len(v) {
			return v[arg.index], true
		}
	case Map:
		value, ok := v[arg.name]
		return value, ok
	}
	return nil, false
}

func currencyUnit(tag language.Tag) currency.Unit {
	if unit, conf := currency.FromTag(tag); conf != language.No {
		return unit
	}
	return currency.USD
}

func roundHalfAway(n float64) int64 {
	if n < 0 {
		return int64(n - 0.5)
	}
	return int64(n + 0.5)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
