package msgformat

// Formatter renders a message template with arguments for a locale.
type Formatter interface {
	Format(message string, args Arguments, locale string) (string, error)
}

// FormatterFunc adapters allow bare functions to implement Formatter
type FormatterFunc func(message string, args Arguments, locale string) (string, error)

// Format implements Formatter for FormatterFunc
func (fn FormatterFunc) Format(message string, args Arguments, locale string) (string, error) {
	return fn(message, args, locale)
}
