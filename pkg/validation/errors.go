package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Messages converts a binding error into human readable messages, preferring
// the per-field CustomMessage entries and falling back to DefaultMessage.
// Errors that are not field validation failures (malformed JSON, wrong types)
// surface as a single message.
func Messages(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if msg, ok := CustomMessage(e.Field())[e.Tag()]; ok {
			messages = append(messages, msg)
			continue
		}
		messages = append(messages, DefaultMessage(e.Field(), e.Tag()))
	}
	return messages
}
