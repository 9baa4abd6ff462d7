package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark ties err to the sentinel markErr. The sentinel is wrapped into the
// chain (not only attached as a cockroach mark) so plain errors.Is at the
// handler layer matches it.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(fmt.Errorf("%w: %w", markErr, err), markErr)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
