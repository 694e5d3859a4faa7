package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

// ComposeCompletionResult builds the result text stored on a completed task.
// The comment must already be validated as non-blank by the caller.
func ComposeCompletionResult(comment string, task domain.Task, now time.Time, loc locale.Locale) string {
	comment = strings.TrimSpace(comment)
	stamp := fmt.Sprintf("(%s: %s)", loc.CompletedLabel, loc.FormatDate(now))

	res := ResolveStatus(task, now, loc)
	if res.Overdue() {
		return fmt.Sprintf("%s %s %s", comment, loc.OverduePhrase(res.OverdueDays), stamp)
	}
	return fmt.Sprintf("%s %s", comment, stamp)
}
