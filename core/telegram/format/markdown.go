package format

import "strings"

var mdReplacer = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMD escapes Markdown control characters in user-supplied or
// database-sourced text so it renders literally inside Markdown messages.
func EscapeMD(text string) string {
	return mdReplacer.Replace(text)
}
