package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultPrintDelay leaves the browser time to lay out fonts and images
// before the print dialog opens.
const DefaultPrintDelay = 500 * time.Millisecond

const printScriptFormat = `
<script>
window.onload = function() {
    setTimeout(function() {
        window.print();
    }, %d);
}
</script>
`

// PrintScript returns the auto-print snippet for the given delay.
func PrintScript(delay time.Duration) string {
	if delay < 0 {
		delay = 0
	}
	return fmt.Sprintf(printScriptFormat, delay.Milliseconds())
}

// InjectPrintScript inserts the auto-print snippet immediately before the
// closing body tag. Tags inside scripts, styles and comments are ignored.
// Without a closing body tag the snippet is appended.
func InjectPrintScript(htmlContent []byte, delay time.Duration) []byte {
	script := PrintScript(delay)

	idx := closingBodyOffset(htmlContent)
	if idx < 0 {
		out := make([]byte, 0, len(htmlContent)+len(script))
		out = append(out, htmlContent...)
		return append(out, script...)
	}

	out := make([]byte, 0, len(htmlContent)+len(script))
	out = append(out, htmlContent[:idx]...)
	out = append(out, script...)
	return append(out, htmlContent[idx:]...)
}

// closingBodyOffset returns the byte offset of the last </body> end tag, or -1.
func closingBodyOffset(content []byte) int {
	z := html.NewTokenizer(bytes.NewReader(content))
	offset, found := 0, -1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// Tokenizer gave up; fall back to a plain search.
				return lastIndexFold(content, "</body>")
			}
			return found
		}

		raw := len(z.Raw())
		if tt == html.EndTagToken {
			name, _ := z.TagName()
			if string(name) == "body" {
				found = offset
			}
		}
		offset += raw
	}
}

func lastIndexFold(content []byte, needle string) int {
	return strings.LastIndex(strings.ToLower(string(content)), needle)
}
