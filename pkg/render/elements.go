package render

import (
	"strings"

	"github.com/vango-dev/webcell/pkg/dom"
)

// Void and raw text rules are shared with the DOM serializer so that
// Renderer output and dom.Node.OuterHTML agree.
func isVoidElement(tag string) bool    { return dom.IsVoid(tag) }
func isRawTextElement(tag string) bool { return dom.IsRawText(tag) }

// inlineElements keep their children on one line in pretty output.
var inlineElements = setOf(`
	a abbr b bdi bdo br cite code data dfn em i kbd mark q rb rp rt rtc
	ruby s samp small span strong sub sup time u var wbr`)

// booleanAttrs are written bare when their value is empty.
var booleanAttrs = setOf(`
	allowfullscreen async autofocus autoplay checked controls default defer
	disabled formnovalidate hidden inert ismap itemscope loop multiple muted
	nomodule novalidate open playsinline readonly required reversed selected`)

func isInlineElement(tag string) bool { return inlineElements[tag] }
func isBooleanAttr(name string) bool  { return booleanAttrs[name] }

func setOf(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}
