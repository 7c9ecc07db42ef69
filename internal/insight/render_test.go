package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHTMLHeadingsAndParagraphs(t *testing.T) {
	text := "1. **Biggest cash drain assessment**\n" +
		"Discounts are your largest leak.\n" +
		"\n" +
		"2. **Quick wins**: Tighten the discount policy.\n"

	html := RenderHTML(text)

	assert.Contains(t, html, "<h4>1. Biggest cash drain assessment</h4>")
	assert.Contains(t, html, "<p>Discounts are your largest leak.</p>")
	assert.Contains(t, html, "<h4>2. Quick wins</h4>")
	assert.Contains(t, html, "<p>Tighten the discount policy.</p>")
}

func TestRenderHTMLLists(t *testing.T) {
	text := "Consider these actions:\n" +
		"- Reduce the blanket discount\n" +
		"- Renegotiate **processor fees**\n" +
		"\n" +
		"Then review next week.\n"

	html := RenderHTML(text)

	assert.Contains(t, html, "<p>Consider these actions:</p>")
	assert.Contains(t, html, "<ul><li>Reduce the blanket discount</li>"+
		"<li>Renegotiate <strong>processor fees</strong></li></ul>")
	assert.Contains(t, html, "<p>Then review next week.</p>")
}

func TestRenderHTMLInlineBold(t *testing.T) {
	html := RenderHTML("Focus on **margin** first.")
	assert.Equal(t, "<p>Focus on <strong>margin</strong> first.</p>", html)
}

func TestRenderHTMLJoinsWrappedLines(t *testing.T) {
	html := RenderHTML("First half\nsecond half.")
	assert.Equal(t, "<p>First half second half.</p>", html)
}

func TestRenderHTMLEmpty(t *testing.T) {
	assert.Equal(t, "<p>No analysis available.</p>", RenderHTML(""))
	assert.Equal(t, "<p>No analysis available.</p>", RenderHTML("  \n \n"))
}
