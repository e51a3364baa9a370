package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Topics</title></head>
<body>
	<div class="tile">
		<h4><a href="/a1">First</a> <span class="views">  42 views</span></h4>
		<ul><li>2024-01-02</li><li><a href="/c/it">IT</a></li></ul>
	</div>
	<div class="tile">
		<h4><a href="/a2">Second</a> <span class="views">7</span></h4>
		<ul><li>2024-02-03</li><li><a href="/c/ops">Ops</a></li></ul>
	</div>
	<!-- trailing -->
</body>
</html>`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	assert.NotNil(t, doc.Root())
	assert.Equal(t, "utf-8", doc.Charset())
	assert.True(t, strings.HasPrefix(doc.MediaType(), "text/html"))
}

func TestParseEmpty(t *testing.T) {
	doc := mustParse(t, "")

	res, err := QueryCSS(doc.Root(), ".tile")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
}

func TestParseTooLarge(t *testing.T) {
	p := &Parser{MaxBytes: 16}
	_, err := p.Parse([]byte(sampleHTML))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestParseRejectsBinary(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	_, err := Parse(png)
	assert.ErrorIs(t, err, ErrNotMarkup)
}

func TestParseDeclaredCharset(t *testing.T) {
	src := []byte(`<html><head><meta charset="utf-8"></head><body><p>café</p></body></html>`)
	doc, err := Parse(src)
	require.NoError(t, err)

	res, err := QueryCSS(doc.Root(), "p")
	require.NoError(t, err)
	assert.Equal(t, "café", res.Text())
}

func TestParseMetaDeclaredCharset(t *testing.T) {
	tests := []struct {
		name    string
		meta    string
		body    string
		charset string
	}{
		{
			name:    "http-equiv windows-1251",
			meta:    `<meta http-equiv="Content-Type" content="text/html; charset=windows-1251">`,
			body:    "\xcf\xf0\xe8\xe2\xe5\xf2",
			charset: "windows-1251",
		},
		{
			name:    "meta charset koi8-r",
			meta:    `<meta charset="koi8-r">`,
			body:    "\xf0\xd2\xc9\xd7\xc5\xd4",
			charset: "koi8-r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte("<html><head>" + tt.meta + "</head><body><p>" + tt.body + "</p></body></html>")
			doc, err := Parse(src)
			require.NoError(t, err)
			assert.Equal(t, tt.charset, doc.Charset())

			res, err := QueryCSS(doc.Root(), "p")
			require.NoError(t, err)
			assert.Equal(t, "Привет", res.Text())
		})
	}
}

func TestParseNonUTF8(t *testing.T) {
	src := []byte(`<html><body><p>caf` + "\xe9" + ` cr` + "\xe8" + `me br` + "\xfb" + `l` + "\xe9" + `e</p></body></html>`)
	doc, err := Parse(src)
	require.NoError(t, err)
	assert.NotEqual(t, "utf-8", doc.Charset())

	res, err := QueryCSS(doc.Root(), "p")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Text(), "caf"))
}

func TestDetectCharset(t *testing.T) {
	assert.Equal(t, "utf-8", DetectCharset([]byte("<p>plain ascii</p>")))
	assert.Equal(t, "utf-8", DetectCharset([]byte("<p>héllo</p>")))

	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<p>x</p>")...)
	assert.Equal(t, "utf-8", DetectCharset(bom))

	assert.Equal(t, "windows-1251", DetectCharset([]byte("<META CHARSET=cp1251><p>\xcf</p>")))
	assert.Equal(t, "utf-8", DetectCharset([]byte(`<meta charset="no-such-charset"><p>x</p>`)))
}

func TestQueryCSS(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	tiles, err := QueryCSS(doc.Root(), ".tile")
	require.NoError(t, err)
	require.Equal(t, 2, tiles.Len())

	title, err := QueryCSS(tiles.Nodes()[1], "h4 a")
	require.NoError(t, err)
	assert.Equal(t, "Second", title.Text())

	views, err := QueryCSS(tiles.First(), "span.views")
	require.NoError(t, err)
	assert.Equal(t, "  42 views", views.Text())
}

func TestQueryCSSInvalid(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	_, err := QueryCSS(doc.Root(), "div[")
	assert.Error(t, err)
}

func TestQueryCSSDescendantsOnly(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	tiles, err := QueryCSS(doc.Root(), ".tile")
	require.NoError(t, err)

	self, err := QueryCSS(tiles.First(), ".tile")
	require.NoError(t, err)
	assert.Equal(t, 0, self.Len())
}

func TestQueryXPath(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	tiles, err := QueryXPath(doc.Root(), "//div[@class='tile']")
	require.NoError(t, err)
	require.Equal(t, 2, tiles.Len())

	date, err := QueryXPath(tiles.First(), ".//li[1]/text()")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", date.Text())

	category, err := QueryXPath(tiles.Nodes()[1], ".//li[2]/a/text()")
	require.NoError(t, err)
	assert.Equal(t, "Ops", category.Text())
}

func TestQueryXPathAbsoluteFromNestedNode(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	tiles, err := QueryXPath(doc.Root(), "//div[@class='tile']")
	require.NoError(t, err)
	second := tiles.Nodes()[1]

	title, err := QueryXPath(second, "//title/text()")
	require.NoError(t, err)
	assert.Equal(t, "Topics", title.Text())

	all, err := QueryXPath(second, "//div[@class='tile']")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Len())

	own, err := QueryXPath(second, ".//li[2]/a/text()")
	require.NoError(t, err)
	assert.Equal(t, "Ops", own.Text())

	parent, err := QueryXPath(second, "name(..)")
	require.NoError(t, err)
	assert.Equal(t, "body", parent.Text())
}

func TestQueryXPathNodeSetText(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	titles, err := QueryXPath(doc.Root(), "//h4/a/text()")
	require.NoError(t, err)
	assert.Equal(t, 2, titles.Len())
	assert.Equal(t, "FirstSecond", titles.Text())
}

func TestQueryXPathAttribute(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	hrefs, err := QueryXPath(doc.Root(), "//h4/a/@href")
	require.NoError(t, err)
	require.Equal(t, 2, hrefs.Len())
	assert.Equal(t, "/a1", NewResult(hrefs.First()).Text())
}

func TestQueryXPathScalar(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	tests := []struct {
		expr string
		want string
	}{
		{expr: "count(//div[@class='tile'])", want: "2"},
		{expr: "string(//title)", want: "Topics"},
		{expr: "boolean(//table)", want: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := QueryXPath(doc.Root(), tt.expr)
			require.NoError(t, err)
			_, isScalar := res.Scalar()
			assert.True(t, isScalar)
			assert.Equal(t, tt.want, res.Text())
			assert.Equal(t, 1, res.Len())
		})
	}
}

func TestQueryXPathComment(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	res, err := QueryXPath(doc.Root(), "//body/comment()")
	require.NoError(t, err)
	assert.Equal(t, " trailing ", res.Text())
}

func TestQueryXPathInvalid(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	_, err := QueryXPath(doc.Root(), "//div[")
	assert.Error(t, err)
}

func TestSelectorCacheReuse(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	first, err := QueryCSS(doc.Root(), "li")
	require.NoError(t, err)
	second, err := QueryCSS(doc.Root(), "li")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))

	_, cached := cssCache.Load("li")
	assert.True(t, cached)
}

func TestResultHTML(t *testing.T) {
	doc := mustParse(t, `<div class="c"><p onclick="steal()">hi<script>alert(1)</script></p></div>`)

	res, err := QueryCSS(doc.Root(), "p")
	require.NoError(t, err)

	assert.Contains(t, res.HTML(), "onclick")
	assert.Contains(t, res.HTML(), "<script>")

	safe := res.SafeHTML()
	assert.NotContains(t, safe, "onclick")
	assert.NotContains(t, safe, "script")
	assert.Contains(t, safe, "hi")
}

func TestResultEqual(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	a, err := QueryCSS(doc.Root(), ".tile")
	require.NoError(t, err)
	b, err := QueryXPath(doc.Root(), "//div[@class='tile']")
	require.NoError(t, err)
	c, err := QueryCSS(doc.Root(), "h4")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	n1, _ := QueryXPath(doc.Root(), "count(//li)")
	n2, _ := QueryXPath(doc.Root(), "count(//li)")
	assert.True(t, n1.Equal(n2))
	assert.False(t, n1.Equal(a))
}

func TestParseReaderInput(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("<ul>")
	for i := 0; i < 50; i++ {
		buf.WriteString("<li>x</li>")
	}
	buf.WriteString("</ul>")

	doc := mustParse(t, buf.String())
	res, err := QueryXPath(doc.Root(), "//li")
	require.NoError(t, err)
	assert.Equal(t, 50, res.Len())
}
