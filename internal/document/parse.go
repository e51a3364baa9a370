package document

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// DefaultMaxBytes limits parsed documents to 10MB.
const DefaultMaxBytes = 10 * 1024 * 1024

var (
	ErrTooLarge  = errors.New("document exceeds maximum size")
	ErrNotMarkup = errors.New("document is not text markup")
)

// Document is a parsed HTML tree.
type Document struct {
	root      *html.Node
	charset   string
	mediaType string
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Charset returns the encoding the document was decoded from.
func (d *Document) Charset() string { return d.charset }

// MediaType returns the sniffed media type of the raw document.
func (d *Document) MediaType() string { return d.mediaType }

// Parser turns raw bytes into a Document.
type Parser struct {
	MaxBytes int
}

// NewParser creates a parser with the default size limit.
func NewParser() *Parser {
	return &Parser{MaxBytes: DefaultMaxBytes}
}

// Parse parses data with the default parser.
func Parse(data []byte) (*Document, error) {
	return NewParser().Parse(data)
}

// Parse decodes data to UTF-8 and builds the node tree. An empty input yields an
// empty document.
func (p *Parser) Parse(data []byte) (*Document, error) {
	if p.MaxBytes > 0 && len(data) > p.MaxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(data), p.MaxBytes)
	}

	mediaType := "text/plain"
	if len(data) > 0 {
		mt := mimetype.Detect(data)
		if !isText(mt) {
			return nil, fmt.Errorf("%w: %s", ErrNotMarkup, mt.String())
		}
		mediaType = mt.String()
	}

	name := DetectCharset(data)
	reader, err := charset.NewReaderLabel(name, bytes.NewReader(data))
	if err != nil {
		// Unknown label: parse the bytes as they are
		reader = bytes.NewReader(data)
		name = "utf-8"
	}

	root, err := htmlquery.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	return &Document{
		root:      root,
		charset:   name,
		mediaType: mediaType,
	}, nil
}

// DetectCharset picks the document encoding. A byte order mark or a charset declared
// in a <meta> tag wins, then valid UTF-8, then statistical detection.
func DetectCharset(data []byte) string {
	if _, name, certain := charset.DetermineEncoding(data, "text/html"); certain {
		return name
	}
	if name := declaredCharset(data); name != "" {
		return name
	}
	if utf8.Valid(data) {
		return "utf-8"
	}

	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// prescanBytes bounds the <meta> search, as browsers do.
const prescanBytes = 1024

// declaredCharset returns the canonical name of the encoding declared by a
// <meta charset> or <meta http-equiv="Content-Type"> tag near the top of data.
func declaredCharset(data []byte) string {
	if len(data) > prescanBytes {
		data = data[:prescanBytes]
	}

	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}

			var label, content, httpEquiv string
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch string(key) {
				case "charset":
					label = string(val)
				case "content":
					content = string(val)
				case "http-equiv":
					httpEquiv = strings.ToLower(string(val))
				}
			}
			if label == "" && httpEquiv == "content-type" {
				if _, params, err := mime.ParseMediaType(content); err == nil {
					label = params["charset"]
				}
			}
			if label == "" {
				continue
			}
			if _, canonical := charset.Lookup(label); canonical != "" {
				return canonical
			}
		}
	}
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
