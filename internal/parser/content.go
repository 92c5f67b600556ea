package parser

const (
	// NoTitle is reported for pages without a <title> element.
	NoTitle = "No title found"
	// ParagraphPreviewSize is how many paragraphs Content keeps.
	ParagraphPreviewSize = 5
)

// Content is the structured text of one page.
type Content struct {
	Title               string
	MetaDescription     string
	H1                  []string
	H2                  []string
	H3                  []string
	Paragraphs          []string
	TotalParagraphCount int
}

// ParseContent extracts title, headings, paragraphs and meta description from markup.
func ParseContent(markup []byte) (Content, error) {
	doc, err := Parse(markup)
	if err != nil {
		return Content{}, err
	}

	return doc.Content(), nil
}

// Content extracts the structured text of the document.
func (d *Document) Content() Content {
	content := Content{
		Title: NoTitle,
		H1:    d.texts("h1"),
		H2:    d.texts("h2"),
		H3:    d.texts("h3"),
	}

	if title, ok := d.First("title", nil); ok {
		content.Title = title.Text()
	}

	if meta, ok := d.First("meta", map[string]string{"name": "description"}); ok {
		content.MetaDescription, _ = meta.Attr("content")
	}

	paragraphs := d.texts("p")
	content.TotalParagraphCount = len(paragraphs)
	if len(paragraphs) > ParagraphPreviewSize {
		paragraphs = paragraphs[:ParagraphPreviewSize]
	}
	content.Paragraphs = paragraphs

	return content
}

func (d *Document) texts(tag string) []string {
	elements := d.FindAll(tag, nil)
	texts := make([]string, 0, len(elements))

	for _, element := range elements {
		texts = append(texts, element.Text())
	}

	return texts
}
