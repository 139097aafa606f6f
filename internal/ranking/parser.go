package ranking

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/rs/zerolog"
)

// Parser extracts ranking rows from a fetched HTML document.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new ranking parser
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{
		logger: logger.With().Str("component", "RankingParser").Logger(),
	}
}

// Parse extracts ranking rows from the document. The ranking table is tried
// first; pages that ship their data client-side fall back to JSON payloads
// embedded in script tags. Returns ParseError when neither yields rows.
func (p *Parser) Parse(sourceURL string, htmlContent []byte) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, common.NewParseError(sourceURL, fmt.Sprintf("failed to parse HTML document: %v", err))
	}

	rows := p.parseTableRows(doc)
	if len(rows) > 0 {
		p.logger.Debug().Int("row_count", len(rows)).Msg("Parsed ranking rows from table")
		return rows, nil
	}

	rows = p.parseEmbeddedJSONRows(doc)
	if len(rows) > 0 {
		p.logger.Debug().Int("row_count", len(rows)).Msg("Parsed ranking rows from embedded JSON")
		return rows, nil
	}

	return nil, common.NewParseError(sourceURL, "no ranking rows were parsed; the page may now use a different structure or API")
}

// parseTableRows walks every table row in document order. A row needs at
// least three data cells: position, name, points. Header rows carry th
// cells only and fall through naturally.
func (p *Parser) parseTableRows(doc *goquery.Document) []Row {
	var rows []Row
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, normalizeCellText(td.Text()))
		})
		if len(cells) < 3 {
			return
		}
		rows = append(rows, Row{Position: cells[0], Name: cells[1], Points: cells[2]})
	})
	return rows
}

// normalizeCellText collapses whitespace runs to single spaces and trims.
func normalizeCellText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
