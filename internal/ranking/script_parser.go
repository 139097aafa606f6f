package ranking

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Key synonyms seen across ranking APIs. A record must carry a name and a
// points value; a missing position defaults to the record's 1-based index
// within its list.
var (
	nameKeys     = []string{"name", "driverName", "driver", "participant", "teamName", "fullName"}
	pointsKeys   = []string{"points", "point", "score", "totalPoints", "pts"}
	positionKeys = []string{"position", "rank", "place", "ranking"}
)

var (
	assignmentPattern = regexp.MustCompile(`(?s)=\s*(\{.*\}|\[.*\])\s*$`)
	payloadPattern    = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
)

// parseEmbeddedJSONRows scans script bodies for JSON payloads carrying
// ranking records. Candidates from every script are concatenated and
// deduplicated, preserving first-seen order.
func (p *Parser) parseEmbeddedJSONRows(doc *goquery.Document) []Row {
	var candidates []Row
	doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		content := strings.TrimSpace(script.Text())
		if content == "" {
			return
		}
		for _, payload := range extractJSONPayloads(content) {
			candidates = append(candidates, collectRowsFromPayload(payload)...)
		}
	})
	return dedupeRows(candidates)
}

// extractJSONPayloads pulls decodable JSON documents out of one script
// body: the whole body, the right-hand side of a trailing assignment, then
// any brace or bracket span.
func extractJSONPayloads(scriptContent string) []interface{} {
	var payloads []interface{}

	scriptContent = strings.TrimRight(strings.TrimSpace(scriptContent), ";")

	directCandidates := []string{scriptContent}
	if m := assignmentPattern.FindStringSubmatch(scriptContent); m != nil {
		directCandidates = append(directCandidates, m[1])
	}

	for _, candidate := range directCandidates {
		if parsed, ok := tryParseJSON(candidate); ok {
			payloads = append(payloads, parsed)
		}
	}

	for _, m := range payloadPattern.FindAllStringSubmatch(scriptContent, -1) {
		if parsed, ok := tryParseJSON(m[1]); ok {
			payloads = append(payloads, parsed)
		}
	}

	return payloads
}

// tryParseJSON decodes a candidate as a single standalone JSON document.
// Numbers keep their lexical form so repeated parses render identically.
func tryParseJSON(value string) (interface{}, bool) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()
	var parsed interface{}
	if err := dec.Decode(&parsed); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return parsed, true
}

// collectRowsFromPayload walks a decoded payload depth-first and converts
// every list of records it finds. Object keys are walked in sorted order so
// repeated parses of the same document yield the same row sequence.
func collectRowsFromPayload(payload interface{}) []Row {
	var results []Row

	var walk func(node interface{})
	walk = func(node interface{}) {
		switch typed := node.(type) {
		case []interface{}:
			if converted := convertRecordList(typed); len(converted) > 0 {
				results = append(results, converted...)
			}
			for _, item := range typed {
				walk(item)
			}
		case map[string]interface{}:
			if data, ok := typed["data"]; ok {
				if records, isList := data.([]interface{}); isList {
					if converted := convertRecordList(records); len(converted) > 0 {
						results = append(results, converted...)
					}
				}
			}
			for _, key := range sortedKeys(typed) {
				walk(typed[key])
			}
		}
	}
	walk(payload)

	return results
}

// convertRecordList turns a homogeneous list of objects into rows. Any
// non-object element disqualifies the whole list.
func convertRecordList(node []interface{}) []Row {
	if len(node) == 0 {
		return nil
	}
	records := make([]map[string]interface{}, 0, len(node))
	for _, item := range node {
		record, ok := item.(map[string]interface{})
		if !ok {
			return nil
		}
		records = append(records, record)
	}

	var entries []Row
	for _, record := range records {
		name := firstPresent(record, nameKeys)
		points := firstPresent(record, pointsKeys)
		if name == "" || points == "" {
			continue
		}
		position := firstPresent(record, positionKeys)
		if position == "" {
			position = strconv.Itoa(len(entries) + 1)
		}
		entries = append(entries, Row{Position: position, Name: name, Points: points})
	}
	return entries
}

// firstPresent returns the first scalar value among keys, stringified and
// trimmed. Empty string means no key matched.
func firstPresent(record map[string]interface{}, keys []string) string {
	for _, key := range keys {
		value, ok := record[key]
		if !ok || value == nil {
			continue
		}
		text := stringifyScalar(value)
		if text == "" {
			continue
		}
		return text
	}
	return ""
}

// stringifyScalar renders strings, numbers, and bools; composite values
// count as absent.
func stringifyScalar(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

func sortedKeys(node map[string]interface{}) []string {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type rowKey struct {
	position string
	name     string
	points   string
}

func dedupeRows(rows []Row) []Row {
	if len(rows) == 0 {
		return nil
	}
	seen := make(map[rowKey]struct{}, len(rows))
	deduped := make([]Row, 0, len(rows))
	for _, row := range rows {
		key := rowKey{row.Position, row.Name, row.Points}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, row)
	}
	return deduped
}
