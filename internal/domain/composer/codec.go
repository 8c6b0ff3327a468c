package composer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"storefront-cms/internal/infra/metrics"
)

/*
	Page content codec
	------------------
	A page's content string holds one line per component:

	  \n<!-- component:{id}:{order}:{"content":{...},"settings":{...}} -->

	- the type is not stored; it is the id prefix before the first '-'
	- any other text between tags is ignored on decode
	- "-->" inside JSON strings is written as "--\u003e" so a tag can
	  never terminate early; both forms decode to the same value
*/

var tagPattern = regexp.MustCompile(`<!--\s*component:([^:\s]+):([-+]?\d+):(.*?)\s*-->`)

type payload struct {
	Content  map[string]any `json:"content"`
	Settings map[string]any `json:"settings"`
}

// Encode serializes items, sorted by order, into page content.
func Encode(items []ComponentItem) (string, error) {
	var b strings.Builder
	for _, it := range SortByOrder(items) {
		if err := checkID(it); err != nil {
			return "", err
		}
		raw, err := marshalPayload(it)
		if err != nil {
			return "", fmt.Errorf("encode component %s: %w", it.ID, err)
		}
		b.WriteString("\n<!-- component:")
		b.WriteString(it.ID)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(it.Order))
		b.WriteByte(':')
		b.Write(raw)
		b.WriteString(" -->")
	}
	return b.String(), nil
}

func marshalPayload(it ComponentItem) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload{Content: cloneMap(it.Content), Settings: cloneMap(it.Settings)}); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return bytes.ReplaceAll(out, []byte("-->"), []byte(`--\u003e`)), nil
}

// DecodeError describes a tag that matched but could not be decoded.
type DecodeError struct {
	Tag    string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("component tag at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode extracts every well-formed component tag from content. Tags whose
// order or JSON cannot be parsed are skipped and reported; the rest of the
// content still decodes. The result is sorted by order.
func Decode(content string) ([]ComponentItem, []*DecodeError) {
	matches := tagPattern.FindAllStringSubmatchIndex(content, -1)
	items := make([]ComponentItem, 0, len(matches))
	var errs []*DecodeError

	for _, m := range matches {
		tag := content[m[0]:m[1]]
		id := content[m[2]:m[3]]
		orderRaw := content[m[4]:m[5]]
		raw := content[m[6]:m[7]]

		order, err := strconv.Atoi(orderRaw)
		if err != nil {
			errs = append(errs, &DecodeError{Tag: tag, Offset: m[0], Err: fmt.Errorf("%w: %q", ErrMalformedOrder, orderRaw)})
			continue
		}
		p, err := decodePayload(raw)
		if err != nil {
			errs = append(errs, &DecodeError{Tag: tag, Offset: m[0], Err: err})
			continue
		}
		items = append(items, ComponentItem{
			ID:       id,
			Type:     TypeFromID(id),
			Content:  p.Content,
			Settings: p.Settings,
			Order:    order,
		})
	}
	return SortByOrder(items), errs
}

func decodePayload(raw string) (payload, error) {
	if !gjson.Valid(raw) {
		return payload{}, ErrMalformedPayload
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return payload{}, fmt.Errorf("%w: not an object", ErrMalformedPayload)
	}
	content, err := objectMember(doc, "content")
	if err != nil {
		return payload{}, err
	}
	settings, err := objectMember(doc, "settings")
	if err != nil {
		return payload{}, err
	}
	return payload{Content: content, Settings: settings}, nil
}

func objectMember(doc gjson.Result, name string) (map[string]any, error) {
	member := doc.Get(name)
	if !member.Exists() || member.Type == gjson.Null {
		return map[string]any{}, nil
	}
	if !member.IsObject() {
		return nil, fmt.Errorf("%w: %s is not an object", ErrMalformedPayload, name)
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(member.Raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return out, nil
}

// DecodeContent decodes content and logs every skipped tag.
func DecodeContent(content string, logger logrus.FieldLogger) []ComponentItem {
	items, errs := Decode(content)
	for _, e := range errs {
		logger.WithError(e.Err).WithField("offset", e.Offset).Warn("skipping undecodable component tag")
	}
	metrics.RecordDecodeSkipped(len(errs))
	return items
}
