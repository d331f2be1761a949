package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"phishguard/internal/models"
)

const (
	analyzerWord = "word"
	analyzerChar = "char"

	normL1 = "l1"
	normL2 = "l2"

	// sklearn's default token pattern, which RE2 cannot compile as written.
	pythonDefaultTokenPattern = `(?u)\b\w\w+\b`
	defaultTokenPattern       = `[\p{L}\p{N}_]{2,}`
)

var whiteSpaces = regexp.MustCompile(`\s\s+`)

// TfidfParams is the serialized form of a fitted TF-IDF vectorizer.
// Nil Lowercase and Norm mean true and "l2". A norm written as JSON null
// means no normalization.
type TfidfParams struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	Analyzer     string         `json:"analyzer,omitempty"`
	NgramRange   [2]int         `json:"ngram_range,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	Norm         *string        `json:"norm,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty"`
}

// TfidfVectorizer maps text to L1/L2 normalized TF-IDF rows over a fixed
// vocabulary. Terms outside the vocabulary are dropped.
type TfidfVectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	lowercase   bool
	analyzer    string
	minN, maxN  int
	token       *regexp.Regexp
	norm        string
	sublinearTF bool
}

func decodeTfidf(nFeatures int, raw json.RawMessage) (*TfidfVectorizer, error) {
	var p TfidfParams
	if err := decodeParams(KindTfidfVectorizer, raw, &p); err != nil {
		return nil, err
	}
	if p.Norm == nil && isNullField(raw, "norm") {
		none := ""
		p.Norm = &none
	}
	return NewTfidfVectorizer(nFeatures, p)
}

// isNullField reports whether raw holds key with an explicit null value.
func isNullField(raw json.RawMessage, key string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	v, ok := fields[key]
	return ok && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// NewTfidfVectorizer validates params and builds a vectorizer of nFeatures columns.
func NewTfidfVectorizer(nFeatures int, p TfidfParams) (*TfidfVectorizer, error) {
	if len(p.IDF) != nFeatures {
		return nil, shapeError(KindTfidfVectorizer, "%d idf weights, want %d", len(p.IDF), nFeatures)
	}
	if len(p.Vocabulary) == 0 {
		return nil, shapeError(KindTfidfVectorizer, "empty vocabulary")
	}
	seen := make([]bool, nFeatures)
	for term, col := range p.Vocabulary {
		if col < 0 || col >= nFeatures {
			return nil, shapeError(KindTfidfVectorizer, "term %q maps to column %d of %d", term, col, nFeatures)
		}
		if seen[col] {
			return nil, shapeError(KindTfidfVectorizer, "column %d used by more than one term", col)
		}
		seen[col] = true
	}

	v := &TfidfVectorizer{
		vocabulary:  p.Vocabulary,
		idf:         p.IDF,
		lowercase:   p.Lowercase == nil || *p.Lowercase,
		analyzer:    p.Analyzer,
		minN:        p.NgramRange[0],
		maxN:        p.NgramRange[1],
		norm:        normL2,
		sublinearTF: p.SublinearTF,
	}
	if p.Norm != nil {
		v.norm = *p.Norm
	}
	switch v.norm {
	case normL1, normL2, "":
	default:
		return nil, shapeError(KindTfidfVectorizer, "unknown norm %q", v.norm)
	}
	if v.analyzer == "" {
		v.analyzer = analyzerWord
	}
	if v.minN == 0 && v.maxN == 0 {
		v.minN, v.maxN = 1, 1
	}
	if v.minN < 1 || v.maxN < v.minN {
		return nil, shapeError(KindTfidfVectorizer, "invalid ngram_range [%d, %d]", v.minN, v.maxN)
	}

	switch v.analyzer {
	case analyzerWord:
		re, err := compileTokenPattern(p.TokenPattern)
		if err != nil {
			return nil, shapeError(KindTfidfVectorizer, "token_pattern: %v", err)
		}
		if re.NumSubexp() > 1 {
			return nil, shapeError(KindTfidfVectorizer, "token_pattern has %d capturing groups, at most 1 allowed", re.NumSubexp())
		}
		v.token = re
	case analyzerChar:
	default:
		return nil, shapeError(KindTfidfVectorizer, "unknown analyzer %q", v.analyzer)
	}
	return v, nil
}

func compileTokenPattern(pattern string) (*regexp.Regexp, error) {
	switch pattern {
	case "", pythonDefaultTokenPattern:
		pattern = defaultTokenPattern
	}
	return regexp.Compile(unicodeWordClasses(strings.TrimPrefix(pattern, "(?u)")))
}

// unicodeWordClasses rewrites \w (and \W outside brackets) to Unicode letter,
// digit and underscore classes, matching Python str patterns. RE2 keeps \b
// ASCII-only.
func unicodeWordClasses(pattern string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			i++
			switch next := pattern[i]; {
			case next == 'w' && inClass:
				b.WriteString(`\p{L}\p{N}_`)
			case next == 'w':
				b.WriteString(`[\p{L}\p{N}_]`)
			case next == 'W' && !inClass:
				b.WriteString(`[^\p{L}\p{N}_]`)
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			continue
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			// A leading ] (after an optional ^) is a literal.
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
			continue
		case c == '[' && inClass && strings.HasPrefix(pattern[i:], "[:"):
			end := strings.Index(pattern[i:], ":]")
			if end >= 0 {
				b.WriteString(pattern[i : i+end+2])
				i += end + 1
				continue
			}
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (v *TfidfVectorizer) Dim() int { return len(v.idf) }

// Transform returns one row per input text. Empty text yields an all-zero row.
func (v *TfidfVectorizer) Transform(texts []string) ([]SparseVector, error) {
	rows := make([]SparseVector, 0, len(texts))
	for i, text := range texts {
		row, err := v.transformOne(text)
		if err != nil {
			return nil, fmt.Errorf("transform text %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (v *TfidfVectorizer) transformOne(text string) (SparseVector, error) {
	if !utf8.ValidString(text) {
		return SparseVector{}, fmt.Errorf("%w: text is not valid UTF-8", models.ErrInvalidInput)
	}
	if v.lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, term := range v.terms(text) {
		if col, ok := v.vocabulary[term]; ok {
			counts[col]++
		}
	}

	row := SparseVector{Dim: len(v.idf)}
	if len(counts) == 0 {
		return row, nil
	}
	row.Indices = make([]int, 0, len(counts))
	for col := range counts {
		row.Indices = append(row.Indices, col)
	}
	sort.Ints(row.Indices)

	row.Values = make([]float64, len(row.Indices))
	for k, col := range row.Indices {
		tf := counts[col]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		row.Values[k] = tf * v.idf[col]
	}
	normalize(row.Values, v.norm)
	return row, nil
}

func (v *TfidfVectorizer) terms(text string) []string {
	if v.analyzer == analyzerChar {
		return charNgrams(text, v.minN, v.maxN)
	}
	return wordNgrams(v.tokens(text), v.minN, v.maxN)
}

// tokens returns every match of the token pattern, or its single capturing
// group when it has one.
func (v *TfidfVectorizer) tokens(text string) []string {
	if v.token.NumSubexp() == 0 {
		return v.token.FindAllString(text, -1)
	}
	matches := v.token.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func wordNgrams(tokens []string, minN, maxN int) []string {
	if maxN == 1 {
		return tokens
	}
	var out []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// charNgrams collapses runs of two or more whitespace characters to a single
// space before slicing, as sklearn does.
func charNgrams(text string, minN, maxN int) []string {
	runes := []rune(whiteSpaces.ReplaceAllString(text, " "))
	var out []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(runes); i++ {
			out = append(out, string(runes[i:i+n]))
		}
	}
	return out
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case normL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case normL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
