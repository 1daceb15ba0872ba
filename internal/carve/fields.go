package carve

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/steamcarve/steamcarve/internal/model"
)

// previewLimit caps the decoded preview length in characters.
const previewLimit = 200

// Decoding factories for the preview chain. x/text encodings are
// stateless; NewDecoder is called per use.
var (
	utf16Decoding  = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	latin1Decoding = charmap.ISO8859_1
)

// ExtractFields pulls the typed fields out of a classified run and
// composes the raw artifact record. Missing fields keep their zero value;
// extraction never fails.
func ExtractFields(kind model.Kind, offset uint64, data []byte) model.Artifact {
	a := model.Artifact{
		Kind:    kind,
		Offset:  offset,
		SteamID: asciiIgnore(steamIDRe.Find(data)),
		Message: asciiIgnore(msgRe.Find(data)),
		Preview: Preview(data),
	}

	if ts := unix13Re.Find(data); ts != nil {
		// The pattern only matches digits; parse errors are impossible
		// short of overflow, which zero-values the field.
		v, err := strconv.ParseUint(string(ts), 10, 64)
		if err == nil {
			a.UnixTsMs = v
		}
	}

	if kind == model.KindURL {
		if m := urlRe.Find(data); m != nil {
			a.Value = decodeUTF8OrLatin1(m)
		}
	}

	return a
}

// Preview decodes a run for human display: decode attempted in order
// UTF-16LE, UTF-8, Latin-1, first successful non-empty result wins. NUL
// bytes are stripped, whitespace is collapsed, and the result is truncated
// to 200 characters. Every attempt failing yields the empty string.
//
// The UTF-16LE attempt is only taken when the run contains NUL bytes:
// interior zeros are the signature of carved UTF-16LE text, and without
// them the bytes are some 8-bit encoding.
func Preview(data []byte) string {
	if bytes.IndexByte(data, 0) >= 0 {
		if s, err := utf16Decoding.NewDecoder().String(string(data)); err == nil {
			if out := cleanPreview(s); out != "" {
				return out
			}
		}
	}
	if utf8.Valid(data) {
		if out := cleanPreview(string(data)); out != "" {
			return out
		}
	}
	if s, err := latin1Decoding.NewDecoder().String(string(data)); err == nil {
		return cleanPreview(s)
	}
	return ""
}

// cleanPreview strips NULs, collapses whitespace, and truncates to the
// preview limit.
func cleanPreview(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit])
	}
	return s
}

// asciiIgnore decodes bytes as ASCII, dropping anything outside the 7-bit
// range. Nil input decodes to the empty string.
func asciiIgnore(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if b < utf8.RuneSelf {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// decodeUTF8OrLatin1 decodes bytes as UTF-8 when valid, falling back to
// Latin-1, which maps every byte and therefore cannot fail.
func decodeUTF8OrLatin1(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	s, err := latin1Decoding.NewDecoder().String(string(data))
	if err != nil {
		return ""
	}
	return s
}
