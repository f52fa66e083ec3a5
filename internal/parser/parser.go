package parser

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/romshark/jscan/v2"
)

// Parse reads all of reader and builds a document tree from it
func Parse(reader io.Reader, flags config.ReadFlag) (*models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data, flags)
}

// ParseString parses JSON from a string
func ParseString(jsonString string, flags config.ReadFlag) (*models.Document, error) {
	return ParseBytes([]byte(jsonString), flags)
}

// ParseBytes validates data and builds an ordered document tree. Malformed
// input yields a parsing *errors.AppError wrapping a *ReadError.
func ParseBytes(data []byte, flags config.ReadFlag) (*models.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}

	src, err := validated(data, flags)
	if err != nil {
		return nil, err
	}

	root, err := build(src)
	if err != nil {
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}
	return models.NewDocument(root), nil
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string, flags config.ReadFlag) (*models.Document, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	doc, err := ParseBytes(data, flags)
	if err != nil {
		var readErr *ReadError
		if stderrors.As(err, &readErr) {
			readErr.File = filePath
		}
		return nil, err
	}
	return doc, nil
}

func readFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return data, nil
}

// validated returns the slice of data holding exactly one JSON value.
func validated(data []byte, flags config.ReadFlag) ([]byte, error) {
	verr := jscan.Validate(data)
	if !verr.IsErr() {
		return checkUTF8(data)
	}

	// Trailing content after a complete value is accepted on request.
	if flags&config.ReadFlagStopWhenDone != 0 && verr.Index > 0 {
		head := data[:verr.Index]
		if len(bytes.TrimSpace(head)) > 0 && !jscan.Validate(head).IsErr() {
			return checkUTF8(head)
		}
	}

	return nil, errors.NewParsingError(
		fmt.Sprintf("invalid JSON at position %d", verr.Index),
		newReadError(data, verr.Index, int(verr.Code), describeCode(verr.Code)),
	)
}

// codeInvalidUTF8 follows the last jscan error code.
const codeInvalidUTF8 = int(jscan.ErrorCodeCallback) + 1

// checkUTF8 rejects text that is not valid UTF-8, reporting the first bad byte.
func checkUTF8(src []byte) ([]byte, error) {
	if utf8.Valid(src) {
		return src, nil
	}
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		i += size
	}
	return nil, errors.NewParsingError(
		fmt.Sprintf("invalid UTF-8 at position %d", i),
		newReadError(src, i, codeInvalidUTF8, "invalid UTF-8 encoding in string"),
	)
}

func describeCode(code jscan.ErrorCode) string {
	switch code {
	case jscan.ErrorCodeInvalidEscape:
		return "invalid escaped sequence in string"
	case jscan.ErrorCodeIllegalControlChar:
		return "invalid control character in string"
	case jscan.ErrorCodeUnexpectedEOF:
		return "unexpected end of data"
	case jscan.ErrorCodeUnexpectedToken:
		return "unexpected character"
	case jscan.ErrorCodeMalformedNumber:
		return "invalid number"
	default:
		return "invalid JSON"
	}
}

// build turns validated JSON text into a node tree. Object members keep their
// source order and duplicates.
func build(src []byte) (*models.Node, error) {
	dec := gojson.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	return readValue(dec)
}

func readValue(dec *gojson.Decoder) (*models.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return models.NewNull(), nil
	case bool:
		return models.NewBool(t), nil
	case string:
		// token strings may alias the decoder buffer
		return models.NewString(strings.Clone(t)), nil
	case gojson.Number:
		return numberNode(string(t))
	case gojson.Delim:
		switch t {
		case '[':
			arr := models.NewArray()
			for dec.More() {
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		case '{':
			obj := models.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not a string", keyTok)
				}
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Add(strings.Clone(key), v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// numberNode picks the numeric subtype from the literal: integers without a
// sign are unsigned, with a sign are signed, and anything with a fraction,
// an exponent or out of 64-bit range is real.
func numberNode(lit string) (*models.Node, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if strings.HasPrefix(lit, "-") {
			if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
				return models.NewSint(i), nil
			}
		} else if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
			return models.NewUint(u), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	return models.NewReal(f), nil
}
