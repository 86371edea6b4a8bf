package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// sourceFlags selects where a command reads its program from.
type sourceFlags struct {
	Source string `arg:"" optional:"" help:"Program text. Defaults to \"(8 + 4) * (9 * 2)\"."`
	File   string `short:"f" help:"Read the program from a file (- for stdin)."`
}

var encodings = map[string]encoding.Encoding{
	"utf-8":    unicode.UTF8,
	"latin1":   charmap.ISO8859_1,
	"utf-16le": unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16be": unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
}

// load returns the program text and the name diagnostics should show for it.
// Only file and stdin input is decoded; a command line argument is already text.
func (s sourceFlags) load(e *env, encodingName string) (name, src string, err error) {
	if s.File == "" {
		if s.Source == "" {
			return "", defaultSource, nil
		}
		return "", s.Source, nil
	}
	if s.Source != "" {
		return "", "", fmt.Errorf("give either SOURCE or --file, not both")
	}

	var data []byte
	if s.File == "-" {
		name = "<stdin>"
		data, err = io.ReadAll(e.stdin)
	} else {
		name = s.File
		data, err = os.ReadFile(s.File)
	}
	if err != nil {
		return "", "", fmt.Errorf("read source: %w", err)
	}

	text, err := decode(data, encodingName)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", name, err)
	}
	e.logger.Printf("read %d byte(s) from %s as %s", len(data), name, encodingName)
	return name, text, nil
}

func decode(data []byte, encodingName string) (string, error) {
	enc, ok := encodings[encodingName]
	if !ok {
		return "", fmt.Errorf("unknown encoding %q", encodingName)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
