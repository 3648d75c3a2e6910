package fontgen

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/embedkit/fontpack/internal/compression"
)

// Config collects every knob of a conversion run. The output fields default
// from the fnt path; the flags default to off.
type Config struct {
	FNTPath    string
	BitmapPath string // default: the file= attribute, relative to the fnt
	OutputPath string // default: the fnt path with a .h extension
	ArrayName  string // default: the fnt base name, sanitized

	Compress    bool
	Encoding    compression.Encoding
	RLEWordSize int // compression.RLEWord8 or RLEWord16, 0 means RLEWord8
	KeepRGBA    bool

	StaticStorage bool
	MutableData   bool
	EmitStructs   bool
	StdTypes      bool
	HexString     bool
	Align         int

	CommandLine string

	// DebugPrint, when set, receives verbose progress lines.
	DebugPrint func(string)
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.FNTPath == "" {
		result = multierror.Append(result, errors.New("fnt path is required"))
	}
	if c.Align < 0 || (c.Align != 0 && c.Align&(c.Align-1) != 0) {
		result = multierror.Append(result,
			fmt.Errorf("alignment %d is not a power of two", c.Align))
	}
	switch c.RLEWordSize {
	case 0, compression.RLEWord8, compression.RLEWord16:
	default:
		result = multierror.Append(result,
			fmt.Errorf("rle word size %d not supported", c.RLEWordSize))
	}
	if _, err := compression.NewCodec(c.Encoding); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// outputPath derives the target file next to the fnt when none was given.
func (c *Config) outputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return strings.TrimSuffix(c.FNTPath, filepath.Ext(c.FNTPath)) + ".h"
}

// arrayName derives the C symbol prefix from the fnt base name.
func (c *Config) arrayName() string {
	if c.ArrayName != "" {
		return c.ArrayName
	}
	base := filepath.Base(c.FNTPath)
	return sanitizeIdentifier(strings.TrimSuffix(base, filepath.Ext(base)))
}

// sanitizeIdentifier maps a file base name onto a valid C identifier.
func sanitizeIdentifier(s string) string {
	ident := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
	if ident == "" {
		return "Font"
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		ident = "_" + ident
	}
	return ident
}

func (c *Config) debugf(format string, args ...interface{}) {
	if c.DebugPrint != nil {
		c.DebugPrint(fmt.Sprintf(format, args...))
	}
}
