package rules

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
)

// ReadTOML decodes and validates a rule table in TOML form:
//
//	[[modules]]
//	id = "video_decoder"
//	[[modules.rules]]
//	option_key = "av1"
//	requires = ["hw_accel"]
func ReadTOML(r io.Reader) (*Table, error) {
	var t Table
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return nil, cterrors.Wrap(cterrors.ErrCodeInvalidFormat, err, "decode rules toml")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadJSON decodes and validates a rule table in JSON form. The schema is
// the "modules" subset of the raw configuration format.
func ReadJSON(r io.Reader) (*Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, cterrors.Wrap(cterrors.ErrCodeInvalidFormat, err, "decode rules json")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads a rule table, choosing the decoder by file extension.
func LoadFile(path string) (*Table, error) {
	if err := cterrors.ValidatePath(path); err != nil {
		return nil, err
	}

	var read func(io.Reader) (*Table, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		read = ReadTOML
	case ".json":
		read = ReadJSON
	default:
		return nil, cterrors.New(cterrors.ErrCodeUnsupported, "unsupported rules format %q (want .toml or .json)", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cterrors.Wrap(cterrors.ErrCodeFileNotFound, err, "rules file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return read(f)
}

// WriteTOML encodes t as TOML.
func WriteTOML(w io.Writer, t *Table) error {
	return toml.NewEncoder(w).Encode(t)
}
