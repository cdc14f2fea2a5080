package linker

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed keywords.toml
var defaultTable []byte

// Keyword maps a phrase to the page it should link to
type Keyword struct {
	Phrase string `toml:"phrase"`
	URL    string `toml:"url"`
}

type tableFile struct {
	Keywords []Keyword `toml:"keyword"`
}

// DefaultKeywords returns the table built into the binary
func DefaultKeywords() []Keyword {
	kws, err := ParseKeywords(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded keyword table: %v", err))
	}
	return kws
}

// LoadKeywords reads a keyword table from a TOML file
func LoadKeywords(path string) ([]Keyword, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword table: %w", err)
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes a TOML keyword table
func ParseKeywords(data []byte) ([]Keyword, error) {
	var tf tableFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse keyword table: %w", err)
	}

	for i, kw := range tf.Keywords {
		if strings.TrimSpace(kw.Phrase) == "" {
			return nil, fmt.Errorf("keyword %d: empty phrase", i)
		}
		if strings.TrimSpace(kw.URL) == "" {
			return nil, fmt.Errorf("keyword %q: empty url", kw.Phrase)
		}
	}
	return tf.Keywords, nil
}
