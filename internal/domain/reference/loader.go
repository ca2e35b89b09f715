package reference

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/okian/nutriscreen/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed tables/who2006.yaml
var bundledTables []byte

// tableFile is the YAML layout of a reference set.
//
//	name: ...
//	curves:
//	  - indicator: weight_for_age
//	    sex: male
//	    points:
//	      - [0, 3.3, 0.4]   # x, median, sd
type tableFile struct {
	Name   string `yaml:"name"`
	Curves []struct {
		Indicator Indicator   `yaml:"indicator"`
		Sex       model.Sex   `yaml:"sex"`
		Points    [][]float64 `yaml:"points"`
	} `yaml:"curves"`
}

// Default builds a store from the bundled WHO-derived tables.
func Default(opts ...Option) (*MemoryStore, error) {
	return Load(bytes.NewReader(bundledTables), opts...)
}

// LoadFile builds a store from a YAML file on disk.
func LoadFile(path string, opts ...Option) (*MemoryStore, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open reference tables: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, opts...)
}

// Load decodes a YAML reference set and builds a validated store.
func Load(r io.Reader, opts ...Option) (*MemoryStore, error) {
	var tf tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidReferenceData, err)
	}

	tables := make([]Table, 0, len(tf.Curves))
	for _, c := range tf.Curves {
		pts := make([]Point, 0, len(c.Points))
		for i, row := range c.Points {
			if len(row) != 3 {
				return nil, fmt.Errorf("%w: %s/%s row %d has %d columns, want 3", ErrInvalidReferenceData, c.Indicator, c.Sex, i, len(row))
			}
			pts = append(pts, Point{X: row[0], Median: row[1], SD: row[2]})
		}
		tables = append(tables, Table{Indicator: c.Indicator, Sex: c.Sex, Points: pts})
	}

	if tf.Name != "" {
		opts = append([]Option{WithName(tf.Name)}, opts...)
	}
	return NewStore(tables, opts...)
}
