package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// ReadCSV loads a delimited file into a Dataset against an explicit schema.
// The first row must be a header naming every schema column; extra file
// columns are ignored. Empty cells and the literal "NA" are treated as
// missing (NaN for continuous columns, "" for categorical ones).
func ReadCSV(r io.Reader, schema Schema) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSV: reading header")
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	wanted := append([]Feature{schema.Target}, schema.Features...)
	for _, f := range wanted {
		if _, ok := colIdx[f.Name]; !ok {
			return nil, errors.NewValueError("ReadCSV", "header has no column "+f.Name)
		}
	}

	numeric := make(map[string][]float64)
	labels := make(map[string][]string)

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "ReadCSV: row %d", row)
		}

		for _, f := range wanted {
			cell := strings.TrimSpace(record[colIdx[f.Name]])
			missing := cell == "" || cell == "NA"
			switch f.Kind {
			case Continuous:
				v := math.NaN()
				if !missing {
					v, err = strconv.ParseFloat(cell, 64)
					if err != nil {
						return nil, errors.Wrapf(err, "ReadCSV: row %d, field %s", row, f.Name)
					}
				}
				numeric[f.Name] = append(numeric[f.Name], v)
			case Categorical:
				if missing {
					labels[f.Name] = append(labels[f.Name], "")
				} else {
					labels[f.Name] = append(labels[f.Name], cell)
				}
			}
		}
		row++
	}

	return FromColumns(schema, numeric, labels)
}

// ReadCSVFile opens path and loads it via ReadCSV.
func ReadCSVFile(path string, schema Schema) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSVFile")
	}
	defer f.Close()
	return ReadCSV(f, schema)
}
