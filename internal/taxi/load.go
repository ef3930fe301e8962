package taxi

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/files"
)

// Loader reads a trip file into a dataset. A positive Limit keeps only the
// first Limit data rows.
type Loader struct {
	Limit int
}

// Load implements pipeline.Loader.
func (l Loader) Load(ctx context.Context, path string) (*pipeline.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", pipeline.ErrFileNotFound, path)
		}
		return nil, err
	}

	rc, err := files.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	df := l.read(ctx, rc)
	if df.Err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, df.Err)
	}
	if err := requireColumns(df, RequiredColumns...); err != nil {
		return nil, err
	}
	return pipeline.NewDataset(df), nil
}

func (l Loader) read(ctx context.Context, r io.Reader) dataframe.DataFrame {
	opts := []dataframe.LoadOption{
		dataframe.WithTypes(columnTypes),
		dataframe.NaNValues(nanValues),
	}
	if l.Limit <= 0 {
		return dataframe.ReadCSV(r, opts...)
	}

	// header plus Limit rows
	cr := csv.NewReader(r)
	records := make([][]string, 0, l.Limit+1)
	for len(records) <= l.Limit {
		if len(records)%10000 == 0 && ctx.Err() != nil {
			return dataframe.DataFrame{Err: ctx.Err()}
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataframe.DataFrame{Err: err}
		}
		records = append(records, rec)
	}
	return dataframe.LoadRecords(records, opts...)
}
