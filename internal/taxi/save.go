package taxi

import (
	"context"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/files"
	"github.com/GriffinCanCode/etlbench/internal/shared/paths"
)

// TableTrips is the file name used when the full dataset is written.
const TableTrips = "trips"

// Writer persists every side table as <prefix>_<table>.csv and the dataset
// summary as <prefix>_summary.json. Compress gzips the CSVs; WriteDataset
// also writes the cleaned, sorted trips.
type Writer struct {
	Prefix       string
	Compress     bool
	WriteDataset bool
}

// Save implements pipeline.Writer. Files written before a failure are
// still reported.
func (w Writer) Save(ctx context.Context, ds *pipeline.Dataset, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &pipeline.WriteError{Path: dir, Err: err}
	}
	out := paths.NewOutput(dir, w.Prefix)

	var written []string
	for _, name := range ds.TableNames() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		table, _ := ds.Table(name)
		path := out.Table(name, w.Compress)
		if err := writeFrame(path, table, w.Compress); err != nil {
			return written, &pipeline.WriteError{Path: path, Err: err}
		}
		written = append(written, path)
	}

	if w.WriteDataset {
		path := out.Table(TableTrips, w.Compress)
		if err := writeFrame(path, ds.Frame(), w.Compress); err != nil {
			return written, &pipeline.WriteError{Path: path, Err: err}
		}
		written = append(written, path)
	}

	path := out.Summary()
	if err := files.WriteJSON(path, Summarize(ds.Frame())); err != nil {
		return written, &pipeline.WriteError{Path: path, Err: err}
	}
	return append(written, path), nil
}

func writeFrame(path string, df dataframe.DataFrame, compress bool) error {
	f, err := files.Create(path, compress)
	if err != nil {
		return err
	}
	werr := df.WriteCSV(f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}
