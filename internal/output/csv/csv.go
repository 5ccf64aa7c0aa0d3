// Package csv implements an Output that writes predictions to a CSV file.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/crimson-sun/spendsort/internal/model"
)

var headers = []string{"description", "predicted_category", "matched_example", "score", "confidence", "low_confidence_flag"}

// Output appends predictions to a CSV file, writing the header row
// only when the file is new.
type Output struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// New creates a CSV output at the given path.
func New(path string) (*Output, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("csv output: opening %s: %w", path, err)
	}

	o := &Output{file: file, writer: csv.NewWriter(file)}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("csv output: stat %s: %w", path, err)
	}
	if stat.Size() == 0 {
		if err := o.writeHeaders(); err != nil {
			file.Close()
			return nil, fmt.Errorf("csv output: writing headers: %w", err)
		}
	}
	return o, nil
}

func (o *Output) writeHeaders() error {
	if err := o.writer.Write(headers); err != nil {
		return err
	}
	o.writer.Flush()
	return o.writer.Error()
}

// Write appends one prediction row.
func (o *Output) Write(_ context.Context, pred model.Prediction) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	row := []string{
		pred.Description,
		pred.Category,
		pred.MatchedExample,
		strconv.FormatFloat(pred.Score, 'f', 6, 64),
		pred.Confidence,
		strconv.FormatBool(pred.LowConfidence),
	}
	if err := o.writer.Write(row); err != nil {
		return fmt.Errorf("csv output: writing row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.writer.Flush()
	if err := o.writer.Error(); err != nil {
		o.file.Close()
		return fmt.Errorf("csv output: flush: %w", err)
	}
	return o.file.Close()
}
