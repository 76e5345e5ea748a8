package forecast

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"dam-price-predictor/internal/model"
)

var csvHeader = []string{"date", "time_block", "price", "upper_bound", "lower_bound"}

// WriteCSV writes forecast points in the layout ReadCSV expects.
func WriteCSV(path string, points []model.ForecastPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeCSV(f, points)
}

// EncodeCSV writes points as CSV to out.
func EncodeCSV(out io.Writer, points []model.ForecastPoint) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.DateStr,
			p.TimeBlock,
			strconv.FormatFloat(p.Price, 'g', -1, 64),
			strconv.FormatFloat(p.UpperBound, 'g', -1, 64),
			strconv.FormatFloat(p.LowerBound, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV loads points written by WriteCSV. Prices round-trip exactly.
func ReadCSV(path string) ([]model.ForecastPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeCSV(f)
}

func decodeCSV(r io.Reader) ([]model.ForecastPoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var out []model.ForecastPoint
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRow(rec []string) (model.ForecastPoint, error) {
	day, err := time.Parse(DateLayout, rec[0])
	if err != nil {
		return model.ForecastPoint{}, fmt.Errorf("invalid date %q: %w", rec[0], err)
	}
	mins, err := model.ParseHHMM(rec[1])
	if err != nil {
		return model.ForecastPoint{}, err
	}
	vals := make([]float64, 3)
	for i := range vals {
		v, err := strconv.ParseFloat(rec[2+i], 64)
		if err != nil {
			return model.ForecastPoint{}, fmt.Errorf("invalid %s %q", csvHeader[2+i], rec[2+i])
		}
		vals[i] = v
	}
	return model.ForecastPoint{
		Date:       day.Add(time.Duration(mins) * time.Minute),
		DateStr:    rec[0],
		TimeBlock:  rec[1],
		Price:      vals[0],
		UpperBound: vals[1],
		LowerBound: vals[2],
	}, nil
}
