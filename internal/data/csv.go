package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"dam-price-predictor/internal/model"
)

var ErrNoHeader = errors.New("no header row with Date, Time Block and MCP columns")

// Accepted date layouts for the Date column, tried in order.
var dateLayouts = []string{"02-01-2006", "2006-01-02", "02/01/2006", "02.01.2006"}

type columns struct {
	date, timeBlock, purchaseBid, sellBid, mcv, mcp int
}

// LoadCSV reads an exchange day-ahead-market report.
func LoadCSV(path string) ([]model.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV parses a DAM report. Title rows above the header are skipped.
// The Date cell may be blank on every block after the first of a day, as in
// the exchange's own exports, in which case the previous date carries forward.
// Errors carry the 1-based record number; blank lines are not counted.
func ParseCSV(r io.Reader) ([]model.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		cols    *columns
		out     []model.Observation
		lastDay string
	)
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if blank(rec) {
			continue
		}
		if cols == nil {
			cols = detectHeader(rec)
			continue
		}

		o, err := parseRecord(rec, *cols, &lastDay)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		out = append(out, o)
	}
	if cols == nil {
		return nil, ErrNoHeader
	}
	if err := model.ValidateHistory(out); err != nil {
		return nil, err
	}
	return out, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func detectHeader(rec []string) *columns {
	c := columns{date: -1, timeBlock: -1, purchaseBid: -1, sellBid: -1, mcv: -1, mcp: -1}
	for i, raw := range rec {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case h == "date":
			c.date = i
		case strings.HasPrefix(h, "time block"):
			c.timeBlock = i
		case strings.HasPrefix(h, "purchase bid"):
			c.purchaseBid = i
		case strings.HasPrefix(h, "sell bid"):
			c.sellBid = i
		case strings.HasPrefix(h, "mcv"):
			c.mcv = i
		case strings.HasPrefix(h, "mcp"):
			c.mcp = i
		}
	}
	if c.date < 0 || c.timeBlock < 0 || c.mcp < 0 {
		return nil
	}
	return &c
}

func parseRecord(rec []string, c columns, lastDay *string) (model.Observation, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date := cell(c.date)
	if date == "" {
		date = *lastDay
	}
	if date == "" {
		return model.Observation{}, errors.New("missing date")
	}
	day, err := parseDate(date)
	if err != nil {
		return model.Observation{}, err
	}
	*lastDay = date

	block := cell(c.timeBlock)
	mins, err := blockStart(block)
	if err != nil {
		return model.Observation{}, err
	}

	mcp, err := parseNumber(cell(c.mcp), true)
	if err != nil {
		return model.Observation{}, fmt.Errorf("MCP: %w", err)
	}

	o := model.NewObservation(date, day.Add(time.Duration(mins)*time.Minute), block, mcp)
	if o.PurchaseBid, err = parseNumber(cell(c.purchaseBid), false); err != nil {
		return model.Observation{}, fmt.Errorf("purchase bid: %w", err)
	}
	if o.SellBid, err = parseNumber(cell(c.sellBid), false); err != nil {
		return model.Observation{}, fmt.Errorf("sell bid: %w", err)
	}
	if o.MCV, err = parseNumber(cell(c.mcv), false); err != nil {
		return model.Observation{}, fmt.Errorf("MCV: %w", err)
	}
	return o, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// blockStart returns the start of a "HH:MM - HH:MM" block in minutes.
// A bare "HH:MM" is accepted too.
func blockStart(s string) (int, error) {
	start, _, _ := strings.Cut(s, "-")
	m, err := model.ParseHHMM(start)
	if err != nil {
		return 0, fmt.Errorf("invalid time block %q", s)
	}
	if m >= 24*60 {
		return 0, fmt.Errorf("invalid time block %q", s)
	}
	return m, nil
}

// parseNumber accepts thousands separators. Empty cells are an error only
// when required.
func parseNumber(s string, required bool) (float64, error) {
	if s == "" {
		if required {
			return 0, errors.New("missing value")
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
