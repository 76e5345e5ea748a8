package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dam-price-predictor/internal/model"
)

// LoadJSON reads a JSON array of observations. Calendar fields are always
// recomputed from time; mcp_kwh is filled from mcp_mwh when absent.
func LoadJSON(path string) ([]model.Observation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var obs []model.Observation
	if err := json.Unmarshal(raw, &obs); err != nil {
		return nil, err
	}
	return Normalize(obs)
}

// Normalize derives calendar fields and validates a decoded history in place.
func Normalize(obs []model.Observation) ([]model.Observation, error) {
	for i := range obs {
		if obs[i].Time.IsZero() {
			return nil, fmt.Errorf("row %d: missing time", i+1)
		}
		if obs[i].MCPKWh == 0 && obs[i].MCPMWh != 0 {
			obs[i].MCPKWh = obs[i].MCPMWh / 1000
		}
		if obs[i].Date == "" {
			obs[i].Date = obs[i].Time.Format("02-01-2006")
		}
		if obs[i].TimeBlock == "" {
			obs[i].TimeBlock = obs[i].Time.Format("15:04")
		}
		obs[i].Derive()
	}
	if err := model.ValidateHistory(obs); err != nil {
		return nil, err
	}
	return obs, nil
}

// Load picks a loader from the file extension (.json, otherwise CSV).
func Load(path string) ([]model.Observation, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path)
	}
	return LoadCSV(path)
}
