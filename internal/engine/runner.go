/*
PURPOSE:
  Batch runner that scores every profile of a YAML file against the backend.
  Loops through profiles and writes one result row per profile.

REQUIREMENTS:
  User-specified:
  - Score many patient profiles in one go.
  - Log results to CSV/JSON.

  Implementation-discovered:
  - Profiles go through the same form validation and normalization as
    interactive input, so the payloads are identical.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/batch.go
  - Uses: internal/engine, internal/form, internal/output

ERROR HANDLING:
  - Logs errors but continues (resilience). A failed profile still gets a
    result row with its error.
  - No retries.

USAGE:
  engine.RunBatch(ctx, cfg, "profiles.yaml")

RELATED FILES:
  - internal/engine/client.go
  - internal/output/csv.go
*/

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/daryltucker/diabetes-check/internal/config"
	"github.com/daryltucker/diabetes-check/internal/form"
	"github.com/daryltucker/diabetes-check/internal/model"
	"github.com/daryltucker/diabetes-check/internal/output"
)

const (
	BatchCSVFile  = "batch_results.csv"
	BatchJSONFile = "batch_results.jsonl"
)

// Profile is one named set of raw form values.
type Profile struct {
	Name   string                 `yaml:"name"`
	Fields map[string]interface{} `yaml:"fields"`
}

// Values renders the profile's fields as raw form strings.
func (p Profile) Values() map[string]string {
	out := make(map[string]string, len(p.Fields))
	for k, v := range p.Fields {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads a profile file. Unnamed profiles are numbered.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse profile file %s: %w", path, err)
	}
	for i := range pf.Profiles {
		if pf.Profiles[i].Name == "" {
			pf.Profiles[i].Name = fmt.Sprintf("profile-%d", i+1)
		}
	}
	return pf.Profiles, nil
}

// LoadProfile reads a file holding either a profiles list (first entry
// wins) or a bare field map.
func LoadProfile(path string) (Profile, error) {
	profiles, err := LoadProfiles(path)
	if err == nil && len(profiles) > 0 {
		return profiles[0], nil
	}

	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return Profile{}, rerr
	}
	var fields map[string]interface{}
	if uerr := yaml.Unmarshal(data, &fields); uerr != nil {
		if err != nil {
			return Profile{}, err
		}
		return Profile{}, fmt.Errorf("failed to parse profile file %s: %w", path, uerr)
	}
	delete(fields, "profiles")
	if len(fields) == 0 {
		return Profile{}, fmt.Errorf("profile file %s holds no fields", path)
	}
	return Profile{Name: filepath.Base(path), Fields: fields}, nil
}

// Score validates, normalizes and predicts a single profile.
func (c *Client) Score(ctx context.Context, p Profile) model.BatchResult {
	start := time.Now()
	res := model.BatchResult{Profile: p.Name, Timestamp: start}

	f := form.New()
	f.SetAll(p.Values())
	res.Input = form.Normalize(f)

	if err := f.Validate(); err != nil {
		res.Error = err.Error()
		return res
	}

	pred, err := c.Predict(ctx, res.Input)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if !pred.Success {
		res.Error = string(pred.Error)
		if res.Error == "" {
			res.Error = "server error"
		}
		return res
	}

	res.Label = pred.Label
	res.RiskLevel = pred.RiskLevel
	res.ProbabilityPercent = pred.ProbabilityPercent
	if len(pred.FeatureImportance) > 0 {
		res.TopFeature = pred.FeatureImportance[0].Name
	}
	return res
}

// RunBatch scores every profile in profilesPath and writes CSV and JSONL
// results into cfg.OutputDir.
func RunBatch(ctx context.Context, cfg *config.Config, profilesPath string) ([]model.BatchResult, error) {
	profiles, err := LoadProfiles(profilesPath)
	if err != nil {
		return nil, err
	}

	c := New(cfg)

	// Ensure output directory exists
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	csvPath := filepath.Join(cfg.OutputDir, BatchCSVFile)
	csvWriter, err := output.NewCSVWriter(csvPath, output.BatchHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	jsonPath := filepath.Join(cfg.OutputDir, BatchJSONFile)
	jsonWriter, err := output.NewJSONWriter(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
	}
	defer jsonWriter.Close()

	results := make([]model.BatchResult, 0, len(profiles))
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		output.Logger.Info("Scoring profile", "profile", p.Name)
		res := c.Score(ctx, p)
		if res.Error != "" {
			output.Logger.Error("Prediction failed", "profile", p.Name, "error", res.Error)
		} else {
			output.Logger.Info("Prediction success",
				"profile", p.Name,
				"label", res.Label,
				"probability", fmt.Sprintf("%.2f%%", res.ProbabilityPercent),
				"duration", res.Duration,
			)
		}

		if err := csvWriter.WriteResult(res); err != nil {
			output.Logger.Error("Failed to write result to CSV", "error", err)
		}
		if err := jsonWriter.Write(res); err != nil {
			output.Logger.Error("Failed to write result to JSON", "error", err)
		}
		results = append(results, res)
	}

	return results, nil
}
