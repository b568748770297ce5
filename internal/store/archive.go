package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

// Archive keeps traced continuation runs under a base directory, one
// subdirectory per run with metadata.json and curve.csv.
type Archive struct {
	baseDir string
}

func NewArchive(baseDir string) *Archive {
	return &Archive{baseDir: baseDir}
}

func (a *Archive) Init() error {
	return os.MkdirAll(a.baseDir, 0755)
}

type RunMetadata struct {
	ID               string    `json:"id"`
	Case             string    `json:"case"`
	Timestamp        time.Time `json:"timestamp"`
	Parameterization string    `json:"parameterization"`
	Step             float64   `json:"step"`
	StopAt           string    `json:"stop_at"`
	Steps            int       `json:"steps"`
	Success          bool      `json:"success"`
	Reason           string    `json:"reason"`
	MaxLambda        float64   `json:"max_lambda"`
}

// Save archives a trace under a fresh run id and returns the id.
func (a *Archive) Save(caseName string, opts cpf.Options, result *cpf.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", caseName, time.Now().Unix())
	runDir := filepath.Join(a.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Case:             caseName,
		Timestamp:        time.Now(),
		Parameterization: opts.Parameterization.String(),
		Step:             opts.Step,
		StopAt:           opts.StopAt.String(),
		Steps:            result.Steps,
		Success:          result.Success,
		Reason:           result.Reason,
		MaxLambda:        result.MaxLambda(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := ExportCSV(filepath.Join(runDir, "curve.csv"), result); err != nil {
		return "", err
	}
	return runID, nil
}

func (a *Archive) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(a.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (a *Archive) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(a.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadCurve reads an archived curve back as lambda values and per-step bus
// voltage magnitudes.
func (a *Archive) LoadCurve(runID string) (lambdas []float64, vm [][]float64, err error) {
	file, err := os.Open(filepath.Join(a.baseDir, runID, "curve.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	// header is step, lambda, then vm/va pairs per bus
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		lam, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		lambdas = append(lambdas, lam)

		row := make([]float64, 0, (len(record)-2)/2)
		for j := 2; j+1 < len(record); j += 2 {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		vm = append(vm, row)
	}
	return lambdas, vm, nil
}
