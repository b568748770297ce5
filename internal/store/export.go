package store

import (
	"encoding/csv"
	"encoding/json"
	"math/cmplx"
	"os"
	"strconv"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

// ExportData is the JSON shape of a trace result.
type ExportData struct {
	Case             string      `json:"case"`
	Parameterization string      `json:"parameterization"`
	Step             float64     `json:"step"`
	StopAt           string      `json:"stop_at"`
	Steps            int         `json:"steps"`
	Success          bool        `json:"success"`
	Reason           string      `json:"reason"`
	NormF            float64     `json:"norm_f"`
	MaxLambda        float64     `json:"max_lambda"`
	Lambdas          []float64   `json:"lambdas"`
	Vm               [][]float64 `json:"vm"`
	Va               [][]float64 `json:"va"`
}

func newExportData(caseName string, opts cpf.Options, result *cpf.Result) ExportData {
	data := ExportData{
		Case:             caseName,
		Parameterization: opts.Parameterization.String(),
		Step:             opts.Step,
		StopAt:           opts.StopAt.String(),
		Steps:            result.Steps,
		Success:          result.Success,
		Reason:           result.Reason,
		NormF:            result.NormF,
		MaxLambda:        result.MaxLambda(),
		Lambdas:          result.Lambdas,
		Vm:               make([][]float64, len(result.Voltages)),
		Va:               make([][]float64, len(result.Voltages)),
	}
	for i, v := range result.Voltages {
		vm := make([]float64, len(v))
		va := make([]float64, len(v))
		for b, c := range v {
			vm[b] = cmplx.Abs(c)
			va[b] = cmplx.Phase(c)
		}
		data.Vm[i] = vm
		data.Va[i] = va
	}
	return data
}

func ExportJSON(path, caseName string, opts cpf.Options, result *cpf.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(caseName, opts, result))
}

func ExportJSONStdout(caseName string, opts cpf.Options, result *cpf.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(caseName, opts, result))
}

// ExportCSV writes one row per accepted continuation step:
// step, lambda, then per-bus voltage magnitude and angle.
func ExportCSV(path string, result *cpf.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	nb := 0
	if len(result.Voltages) > 0 {
		nb = len(result.Voltages[0])
	}
	header := []string{"step", "lambda"}
	for b := 0; b < nb; b++ {
		header = append(header, "vm_"+strconv.Itoa(b), "va_"+strconv.Itoa(b))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, v := range result.Voltages {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(result.Lambdas[i], 'g', -1, 64),
		}
		for _, c := range v {
			row = append(row,
				strconv.FormatFloat(cmplx.Abs(c), 'g', -1, 64),
				strconv.FormatFloat(cmplx.Phase(c), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
