package sweep

import "github.com/gridrelax/gridrelax/pkg/model"

// DefaultScanParams mirrors the start/step constants the original batch
// generator hard-coded (dimension_start, processes_start, precision_start,
// simple_start, di_pro_start_di/pro), scaled down from the original's
// cluster-sized values (16000/176/1e-9) to sizes a local run can complete.
type DefaultScanParams struct {
	DimensionStart int
	DimensionFloor int
	DimensionStep  int

	ProcessesStart int
	ProcessesFloor int
	ProcessesStep  int

	PrecisionStart float64
	PrecisionCeil  float64

	SimpleStart int
	SimpleFloor int
	SimpleStep  int

	DiProDimensionStart int
	DiProProcessesStart int
	DiProProcessesFloor int
	DiProProcessesStep  int
}

// DefaultScan returns scan parameters proportioned for a local run: the
// original's cluster-scale constants divided down by roughly 100x.
func DefaultScan() DefaultScanParams {
	return DefaultScanParams{
		DimensionStart: 160, DimensionFloor: 10, DimensionStep: 10,
		ProcessesStart: 16, ProcessesFloor: 4, ProcessesStep: 4,
		PrecisionStart: 1e-7, PrecisionCeil: 0.1,
		SimpleStart: 500, SimpleFloor: 10, SimpleStep: 20,
		DiProDimensionStart: 100, DiProProcessesStart: 16, DiProProcessesFloor: 4, DiProProcessesStep: 4,
	}
}

// BuildMatrix generates the five scan families the original produced:
// precision scan, dimension scan, simple-boundary scan, process-count scan,
// and the combined dimension-x-process scan. Fixed-dimension/precision/
// participant values for each scan family come from base.
func BuildMatrix(base Cell, scan DefaultScanParams) []Cell {
	var cells []Cell

	for p := scan.PrecisionStart; p <= scan.PrecisionCeil; p *= 10 {
		cells = append(cells, Cell{
			Label: "precision", Mode: base.Mode,
			Dimension: base.Dimension, Precision: p, Participants: base.Participants,
		})
	}

	for d := scan.DimensionStart; d >= scan.DimensionFloor; d -= scan.DimensionStep {
		cells = append(cells, Cell{
			Label: "dimension", Mode: base.Mode,
			Dimension: d, Precision: base.Precision, Participants: base.Participants,
		})
	}

	for d := scan.SimpleStart; d >= scan.SimpleFloor; d -= scan.SimpleStep {
		cells = append(cells, Cell{
			Label: "simple", Mode: base.Mode,
			Dimension: d, Precision: base.Precision, Participants: base.Participants,
		})
	}

	for n := scan.ProcessesStart; n >= scan.ProcessesFloor; n -= scan.ProcessesStep {
		cells = append(cells, Cell{
			Label: "processes", Mode: model.ModeDMS,
			Dimension: base.Dimension, Precision: base.Precision, Participants: n,
		})
	}

	for n := scan.DiProProcessesStart; n >= scan.DiProProcessesFloor; n -= scan.DiProProcessesStep {
		for d := scan.DiProDimensionStart; d >= scan.DimensionFloor; d -= scan.DimensionStep {
			cells = append(cells, Cell{
				Label: "di_pro", Mode: model.ModeDMS,
				Dimension: d, Precision: base.Precision, Participants: n,
			})
		}
	}

	return cells
}
