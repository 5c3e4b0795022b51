package sweep

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridrelax/gridrelax/pkg/compression"
	"github.com/gridrelax/gridrelax/pkg/writer"
)

// WriteReport writes report to path as JSON. If gz is true it writes
// gzip-compressed JSON via writer.GzipWriter; otherwise plain JSON via
// writer.JSONWriter (both teacher's own generic writers).
func WriteReport(report Report, path string, gz bool) error {
	if gz {
		return writer.NewGzipWriter[Report]().WriteToFile(report, path)
	}
	return writer.NewPrettyJSONWriter[Report]().WriteToFile(report, path)
}

// WriteReportCompressed marshals report to JSON and compresses it with the
// given algorithm via pkg/compression, for callers that want zstd rather
// than the writer package's built-in gzip path.
func WriteReportCompressed(report Report, path string, ctype compression.Type) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	comp, err := compression.New(ctype, compression.LevelDefault)
	if err != nil {
		return fmt.Errorf("failed to build compressor: %w", err)
	}
	defer compression.Close(comp)

	compressed, err := comp.Compress(data)
	if err != nil {
		return fmt.Errorf("failed to compress report: %w", err)
	}

	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return fmt.Errorf("failed to write compressed report: %w", err)
	}
	return nil
}
