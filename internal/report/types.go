package report

// Report is the top-level output of an imgconv batch run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Format      string           `json:"format"`
	Workers     int              `json:"workers,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Failures    []Failure        `json:"failures,omitempty"`
	Stats       Stats            `json:"stats"`
}

// Entry describes one converted source image.
type Entry struct {
	Source       string `json:"source"`        // relative to the input dir
	SourceFormat string `json:"source_format"` // detected from content
	SourceSize   int64  `json:"source_size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Flattened    bool   `json:"flattened,omitempty"` // alpha was stripped
	Output       string `json:"output"`              // relative to the output dir
	Size         int64  `json:"size"`
	Hash         string `json:"hash"` // first 16 hex chars of xxhash64
}

// Failure records a source that could not be converted.
type Failure struct {
	Key    string `json:"key"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	Converted        int   `json:"converted"`
	Failed           int   `json:"failed"`
	Flattened        int   `json:"flattened,omitempty"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1

// FileName is the report's name inside the output directory.
const FileName = "imgconv.report.json"
