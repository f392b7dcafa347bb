package sim

import (
	"hash"
	"hash/fnv"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// traceKey selects the derived stream the recorder samples from, so recording
// never consumes values the systems would otherwise draw.
const traceKey = 0x7472616365

// TraceRecord is one step of a determinism trace.
type TraceRecord struct {
	Frame       uint64    `msgpack:"frame"`
	SimNowMs    float64   `msgpack:"now"`
	Samples     []float64 `msgpack:"samples"`
	IdsIssued   uint64    `msgpack:"ids"`
	Fingerprint uint64    `msgpack:"fp"`
}

// Recorder streams msgpack-encoded TraceRecords and keeps a running digest of
// everything written, so two runs can be compared without keeping their traces.
type Recorder struct {
	enc     *msgpack.Encoder
	digest  hash.Hash64
	samples int
	count   int
}

// NewRecorder writes to w (which may be io.Discard) and draws samplesPerStep
// values from each step's derived trace stream.
func NewRecorder(w io.Writer, samplesPerStep int) *Recorder {
	digest := fnv.New64a()
	enc := msgpack.NewEncoder(io.MultiWriter(w, digest))
	enc.SetSortMapKeys(true)
	return &Recorder{
		enc:     enc,
		digest:  digest,
		samples: samplesPerStep,
	}
}

// Record appends the step and a caller supplied state fingerprint.
func (r *Recorder) Record(step *StepContext, fingerprint uint64) error {
	Require(step, "Recorder.Record")

	rec := TraceRecord{
		Frame:       step.FrameCount,
		SimNowMs:    step.SimNowMs,
		Samples:     make([]float64, r.samples),
		IdsIssued:   step.Ids.Issued(),
		Fingerprint: fingerprint,
	}
	stream := step.RNG.Derive(traceKey)
	for i := range rec.Samples {
		rec.Samples[i] = stream.Float64()
	}

	if err := r.enc.Encode(&rec); err != nil {
		return err
	}
	r.count++
	return nil
}

// Digest returns the FNV-1a digest of every record written so far.
func (r *Recorder) Digest() uint64 {
	return r.digest.Sum64()
}

// Len returns the number of records written.
func (r *Recorder) Len() int {
	return r.count
}
