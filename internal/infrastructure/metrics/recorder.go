package metrics

// AccessRecorder feeds access-control events to the collector and, when set, the exporter.
// It satisfies access.Recorder.
type AccessRecorder struct {
	collector *Collector
	exporter  *PrometheusExporter
}

// NewAccessRecorder creates a recorder. exporter may be nil.
func NewAccessRecorder(collector *Collector, exporter *PrometheusExporter) *AccessRecorder {
	return &AccessRecorder{collector: collector, exporter: exporter}
}

func (r *AccessRecorder) RecordDecision(reason string) {
	r.collector.RecordDecision(reason)
	if r.exporter != nil {
		r.exporter.RecordDecision(reason)
	}
}

func (r *AccessRecorder) RecordDenial(pageKey string) {
	r.collector.RecordDenial(pageKey)
	if r.exporter != nil {
		r.exporter.RecordDenial(pageKey)
	}
}

func (r *AccessRecorder) RecordSave(err error) {
	r.collector.RecordSave(err)
	if r.exporter != nil {
		r.exporter.RecordSave(err)
	}
}
