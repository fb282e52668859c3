package access

// Recorder receives access-control events for metrics
type Recorder interface {
	// RecordDecision counts an evaluation by its reason
	RecordDecision(reason string)

	// RecordDenial counts a blocked navigation or action on a page key
	RecordDenial(pageKey string)

	// RecordSave counts a batch save; err is nil on success
	RecordSave(err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(string) {}
func (nopRecorder) RecordDenial(string)   {}
func (nopRecorder) RecordSave(error)      {}
