package types

// ChannelAgent and ChannelCustomer are the two fixed channel labels of a call
// recording: left channel is the agent, right channel is the customer.
const (
	ChannelAgent    = "agent"
	ChannelCustomer = "customer"
)

// Segment is a detected span of speech activity within one channel,
// expressed in sample indices of the detector-rate stream.
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TranscriptFragment is one transcribed speech segment. Start/End carry the
// padded, clamped bounds actually sent to the transcription engine.
type TranscriptFragment struct {
	Channel string `json:"channel"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"transcription"`
}

// LLMResult is the classifier's parsed judgment over one dialogue.
// Classification/Category/Justification are empty when the corresponding tag
// is absent from the model response; LLMRawOutput always keeps the unparsed
// text for later diagnosis.
type LLMResult struct {
	Transcript     string `json:"transcript"`
	Classification string `json:"classification"`
	Category       string `json:"category"`
	Justification  string `json:"justification"`
	LLMRawOutput   string `json:"llm_raw_output"`
}

// SystemOutput is one row of the results table, keyed by file_id
// (recording filename without extension).
type SystemOutput struct {
	FileID         string `json:"file_id"`
	Transcript     string `json:"transcript"`
	Classification string `json:"classification"`
	Category       string `json:"category"`
	Justification  string `json:"justification"`
}

// Annotation is a human reviewer's final decision for one file_id. A row
// counts as reviewed iff AnnotationDate is non-empty; a new submission for
// the same file_id replaces the prior one entirely.
type Annotation struct {
	FileID              string `json:"file_id"`
	FinalClassification string `json:"final_classification"`
	FinalCategory       string `json:"final_category"`
	Excluded            bool   `json:"excluded"`
	ExclusionNote       string `json:"exclusion_note"`
	AnnotationDate      string `json:"annotation_date"`
}
