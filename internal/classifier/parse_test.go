package classifier

import "testing"

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name               string
		raw                string
		wantClassification string
		wantCategory       string
		wantJustification  string
	}{
		{
			name: "well formed",
			raw: `<analysis>
<classification>Unnecessary Call</classification>
<category>Customer Asked for Price</category>
<justification>
The customer only asked how much the repair costs and ended the call.
</justification>
</analysis>`,
			wantClassification: "Unnecessary Call",
			wantCategory:       "Customer Asked for Price",
			wantJustification:  "The customer only asked how much the repair costs and ended the call.",
		},
		{
			name: "missing category tag",
			raw: `<analysis>
<classification>Potential Customer</classification>
<justification>The customer agreed to schedule a visit.</justification>
</analysis>`,
			wantClassification: "Potential Customer",
			wantCategory:       "",
			wantJustification:  "The customer agreed to schedule a visit.",
		},
		{
			name:               "no tags at all",
			raw:                "The model refused to follow the format and wrote prose instead.",
			wantClassification: "",
			wantCategory:       "",
			wantJustification:  "",
		},
		{
			name:               "empty response",
			raw:                "",
			wantClassification: "",
			wantCategory:       "",
			wantJustification:  "",
		},
		{
			name:               "unclosed tag yields empty field",
			raw:                "<classification>Potential Customer",
			wantClassification: "",
			wantCategory:       "",
			wantJustification:  "",
		},
		{
			name:               "multiline justification",
			raw:                "<classification>Unnecessary Call</classification><category>Installation</category><justification>line one\nline two</justification>",
			wantClassification: "Unnecessary Call",
			wantCategory:       "Installation",
			wantJustification:  "line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnalysis(tt.raw)
			if got.Classification != tt.wantClassification {
				t.Errorf("Classification = %q, want %q", got.Classification, tt.wantClassification)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Justification != tt.wantJustification {
				t.Errorf("Justification = %q, want %q", got.Justification, tt.wantJustification)
			}
			if got.LLMRawOutput != tt.raw {
				t.Errorf("LLMRawOutput not preserved: %q", got.LLMRawOutput)
			}
		})
	}
}
