package types

// UploadFile is a file selected for upload. Size is derived from Data.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the byte size of the file
func (f UploadFile) Size() int64 {
	return int64(len(f.Data))
}

// ImageUploadResponse is the backend answer to a single image upload
type ImageUploadResponse struct {
	Image string `json:"image"`
}

// PdfConversion is the backend answer to a PDF-to-images conversion
type PdfConversion struct {
	TotalPages int      `json:"totalPages"`
	Images     []string `json:"images"`
}

// UploadOutcome is the result of one file in a batch
type UploadOutcome struct {
	Index    int    `json:"index"`
	File     string `json:"file"`
	Filename string `json:"filename,omitempty"` // server-assigned name on success
	Error    error  `json:"-"`
}

// Succeeded reports whether the file was uploaded
func (o UploadOutcome) Succeeded() bool {
	return o.Error == nil && o.Filename != ""
}

// UploadBatchResult holds per-file outcomes in input order
type UploadBatchResult struct {
	Outcomes []UploadOutcome `json:"outcomes"`
}

// Filenames returns server-assigned names in input order, skipping failures
func (r *UploadBatchResult) Filenames() []string {
	names := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			names = append(names, o.Filename)
		}
	}
	return names
}

// Failed returns the outcomes that carry an error
func (r *UploadBatchResult) Failed() []UploadOutcome {
	var failed []UploadOutcome
	for _, o := range r.Outcomes {
		if o.Error != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// FirstError returns the first error in input order
func (r *UploadBatchResult) FirstError() error {
	for _, o := range r.Outcomes {
		if o.Error != nil {
			return o.Error
		}
	}
	return nil
}
