package model

// File describes one Google Drive folder entry. Timestamps are the RFC 3339
// strings returned by the Drive API; the core never parses them.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	CreatedTime  string `json:"createdTime"`
	ModifiedTime string `json:"modifiedTime"`
}

// MimeTypePDF is the only mime type the processing pipeline accepts.
const MimeTypePDF = "application/pdf"

// IsPDF reports whether the file is a PDF document.
func (f *File) IsPDF() bool {
	return f.MimeType == MimeTypePDF
}
