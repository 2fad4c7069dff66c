package models

// UploadedDocument is one candidate file as received from the caller. Text stays empty
// until extraction succeeds.
type UploadedDocument struct {
	Filename string
	MimeType string
	Content  []byte
	Text     string
}
