package asset

import "time"

// Header is an uploaded letterhead. The most recent upload is the active one.
type Header struct {
	ID               int64     `db:"id" json:"id"`
	StoredKey        string    `db:"stored_key" json:"-"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	Extension        string    `db:"extension" json:"extension"`
	UploadedBy       string    `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt       time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// Signature is a practitioner's signature image. The most recent upload per
// user is embedded in that user's certificates.
type Signature struct {
	ID               int64     `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	StoredKey        string    `db:"stored_key" json:"-"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	Extension        string    `db:"extension" json:"extension"`
	UploadedAt       time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// Content is resolved asset bytes ready for a document.
type Content struct {
	ID        int64
	Extension string
	Data      []byte
}

// ContentType maps the stored extension to a MIME type.
func (c *Content) ContentType() string {
	return contentTypes[c.Extension]
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}
