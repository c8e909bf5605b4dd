package domain

type Invoice struct {
	ID            int64  `db:"id" json:"id"`
	Filename      string `db:"filename" json:"filename"`
	ExtractedText string `db:"extracted_text" json:"extracted_text"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}
