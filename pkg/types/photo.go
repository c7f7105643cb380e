package types

// Photo is one image in a specimen's ordered photo collection.
//
// Collection invariant: a specimen with no photos has no primary, and a
// specimen with one or more photos has exactly one primary. The first photo
// added becomes primary; deleting the primary promotes the remaining photo
// with the lowest sort order.
type Photo struct {
	ID           int64  `json:"id"`
	SpecimenID   int64  `json:"specimen_id"`
	Filename     string `json:"filename"` // system-generated, opaque
	OriginalName string `json:"original_name"`
	Caption      string `json:"caption"`
	SortOrder    int    `json:"sort_order"`
	Primary      bool   `json:"primary"`
	FileSize     int64  `json:"file_size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}
