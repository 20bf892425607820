package submission

// RawSubmission carries the multipart form fields exactly as they arrived
// at the boundary. The handler flattens the parser's scalar-or-array
// ambiguity before anything here runs; validation turns this into a typed
// Request or rejects it.
type RawSubmission struct {
	Handle      string
	Description string
	Lat         string
	Lng         string
	AnonRadius  string
}

// AvatarFile describes the uploaded avatar, already spooled to a local
// temporary file. The pipeline owns the temp file and removes it on every
// exit path.
type AvatarFile struct {
	Path        string
	Ext         string
	Size        int64
	ContentType string
}

// Request is the validated, strictly-typed submission.
type Request struct {
	Handle      string  `validate:"required"`
	Description *string `validate:"omitempty,max=100"`
	Lat         float64
	Lng         float64
	AnonRadiusM int
}
