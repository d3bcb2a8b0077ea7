package health

import "errors"

// ErrArtifactParse marks a single artifact that could not be parsed. The
// affected fields stay UNKNOWN; the rest of the record is still produced.
var ErrArtifactParse = errors.New("artifact parse error")
