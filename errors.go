package tilefab

// A FormatError reports that a project file is malformed: bad magic, a
// version newer than this implementation, or inconsistent structure.
type FormatError string

func (e FormatError) Error() string { return "tilefab: " + string(e) }

// A BoundsError reports that deserialization ran past the end of the data,
// typically a truncated file.
type BoundsError string

func (e BoundsError) Error() string { return "tilefab: " + string(e) }
